// Package growthgraph renders the growth tree of a pattern.
//
// # Overview
//
// Every hex of a grown blob attached to one occupied neighbor when it was
// added. Linking each hex to that parent gives a spanning tree rooted at the
// origin; tendril cells continue the tree from their start hex. Drawing the
// tree over the hex positions shows how the blob grew, which is useful when
// tuning aspect adherence.
//
// # Usage
//
//	dot := growthgraph.ToDOT(p, growthgraph.Options{Labels: true})
//	svg, err := growthgraph.RenderSVG(ctx, dot)
//
// Nodes are pinned at their hex centers and laid out with Graphviz neato,
// so the drawing keeps the pattern's geometry.
package growthgraph
