// Package render draws hextile patterns.
//
// # Overview
//
// Patterns are drawn as flat-topped hexagons in pixel space, one polygon per
// hex, with the region border traced by [hex.Outline]. Three outputs share
// one geometry and one set of [Option]s:
//
//   - [RenderPNG] rasterizes with draw2d onto a transparent background;
//   - [RenderSVG] writes vector markup with per-hex data attributes;
//   - [RenderComposite] tiles several patterns into one contact sheet.
//
// # Styles
//
// [StyleFlat] strokes every tile edge so individual tiles stay visible;
// [StyleSeamless] fills tiles edge to edge and strokes only the outer
// border. [WithBorder] turns strokes off entirely when false.
//
//	png, err := render.RenderPNG(p, render.WithScale(40), render.WithBorder(true))
//
// # Growth Graph
//
// The [growthgraph] subpackage renders the growth tree of a pattern (each
// hex linked to the hex it grew from) through Graphviz.
//
// [growthgraph]: github.com/matzehuels/hextile/pkg/render/growthgraph
package render
