package growthgraph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/hextile/pkg/hex"
	"github.com/matzehuels/hextile/pkg/layout"
)

// Options configures growth-tree rendering.
type Options struct {
	// Labels prints each hex's growth step inside its node.
	Labels bool
}

// ToDOT converts the growth tree of p to Graphviz DOT.
// Blob edges are solid; tendril edges are dashed.
func ToDOT(p *layout.Pattern, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph growth {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=hexagon, style=filled, fixedsize=true, width=0.5, fontsize=9, penwidth=0.5];\n")
	buf.WriteString("  edge [arrowsize=0.4];\n\n")

	for i, h := range p.Hexes {
		pt := h.ToPixel(p.Radius)
		label := ""
		if opts.Labels {
			label = strconv.Itoa(i)
		}
		// Graphviz y grows upward.
		fmt.Fprintf(&buf, "  %q [pos=\"%.3f,%.3f!\", fillcolor=%q, label=%q];\n",
			nodeID(h), pt.X/p.Radius, -pt.Y/p.Radius, p.Colors[i], label)
	}

	buf.WriteString("\n")
	for i := 1; i < p.BaseCount && i < len(p.Parents); i++ {
		fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(p.Parents[i]), nodeID(p.Hexes[i]))
	}
	for _, t := range p.Tendrils {
		prev := t.Start
		for _, c := range t.Cells {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", nodeID(prev), nodeID(c))
			prev = c
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(h hex.Axial) string { return fmt.Sprintf("%d_%d", h.Q, h.R) }

// RenderSVG lays out a DOT graph with neato and renders it to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with a plain
// pixel viewBox so the drawing scales like the other renderers' output.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
