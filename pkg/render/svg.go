package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/hextile/pkg/hex"
	"github.com/matzehuels/hextile/pkg/layout"
)

// captionHeight is the extra frame height, in pixels, reserved for a caption.
const captionHeight = 28

// RenderSVG draws p as SVG. Each tile is a polygon carrying data-q and
// data-r attributes, so the markup can be scripted or styled per tile.
func RenderSVG(p *layout.Pattern, opts ...Option) ([]byte, error) {
	if p == nil || p.Len() == 0 {
		return nil, fmt.Errorf("render: empty pattern")
	}
	for _, c := range p.Colors {
		if _, err := ParseColor(c); err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
	}
	o := newOptions(opts)
	f := newFrame(p, o.scale)
	height := f.h
	if o.caption {
		height += captionHeight
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		f.w, height, f.w, height)
	if bg, ok := svgColor(o); ok {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", bg)
	}

	stroke := `stroke="none"`
	if o.border && o.style == StyleFlat {
		stroke = fmt.Sprintf(`stroke="#000" stroke-width="%.2f" stroke-linejoin="round"`, f.lineWidth(p))
	}
	buf.WriteString(`  <g class="tiles">` + "\n")
	for i, h := range p.Hexes {
		corners := h.Corners(p.Radius)
		fmt.Fprintf(&buf, `    <polygon class="tile" data-q="%d" data-r="%d" points="%s" fill="%s" %s/>`+"\n",
			h.Q, h.R, svgPoints(f, corners[:]), p.Colors[i], stroke)
	}
	buf.WriteString("  </g>\n")

	if o.border && o.style == StyleSeamless {
		var d strings.Builder
		for _, ring := range hex.Outline(p.Set(), p.Radius) {
			d.WriteString("M" + svgPoints(f, ring) + "Z")
		}
		fmt.Fprintf(&buf, `  <path class="outline" d="%s" fill="none" stroke="#000" stroke-width="%.2f" stroke-linejoin="round"/>`+"\n",
			d.String(), f.lineWidth(p))
	}

	if o.caption {
		fmt.Fprintf(&buf, `  <text x="%d" y="%d" text-anchor="middle" font-family="sans-serif" font-size="14">%s</text>`+"\n",
			f.w/2, f.h+captionHeight*2/3, Caption(p))
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// Caption describes the physical size and aspect of p.
func Caption(p *layout.Pattern) string {
	return fmt.Sprintf(`%.1f" × %.1f" · %d tiles · ratio %.2f (%.1f%% off)`,
		p.WidthInches, p.HeightInches, p.Len(), p.AspectRatio, p.AspectDeviation)
}

func svgPoints(f frame, pts []hex.Point) string {
	parts := make([]string, len(pts))
	for i, pt := range pts {
		x, y := f.point(pt)
		parts[i] = fmt.Sprintf("%.2f,%.2f", x, y)
	}
	return strings.Join(parts, " ")
}

func svgColor(o options) (string, bool) {
	r, g, b, a := o.background.RGBA()
	if a == 0 {
		return "", false
	}
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8), true
}
