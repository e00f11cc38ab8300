package cli

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/hextile/pkg/hex"
	"github.com/matzehuels/hextile/pkg/layout"
)

const previewTile = "⬢"

// preview draws p with one glyph per tile. Flat-top columns are staggered
// by half a row, so the grid uses doubled rows: tile (q, r) lands on
// column q and row 2r+q.
func preview(p *layout.Pattern) string {
	if p == nil || p.Len() == 0 {
		return ""
	}

	cells := make(map[[2]int]string, p.Len())
	minQ, maxQ := p.Hexes[0].Q, p.Hexes[0].Q
	minY, maxY := doubledRow(p.Hexes[0]), doubledRow(p.Hexes[0])
	for i, h := range p.Hexes {
		y := doubledRow(h)
		cells[[2]int{h.Q, y}] = p.Colors[i]
		minQ, maxQ = min(minQ, h.Q), max(maxQ, h.Q)
		minY, maxY = min(minY, y), max(maxY, y)
	}

	styles := make(map[string]lipgloss.Style)
	var b strings.Builder
	for y := minY; y <= maxY; y++ {
		var line strings.Builder
		for q := minQ; q <= maxQ; q++ {
			c, ok := cells[[2]int{q, y}]
			if !ok {
				line.WriteString("  ")
				continue
			}
			st, ok := styles[c]
			if !ok {
				st = lipgloss.NewStyle().Foreground(lipgloss.Color(c))
				styles[c] = st
			}
			line.WriteString(st.Render(previewTile) + " ")
		}
		b.WriteString("  " + strings.TrimRight(line.String(), " ") + "\n")
	}
	return b.String()
}

func doubledRow(a hex.Axial) int { return 2*a.R + a.Q }

// legend summarises the tile count per color.
func legend(p *layout.Pattern, palette []string) string {
	tally := p.Tally()
	parts := make([]string, 0, len(palette))
	for _, c := range palette {
		parts = append(parts, swatch(c, previewTile)+" "+StyleDim.Render(c)+" "+StyleNumber.Render(strconv.Itoa(tally[c])))
	}
	return "  " + strings.Join(parts, StyleDim.Render("  ·  "))
}
