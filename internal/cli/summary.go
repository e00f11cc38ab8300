package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/hextile/pkg/pipeline"
)

// summaryTable lays out one row per variation so seeds can be compared
// at a glance.
func summaryTable(vars []*pipeline.Variation) string {
	rows := make([][]string, 0, len(vars))
	for _, v := range vars {
		if v == nil || v.Pattern == nil {
			continue
		}
		p := v.Pattern
		source := iconFresh
		if v.CacheInfo.PatternHit {
			source = iconCached
		}
		rows = append(rows, []string{
			v.ID,
			strconv.FormatInt(v.Seed, 10),
			humanize.Comma(int64(p.Len())),
			strconv.Itoa(p.TendrilTiles()),
			fmt.Sprintf("%.1f×%.1f", p.WidthInches, p.HeightInches),
			fmt.Sprintf("%.1f%%", p.AspectDeviation),
			source,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Layout", "Seed", "Tiles", "Tendril", "Inches", "Off", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle.Padding(0, 1)
			case col == 0:
				return cellStyle.Foreground(colorWhite)
			case col == 6:
				return cellStyle.Foreground(colorGreen)
			default:
				return cellStyle.Foreground(colorCyan)
			}
		})
	return t.Render()
}
