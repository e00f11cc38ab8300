package io

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/matzehuels/hextile/pkg/layout"
)

var csvHeader = []string{"q", "r", "x", "y", "color"}

// WriteCSV writes one row per hex of p, in pattern order.
func WriteCSV(p *layout.Pattern, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, h := range p.Hexes {
		pt := h.ToPixel(p.Radius)
		row := []string{
			strconv.Itoa(h.Q),
			strconv.Itoa(h.R),
			strconv.FormatFloat(pt.X, 'f', 4, 64),
			strconv.FormatFloat(pt.Y, 'f', 4, 64),
			p.Colors[i],
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
