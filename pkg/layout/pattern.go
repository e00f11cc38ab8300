package layout

import (
	"github.com/matzehuels/hextile/pkg/hex"
	"github.com/matzehuels/hextile/pkg/layout/tendril"
)

// RealRadiusInches is the physical size of one radius unit at radius 1.
// Physical dimensions scale by RealRadiusInches/radius, so the radius
// changes only drawing proportions, never the real tile size.
const RealRadiusInches = 6.0

// Pattern is the result of one generation. Hexes and Colors are parallel:
// Colors[i] paints Hexes[i]. The first BaseCount hexes are the grown blob in
// growth order; the remainder were added by tendrils.
type Pattern struct {
	Seed   int64       `json:"seed"`
	Radius float64     `json:"radius"`
	Hexes  []hex.Axial `json:"hexes"`
	Colors []string    `json:"colors"`

	WidthInches     float64 `json:"width_inches"`
	HeightInches    float64 `json:"height_inches"`
	TargetRatio     float64 `json:"target_ratio"`
	AspectRatio     float64 `json:"aspect_ratio"`
	AspectDeviation float64 `json:"aspect_deviation"`

	BaseCount int               `json:"base_count"`
	Parents   []hex.Axial       `json:"parents,omitempty"`
	Tendrils  []tendril.Tendril `json:"tendrils,omitempty"`
	Metrics   Metrics           `json:"metrics"`
}

// Metrics are shape statistics of a finished pattern.
type Metrics struct {
	// Eccentricity is 1 - λmin/λmax of the center covariance:
	// 0 for a round blob, approaching 1 for a line.
	Eccentricity float64 `json:"eccentricity"`
	// ExposedEdges counts hex edges on the pattern border, holes included.
	ExposedEdges int `json:"exposed_edges"`
}

// Len returns the number of hexes.
func (p *Pattern) Len() int { return len(p.Hexes) }

// TendrilTiles returns how many hexes tendrils added beyond the base blob.
func (p *Pattern) TendrilTiles() int { return len(p.Hexes) - p.BaseCount }

// Set returns the hexes as an ordered set.
func (p *Pattern) Set() *hex.Set { return hex.NewSet(p.Hexes...) }

// Bounds returns the pixel bounding box including full hexagon extents.
func (p *Pattern) Bounds() hex.Bounds { return hex.TileBounds(p.Hexes, p.Radius) }

// Tally counts hexes per color.
func (p *Pattern) Tally() map[string]int {
	m := make(map[string]int)
	for _, c := range p.Colors {
		m[c]++
	}
	return m
}

func computeMetrics(s *hex.Set, radius float64) Metrics {
	m := Metrics{ExposedEdges: hex.ExposedEdges(s)}
	major, minor, _ := hex.PrincipalAxes(hex.Covariance(s.Items(), radius))
	if major > 0 {
		m.Eccentricity = 1 - minor/major
	}
	return m
}
