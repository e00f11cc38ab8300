// Package layout generates hexagonal tile patterns.
//
// [Generate] is the single entry point. It validates [Params], then runs
// three stages on one seeded random stream, always in this order:
//
//  1. growth: a connected blob of exactly TotalTiles cells shaped toward
//     the target aspect ratio (package growth);
//  2. tendrils: thin appendages layered on top of the blob (package tendril);
//  3. coloring: per-color quotas placed by the chosen strategy (package
//     palette).
//
// Identical Params always produce identical hex and color orderings.
// Generation is synchronous and shares no state, so callers may run any
// number of generations concurrently.
//
// # Errors
//
// Invalid parameters yield an [errors.ErrCodeInvalidParams] error before any
// randomness is drawn; see [IsConfigurationError]. A broken internal
// invariant yields [errors.ErrCodeInvariant]; see [IsInvariantError]. No
// partial pattern is returned with either.
package layout

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/hextile/pkg/errors"
	"github.com/matzehuels/hextile/pkg/hex"
	"github.com/matzehuels/hextile/pkg/layout/growth"
	"github.com/matzehuels/hextile/pkg/layout/palette"
	"github.com/matzehuels/hextile/pkg/layout/tendril"
)

// NewRNG returns the random stream used for a seed.
func NewRNG(seed int64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^0xdeadbeef))
}

// Generate produces one pattern from p.
func Generate(p Params) (*Pattern, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p = p.Clone()
	rng := NewRNG(p.Seed)

	grown, err := growth.Grow(p.TotalTiles, growth.Options{
		Radius:    p.Radius,
		Target:    p.Target(),
		Adherence: p.AspectAdherence,
	}, rng)
	if err != nil {
		return nil, err
	}

	cells := grown.Cells
	tendrils := tendril.Extend(cells, tendril.Options{
		Count:         p.Tendrils,
		MinLen:        p.TendrilLenMin,
		MaxLen:        p.TendrilLenMax,
		MinSeparation: tendril.DefaultMinSeparation,
		Variability:   tendril.DefaultVariability,
	}, rng)

	hexes := cells.Slice()
	colors, err := palette.Assign(hexes, palette.Options{
		Colors: p.Colors,
		Counts: p.Counts,
		Mode:   p.ColorMode,
		Axis:   p.GradientAxis,
		Order:  p.GradientOrder,
		Roles:  p.Roles,
		Radius: p.Radius,
	}, rng)
	if err != nil {
		return nil, err
	}
	if len(colors) != len(hexes) {
		return nil, errors.New(errors.ErrCodeInvariant,
			"colored %d of %d hexes", len(colors), len(hexes))
	}

	b := hex.TileBounds(hexes, p.Radius)
	ratio := b.Width() / b.Height()
	scale := RealRadiusInches / p.Radius
	return &Pattern{
		Seed:            p.Seed,
		Radius:          p.Radius,
		Hexes:           hexes,
		Colors:          colors,
		WidthInches:     b.Width() * scale,
		HeightInches:    b.Height() * scale,
		TargetRatio:     p.Target(),
		AspectRatio:     ratio,
		AspectDeviation: math.Abs(ratio/p.Target()-1) * 100,
		BaseCount:       p.TotalTiles,
		Parents:         grown.Parents,
		Tendrils:        tendrils,
		Metrics:         computeMetrics(cells, p.Radius),
	}, nil
}

// IsConfigurationError reports whether err came from invalid parameters.
func IsConfigurationError(err error) bool { return errors.IsValidation(err) }

// IsInvariantError reports whether err came from a broken engine invariant.
func IsInvariantError(err error) bool { return errors.Is(err, errors.ErrCodeInvariant) }
