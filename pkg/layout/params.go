package layout

import (
	"slices"
	"strings"

	"github.com/matzehuels/hextile/pkg/errors"
	"github.com/matzehuels/hextile/pkg/layout/palette"
)

// =============================================================================
// Bounds - Accepted Parameter Ranges
// =============================================================================

const (
	MinTiles        = 1
	MaxTiles        = 1000
	MinRadius       = 0.6
	MaxRadius       = 2.0
	MinAspect       = 0.1
	MaxAspect       = 100
	MaxTendrils     = 8
	MinTendrilLen   = 1
	MaxTendrilLen   = 8
	MaxColors       = 12
	MaxSeed         = 1_000_000_000
	DefaultRadius   = 1.0
	DefaultAdhere   = 0.75
	DefaultTendrils = 3
)

// Params is the full configuration for one generation.
type Params struct {
	TotalTiles      int     `json:"total_tiles" toml:"total_tiles"`
	Radius          float64 `json:"radius" toml:"radius"`
	AspectW         float64 `json:"aspect_w" toml:"aspect_w"`
	AspectH         float64 `json:"aspect_h" toml:"aspect_h"`
	AspectAdherence float64 `json:"aspect_adherence" toml:"aspect_adherence"`

	Tendrils      int `json:"tendrils" toml:"tendrils"`
	TendrilLenMin int `json:"tendril_len_min" toml:"tendril_len_min"`
	TendrilLenMax int `json:"tendril_len_max" toml:"tendril_len_max"`

	Colors        []string       `json:"colors" toml:"colors"`
	Counts        []int          `json:"counts" toml:"counts"`
	ColorMode     string         `json:"color_mode" toml:"color_mode"`
	GradientAxis  string         `json:"gradient_axis,omitempty" toml:"gradient_axis,omitempty"`
	GradientOrder []int          `json:"gradient_order,omitempty" toml:"gradient_order,omitempty"`
	Roles         map[string]int `json:"roles,omitempty" toml:"roles,omitempty"`

	Seed int64 `json:"seed" toml:"seed"`
}

// DefaultParams returns a 60-tile, three-color 4:3 pattern configuration.
func DefaultParams() Params {
	return Params{
		TotalTiles:      60,
		Radius:          DefaultRadius,
		AspectW:         4,
		AspectH:         3,
		AspectAdherence: DefaultAdhere,
		Tendrils:        DefaultTendrils,
		TendrilLenMin:   2,
		TendrilLenMax:   4,
		Colors:          []string{"#2E86AB", "#F6C85F", "#D1495B"},
		Counts:          []int{30, 20, 10},
		ColorMode:       palette.ModeRandom,
		GradientAxis:    palette.AxisAuto,
		Seed:            42,
	}
}

// Target returns the requested width/height ratio.
func (p Params) Target() float64 { return p.AspectW / p.AspectH }

// Clone returns a deep copy of p.
func (p Params) Clone() Params {
	p.Colors = slices.Clone(p.Colors)
	p.Counts = slices.Clone(p.Counts)
	p.GradientOrder = slices.Clone(p.GradientOrder)
	if p.Roles != nil {
		roles := make(map[string]int, len(p.Roles))
		for k, v := range p.Roles {
			roles[k] = v
		}
		p.Roles = roles
	}
	return p
}

// Validate reports the first parameter that violates its bounds.
// All returned errors carry [errors.ErrCodeInvalidParams] and the JSON name
// of the offending field.
func (p Params) Validate() error {
	checks := []func() error{
		func() error { return errors.ValidateIntRange("total_tiles", p.TotalTiles, MinTiles, MaxTiles) },
		func() error { return errors.ValidateFloatRange("radius", p.Radius, MinRadius, MaxRadius) },
		func() error { return errors.ValidateFloatRange("aspect_w", p.AspectW, MinAspect, MaxAspect) },
		func() error { return errors.ValidateFloatRange("aspect_h", p.AspectH, MinAspect, MaxAspect) },
		func() error { return errors.ValidateFloatRange("aspect_adherence", p.AspectAdherence, 0, 1) },
		func() error { return errors.ValidateIntRange("tendrils", p.Tendrils, 0, MaxTendrils) },
		func() error {
			return errors.ValidateIntRange("tendril_len_min", p.TendrilLenMin, MinTendrilLen, MaxTendrilLen)
		},
		func() error {
			return errors.ValidateIntRange("tendril_len_max", p.TendrilLenMax, MinTendrilLen, MaxTendrilLen)
		},
		func() error {
			if p.TendrilLenMin > p.TendrilLenMax {
				return errors.Field(errors.ErrCodeInvalidParams, "tendril_len_min",
					"min %d exceeds max %d", p.TendrilLenMin, p.TendrilLenMax)
			}
			return nil
		},
		p.validateColors,
		p.validateCounts,
		func() error {
			if p.Seed < 0 || p.Seed > MaxSeed {
				return errors.Field(errors.ErrCodeInvalidParams, "seed",
					"%d outside [0, %d]", p.Seed, MaxSeed)
			}
			return nil
		},
		func() error {
			if !palette.ValidModes[strings.ToLower(p.ColorMode)] {
				return errors.Field(errors.ErrCodeInvalidParams, "color_mode",
					"unknown mode %q (valid: random, gradient, scheme60)", p.ColorMode)
			}
			return nil
		},
		func() error {
			if p.GradientAxis != "" && !palette.ValidAxes[strings.ToLower(p.GradientAxis)] {
				return errors.Field(errors.ErrCodeInvalidParams, "gradient_axis",
					"unknown axis %q (valid: auto, x, y, principal)", p.GradientAxis)
			}
			return nil
		},
		func() error { return palette.ValidateOrder(p.GradientOrder, len(p.Colors)) },
		func() error { return palette.ValidateRoles(p.Roles, len(p.Colors)) },
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (p Params) validateColors() error {
	if len(p.Colors) < 1 || len(p.Colors) > MaxColors {
		return errors.Field(errors.ErrCodeInvalidParams, "colors",
			"need 1 to %d colors, got %d", MaxColors, len(p.Colors))
	}
	seen := make(map[string]bool, len(p.Colors))
	for _, c := range p.Colors {
		if err := errors.ValidateHexColor(c); err != nil {
			return err
		}
		key := strings.ToLower(c)
		if seen[key] {
			return errors.Field(errors.ErrCodeInvalidParams, "colors", "duplicate color %s", c)
		}
		seen[key] = true
	}
	return nil
}

func (p Params) validateCounts() error {
	if len(p.Counts) != len(p.Colors) {
		return errors.Field(errors.ErrCodeInvalidParams, "counts",
			"%d counts for %d colors", len(p.Counts), len(p.Colors))
	}
	sum := 0
	for i, n := range p.Counts {
		if n < 0 {
			return errors.Field(errors.ErrCodeInvalidParams, "counts", "count %d is negative (%d)", i, n)
		}
		sum += n
	}
	if sum != p.TotalTiles {
		return errors.Field(errors.ErrCodeInvalidParams, "counts",
			"sum %d does not equal total_tiles %d", sum, p.TotalTiles)
	}
	return nil
}
