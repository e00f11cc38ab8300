// Package palette assigns colors to the cells of a pattern.
//
// Every strategy honors per-color quotas: the number of cells painted with
// colors[i] equals the i-th entry of [Scale](counts, len(cells)). Strategies
// differ only in where each color lands:
//
//   - [ModeRandom] scatters colors uniformly;
//   - [ModeGradient] lays colors out in bands along an axis;
//   - [ModeScheme60] fills a 60/30/10 core-to-edge zoning with the
//     dominant, secondary and accent roles.
//
// All randomness comes from the caller's RNG, consumed in a fixed order, so
// a given seed always paints the same pattern.
package palette

import (
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/matzehuels/hextile/pkg/errors"
	"github.com/matzehuels/hextile/pkg/hex"
)

// Color modes.
const (
	ModeRandom   = "random"
	ModeGradient = "gradient"
	ModeScheme60 = "scheme60"
)

// Gradient axes.
const (
	AxisAuto      = "auto"
	AxisX         = "x"
	AxisY         = "y"
	AxisPrincipal = "principal"
)

// Role names for [ModeScheme60].
const (
	RoleDominant  = "dominant"
	RoleSecondary = "secondary"
	RoleAccent    = "accent"
)

// RoleNames lists roles in fallback order.
var RoleNames = []string{RoleDominant, RoleSecondary, RoleAccent}

// ValidModes is the set of accepted color modes.
var ValidModes = map[string]bool{ModeRandom: true, ModeGradient: true, ModeScheme60: true}

// ValidAxes is the set of accepted gradient axes.
var ValidAxes = map[string]bool{AxisAuto: true, AxisX: true, AxisY: true, AxisPrincipal: true}

// Options describes a palette and how to apply it.
type Options struct {
	Colors []string
	Counts []int
	Mode   string
	// Axis selects the gradient direction; empty means auto.
	Axis string
	// Order is a permutation of color indices giving gradient band order.
	// Nil keeps palette order.
	Order []int
	// Roles maps role names to color indices. Missing roles default to
	// colors ranked by descending count.
	Roles map[string]int
	// Radius is the cell radius used for pixel geometry.
	Radius float64
}

// Assign returns one color per cell, in the order of cells.
func Assign(cells []hex.Axial, opts Options, rng *rand.Rand) ([]string, error) {
	if len(opts.Colors) == 0 || len(opts.Colors) != len(opts.Counts) {
		return nil, errors.Field(errors.ErrCodeInvalidParams, "counts",
			"need one count per color (%d colors, %d counts)", len(opts.Colors), len(opts.Counts))
	}
	if err := ValidateRoles(opts.Roles, len(opts.Colors)); err != nil {
		return nil, err
	}
	if err := ValidateOrder(opts.Order, len(opts.Colors)); err != nil {
		return nil, err
	}
	if len(cells) == 0 {
		return []string{}, nil
	}
	quota := Scale(opts.Counts, len(cells))

	switch strings.ToLower(opts.Mode) {
	case ModeRandom:
		return assignRandom(len(cells), opts.Colors, quota, rng), nil
	case ModeGradient:
		return assignGradient(cells, opts, quota, rng), nil
	case ModeScheme60:
		return assignScheme60(cells, opts, quota, rng), nil
	default:
		return nil, errors.Field(errors.ErrCodeInvalidParams, "color_mode",
			"unknown color mode %q", opts.Mode)
	}
}

// ValidateRoles checks role names and color indices.
func ValidateRoles(roles map[string]int, ncolors int) error {
	for name, idx := range roles {
		if !slices.Contains(RoleNames, name) {
			return errors.Field(errors.ErrCodeInvalidParams, "roles",
				"unknown role %q (valid: %s)", name, strings.Join(RoleNames, ", "))
		}
		if idx < 0 || idx >= ncolors {
			return errors.Field(errors.ErrCodeInvalidParams, "roles",
				"role %s index %d out of range [0,%d)", name, idx, ncolors)
		}
	}
	return nil
}

// ValidateOrder checks that order is nil or a permutation of 0..ncolors-1.
func ValidateOrder(order []int, ncolors int) error {
	if order == nil {
		return nil
	}
	if len(order) != ncolors {
		return errors.Field(errors.ErrCodeInvalidParams, "gradient_order",
			"has %d entries, want %d", len(order), ncolors)
	}
	seen := make([]bool, ncolors)
	for _, i := range order {
		if i < 0 || i >= ncolors || seen[i] {
			return errors.Field(errors.ErrCodeInvalidParams, "gradient_order",
				"%v is not a permutation of color indices", order)
		}
		seen[i] = true
	}
	return nil
}

func assignRandom(n int, colors []string, quota []int, rng *rand.Rand) []string {
	pool := make([]string, 0, n)
	for i, c := range colors {
		for range quota[i] {
			pool = append(pool, c)
		}
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool
}
