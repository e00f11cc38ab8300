package palette

import (
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/ojrac/opensimplex-go"

	"github.com/matzehuels/hextile/pkg/hex"
)

// jitterScale is the noise amplitude as a fraction of the cell radius.
const jitterScale = 0.02

// GradientAxis returns the unit projection axis for the given name.
// Auto and principal use the major axis of the cell layout.
func GradientAxis(cells []hex.Axial, axis string, radius float64) hex.Point {
	switch strings.ToLower(axis) {
	case AxisX:
		return hex.Point{X: 1}
	case AxisY:
		return hex.Point{Y: 1}
	default:
		_, _, v := hex.PrincipalAxes(hex.Covariance(cells, radius))
		return v
	}
}

func assignGradient(cells []hex.Axial, opts Options, quota []int, rng *rand.Rand) []string {
	radius := opts.Radius
	if radius <= 0 {
		radius = 1
	}
	axis := GradientAxis(cells, opts.Axis, radius)
	noise := opensimplex.New(rng.Int64())

	proj := make([]float64, len(cells))
	for i, c := range cells {
		p := c.ToPixel(radius)
		proj[i] = p.X*axis.X + p.Y*axis.Y +
			jitterScale*radius*noise.Eval2(p.X/radius, p.Y/radius)
	}
	idx := make([]int, len(cells))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return proj[idx[a]] < proj[idx[b]] })

	order := opts.Order
	if order == nil {
		order = make([]int, len(opts.Colors))
		for i := range order {
			order[i] = i
		}
	}

	out := make([]string, len(cells))
	pos := 0
	for _, ci := range order {
		for range quota[ci] {
			out[idx[pos]] = opts.Colors[ci]
			pos++
		}
	}
	return out
}
