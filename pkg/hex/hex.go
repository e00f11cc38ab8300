// Package hex implements axial coordinates on a hexagonal grid.
//
// Cells are addressed by (Q, R) pairs. The third cube coordinate is implied
// as S = -Q - R. Pixel conversion uses flat-topped cells laid out so that
// moving one step along Q shifts a cell 1.5 radii to the right:
//
//	x = R·1.5·q
//	y = R·(√3/2·q + √3·r)
//
// Neighbor directions are fixed constants in the order E, NE, NW, W, SW, SE.
// Every algorithm in this module iterates neighbors in that order, which is
// what makes seeded layouts reproducible.
package hex

import (
	"fmt"
	"math"
)

// Axial identifies one hexagonal cell. Two values are equal iff Q and R match.
type Axial struct {
	Q int `json:"q" bson:"q"`
	R int `json:"r" bson:"r"`
}

// Sqrt3 is √3, the vertical spacing factor of flat-topped cells.
const Sqrt3 = 1.7320508075688772

// Origin is the seed cell every layout grows from.
var Origin = Axial{}

// Direction indices into Directions.
const (
	E = iota
	NE
	NW
	W
	SW
	SE
)

// Directions are the six unit offsets, ordered E, NE, NW, W, SW, SE.
var Directions = [6]Axial{
	{1, 0}, {1, -1}, {0, -1}, {-1, 0}, {-1, 1}, {0, 1},
}

// Opposite returns the direction pointing back along dir.
func Opposite(dir int) int { return (dir + 3) % 6 }

// Add returns the component-wise sum of a and b.
func (a Axial) Add(b Axial) Axial { return Axial{a.Q + b.Q, a.R + b.R} }

// S returns the implied third cube coordinate.
func (a Axial) S() int { return -a.Q - a.R }

// Neighbor returns the adjacent cell in direction dir (0..5).
func (a Axial) Neighbor(dir int) Axial { return a.Add(Directions[dir]) }

// Neighbors returns the six adjacent cells in direction order.
func (a Axial) Neighbors() [6]Axial {
	var out [6]Axial
	for i, d := range Directions {
		out[i] = a.Add(d)
	}
	return out
}

// String renders the coordinate as "(q,r)".
func (a Axial) String() string { return fmt.Sprintf("(%d,%d)", a.Q, a.R) }

// Distance returns the number of steps between a and b.
func Distance(a, b Axial) int {
	dq := a.Q - b.Q
	dr := a.R - b.R
	return max(abs(dq), abs(dr), abs(dq+dr))
}

// Point is a position in pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ToPixel converts a cell to the pixel position of its center for cells of
// the given radius (center to corner).
func (a Axial) ToPixel(radius float64) Point {
	q, r := float64(a.Q), float64(a.R)
	return Point{
		X: radius * 1.5 * q,
		Y: radius * (Sqrt3/2*q + Sqrt3*r),
	}
}

// Corner returns corner i (0..5) of a flat-topped cell centered at c.
// Corner 0 points right; indices increase by 60° in screen orientation.
func Corner(c Point, radius float64, i int) Point {
	angle := math.Pi / 3 * float64(i)
	return Point{
		X: c.X + radius*math.Cos(angle),
		Y: c.Y + radius*math.Sin(angle),
	}
}

// Corners returns the six corners of the cell at a.
func (a Axial) Corners(radius float64) [6]Point {
	c := a.ToPixel(radius)
	var out [6]Point
	for i := range out {
		out[i] = Corner(c, radius, i)
	}
	return out
}

// HalfExtent is the horizontal and vertical distance from a cell center to
// the edge of its bounding box.
func HalfExtent(radius float64) (dx, dy float64) {
	return radius, Sqrt3 / 2 * radius
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
