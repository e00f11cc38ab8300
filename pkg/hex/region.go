package hex

import (
	"math"

	"github.com/Travis-Britz/structures/stack"
)

// Bounds is an axis-aligned rectangle in pixel space.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns MaxX - MinX.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns MaxY - MinY.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Extend returns b grown to include p.
func (b Bounds) Extend(p Point) Bounds {
	return Bounds{
		MinX: math.Min(b.MinX, p.X),
		MinY: math.Min(b.MinY, p.Y),
		MaxX: math.Max(b.MaxX, p.X),
		MaxY: math.Max(b.MaxY, p.Y),
	}
}

// Pad returns b expanded by dx horizontally and dy vertically on each side.
func (b Bounds) Pad(dx, dy float64) Bounds {
	return Bounds{b.MinX - dx, b.MinY - dy, b.MaxX + dx, b.MaxY + dy}
}

// PointBounds returns the bounds of a single point.
func PointBounds(p Point) Bounds { return Bounds{p.X, p.Y, p.X, p.Y} }

// CenterBounds returns the bounding box of the cell centers.
// The zero Bounds is returned for an empty slice.
func CenterBounds(cells []Axial, radius float64) Bounds {
	if len(cells) == 0 {
		return Bounds{}
	}
	b := PointBounds(cells[0].ToPixel(radius))
	for _, c := range cells[1:] {
		b = b.Extend(c.ToPixel(radius))
	}
	return b
}

// TileBounds returns the bounding box of the cells including their full
// hexagon outlines.
func TileBounds(cells []Axial, radius float64) Bounds {
	dx, dy := HalfExtent(radius)
	return CenterBounds(cells, radius).Pad(dx, dy)
}

// Connected reports whether every cell in s is reachable from the first
// cell through occupied neighbors. An empty set is connected.
func Connected(s *Set) bool {
	if s.Len() == 0 {
		return true
	}
	return len(Component(s, s.At(0))) == s.Len()
}

// Component returns the cells of s reachable from start, in discovery order.
// It returns nil if start is not in s.
func Component(s *Set, start Axial) []Axial {
	if !s.Has(start) {
		return nil
	}
	frontier := &stack.Stack[Axial]{}
	visited := map[Axial]bool{start: true}
	found := []Axial{start}

	for current, more := start, true; more; current, more = frontier.Pop() {
		for _, next := range current.Neighbors() {
			if visited[next] || !s.Has(next) {
				continue
			}
			visited[next] = true
			found = append(found, next)
			frontier.Push(next)
		}
	}
	return found
}

// Perimeter returns the cells of s with at least one unoccupied neighbor,
// in set order.
func Perimeter(s *Set) []Axial {
	var out []Axial
	for _, c := range s.Items() {
		if s.OccupiedNeighbors(c) < 6 {
			out = append(out, c)
		}
	}
	return out
}

// ExposedEdges counts cell edges that face an unoccupied cell.
func ExposedEdges(s *Set) int {
	n := 0
	for _, c := range s.Items() {
		n += 6 - s.OccupiedNeighbors(c)
	}
	return n
}

// Centroid returns the mean pixel position of the cells.
func Centroid(cells []Axial, radius float64) Point {
	if len(cells) == 0 {
		return Point{}
	}
	var sx, sy float64
	for _, c := range cells {
		p := c.ToPixel(radius)
		sx += p.X
		sy += p.Y
	}
	n := float64(len(cells))
	return Point{sx / n, sy / n}
}

// Covariance returns the population covariance matrix entries (xx, xy, yy)
// of the cell centers.
func Covariance(cells []Axial, radius float64) (xx, xy, yy float64) {
	if len(cells) == 0 {
		return 0, 0, 0
	}
	m := Centroid(cells, radius)
	for _, c := range cells {
		p := c.ToPixel(radius)
		dx, dy := p.X-m.X, p.Y-m.Y
		xx += dx * dx
		xy += dx * dy
		yy += dy * dy
	}
	n := float64(len(cells))
	return xx / n, xy / n, yy / n
}

// PrincipalAxes returns the eigenvalues (major first) and the unit major
// eigenvector of a symmetric 2×2 matrix [[xx, xy], [xy, yy]].
// The vector's larger component is made positive so the result does not
// depend on floating-point sign noise.
func PrincipalAxes(xx, xy, yy float64) (major, minor float64, axis Point) {
	tr := xx + yy
	det := xx*yy - xy*xy
	disc := math.Sqrt(math.Max(tr*tr/4-det, 0))
	major = tr/2 + disc
	minor = tr/2 - disc

	switch {
	case math.Abs(xy) > 1e-12:
		axis = Point{major - yy, xy}
	case xx >= yy:
		axis = Point{1, 0}
	default:
		axis = Point{0, 1}
	}
	norm := math.Hypot(axis.X, axis.Y)
	if norm == 0 {
		return major, minor, Point{1, 0}
	}
	axis = Point{axis.X / norm, axis.Y / norm}
	if (math.Abs(axis.X) >= math.Abs(axis.Y) && axis.X < 0) ||
		(math.Abs(axis.Y) > math.Abs(axis.X) && axis.Y < 0) {
		axis = Point{-axis.X, -axis.Y}
	}
	return major, minor, axis
}
