package hex

// Outline returns the closed border rings of the region covered by s.
//
// The border is walked along cell edges, treating corners as graph nodes
// and the edges between an occupied and an unoccupied cell as graph edges.
// Every corner is shared by three cells, and any two of those cells are
// adjacent, so each border corner has exactly one outgoing border edge when
// all edges are walked with the same winding. Following those edges from an
// unvisited border edge until it returns to its start yields one ring: the
// outer border or the border of a hole.
//
// Rings are emitted in the order their first edge is met while scanning the
// cells of s in set order; the final point does not repeat the first.
func Outline(s *Set, radius float64) [][]Point {
	type edge struct {
		from, to cornerKey
		start    Point
	}
	next := make(map[cornerKey]edge)
	var order []cornerKey

	for _, c := range s.Items() {
		corners := c.Corners(radius)
		for k := 0; k < 6; k++ {
			if s.Has(c.Neighbor(edgeFacing[k])) {
				continue
			}
			e := edge{from: keyOf(c, k), to: keyOf(c, (k+1)%6), start: corners[k]}
			next[e.from] = e
			order = append(order, e.from)
		}
	}

	visited := make(map[cornerKey]bool, len(next))
	var rings [][]Point
	for _, startKey := range order {
		if visited[startKey] {
			continue
		}
		var ring []Point
		for key := startKey; !visited[key]; {
			visited[key] = true
			e := next[key]
			ring = append(ring, e.start)
			key = e.to
		}
		rings = append(rings, ring)
	}
	return rings
}

// edgeFacing maps the edge from corner k to corner k+1 to the direction of
// the neighbor across it.
var edgeFacing = [6]int{E, SE, SW, W, NW, NE}

// cornerKey identifies a corner exactly on the integer lattice formed by
// doubled x and y/(√3/2) offsets, independent of radius.
type cornerKey struct{ x, y int }

var (
	cornerDX = [6]int{2, 1, -1, -2, -1, 1}
	cornerDY = [6]int{0, 1, 1, 0, -1, -1}
)

func keyOf(c Axial, k int) cornerKey {
	return cornerKey{
		x: 3*c.Q + cornerDX[k],
		y: c.Q + 2*c.R + cornerDY[k],
	}
}
