package hex

// Set is an insertion-ordered set of cells.
//
// Iteration always follows insertion order, so anything derived from a Set
// (frontiers, perimeters, tie lists) is deterministic. [Set.RemoveStable]
// keeps the remaining cells in their original order.
type Set struct {
	items []Axial
	index map[Axial]int
}

// NewSet returns a set holding cells in the given order. Duplicates are dropped.
func NewSet(cells ...Axial) *Set {
	s := &Set{index: make(map[Axial]int, len(cells))}
	for _, c := range cells {
		s.Add(c)
	}
	return s
}

// Add inserts c and reports whether it was not already present.
func (s *Set) Add(c Axial) bool {
	if _, ok := s.index[c]; ok {
		return false
	}
	s.index[c] = len(s.items)
	s.items = append(s.items, c)
	return true
}

// Has reports whether c is in the set.
func (s *Set) Has(c Axial) bool {
	_, ok := s.index[c]
	return ok
}

// RemoveStable deletes c while preserving the order of the remaining cells.
func (s *Set) RemoveStable(c Axial) bool {
	i, ok := s.index[c]
	if !ok {
		return false
	}
	delete(s.index, c)
	copy(s.items[i:], s.items[i+1:])
	s.items = s.items[:len(s.items)-1]
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j]] = j
	}
	return true
}

// Len returns the number of cells.
func (s *Set) Len() int { return len(s.items) }

// At returns the i-th cell in insertion order.
func (s *Set) At(i int) Axial { return s.items[i] }

// Items returns the cells in insertion order. The slice is shared; do not modify.
func (s *Set) Items() []Axial { return s.items }

// Slice returns a copy of the cells in insertion order.
func (s *Set) Slice() []Axial {
	out := make([]Axial, len(s.items))
	copy(out, s.items)
	return out
}

// Clone returns an independent copy.
func (s *Set) Clone() *Set {
	return NewSet(s.items...)
}

// OccupiedNeighbors counts the neighbors of c that are in the set.
func (s *Set) OccupiedNeighbors(c Axial) int {
	n := 0
	for _, nb := range c.Neighbors() {
		if s.Has(nb) {
			n++
		}
	}
	return n
}
