// Package tendril grows thin appendages from the border of a hex blob.
package tendril

import (
	"math/rand/v2"

	"github.com/matzehuels/hextile/pkg/hex"
)

const (
	// DefaultMinSeparation is the minimum hex distance between tendril starts.
	DefaultMinSeparation = 3
	// DefaultVariability is the chance a tendril leaves its current heading.
	DefaultVariability = 0.25
)

// Options configures [Extend].
type Options struct {
	Count         int
	MinLen        int
	MaxLen        int
	MinSeparation int
	Variability   float64
}

// Tendril records one attempted appendage.
type Tendril struct {
	Start  hex.Axial   `json:"start"`
	Length int         `json:"length"` // drawn length
	Cells  []hex.Axial `json:"cells"`  // realized cells, at most Length
}

// Extend attempts opts.Count tendrils, adding their cells to blob in place.
//
// A tendril is always one cell wide: every cell it adds touches only the
// previous tip. Tendrils that run into occupied space stop early, possibly
// with no cells at all.
func Extend(blob *hex.Set, opts Options, rng *rand.Rand) []Tendril {
	if opts.Count <= 0 {
		return nil
	}
	if opts.MaxLen < opts.MinLen {
		opts.MaxLen = opts.MinLen
	}

	out := make([]Tendril, 0, opts.Count)
	var starts []hex.Axial
	for range opts.Count {
		length := opts.MinLen + rng.IntN(opts.MaxLen-opts.MinLen+1)

		pool := startCandidates(blob, starts, opts.MinSeparation)
		if len(pool) == 0 {
			out = append(out, Tendril{Length: length})
			continue
		}
		start := pool[rng.IntN(len(pool))]
		starts = append(starts, start)

		t := Tendril{Start: start, Length: length}
		if length > 0 {
			t.Cells = grow(blob, start, length, opts.Variability, rng)
		}
		out = append(out, t)
	}
	return out
}

// startCandidates returns perimeter cells far enough from earlier starts,
// or the whole perimeter when none are.
func startCandidates(blob *hex.Set, starts []hex.Axial, minSep int) []hex.Axial {
	perimeter := hex.Perimeter(blob)
	var spaced []hex.Axial
	for _, c := range perimeter {
		ok := true
		for _, s := range starts {
			if hex.Distance(c, s) < minSep {
				ok = false
				break
			}
		}
		if ok {
			spaced = append(spaced, c)
		}
	}
	if len(spaced) > 0 {
		return spaced
	}
	return perimeter
}

func grow(blob *hex.Set, start hex.Axial, length int, variability float64, rng *rand.Rand) []hex.Axial {
	var first []int
	for dir, n := range start.Neighbors() {
		if !blob.Has(n) && blob.OccupiedNeighbors(n) <= 2 {
			first = append(first, dir)
		}
	}
	if len(first) == 0 {
		return nil
	}
	dir := first[rng.IntN(len(first))]
	tip := start.Neighbor(dir)
	blob.Add(tip)
	cells := []hex.Axial{tip}

	for len(cells) < length {
		valid := validSteps(blob, tip, dir)
		if len(valid) == 0 {
			break
		}
		straight := false
		for _, d := range valid {
			if d == dir {
				straight = true
				break
			}
		}
		if !(rng.Float64() < 1-variability && straight) {
			dir = valid[rng.IntN(len(valid))]
		}
		tip = tip.Neighbor(dir)
		blob.Add(tip)
		cells = append(cells, tip)
	}
	return cells
}

// validSteps lists directions from tip into free cells whose only occupied
// neighbor is tip, excluding a reversal of prev.
func validSteps(blob *hex.Set, tip hex.Axial, prev int) []int {
	var dirs []int
	back := hex.Opposite(prev)
	for dir, n := range tip.Neighbors() {
		if dir == back || blob.Has(n) {
			continue
		}
		if blob.OccupiedNeighbors(n) == 1 {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
