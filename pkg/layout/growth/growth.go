// Package growth grows a connected blob of hexagonal cells toward a target
// aspect ratio.
//
// Growth starts from [hex.Origin] and repeatedly adds the best-scoring cell
// of the frontier (unoccupied cells adjacent to the blob). A candidate's
// score blends two terms:
//
//   - aspect fit: exp(-k·(err² - best²)) where err is the log-distance
//     between the blob's bounding-box ratio after adding the candidate and
//     the target, best is the smallest err on the frontier this step, and
//     k = 4 + 18·adherence so strict settings punish misfit harder. The
//     best-fitting candidate always scores 1, so the term keeps ranking
//     candidates even when the target is far from the current shape;
//   - compactness: the fraction of the candidate's neighbors already in the
//     blob, which discourages thin spurs.
//
// The aspect term is weighted by adherence and compactness by 1-adherence.
// When several candidates share the best score, one is drawn uniformly from
// the RNG. Those draws are the only randomness consumed during growth, so a
// given seed always reproduces the same growth order.
package growth

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/hextile/pkg/errors"
	"github.com/matzehuels/hextile/pkg/hex"
)

// TieEpsilon is the score distance under which candidates count as tied.
const TieEpsilon = 1e-12

// Options controls the scoring policy.
type Options struct {
	// Radius is the cell radius used for the bounding-box ratio.
	Radius float64
	// Target is the desired width/height ratio.
	Target float64
	// Adherence weights aspect fit (1) against compactness (0).
	Adherence float64
}

// Result is a grown blob.
type Result struct {
	// Cells holds the blob in growth order; Cells.At(0) is the origin.
	Cells *hex.Set
	// Parents[i] is the occupied neighbor Cells.At(i) attached to.
	// Parents[0] is the origin itself.
	Parents []hex.Axial
	// TieDraws counts RNG draws spent breaking ties.
	TieDraws int
}

// Grow produces a connected blob of exactly n cells.
//
// An exhausted frontier cannot happen on an unbounded grid; if it does,
// Grow returns an [errors.ErrCodeInvariant] error and no partial blob.
func Grow(n int, opts Options, rng *rand.Rand) (*Result, error) {
	if n < 1 {
		return nil, errors.New(errors.ErrCodeInvariant, "growth: tile count %d < 1", n)
	}
	if !(opts.Target > 0) || !(opts.Radius > 0) {
		return nil, errors.New(errors.ErrCodeInvariant, "growth: non-positive target %g or radius %g", opts.Target, opts.Radius)
	}

	g := &grower{
		opts:     opts,
		cells:    hex.NewSet(hex.Origin),
		frontier: hex.NewSet(),
		bounds:   hex.PointBounds(hex.Origin.ToPixel(opts.Radius)),
		k:        4 + 18*opts.Adherence,
	}
	g.padX, g.padY = hex.HalfExtent(opts.Radius)
	res := &Result{Parents: []hex.Axial{hex.Origin}}
	g.expand(hex.Origin)

	for g.cells.Len() < n {
		if g.frontier.Len() == 0 {
			return nil, errors.New(errors.ErrCodeInvariant,
				"growth: frontier exhausted at %d of %d tiles", g.cells.Len(), n)
		}
		ties := g.best()
		pick := ties[0]
		if len(ties) > 1 {
			pick = ties[rng.IntN(len(ties))]
			res.TieDraws++
		}
		res.Parents = append(res.Parents, g.parentOf(pick))
		g.add(pick)
	}

	res.Cells = g.cells
	return res, nil
}

type grower struct {
	opts       Options
	cells      *hex.Set
	frontier   *hex.Set
	bounds     hex.Bounds
	padX, padY float64
	k          float64
	errs       []float64
}

// best returns the frontier cells sharing the highest score, in frontier order.
func (g *grower) best() []hex.Axial {
	cands := g.frontier.Items()
	errs := g.errs[:0]
	floor := math.Inf(1)
	for _, c := range cands {
		e := g.aspectErr(c)
		errs = append(errs, e)
		floor = min(floor, e)
	}
	g.errs = errs

	var ties []hex.Axial
	top := math.Inf(-1)
	for i, c := range cands {
		s := g.score(c, errs[i], floor)
		switch {
		case s > top+TieEpsilon:
			top = s
			ties = append(ties[:0], c)
		case s >= top-TieEpsilon:
			ties = append(ties, c)
		}
	}
	return ties
}

func (g *grower) score(c hex.Axial, err, floor float64) float64 {
	a := g.opts.Adherence
	return a*g.aspectFit(err, floor) + (1-a)*g.compactness(c)
}

// aspectErr is |ln(ratio/target)| for the padded bounding box of the blob
// with c added.
func (g *grower) aspectErr(c hex.Axial) float64 {
	b := g.bounds.Extend(c.ToPixel(g.opts.Radius)).Pad(g.padX, g.padY)
	return math.Abs(math.Log(b.Width() / b.Height() / g.opts.Target))
}

// aspectFit scores err relative to the best error on the frontier, floor.
func (g *grower) aspectFit(err, floor float64) float64 {
	return math.Exp(-g.k * (err*err - floor*floor))
}

func (g *grower) compactness(c hex.Axial) float64 {
	return float64(g.cells.OccupiedNeighbors(c)) / 6
}

func (g *grower) parentOf(c hex.Axial) hex.Axial {
	for _, n := range c.Neighbors() {
		if g.cells.Has(n) {
			return n
		}
	}
	return c
}

func (g *grower) add(c hex.Axial) {
	g.cells.Add(c)
	g.frontier.RemoveStable(c)
	g.bounds = g.bounds.Extend(c.ToPixel(g.opts.Radius))
	g.expand(c)
}

// expand pushes the unoccupied neighbors of c onto the frontier.
func (g *grower) expand(c hex.Axial) {
	for _, n := range c.Neighbors() {
		if !g.cells.Has(n) {
			g.frontier.Add(n)
		}
	}
}
