package palette

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/matzehuels/hextile/pkg/hex"
)

// Zone shares for the core and middle rings; the edge takes the rest.
const (
	coreShare = 0.6
	midShare  = 0.3
)

// ResolveRoles fills roles missing from given with colors ranked by
// descending count, and returns the dominant, secondary and accent indices.
func ResolveRoles(given map[string]int, counts []int) [3]int {
	rank := make([]int, len(counts))
	for i := range rank {
		rank[i] = i
	}
	sort.SliceStable(rank, func(a, b int) bool { return counts[rank[a]] > counts[rank[b]] })

	var out [3]int
	for i, name := range RoleNames {
		if idx, ok := given[name]; ok {
			out[i] = idx
			continue
		}
		if i < len(rank) {
			out[i] = rank[i]
		} else {
			out[i] = rank[0]
		}
	}
	return out
}

func assignScheme60(cells []hex.Axial, opts Options, quota []int, rng *rand.Rand) []string {
	radius := opts.Radius
	if radius <= 0 {
		radius = 1
	}
	n := len(cells)
	center := hex.Centroid(cells, radius)
	dist := make([]float64, n)
	for i, c := range cells {
		p := c.ToPixel(radius)
		dist[i] = math.Hypot(p.X-center.X, p.Y-center.Y)
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return dist[idx[a]] < dist[idx[b]] })

	z1 := min(int(math.Round(coreShare*float64(n))), n)
	z2 := min(int(math.Round(midShare*float64(n))), n-z1)
	zones := [3][]int{idx[:z1], idx[z1 : z1+z2], idx[z1+z2:]}

	roles := ResolveRoles(opts.Roles, opts.Counts)
	remaining := append([]int(nil), quota...)
	out := make([]string, n)

	for zi, zone := range zones {
		zone = append([]int(nil), zone...)
		rng.Shuffle(len(zone), func(i, j int) { zone[i], zone[j] = zone[j], zone[i] })
		for _, cell := range zone {
			pick := pickColor(roles, zi, remaining)
			out[cell] = opts.Colors[pick]
			if remaining[pick] > 0 {
				remaining[pick]--
			}
		}
	}
	return out
}

// pickColor returns the zone's role color while it has quota, then the
// other roles in role order, then the lowest index with quota left.
func pickColor(roles [3]int, zone int, remaining []int) int {
	pref := roles[zone]
	if remaining[pref] > 0 {
		return pref
	}
	for i, r := range roles {
		if i != zone && remaining[r] > 0 {
			return r
		}
	}
	for i, k := range remaining {
		if k > 0 {
			return i
		}
	}
	return pref
}
