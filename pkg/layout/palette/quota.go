package palette

import "sort"

// Scale distributes n cells across colors in proportion to counts using the
// largest-remainder method. Ties in remainder go to the lower index. When
// the counts already sum to n they are returned unchanged (as a copy).
func Scale(counts []int, n int) []int {
	out := make([]int, len(counts))
	if len(counts) == 0 {
		return out
	}
	sum := 0
	for _, c := range counts {
		sum += c
	}
	if sum == n {
		copy(out, counts)
		return out
	}
	if sum == 0 {
		out[0] = n
		return out
	}

	rem := make([]int, len(counts))
	given := 0
	for i, c := range counts {
		out[i] = c * n / sum
		rem[i] = c * n % sum
		given += out[i]
	}

	idx := make([]int, len(counts))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return rem[idx[a]] > rem[idx[b]] })
	for k := 0; given < n; k++ {
		out[idx[k%len(idx)]]++
		given++
	}
	return out
}
