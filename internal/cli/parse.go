package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/hextile/pkg/errors"
	"github.com/matzehuels/hextile/pkg/layout/palette"
)

// parseAspect parses "W:H" or "WxH" into two positive numbers.
func parseAspect(s string) (w, h float64, err error) {
	s = strings.ToLower(strings.TrimSpace(s))
	a, b, ok := strings.Cut(s, ":")
	if !ok {
		a, b, ok = strings.Cut(s, "x")
	}
	if !ok {
		return 0, 0, errors.Field(errors.ErrCodeInvalidParams, "aspect",
			"%q must be W:H or WxH, e.g. 4:3 or 16x9", s)
	}
	w, errW := strconv.ParseFloat(strings.TrimSpace(a), 64)
	h, errH := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, errors.Field(errors.ErrCodeInvalidParams, "aspect",
			"%q needs positive numbers like 4:3 or 2.5:1", s)
	}
	return w, h, nil
}

// parseTendrilLen parses "MIN,MAX", "MIN:MAX" or a single length.
func parseTendrilLen(s string) (lo, hi int, err error) {
	s = strings.TrimSpace(s)
	a, b, ok := strings.Cut(s, ",")
	if !ok {
		a, b, ok = strings.Cut(s, ":")
	}
	if !ok {
		a, b = s, s
	}
	lo, errLo := strconv.Atoi(strings.TrimSpace(a))
	hi, errHi := strconv.Atoi(strings.TrimSpace(b))
	if errLo != nil || errHi != nil || lo <= 0 || hi < lo {
		return 0, 0, errors.Field(errors.ErrCodeInvalidParams, "tendril_len",
			"%q must be MIN,MAX with 0 < MIN <= MAX, e.g. 2,4", s)
	}
	return lo, hi, nil
}

// splitList splits a comma-separated flag value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseColors parses a comma-separated list of #RRGGBB colors.
func parseColors(s string) ([]string, error) {
	colors := splitList(s)
	for i, c := range colors {
		if err := errors.ValidateHexColor(c); err != nil {
			return nil, err
		}
		colors[i] = strings.ToUpper(c)
	}
	return colors, nil
}

// parseCounts parses a comma-separated list of tile counts.
func parseCounts(s string) ([]int, error) {
	parts := splitList(s)
	counts := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, errors.Field(errors.ErrCodeInvalidParams, "counts",
				"%q is not a non-negative integer", part)
		}
		counts[i] = n
	}
	return counts, nil
}

// colorIndex resolves a palette reference: either an index into colors or
// one of the colors itself (case-insensitive).
func colorIndex(ref string, colors []string) (int, error) {
	ref = strings.TrimSpace(ref)
	if i, err := strconv.Atoi(ref); err == nil {
		if i < 0 || i >= len(colors) {
			return 0, fmt.Errorf("color index %d out of range [0, %d)", i, len(colors))
		}
		return i, nil
	}
	for i, c := range colors {
		if strings.EqualFold(c, ref) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("color %q is not in the palette %v", ref, colors)
}

// parseOrder parses --gradient-order into palette indices.
func parseOrder(s string, colors []string) ([]int, error) {
	refs := splitList(s)
	order := make([]int, len(refs))
	for i, ref := range refs {
		idx, err := colorIndex(ref, colors)
		if err != nil {
			return nil, errors.Field(errors.ErrCodeInvalidParams, "gradient_order", "%v", err)
		}
		order[i] = idx
	}
	return order, nil
}

// parseRoles resolves the scheme60 role flags. Empty refs are left for
// the generator to fill by descending count.
func parseRoles(refs map[string]string, colors []string) (map[string]int, error) {
	var roles map[string]int
	for _, name := range palette.RoleNames {
		ref := refs[name]
		if ref == "" {
			continue
		}
		idx, err := colorIndex(ref, colors)
		if err != nil {
			return nil, errors.Field(errors.ErrCodeInvalidParams, "roles", "%s: %v", name, err)
		}
		if roles == nil {
			roles = make(map[string]int, len(palette.RoleNames))
		}
		roles[name] = idx
	}
	return roles, nil
}

// formatAspect renders an aspect pair the way --aspect accepts it.
func formatAspect(w, h float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64) + ":" + strconv.FormatFloat(h, 'f', -1, 64)
}
