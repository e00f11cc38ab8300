package palette

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/hextile/pkg/errors"
	"github.com/matzehuels/hextile/pkg/hex"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// strip returns n cells in a horizontal row.
func strip(n int) []hex.Axial {
	cells := make([]hex.Axial, n)
	for i := range cells {
		cells[i] = hex.Axial{Q: 2 * i, R: -i}
	}
	return cells
}

func tally(colors []string) map[string]int {
	m := map[string]int{}
	for _, c := range colors {
		m[c]++
	}
	return m
}

func TestScale(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		n      int
		want   []int
	}{
		{"unchanged", []int{3, 2, 1}, 6, []int{3, 2, 1}},
		{"double", []int{3, 2, 1}, 12, []int{6, 4, 2}},
		{"remainder to largest", []int{5, 3, 2}, 13, []int{6, 4, 3}},
		{"tie goes to lower index", []int{1, 1}, 3, []int{2, 1}},
		{"single color", []int{7}, 10, []int{10}},
		{"zero count stays zero", []int{4, 0}, 6, []int{6, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scale(tt.counts, tt.n)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Scale(%v, %d) = %v, want %v", tt.counts, tt.n, got, tt.want)
			}
			sum := 0
			for _, v := range got {
				sum += v
			}
			if sum != tt.n {
				t.Errorf("Scale sum = %d, want %d", sum, tt.n)
			}
		})
	}
}

func TestAssignQuotas(t *testing.T) {
	colors := []string{"#ff0000", "#00ff00", "#0000ff"}
	counts := []int{10, 6, 4}
	for _, mode := range []string{ModeRandom, ModeGradient, ModeScheme60} {
		t.Run(mode, func(t *testing.T) {
			cells := strip(20)
			got, err := Assign(cells, Options{Colors: colors, Counts: counts, Mode: mode, Radius: 1}, newRNG(1))
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(cells) {
				t.Fatalf("got %d colors for %d cells", len(got), len(cells))
			}
			m := tally(got)
			for i, c := range colors {
				if m[c] != counts[i] {
					t.Errorf("%s count = %d, want %d", c, m[c], counts[i])
				}
			}
		})
	}
}

func TestAssignExtendedQuotas(t *testing.T) {
	colors := []string{"#111111", "#222222"}
	got, err := Assign(strip(15), Options{Colors: colors, Counts: []int{6, 4}, Mode: ModeRandom, Radius: 1}, newRNG(2))
	if err != nil {
		t.Fatal(err)
	}
	m := tally(got)
	if m["#111111"] != 9 || m["#222222"] != 6 {
		t.Errorf("extended quotas = %v, want 9 and 6", m)
	}
}

func TestGradientBands(t *testing.T) {
	colors := []string{"#aaaaaa", "#bbbbbb"}
	cells := strip(10)
	got, err := Assign(cells, Options{Colors: colors, Counts: []int{5, 5}, Mode: ModeGradient, Axis: AxisX, Radius: 1}, newRNG(3))
	if err != nil {
		t.Fatal(err)
	}
	// Cells are 3 units apart, far beyond the jitter, so bands follow x.
	for i := range 5 {
		if got[i] != "#aaaaaa" || got[i+5] != "#bbbbbb" {
			t.Fatalf("bands = %v", got)
		}
	}

	got, err = Assign(cells, Options{Colors: colors, Counts: []int{5, 5}, Mode: ModeGradient, Axis: AxisX, Order: []int{1, 0}, Radius: 1}, newRNG(3))
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != "#bbbbbb" || got[9] != "#aaaaaa" {
		t.Errorf("reversed order bands = %v", got)
	}
}

func TestGradientAxis(t *testing.T) {
	cells := strip(6)
	if a := GradientAxis(cells, AxisY, 1); a != (hex.Point{Y: 1}) {
		t.Errorf("y axis = %v", a)
	}
	a := GradientAxis(cells, AxisAuto, 1)
	if a.X < 0.999 {
		t.Errorf("principal axis of a horizontal strip = %v, want (1,0)", a)
	}
}

func TestScheme60CoreIsDominant(t *testing.T) {
	cells := []hex.Axial{hex.Origin}
	for _, n := range hex.Origin.Neighbors() {
		cells = append(cells, n)
	}
	// Ring two around the origin.
	for q := -2; q <= 2; q++ {
		for r := -2; r <= 2; r++ {
			c := hex.Axial{Q: q, R: r}
			if hex.Distance(hex.Origin, c) == 2 {
				cells = append(cells, c)
			}
		}
	}
	colors := []string{"#accent", "#dom", "#sec"}
	got, err := Assign(cells, Options{Colors: colors, Counts: []int{2, 11, 6}, Mode: ModeScheme60, Radius: 1}, newRNG(4))
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != "#dom" {
		t.Errorf("center cell = %s, want dominant", got[0])
	}
	for i := 1; i <= 6; i++ {
		if got[i] != "#dom" {
			t.Errorf("inner ring cell %d = %s, want dominant", i, got[i])
		}
	}
}

func TestResolveRoles(t *testing.T) {
	if got := ResolveRoles(nil, []int{2, 9, 5}); got != [3]int{1, 2, 0} {
		t.Errorf("default roles = %v, want [1 2 0]", got)
	}
	if got := ResolveRoles(map[string]int{RoleAccent: 1}, []int{2, 9, 5}); got != [3]int{1, 2, 1} {
		t.Errorf("partial roles = %v, want [1 2 1]", got)
	}
	if got := ResolveRoles(nil, []int{4}); got != [3]int{0, 0, 0} {
		t.Errorf("single color roles = %v", got)
	}
}

func TestAssignRejectsBadOptions(t *testing.T) {
	base := Options{Colors: []string{"#000000", "#ffffff"}, Counts: []int{1, 1}, Mode: ModeRandom}
	tests := []struct {
		name  string
		mod   func(*Options)
		field string
	}{
		{"mismatched counts", func(o *Options) { o.Counts = []int{2} }, "counts"},
		{"unknown mode", func(o *Options) { o.Mode = "plaid" }, "color_mode"},
		{"unknown role", func(o *Options) { o.Roles = map[string]int{"hero": 0} }, "roles"},
		{"role out of range", func(o *Options) { o.Roles = map[string]int{RoleDominant: 5} }, "roles"},
		{"order not permutation", func(o *Options) { o.Order = []int{0, 0} }, "gradient_order"},
		{"order wrong length", func(o *Options) { o.Order = []int{0} }, "gradient_order"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := base
			tt.mod(&opts)
			_, err := Assign(strip(2), opts, newRNG(1))
			if !errors.Is(err, errors.ErrCodeInvalidParams) {
				t.Fatalf("error = %v, want %s", err, errors.ErrCodeInvalidParams)
			}
			if f := errors.GetField(err); f != tt.field {
				t.Errorf("field = %q, want %q", f, tt.field)
			}
		})
	}
}
