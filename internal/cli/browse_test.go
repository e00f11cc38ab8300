package cli

import (
	"context"
	"math"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/hextile/pkg/pipeline"
)

func newTestBrowse(t *testing.T) BrowseModel {
	t.Helper()
	p := defaultPreset()
	p.Layout.TotalTiles = 24
	p.Layout.Counts = []int{12, 8, 4}
	p.Output.Dir = t.TempDir()
	return newBrowseModel(context.Background(), pipeline.NewRunner(nil, nil, nil), p)
}

// press sends a key and runs the resulting command to completion.
func press(t *testing.T, m BrowseModel, key tea.KeyMsg) BrowseModel {
	t.Helper()
	next, cmd := m.Update(key)
	m = next.(BrowseModel)
	if cmd != nil {
		if msg := cmd(); msg != nil {
			next, _ = m.Update(msg)
			m = next.(BrowseModel)
		}
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestBrowseNavigation(t *testing.T) {
	m := newTestBrowse(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.Params.Seed != 43 {
		t.Fatalf("seed after → = %d, want 43", m.Params.Seed)
	}
	if m.Pattern == nil || m.Pattern.Seed != 43 {
		t.Fatalf("pattern not regenerated for seed 43")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.Params.Seed != 41 || m.Pattern.Seed != 41 {
		t.Errorf("seed after ←← = %d (pattern %d), want 41", m.Params.Seed, m.Pattern.Seed)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if math.Abs(m.Params.AspectAdherence-0.8) > 1e-9 {
		t.Errorf("adherence after ↑ = %v, want 0.8", m.Params.AspectAdherence)
	}
	for range 10 {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	}
	if m.Params.AspectAdherence != 1 {
		t.Errorf("adherence not clamped: %v", m.Params.AspectAdherence)
	}

	m = press(t, m, runes("t"))
	if m.Params.Tendrils != 0 || m.Pattern.TendrilTiles() != 0 {
		t.Errorf("tendrils after t = %d (%d tiles)", m.Params.Tendrils, m.Pattern.TendrilTiles())
	}
	m = press(t, m, runes("t"))
	if m.Params.Tendrils != 3 {
		t.Errorf("tendrils after second t = %d, want 3", m.Params.Tendrils)
	}

	for _, want := range []string{"gradient", "scheme60", "random"} {
		m = press(t, m, runes("m"))
		if m.Params.ColorMode != want {
			t.Errorf("mode = %q, want %q", m.Params.ColorMode, want)
		}
	}
	if m.err != nil {
		t.Errorf("unexpected error: %v", m.err)
	}
}

func TestBrowseStaleResult(t *testing.T) {
	m := newTestBrowse(t)
	stale := m.generate()

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(BrowseModel)

	next, _ = m.Update(stale())
	m = next.(BrowseModel)
	if m.Pattern != nil {
		t.Error("result for a previous seed was shown")
	}
}

func TestBrowseSave(t *testing.T) {
	m := newTestBrowse(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = press(t, m, runes("s"))

	if !strings.Contains(m.status, "pattern_43_0.png") {
		t.Fatalf("status = %q", m.status)
	}
	fi, err := os.Stat(m.dir + "/pattern_43_0.png")
	if err != nil || fi.Size() == 0 {
		t.Errorf("saved png: %v", err)
	}
}

func TestBrowseQuitAndView(t *testing.T) {
	m := newTestBrowse(t)
	if !strings.Contains(m.View(), "growing") {
		t.Error("view before first pattern should say growing")
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	view := m.View()
	for _, want := range []string{"seed", "43", "exposed edges", previewTile} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestStepAdherence(t *testing.T) {
	tests := []struct{ a, d, want float64 }{
		{0.75, 0.05, 0.8},
		{0.02, -0.05, 0},
		{0.98, 0.05, 1},
		{0.5, -0.05, 0.45},
	}
	for _, tt := range tests {
		if got := stepAdherence(tt.a, tt.d); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("stepAdherence(%v, %v) = %v, want %v", tt.a, tt.d, got, tt.want)
		}
	}
}
