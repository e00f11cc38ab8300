package growthgraph

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/hextile/pkg/layout"
)

func generated(t *testing.T) *layout.Pattern {
	t.Helper()
	params := layout.DefaultParams()
	params.TotalTiles = 20
	params.Counts = []int{10, 6, 4}
	p, err := layout.Generate(params)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestToDOT(t *testing.T) {
	p := generated(t)
	dot := ToDOT(p, Options{Labels: true})

	if !strings.HasPrefix(dot, "digraph growth {") {
		t.Errorf("unexpected header: %q", dot[:min(len(dot), 40)])
	}
	if got := strings.Count(dot, "pos=\""); got != p.Len() {
		t.Errorf("nodes = %d, want %d", got, p.Len())
	}
	solid := strings.Count(dot, "->") - strings.Count(dot, "style=dashed")
	if solid != p.BaseCount-1 {
		t.Errorf("blob edges = %d, want %d", solid, p.BaseCount-1)
	}
	if got := strings.Count(dot, "style=dashed"); got != p.TendrilTiles() {
		t.Errorf("tendril edges = %d, want %d", got, p.TendrilTiles())
	}
	if !strings.Contains(dot, `"0_0" [pos="0.000,-0.000!"`) && !strings.Contains(dot, `"0_0" [pos="0.000,0.000!"`) {
		t.Error("origin node missing or not pinned at 0,0")
	}
}

func TestRenderSVG(t *testing.T) {
	p := generated(t)
	svg, err := RenderSVG(context.Background(), ToDOT(p, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `)) {
		t.Error("svg header was not normalized")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox =\n%s\nwant\n%s", out, want)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}
