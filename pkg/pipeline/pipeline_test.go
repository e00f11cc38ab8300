package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/matzehuels/hextile/pkg/cache"
	"github.com/matzehuels/hextile/pkg/errors"
	"github.com/matzehuels/hextile/pkg/layout"
)

func smallOpts() Options {
	p := layout.DefaultParams()
	p.TotalTiles = 20
	p.Counts = []int{10, 6, 4}
	p.Tendrils = 1
	return Options{Params: p, Variations: 3, Formats: []string{FormatJSON, FormatCSV}}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"png", false},
		{"svg", false},
		{"json", false},
		{"csv", false},
		{"dot", false},
		{"pdf", true},
		{"PNG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	err := ValidateFormats([]string{"svg", "invalid"})
	if err == nil {
		t.Fatal("Invalid format should fail")
	}
	if got := errors.GetField(err); got != "formats" {
		t.Errorf("field = %q, want formats", got)
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"flat", false},
		{"seamless", false},
		{"handdrawn", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateStyle(tt.style)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
	}
}

func TestParseFormats(t *testing.T) {
	got, err := ParseFormats(" png, SVG,,png,json ")
	if err != nil {
		t.Fatalf("ParseFormats: %v", err)
	}
	want := []string{"png", "svg", "json"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseFormats = %v, want %v", got, want)
	}

	if _, err := ParseFormats("png,gif"); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Params: layout.DefaultParams()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}

	if opts.Variations != DefaultVariations {
		t.Errorf("Variations should be %d, got %d", DefaultVariations, opts.Variations)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatPNG {
		t.Errorf("Formats should be [png], got %v", opts.Formats)
	}
	if opts.Style != DefaultStyle {
		t.Errorf("Style should be %s, got %s", DefaultStyle, opts.Style)
	}
	if opts.Scale == 0 {
		t.Error("Scale default not applied")
	}
	if opts.Logger == nil {
		t.Error("Logger default not applied")
	}
}

func TestOptionsRejects(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*Options)
		field string
	}{
		{"too many variations", func(o *Options) { o.Variations = MaxVariations + 1 }, "variations"},
		{"negative variations", func(o *Options) { o.Variations = -1 }, "variations"},
		{"bad format", func(o *Options) { o.Formats = []string{"gif"} }, "formats"},
		{"bad style", func(o *Options) { o.Style = "sketch" }, "style"},
		{"bad scale", func(o *Options) { o.Scale = 1000 }, "scale"},
		{"bad params", func(o *Options) { o.Params.TotalTiles = 0 }, "total_tiles"},
		{"variation seeds past max", func(o *Options) {
			o.Params.Seed = layout.MaxSeed
			o.Variations = 3
		}, "seed"},
		{"last variation seed past max", func(o *Options) {
			o.Params.Seed = layout.MaxSeed - 1
			o.Variations = 3
		}, "seed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{Params: layout.DefaultParams()}
			tt.mod(&opts)
			err := opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.IsValidation(err) {
				t.Errorf("error %v should be a validation error", err)
			}
			if got := errors.GetField(err); got != tt.field {
				t.Errorf("field = %q, want %q", got, tt.field)
			}
		})
	}
}

func TestOptionsSeedAtUpperBound(t *testing.T) {
	tests := []struct {
		seed       int64
		variations int
	}{
		{layout.MaxSeed, 1},
		{layout.MaxSeed - 2, 3},
		{layout.MaxSeed - MaxVariations + 1, MaxVariations},
	}
	for _, tt := range tests {
		opts := Options{Params: layout.DefaultParams(), Variations: tt.variations}
		opts.Params.Seed = tt.seed
		if err := opts.ValidateAndSetDefaults(); err != nil {
			t.Errorf("seed %d, variations %d: %v", tt.seed, tt.variations, err)
		}
	}
}

func TestExecuteLastVariationAtMaxSeed(t *testing.T) {
	opts := smallOpts()
	opts.Variations = 2
	opts.Params.Seed = layout.MaxSeed - 1
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Variations) != 2 {
		t.Fatalf("got %d variations, want 2", len(res.Variations))
	}
	if got := res.Variations[1].Seed; got != layout.MaxSeed {
		t.Errorf("last seed = %d, want %d", got, layout.MaxSeed)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Params: layout.DefaultParams()}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	formats := append([]string(nil), opts.Formats...)
	style := opts.Style

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if !reflect.DeepEqual(opts.Formats, formats) {
		t.Error("Formats changed on second call")
	}
	if opts.Style != style {
		t.Error("Style changed on second call")
	}
}

func TestPatternID(t *testing.T) {
	if got := PatternID(42, 0); got != "pattern_42_0" {
		t.Errorf("PatternID(42, 0) = %q", got)
	}
	if got := PatternID(45, 3); got != "pattern_45_3" {
		t.Errorf("PatternID(45, 3) = %q", got)
	}
}

func TestExecuteVariations(t *testing.T) {
	opts := smallOpts()
	runner := NewRunner(nil, nil, nil)

	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(result.Variations) != opts.Variations {
		t.Fatalf("got %d variations, want %d", len(result.Variations), opts.Variations)
	}

	for i, v := range result.Variations {
		seed := opts.Params.Seed + int64(i)
		if v.Index != i || v.Seed != seed || v.ID != PatternID(seed, i) {
			t.Errorf("variation %d: index=%d seed=%d id=%s", i, v.Index, v.Seed, v.ID)
		}
		if v.Params.Seed != seed {
			t.Errorf("variation %d params seed = %d", i, v.Params.Seed)
		}

		params := opts.Params.Clone()
		params.Seed = seed
		want, err := layout.Generate(params)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if !reflect.DeepEqual(v.Pattern.Hexes, want.Hexes) || !reflect.DeepEqual(v.Pattern.Colors, want.Colors) {
			t.Errorf("variation %d differs from a direct Generate with seed %d", i, seed)
		}

		if v.Stats.Tiles != want.Len() || v.Stats.TendrilTiles != want.TendrilTiles() {
			t.Errorf("variation %d stats = %+v", i, v.Stats)
		}
		for _, f := range opts.Formats {
			if len(v.Artifacts[f]) == 0 {
				t.Errorf("variation %d missing %s artifact", i, f)
			}
		}
		if !strings.Contains(string(v.Artifacts[FormatJSON]), v.ID) {
			t.Errorf("variation %d JSON does not carry its id", i)
		}
	}

	if got := len(result.Patterns()); got != opts.Variations {
		t.Errorf("Patterns() returned %d", got)
	}
}

func TestExecuteRejectsInvalid(t *testing.T) {
	opts := smallOpts()
	opts.Params.Colors = []string{"red"}
	opts.Params.Counts = []int{20}

	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	if err == nil || !errors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestExecuteCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(c, nil, nil)
	ctx := context.Background()

	first, err := runner.Execute(ctx, smallOpts())
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	for _, v := range first.Variations {
		if v.CacheInfo.PatternHit || v.CacheInfo.RenderHit {
			t.Errorf("variation %d: unexpected cache hit on cold cache", v.Index)
		}
	}

	second, err := runner.Execute(ctx, smallOpts())
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	for i, v := range second.Variations {
		if !v.CacheInfo.PatternHit || !v.CacheInfo.RenderHit {
			t.Errorf("variation %d: cache info = %+v, want hits", i, v.CacheInfo)
		}
		if !reflect.DeepEqual(v.Pattern.Hexes, first.Variations[i].Pattern.Hexes) {
			t.Errorf("variation %d: cached pattern differs", i)
		}
		if !bytes.Equal(v.Artifacts[FormatCSV], first.Variations[i].Artifacts[FormatCSV]) {
			t.Errorf("variation %d: cached CSV differs", i)
		}
	}

	refresh := smallOpts()
	refresh.Refresh = true
	third, err := runner.Execute(ctx, refresh)
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	for i, v := range third.Variations {
		if v.CacheInfo.PatternHit || v.CacheInfo.RenderHit {
			t.Errorf("variation %d: refresh should bypass cache", i)
		}
	}
}

func TestStream(t *testing.T) {
	opts := smallOpts()
	opts.Variations = 5
	runner := NewRunner(nil, nil, nil)

	var got []int
	err := runner.Stream(context.Background(), opts, func(v *Variation) error {
		got = append(got, v.Index)
		return nil
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	sort.Ints(got)
	if !reflect.DeepEqual(got, []int{0, 1, 2, 3, 4}) {
		t.Errorf("streamed indices = %v", got)
	}
}

func TestStreamCallbackError(t *testing.T) {
	opts := smallOpts()
	opts.Variations = 4
	stop := fmt.Errorf("client went away")

	calls := 0
	err := NewRunner(nil, nil, nil).Stream(context.Background(), opts, func(*Variation) error {
		calls++
		return stop
	})
	if err != stop {
		t.Errorf("Stream error = %v, want %v", err, stop)
	}
	if calls != 1 {
		t.Errorf("callback called %d times after failing, want 1", calls)
	}
}

func TestStreamCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewRunner(nil, nil, nil).Stream(ctx, smallOpts(), func(*Variation) error { return nil })
	if err == nil {
		t.Error("expected error from canceled context")
	}
}

func TestRenderAllFormats(t *testing.T) {
	opts := smallOpts()
	opts.Variations = 1
	opts.Formats = []string{FormatPNG, FormatSVG, FormatJSON, FormatCSV, FormatDOT}
	opts.Border = true

	result, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	a := result.Variations[0].Artifacts

	if !bytes.HasPrefix(a[FormatPNG], []byte("\x89PNG")) {
		t.Error("png artifact is not a PNG")
	}
	if !strings.Contains(string(a[FormatSVG]), "<svg") {
		t.Error("svg artifact has no <svg> element")
	}
	if !strings.HasPrefix(string(a[FormatCSV]), "q,r,x,y,color") {
		t.Errorf("csv header = %q", strings.SplitN(string(a[FormatCSV]), "\n", 2)[0])
	}
	if !strings.Contains(string(a[FormatDOT]), "<svg") {
		t.Error("dot artifact is not rendered SVG")
	}
}

func TestRenderComposite(t *testing.T) {
	opts := smallOpts()
	result, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	data, err := RenderComposite(result.Patterns(), opts)
	if err != nil {
		t.Fatalf("RenderComposite: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("composite is not a PNG")
	}
}
