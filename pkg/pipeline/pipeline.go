// Package pipeline runs the generate → render flow for one or more pattern
// variations.
//
// The CLI, the HTTP API and the websocket stream all go through a [Runner]
// so that validation, caching and rendering behave the same everywhere.
//
// # Stages
//
//  1. Generate: build a [layout.Pattern] from [layout.Params]
//  2. Render: encode the pattern in the requested formats (PNG, SVG, JSON,
//     CSV, DOT)
//
// Both stages are cached. Patterns are keyed by a hash of their params;
// artifacts by a hash of the pattern plus the render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	opts := pipeline.Options{
//	    Params:     layout.DefaultParams(),
//	    Variations: 4,
//	    Formats:    []string{"png", "json"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Variations[0].Artifacts["png"]
//
// Variation i uses seed Params.Seed+i, so any variation can be reproduced
// on its own by generating with that seed.
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hextile/pkg/cache"
	"github.com/matzehuels/hextile/pkg/errors"
	patternio "github.com/matzehuels/hextile/pkg/io"
	"github.com/matzehuels/hextile/pkg/layout"
	"github.com/matzehuels/hextile/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultVariations is the number of patterns generated per request.
	DefaultVariations = 1

	// MaxVariations bounds a single request.
	MaxVariations = 12

	// MinScale and MaxScale bound the pixel size of one hex radius.
	MinScale = 4.0
	MaxScale = 400.0
)

// DefaultStyle is the default visual style.
const DefaultStyle = render.StyleFlat

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatSVG:  true,
	FormatJSON: true,
	FormatCSV:  true,
	FormatDOT:  true,
}

// Extensions maps each format to its file extension. DOT output is the
// rendered growth graph, so it is written as SVG.
var Extensions = map[string]string{
	FormatPNG:  ".png",
	FormatSVG:  ".svg",
	FormatJSON: ".json",
	FormatCSV:  ".csv",
	FormatDOT:  ".graph.svg",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Generate options
	Params     layout.Params `json:"params"`
	Variations int           `json:"variations,omitempty"`
	Refresh    bool          `json:"refresh,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Style   string   `json:"style,omitempty"`
	Border  bool     `json:"border,omitempty"`
	Scale   float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run, one entry per variation
// in variation order.
type Result struct {
	Variations []*Variation
}

// Patterns returns the generated patterns in variation order.
func (r *Result) Patterns() []*layout.Pattern {
	out := make([]*layout.Pattern, len(r.Variations))
	for i, v := range r.Variations {
		out[i] = v.Pattern
	}
	return out
}

// Variation is one generated pattern and its rendered artifacts.
type Variation struct {
	Index   int
	ID      string
	Seed    int64
	Params  layout.Params
	Pattern *layout.Pattern

	// PatternHash is the content hash of the pattern document.
	PatternHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Document returns the exportable form of the variation.
func (v *Variation) Document() *patternio.Document {
	return &patternio.Document{ID: v.ID, Params: v.Params, Pattern: v.Pattern}
}

// Stats contains per-variation execution statistics.
type Stats struct {
	Tiles        int
	TendrilTiles int
	GenerateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	PatternHit bool // Whether the pattern came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// PatternID names variation i generated with seed.
func PatternID(seed int64, i int) string {
	return fmt.Sprintf("pattern_%d_%d", seed, i)
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.Field(errors.ErrCodeInvalidInput, "formats",
			"invalid format %q (must be one of: png, svg, json, csv, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !render.ValidStyles[style] {
		return errors.Field(errors.ErrCodeInvalidStyle, "style",
			"invalid style %q (must be one of: flat, seamless)", style)
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates.
func ParseFormats(s string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.Params.Validate(); err != nil {
		return err
	}
	if o.Variations == 0 {
		o.Variations = DefaultVariations
	}
	if err := errors.ValidateIntRange("variations", o.Variations, 1, MaxVariations); err != nil {
		return err
	}
	// Variation i runs with seed+i, so the last one must stay in range too.
	if last := o.Params.Seed + int64(o.Variations) - 1; last > layout.MaxSeed {
		return errors.Field(errors.ErrCodeInvalidParams, "seed",
			"seed %d with %d variations reaches %d, above %d", o.Params.Seed, o.Variations, last, layout.MaxSeed)
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = render.DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	return errors.ValidateFloatRange("scale", o.Scale, MinScale, MaxScale)
}

// RenderOptions returns the render package options for these settings.
func (o *Options) RenderOptions() []render.Option {
	return []render.Option{
		render.WithScale(o.Scale),
		render.WithBorder(o.Border),
		render.WithStyle(o.Style),
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Style:  o.Style,
		Border: o.Border,
		Scale:  o.Scale,
	}
}
