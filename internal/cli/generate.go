package cli

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hextile/pkg/errors"
	"github.com/matzehuels/hextile/pkg/layout"
	"github.com/matzehuels/hextile/pkg/layout/palette"
	"github.com/matzehuels/hextile/pkg/pipeline"
)

// generateFlags holds the raw command-line values for generate. Only flags
// the user actually set are applied on top of the preset.
type generateFlags struct {
	config string

	// Layout
	aspect     string
	tiles      int
	layouts    int
	seed       int64
	radius     float64
	adherence  float64
	tendrils   int
	tendrilLen string

	// Colors
	colors        string
	counts        string
	colorMode     string
	gradientAxis  string
	gradientOrder string
	dominant      string
	secondary     string
	accent        string

	// Output
	formats   string
	style     string
	border    bool
	scale     float64
	output    string
	composite bool
	preview   bool
	noCache   bool
	refresh   bool
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var f generateFlags
	def := defaultPreset()

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate hexagonal tile patterns",
		Long: `Generate one or more hexagonal tile patterns.

Each layout grows a compact blob toward the target aspect ratio, adds
tendrils, and assigns the palette. Layout i uses seed+i, so any single
layout can be reproduced with --seed. Without --seed (or a seed in the
preset) a random base seed is chosen and printed.

Examples:
  hextile generate --aspect 16:9 --tiles 80 --layouts 4 --composite
  hextile generate --colors '#264653,#E9C46A,#E76F51' --counts 40,15,5 --color-mode scheme60
  hextile generate --seed 7 --format png,svg,json --preview`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			preset, seedSet, err := loadPreset(f.config)
			if err != nil {
				return err
			}
			if err := f.apply(cmd.Flags().Changed, &preset); err != nil {
				return err
			}
			if !seedSet && !cmd.Flags().Changed("seed") {
				preset.Layout.Seed = rand.Int64N(layout.MaxSeed - pipeline.MaxVariations + 2)
			}
			return c.runGenerate(cmd.Context(), preset, &f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "TOML preset (default: XDG config dir preset.toml if present)")

	fl.StringVar(&f.aspect, "aspect", formatAspect(def.Layout.AspectW, def.Layout.AspectH), "target aspect ratio W:H or WxH")
	fl.IntVarP(&f.tiles, "tiles", "n", def.Layout.TotalTiles, "total number of tiles")
	fl.IntVarP(&f.layouts, "layouts", "l", def.Output.Layouts, fmt.Sprintf("number of layouts (max %d)", pipeline.MaxVariations))
	fl.Int64VarP(&f.seed, "seed", "s", 0, "base random seed (random if unset)")
	fl.Float64Var(&f.radius, "radius", def.Layout.Radius, "hex radius in plot units")
	fl.Float64Var(&f.adherence, "adherence", def.Layout.AspectAdherence, "aspect adherence in [0, 1]")
	fl.IntVar(&f.tendrils, "tendrils", def.Layout.Tendrils, "number of tendrils")
	fl.StringVar(&f.tendrilLen, "tendril-len", fmt.Sprintf("%d,%d", def.Layout.TendrilLenMin, def.Layout.TendrilLenMax), "tendril length MIN,MAX")

	fl.StringVar(&f.colors, "colors", "", "palette as comma-separated #RRGGBB colors")
	fl.StringVar(&f.counts, "counts", "", "tiles per color, comma-separated (default: split evenly)")
	fl.StringVar(&f.colorMode, "color-mode", def.Layout.ColorMode, "color mode: random, gradient, scheme60")
	fl.StringVar(&f.gradientAxis, "gradient-axis", def.Layout.GradientAxis, "gradient axis: auto, x, y, principal")
	fl.StringVar(&f.gradientOrder, "gradient-order", "", "gradient color order as palette colors or indices")
	fl.StringVar(&f.dominant, "dominant", "", "dominant color for scheme60 (palette color or index)")
	fl.StringVar(&f.secondary, "secondary", "", "secondary color for scheme60")
	fl.StringVar(&f.accent, "accent", "", "accent color for scheme60")

	fl.StringVarP(&f.formats, "format", "f", "", "output format(s): png (default), svg, json, csv, dot (comma-separated)")
	fl.StringVar(&f.style, "style", def.Render.Style, "visual style: flat, seamless")
	fl.BoolVar(&f.border, "border", def.Render.Border, "draw tile outlines")
	fl.Float64Var(&f.scale, "scale", def.Render.Scale, "pixels per hex radius")
	fl.StringVarP(&f.output, "output", "o", def.Output.Dir, "output directory")
	fl.BoolVar(&f.composite, "composite", false, "also write all layouts on one PNG sheet")
	fl.BoolVar(&f.preview, "preview", false, "print each pattern in the terminal")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fl.BoolVar(&f.refresh, "refresh", false, "ignore cached results and regenerate")

	return cmd
}

// apply copies explicitly set flags onto p. changed reports whether a flag
// was given on the command line.
func (f *generateFlags) apply(changed func(string) bool, p *Preset) error {
	lp := &p.Layout

	if changed("aspect") {
		w, h, err := parseAspect(f.aspect)
		if err != nil {
			return err
		}
		lp.AspectW, lp.AspectH = w, h
	}
	if changed("tendril-len") {
		lo, hi, err := parseTendrilLen(f.tendrilLen)
		if err != nil {
			return err
		}
		lp.TendrilLenMin, lp.TendrilLenMax = lo, hi
	}
	if changed("seed") {
		lp.Seed = f.seed
	}
	if changed("radius") {
		lp.Radius = f.radius
	}
	if changed("adherence") {
		lp.AspectAdherence = f.adherence
	}
	if changed("tendrils") {
		lp.Tendrils = f.tendrils
	}
	if changed("color-mode") {
		lp.ColorMode = f.colorMode
	}
	if changed("gradient-axis") {
		lp.GradientAxis = f.gradientAxis
	}

	if err := f.applyPalette(changed, lp); err != nil {
		return err
	}

	if changed("gradient-order") {
		order, err := parseOrder(f.gradientOrder, lp.Colors)
		if err != nil {
			return err
		}
		lp.GradientOrder = order
	}
	refs := map[string]string{
		palette.RoleDominant:  f.dominant,
		palette.RoleSecondary: f.secondary,
		palette.RoleAccent:    f.accent,
	}
	roles, err := parseRoles(refs, lp.Colors)
	if err != nil {
		return err
	}
	if roles != nil {
		lp.Roles = roles
	}

	if changed("layouts") {
		p.Output.Layouts = f.layouts
	}
	if changed("format") {
		formats, err := pipeline.ParseFormats(f.formats)
		if err != nil {
			return err
		}
		p.Output.Formats = formats
	}
	if changed("style") {
		p.Render.Style = f.style
	}
	if changed("border") {
		p.Render.Border = f.border
	}
	if changed("scale") {
		p.Render.Scale = f.scale
	}
	if changed("output") {
		p.Output.Dir = f.output
	}
	return nil
}

// applyPalette resolves --tiles, --colors and --counts together so that the
// counts always add up to the tile total.
func (f *generateFlags) applyPalette(changed func(string) bool, lp *layout.Params) error {
	if changed("colors") {
		colors, err := parseColors(f.colors)
		if err != nil {
			return err
		}
		if !slices.Equal(colors, lp.Colors) {
			lp.GradientOrder = nil
			lp.Roles = nil
		}
		lp.Colors = colors
	}
	if changed("tiles") {
		lp.TotalTiles = f.tiles
	}

	switch {
	case changed("counts"):
		counts, err := parseCounts(f.counts)
		if err != nil {
			return err
		}
		lp.Counts = counts
		if !changed("tiles") {
			lp.TotalTiles = sum(counts)
		}
	case len(lp.Counts) != len(lp.Colors):
		lp.Counts = palette.Scale(slices.Repeat([]int{1}, len(lp.Colors)), lp.TotalTiles)
	case sum(lp.Counts) != lp.TotalTiles:
		lp.Counts = palette.Scale(lp.Counts, lp.TotalTiles)
	}
	return nil
}

func sum(xs []int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}

// runGenerate executes the pipeline and writes every artifact to the
// output directory.
func (c *CLI) runGenerate(ctx context.Context, p Preset, f *generateFlags) error {
	logger := loggerFromContext(ctx)

	opts := pipeline.Options{
		Params:     p.Layout,
		Variations: p.Output.Layouts,
		Refresh:    f.refresh,
		Formats:    p.Output.Formats,
		Style:      p.Render.Style,
		Border:     p.Render.Border,
		Scale:      p.Render.Scale,
		Logger:     c.Logger,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	dir := p.Output.Dir
	if err := errors.ValidatePath(dir); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	n := opts.Variations
	logger.Infof("Generating %d layout(s) from seed %d", n, opts.Params.Seed)
	prog := newProgress(logger)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Growing 0/%d...", n))
	spinner.Start()

	result := &pipeline.Result{Variations: make([]*pipeline.Variation, n)}
	finished := 0
	err = runner.Stream(ctx, opts, func(v *pipeline.Variation) error {
		result.Variations[v.Index] = v
		finished++
		spinner.SetMessage(fmt.Sprintf("Growing %d/%d...", finished, n))
		return nil
	})
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Generated %d layout(s)", n))

	for _, v := range result.Variations {
		if err := writeVariation(dir, v, opts.Formats); err != nil {
			return err
		}
		if f.preview {
			fmt.Print(preview(v.Pattern))
			fmt.Println(legend(v.Pattern, v.Params.Colors))
		}
	}

	if n > 1 {
		fmt.Println(summaryTable(result.Variations))
	}

	if f.composite {
		data, err := pipeline.RenderComposite(result.Patterns(), opts)
		if err != nil {
			return fmt.Errorf("composite: %w", err)
		}
		path := filepath.Join(dir, fmt.Sprintf("pattern_%d_composite.png", opts.Params.Seed))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		printSuccess("Composite of %d layouts", n)
		printFile(path, len(data))
	}

	printNewline()
	if slices.Contains(opts.Formats, pipeline.FormatJSON) {
		first := result.Variations[0]
		printNextStep("Re-render", fmt.Sprintf("%s render %s", appName,
			filepath.Join(dir, first.ID+pipeline.Extensions[pipeline.FormatJSON])))
	} else {
		printNextStep("Reproduce", fmt.Sprintf("%s generate --seed %d --layouts %d", appName, opts.Params.Seed, n))
	}
	return nil
}

// writeVariation writes one file per format, named after the variation ID.
func writeVariation(dir string, v *pipeline.Variation, formats []string) error {
	printSuccess("%s", v.ID)
	printStats(v.Seed, v.Stats.Tiles, v.Stats.TendrilTiles, v.Pattern.AspectDeviation, v.CacheInfo.PatternHit)
	for _, format := range formats {
		data := v.Artifacts[format]
		path := filepath.Join(dir, v.ID+pipeline.Extensions[format])
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path, len(data))
	}
	return nil
}
