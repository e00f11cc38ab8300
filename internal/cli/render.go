package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hextile/pkg/errors"
	patternio "github.com/matzehuels/hextile/pkg/io"
	"github.com/matzehuels/hextile/pkg/pipeline"
)

// renderFlags holds the command-line flags for the render command.
type renderFlags struct {
	formats string
	output  string
	noCache bool
	preview bool
}

// renderCommand creates the render command for re-rendering saved patterns.
func (c *CLI) renderCommand() *cobra.Command {
	var f renderFlags
	opts := pipeline.Options{}
	opts.SetRenderDefaults()

	cmd := &cobra.Command{
		Use:   "render [pattern.json]",
		Short: "Render a saved pattern",
		Long: `Render a pattern saved with 'generate --format json'.

The pattern is drawn exactly as stored; nothing is regenerated. Use this
to produce other formats, scales or styles of an existing layout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.formats != "" {
				formats, err := pipeline.ParseFormats(f.formats)
				if err != nil {
					return err
				}
				opts.Formats = formats
			}
			return c.runRender(cmd.Context(), args[0], opts, &f)
		},
	}

	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): png (default), svg, csv, dot (comma-separated)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output base path (default: input path without extension)")
	cmd.Flags().StringVar(&opts.Style, "style", opts.Style, "visual style: flat, seamless")
	cmd.Flags().BoolVar(&opts.Border, "border", false, "draw tile outlines")
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "pixels per hex radius")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.preview, "preview", false, "print the pattern in the terminal")

	return cmd
}

// basePath derives the base output path. If output is empty it strips the
// extension from input; a known format extension on output is stripped too.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, f *renderFlags) error {
	logger := loggerFromContext(ctx)

	doc, err := patternio.ImportJSON(input)
	if err != nil {
		return fmt.Errorf("load pattern %s: %w", input, err)
	}
	logger.Infof("Loaded %s: %d tiles, seed %d", doc.ID, doc.Pattern.Len(), doc.Pattern.Seed)

	base := basePath(f.output, input)
	if err := errors.ValidatePath(base); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	status := iconFresh
	if cacheHit {
		status = iconCached
	}
	printSuccess("Rendered %s %s", doc.ID, StyleDim.Render("("+status+")"))
	for _, format := range opts.Formats {
		path := base + pipeline.Extensions[format]
		if path == input {
			printWarning("Skipping %s: would overwrite the input", path)
			continue
		}
		data := artifacts[format]
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path, len(data))
	}
	if f.preview {
		fmt.Print(preview(doc.Pattern))
		fmt.Println(legend(doc.Pattern, doc.Params.Colors))
	}
	return nil
}
