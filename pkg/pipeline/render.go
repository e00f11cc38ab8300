package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	patternio "github.com/matzehuels/hextile/pkg/io"
	"github.com/matzehuels/hextile/pkg/layout"
	"github.com/matzehuels/hextile/pkg/observability"
	"github.com/matzehuels/hextile/pkg/render"
	"github.com/matzehuels/hextile/pkg/render/growthgraph"
)

// Render generates output artifacts in the requested formats. doc carries
// the pattern and, for JSON output, its id and params.
func Render(ctx context.Context, doc *patternio.Document, opts Options) (map[string][]byte, error) {
	if doc == nil || doc.Pattern == nil {
		return nil, fmt.Errorf("render: no pattern")
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := renderFormats(ctx, doc, opts)

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderFormats(ctx context.Context, doc *patternio.Document, opts Options) (map[string][]byte, error) {
	p := doc.Pattern
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatPNG:
			data, err = render.RenderPNG(p, opts.RenderOptions()...)
		case FormatSVG:
			data, err = render.RenderSVG(p, append(opts.RenderOptions(), render.WithCaption())...)
		case FormatJSON:
			var buf bytes.Buffer
			err = patternio.WriteJSON(doc, &buf)
			data = buf.Bytes()
		case FormatCSV:
			var buf bytes.Buffer
			err = patternio.WriteCSV(p, &buf)
			data = buf.Bytes()
		case FormatDOT:
			data, err = growthgraph.RenderSVG(ctx, growthgraph.ToDOT(p, growthgraph.Options{}))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// RenderComposite draws all patterns of a run on one PNG sheet.
func RenderComposite(patterns []*layout.Pattern, opts Options) ([]byte, error) {
	return render.RenderComposite(patterns, opts.RenderOptions()...)
}
