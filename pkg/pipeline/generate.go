package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/hextile/pkg/layout"
	"github.com/matzehuels/hextile/pkg/observability"
)

// Generate builds one pattern from params and reports the run to the
// pipeline hooks.
func Generate(ctx context.Context, params layout.Params) (*layout.Pattern, error) {
	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, params.Seed, params.TotalTiles)
	start := time.Now()

	p, err := layout.Generate(params)

	n := 0
	if p != nil {
		n = p.Len()
	}
	hooks.OnGenerateComplete(ctx, params.Seed, n, time.Since(start), err)
	return p, err
}
