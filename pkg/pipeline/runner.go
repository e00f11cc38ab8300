package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/hextile/pkg/cache"
	patternio "github.com/matzehuels/hextile/pkg/io"
	"github.com/matzehuels/hextile/pkg/layout"
	"github.com/matzehuels/hextile/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute generates and renders every variation and returns them in
// variation order.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	result := &Result{Variations: make([]*Variation, opts.Variations)}
	err := r.Stream(ctx, opts, func(v *Variation) error {
		result.Variations[v.Index] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Stream generates variations concurrently and calls fn for each one as
// soon as it is done. fn runs on the caller's goroutine, one variation at a
// time, in completion order. An error from fn or from any variation cancels
// the remaining work.
func (r *Runner) Stream(ctx context.Context, opts Options, fn func(*Variation) error) error {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(opts.Variations, runtime.GOMAXPROCS(0)))

	done := make(chan *Variation, opts.Variations)
	var runErr error
	go func() {
		for i := range opts.Variations {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				v, err := r.runVariation(gctx, opts, i)
				if err != nil {
					return fmt.Errorf("variation %d: %w", i, err)
				}
				done <- v
				return nil
			})
		}
		runErr = g.Wait()
		close(done)
	}()

	var fnErr error
	for v := range done {
		if fnErr != nil {
			continue
		}
		if err := fn(v); err != nil {
			fnErr = err
			cancel()
		}
	}
	if fnErr != nil {
		return fnErr
	}
	return runErr
}

// runVariation generates and renders variation i.
func (r *Runner) runVariation(ctx context.Context, opts Options, i int) (*Variation, error) {
	params := opts.Params.Clone()
	params.Seed = opts.Params.Seed + int64(i)

	v := &Variation{
		Index:  i,
		ID:     PatternID(params.Seed, i),
		Seed:   params.Seed,
		Params: params,
	}

	genStart := time.Now()
	p, hit, err := r.GenerateWithCacheInfo(ctx, params, opts.Refresh)
	if err != nil {
		return nil, err
	}
	v.Pattern = p
	v.Stats.GenerateTime = time.Since(genStart)
	v.Stats.Tiles = p.Len()
	v.Stats.TendrilTiles = p.TendrilTiles()
	v.CacheInfo.PatternHit = hit

	opts.Logger.Debug("generated pattern",
		"id", v.ID,
		"tiles", p.Len(),
		"deviation", fmt.Sprintf("%.1f%%", p.AspectDeviation),
		"cached", hit,
		"duration", v.Stats.GenerateTime)

	renderStart := time.Now()
	doc := v.Document()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	v.Artifacts = artifacts
	v.Stats.RenderTime = time.Since(renderStart)
	v.CacheInfo.RenderHit = renderHit
	if h, err := cache.HashValue(doc); err == nil {
		v.PatternHash = h
	}

	opts.Logger.Debug("rendered pattern",
		"id", v.ID,
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", v.Stats.RenderTime)

	return v, nil
}

// GenerateWithCacheInfo generates a pattern with caching and returns cache hit info.
// With refresh set the cached entry is ignored and overwritten.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, params layout.Params, refresh bool) (*layout.Pattern, bool, error) {
	paramsHash, err := cache.HashValue(params)
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.PatternKey(paramsHash)
	hooks := observability.Cache()

	// Try cache first (unless refresh requested)
	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var doc patternio.Document
			if err := patternio.Unmarshal(data, &doc); err == nil {
				hooks.OnCacheHit(ctx, cacheKey)
				return doc.Pattern, true, nil
			}
			// If deserialization fails, fall through to regenerate
		}
		hooks.OnCacheMiss(ctx, cacheKey)
	}

	p, err := Generate(ctx, params)
	if err != nil {
		return nil, false, err
	}

	if data, err := patternio.Marshal(&patternio.Document{ID: paramsHash, Params: params, Pattern: p}); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLPattern); err == nil {
			hooks.OnCacheSet(ctx, cacheKey, len(data))
		} else {
			r.Logger.Warn("cache write failed", "key", cacheKey, "err", err)
		}
	}

	return p, false, nil
}

// Generate is a convenience wrapper that calls GenerateWithCacheInfo and discards the cache hit info.
func (r *Runner) Generate(ctx context.Context, params layout.Params) (*layout.Pattern, error) {
	p, _, err := r.GenerateWithCacheInfo(ctx, params, false)
	return p, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc *patternio.Document, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	docHash, err := cache.HashValue(doc)
	if err != nil {
		return nil, false, fmt.Errorf("hash pattern for cache key: %w", err)
	}
	hooks := observability.Cache()

	// Try to get all formats from cache
	allCached := !opts.Refresh
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		if !allCached {
			break
		}
		cacheKey := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			hooks.OnCacheHit(ctx, cacheKey)
			artifacts[format] = data
		} else {
			hooks.OnCacheMiss(ctx, cacheKey)
			allCached = false
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil // All artifacts from cache
	}

	rendered, err := Render(ctx, doc, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			hooks.OnCacheSet(ctx, cacheKey, len(data))
		}
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, doc *patternio.Document, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, doc, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
