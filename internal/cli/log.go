// Package cli implements the hextile command-line interface.
//
// The commands generate hexagonal tile patterns, re-render saved patterns,
// explore seeds interactively, and serve the HTTP API. The CLI is built with
// cobra and logs through charmbracelet/log.
//
// # Commands
//
//   - generate: Grow one or more patterns and write PNG, SVG, JSON, CSV or
//     growth-graph output
//   - render: Re-render a saved pattern.json
//   - browse: Interactive seed explorer
//   - serve: Run the HTTP API
//   - cache: Manage the local pattern and artifact cache
//   - config: Write or show a TOML preset
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs generation, render and cache events. Loggers are passed through
// context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hextile/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Generated 4 patterns (312ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Debug Hooks
// =============================================================================

// logHooks writes pipeline and cache events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnGenerateStart(_ context.Context, seed int64, tiles int) {
	h.logger.Debug("generate", "seed", seed, "tiles", tiles)
}

func (h *logHooks) OnGenerateComplete(_ context.Context, seed int64, hexCount int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("generate failed", "seed", seed, "err", err)
		return
	}
	h.logger.Debug("generated", "seed", seed, "hexes", hexCount, "took", d.Round(time.Microsecond))
}

func (h *logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render", "formats", formats)
}

func (h *logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "formats", formats, "err", err)
		return
	}
	h.logger.Debug("rendered", "formats", formats, "took", d.Round(time.Microsecond))
}

func (h *logHooks) OnCacheHit(_ context.Context, key string) {
	h.logger.Debug("cache hit", "key", key)
}

func (h *logHooks) OnCacheMiss(_ context.Context, key string) {
	h.logger.Debug("cache miss", "key", key)
}

func (h *logHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.logger.Debug("cache set", "key", key, "bytes", size)
}

var (
	_ observability.PipelineHooks = (*logHooks)(nil)
	_ observability.CacheHooks    = (*logHooks)(nil)
)
