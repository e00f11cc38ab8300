// Package observability lets the binaries watch hextile work without the
// libraries depending on any metrics or tracing backend.
//
// Three hook sets exist: [PipelineHooks] for generation and rendering,
// [CacheHooks] for pattern and artifact lookups, and [ServerHooks] for
// API traffic. Each starts as a no-op. A main package swaps them in once
// at startup; the CLI does this under --verbose to log every event:
//
//	observability.SetPipelineHooks(myHooks)
//	defer observability.Reset()
//
// Library code fetches the current set at the call site:
//
//	observability.Pipeline().OnGenerateStart(ctx, params.Seed, params.TotalTiles)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks observes pattern generation and artifact rendering.
type PipelineHooks interface {
	// OnGenerateStart fires before growth begins for one variation.
	OnGenerateStart(ctx context.Context, seed int64, tiles int)
	// OnGenerateComplete reports the final hex count, tendrils included.
	OnGenerateComplete(ctx context.Context, seed int64, hexCount int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks observes cache traffic. key is the full cache key.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, key string)
	OnCacheMiss(ctx context.Context, key string)
	OnCacheSet(ctx context.Context, key string, size int)
}

// ServerHooks observes HTTP requests handled by the API.
type ServerHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, status int, duration time.Duration)
}

type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnGenerateStart(context.Context, int64, int)                          {}
func (NoopPipelineHooks) OnGenerateComplete(context.Context, int64, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                              {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)     {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string)                       {}
func (NoopServerHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// registry holds the active hook sets behind one lock.
type registry struct {
	mu       sync.RWMutex
	pipeline PipelineHooks
	cache    CacheHooks
	server   ServerHooks
}

var hooks = registry{
	pipeline: NoopPipelineHooks{},
	cache:    NoopCacheHooks{},
	server:   NoopServerHooks{},
}

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.pipeline = h
	hooks.mu.Unlock()
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.cache = h
	hooks.mu.Unlock()
}

// SetServerHooks installs h. A nil h is ignored.
func SetServerHooks(h ServerHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.server = h
	hooks.mu.Unlock()
}

func Pipeline() PipelineHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.pipeline
}

func Cache() CacheHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.cache
}

func Server() ServerHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.server
}

// Reset puts every hook set back to its no-op.
func Reset() {
	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	hooks.pipeline = NoopPipelineHooks{}
	hooks.cache = NoopCacheHooks{}
	hooks.server = NoopServerHooks{}
}
