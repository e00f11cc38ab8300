// Package cache stores generated patterns and rendered artifacts.
//
// # Overview
//
// Generation is deterministic, so a pattern is fully identified by the hash
// of its parameters and an artifact by the pattern hash plus render options.
// The [Cache] interface stores opaque bytes under such keys:
//
//   - [FileCache]: one JSON entry per key under a directory (CLI default)
//   - [RedisCache]: shared cache for API servers
//   - [NullCache]: never stores anything (--no-cache)
//
// # Keys
//
// A [Keyer] builds keys; [DefaultKeyer] hashes the inputs with SHA-256 and
// [ScopedKeyer] prefixes another keyer's keys to isolate namespaces:
//
//	k := cache.NewDefaultKeyer()
//	pk := k.PatternKey(cache.Hash(paramsJSON))
//	ak := k.ArtifactKey(pk, cache.ArtifactKeyOpts{Format: "png", Scale: 40})
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	TTLPattern  = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Key types passed to observability hooks.
const (
	KeyTypePattern  = "pattern"
	KeyTypeArtifact = "artifact"
)

// Cache stores byte values with optional expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	PatternKey(paramsHash string) string
	ArtifactKey(patternHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Style  string  `json:"style"`
	Border bool    `json:"border"`
	Scale  float64 `json:"scale"`
}

// DefaultKeyer hashes key inputs into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// PatternKey returns the key of a generated pattern.
func (DefaultKeyer) PatternKey(paramsHash string) string {
	return hashKey(KeyTypePattern, paramsHash)
}

// ArtifactKey returns the key of a rendered artifact.
func (DefaultKeyer) ArtifactKey(patternHash string, opts ArtifactKeyOpts) string {
	return hashKey(KeyTypeArtifact, patternHash, opts)
}
