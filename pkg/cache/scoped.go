package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// The API server scopes its keys so that it can share a Redis instance
// with other deployments or with CLI users pointing at the same server.
//
// Example usage:
//
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "hextile:api:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// PatternKey generates a prefixed key for pattern caching.
func (k *ScopedKeyer) PatternKey(paramsHash string) string {
	return k.prefix + k.inner.PatternKey(paramsHash)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(patternHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(patternHash, opts)
}
