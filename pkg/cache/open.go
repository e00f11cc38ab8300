package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Open returns a cache for backend. target is a directory for the file
// backend and an address or URL for Redis; it is ignored for none.
func Open(ctx context.Context, backend, target string) (Cache, error) {
	switch backend {
	case BackendFile:
		c, err := NewFileCache(target)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, target)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendNone, "":
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
