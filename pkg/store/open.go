package store

import (
	"context"
	"fmt"
)

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// ValidBackends is the set of supported store backends.
var ValidBackends = map[string]bool{
	BackendMemory: true,
	BackendSQLite: true,
	BackendMongo:  true,
}

// Open returns a store for backend. dsn is a file path for SQLite and a
// mongodb:// URI for Mongo; it is ignored for memory.
func Open(ctx context.Context, backend, dsn string) (Store, error) {
	switch backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendSQLite:
		if dsn == "" {
			return nil, fmt.Errorf("sqlite store needs a database path")
		}
		s, err := OpenSQLite(dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMongo:
		if dsn == "" {
			return nil, fmt.Errorf("mongo store needs a connection URI")
		}
		s, err := OpenMongo(ctx, dsn, "")
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q (valid: memory, sqlite, mongo)", backend)
	}
}
