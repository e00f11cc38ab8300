// Package store keeps generated patterns so that clients can fetch and
// download them after the generate request has returned.
//
// Three backends implement [Store]:
//
//   - [MemoryStore]: process-local, the default for `hextile serve`
//   - [SQLiteStore]: a single file, survives restarts
//   - [MongoStore]: shared between several server instances
//
// Records are written once per generated variation and looked up by the
// pattern id ("pattern_<seed>_<index>").
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/matzehuels/hextile/pkg/errors"
	"github.com/matzehuels/hextile/pkg/layout"
)

// DefaultListLimit is used by List when limit is not positive.
const DefaultListLimit = 50

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New(errors.ErrCodePatternNotFound, "pattern not found")

// Store persists pattern records.
type Store interface {
	// Put inserts rec, replacing any record with the same id.
	Put(ctx context.Context, rec *Record) error

	// Get returns the record with the given id or [ErrNotFound].
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Delete removes a record. Deleting a missing id returns [ErrNotFound].
	Delete(ctx context.Context, id string) error

	Close() error
}

// Record is one stored pattern variation.
type Record struct {
	ID        string          `json:"id"`
	Seed      int64           `json:"seed"`
	Variation int             `json:"variation"`
	Params    layout.Params   `json:"params"`
	Pattern   *layout.Pattern `json:"pattern"`
	PNG       []byte          `json:"-"`
	CreatedAt time.Time       `json:"created_at"`
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

func checkRecord(rec *Record) error {
	if rec == nil || rec.Pattern == nil {
		return errors.New(errors.ErrCodeInvalidInput, "record has no pattern")
	}
	return errors.ValidatePatternID(rec.ID)
}

// body is the serialized params and pattern. SQL and Mongo rows keep it as
// one opaque JSON document next to their indexed columns.
type body struct {
	Params  layout.Params   `json:"params"`
	Pattern *layout.Pattern `json:"pattern"`
}

func encodeBody(rec *Record) ([]byte, error) {
	data, err := sonic.ConfigStd.Marshal(body{Params: rec.Params, Pattern: rec.Pattern})
	if err != nil {
		return nil, fmt.Errorf("encode record %s: %w", rec.ID, err)
	}
	return data, nil
}

func decodeBody(data []byte, rec *Record) error {
	var b body
	if err := sonic.ConfigStd.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("decode record %s: %w", rec.ID, err)
	}
	rec.Params, rec.Pattern = b.Params, b.Pattern
	return nil
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
