package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps records in a SQLite database file.
type SQLiteStore struct {
	conn *sqlx.DB
}

// sqliteRow is the table layout of a record.
type sqliteRow struct {
	ID        string `db:"id"`
	Seed      int64  `db:"seed"`
	Variation int    `db:"variation"`
	Body      []byte `db:"body"`
	PNG       []byte `db:"png"`
	CreatedAt int64  `db:"created_at"` // unix nanoseconds
}

// OpenSQLite opens or creates a SQLite database at path in WAL mode and
// applies the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS patterns (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		variation INTEGER NOT NULL,
		body BLOB NOT NULL,
		png BLOB,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_patterns_created ON patterns(created_at);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Put inserts or replaces rec.
func (s *SQLiteStore) Put(ctx context.Context, rec *Record) error {
	if err := checkRecord(rec); err != nil {
		return err
	}
	data, err := encodeBody(rec)
	if err != nil {
		return err
	}
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err = s.conn.NamedExecContext(ctx, `INSERT OR REPLACE INTO patterns
		(id, seed, variation, body, png, created_at)
		VALUES (:id, :seed, :variation, :body, :png, :created_at)`,
		sqliteRow{
			ID:        rec.ID,
			Seed:      rec.Seed,
			Variation: rec.Variation,
			Body:      data,
			PNG:       rec.PNG,
			CreatedAt: created.UnixNano(),
		})
	if err != nil {
		return fmt.Errorf("put %s: %w", rec.ID, err)
	}
	return nil
}

// Get returns the record with the given id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	var row sqliteRow
	err := s.conn.GetContext(ctx, &row, "SELECT * FROM patterns WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	return row.record()
}

// List returns up to limit records, newest first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]*Record, error) {
	var rows []sqliteRow
	err := s.conn.SelectContext(ctx, &rows,
		"SELECT * FROM patterns ORDER BY created_at DESC, id ASC LIMIT ?", listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	out := make([]*Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Delete removes the record with the given id.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, "DELETE FROM patterns WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound(id)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func (row sqliteRow) record() (*Record, error) {
	rec := &Record{
		ID:        row.ID,
		Seed:      row.Seed,
		Variation: row.Variation,
		PNG:       row.PNG,
		CreatedAt: time.Unix(0, row.CreatedAt),
	}
	if err := decodeBody(row.Body, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

var _ Store = (*SQLiteStore)(nil)
