package store

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/matzehuels/hextile/pkg/errors"
	"github.com/matzehuels/hextile/pkg/layout"
)

func record(t *testing.T, i int, created time.Time) *Record {
	t.Helper()
	p := layout.DefaultParams()
	p.TotalTiles = 12
	p.Counts = []int{6, 4, 2}
	p.Tendrils = 0
	p.Seed = int64(100 + i)
	pat, err := layout.Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return &Record{
		ID:        fmt.Sprintf("pattern_%d_%d", p.Seed, i),
		Seed:      p.Seed,
		Variation: i,
		Params:    p,
		Pattern:   pat,
		PNG:       []byte{0x89, 'P', 'N', 'G', byte(i)},
		CreatedAt: created,
	}
}

// exercise runs the behaviour every backend must share.
func exercise(t *testing.T, s Store) {
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	var recs []*Record
	for i := range 3 {
		rec := record(t, i, base.Add(time.Duration(i)*time.Second))
		if err := s.Put(ctx, rec); err != nil {
			t.Fatalf("Put(%s): %v", rec.ID, err)
		}
		recs = append(recs, rec)
	}

	got, err := s.Get(ctx, recs[1].ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Seed != recs[1].Seed || got.Variation != 1 {
		t.Errorf("Get metadata = seed %d variation %d", got.Seed, got.Variation)
	}
	if !reflect.DeepEqual(got.Pattern.Hexes, recs[1].Pattern.Hexes) || !reflect.DeepEqual(got.Pattern.Colors, recs[1].Pattern.Colors) {
		t.Error("Get returned a different pattern")
	}
	if !reflect.DeepEqual(got.Params.Colors, recs[1].Params.Colors) {
		t.Error("Get returned different params")
	}
	if !bytes.Equal(got.PNG, recs[1].PNG) {
		t.Errorf("PNG = %v, want %v", got.PNG, recs[1].PNG)
	}
	if !got.CreatedAt.Equal(recs[1].CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, recs[1].CreatedAt)
	}

	_, err = s.Get(ctx, "pattern_missing_0")
	if !stderrors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
	if !errors.IsNotFound(err) {
		t.Errorf("Get(missing) error %v should map to not found", err)
	}

	list, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != recs[2].ID || list[1].ID != recs[1].ID {
		ids := make([]string, len(list))
		for i, r := range list {
			ids[i] = r.ID
		}
		t.Errorf("List(2) = %v, want newest first", ids)
	}

	replaced := *recs[0]
	replaced.PNG = []byte("new")
	if err := s.Put(ctx, &replaced); err != nil {
		t.Fatalf("Put(replace): %v", err)
	}
	if got, _ := s.Get(ctx, recs[0].ID); got == nil || string(got.PNG) != "new" {
		t.Error("Put did not replace the existing record")
	}
	if all, _ := s.List(ctx, 0); len(all) != 3 {
		t.Errorf("List after replace has %d records, want 3", len(all))
	}

	if err := s.Delete(ctx, recs[2].ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, recs[2].ID); !stderrors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete error = %v", err)
	}
	if err := s.Delete(ctx, recs[2].ID); !stderrors.Is(err, ErrNotFound) {
		t.Errorf("Delete(missing) error = %v", err)
	}

	if err := s.Put(ctx, &Record{ID: "pattern_1_0"}); err == nil {
		t.Error("Put without pattern should fail")
	}
	bad := record(t, 0, base)
	bad.ID = "../etc"
	if err := s.Put(ctx, bad); err == nil {
		t.Error("Put with invalid id should fail")
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exercise(t, s)
}

func TestMemoryStoreCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	rec := record(t, 0, time.Now())
	if err := s.Put(ctx, rec); err != nil {
		t.Fatal(err)
	}
	rec.Seed = -1
	got, _ := s.Get(ctx, rec.ID)
	if got.Seed == -1 {
		t.Error("store shares the caller's record")
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "patterns.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer s.Close()
	exercise(t, s)
}

func TestSQLiteStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	rec := record(t, 0, time.Now())
	if err := s.Put(ctx, rec); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if _, err := s.Get(ctx, rec.ID); err != nil {
		t.Errorf("record lost across reopen: %v", err)
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("HEXTILE_MONGO_URI")
	if uri == "" {
		t.Skip("HEXTILE_MONGO_URI not set")
	}
	ctx := context.Background()
	db := fmt.Sprintf("hextile_test_%d", time.Now().UnixNano())
	s, err := OpenMongo(ctx, uri, db)
	if err != nil {
		t.Fatalf("OpenMongo: %v", err)
	}
	defer func() {
		_ = s.client.Database(db).Drop(ctx)
		s.Close()
	}()
	exercise(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, "", "")
	if err != nil {
		t.Fatalf("Open(default): %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("default backend = %T, want *MemoryStore", s)
	}

	s, err = Open(ctx, BackendSQLite, filepath.Join(t.TempDir(), "x.db"))
	if err != nil {
		t.Fatalf("Open(sqlite): %v", err)
	}
	s.Close()

	for _, tc := range []struct{ backend, dsn string }{
		{BackendSQLite, ""},
		{BackendMongo, ""},
		{"postgres", "x"},
	} {
		if _, err := Open(ctx, tc.backend, tc.dsn); err == nil {
			t.Errorf("Open(%q, %q) should fail", tc.backend, tc.dsn)
		}
	}
}
