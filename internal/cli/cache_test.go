package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/hextile/pkg/cache"
)

func TestCacheClearCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	ctx := context.Background()

	cc, err := newCache(ctx, false)
	if err != nil {
		t.Fatalf("newCache: %v", err)
	}
	if err := cc.Set(ctx, "pattern:a", []byte("x"), cache.TTLPattern); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"cache", "clear"})
	if err := root.Execute(); err != nil {
		t.Fatalf("cache clear: %v", err)
	}

	if _, hit, _ := cc.Get(ctx, "pattern:a"); hit {
		t.Error("entry survived cache clear")
	}
}

func TestNewCacheDisabled(t *testing.T) {
	cc, err := newCache(context.Background(), true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cc.(*cache.NullCache); !ok {
		t.Errorf("newCache(noCache) = %T, want *cache.NullCache", cc)
	}
}

func TestCacheInfoCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	ctx := context.Background()

	cc, err := newCache(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"pattern:a", "pattern:b"} {
		if err := cc.Set(ctx, key, []byte("data"), cache.TTLPattern); err != nil {
			t.Fatal(err)
		}
	}

	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"cache", "info"})
	if err := root.Execute(); err != nil {
		t.Fatalf("cache info: %v", err)
	}
	if !strings.Contains(out.String(), "2 entries") {
		t.Errorf("cache info output:\n%s", out.String())
	}
}
