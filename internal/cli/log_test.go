package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level log.Level
		emit  func(*log.Logger)
		want  bool
	}{
		{log.InfoLevel, func(l *log.Logger) { l.Info("seed 42") }, true},
		{log.InfoLevel, func(l *log.Logger) { l.Debug("seed 42") }, false},
		{log.DebugLevel, func(l *log.Logger) { l.Debug("seed 42") }, true},
		{log.WarnLevel, func(l *log.Logger) { l.Info("seed 42") }, false},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		tt.emit(newLogger(&buf, tt.level))
		if got := strings.Contains(buf.String(), "seed 42"); got != tt.want {
			t.Errorf("level %v: logged = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)
	prog.done("Generated 3 layout(s)")

	out := buf.String()
	if !strings.Contains(out, "Generated 3 layout(s) (") || !strings.Contains(out, "ms)") {
		t.Errorf("progress output = %q", out)
	}
}

func TestContextLogger(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Fatal("loggerFromContext without a logger returned nil")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), custom)
	if got := loggerFromContext(ctx); got != custom {
		t.Fatalf("loggerFromContext = %p, want %p", got, custom)
	}
	loggerFromContext(ctx).Info("from context")
	if !strings.Contains(buf.String(), "from context") {
		t.Error("context logger did not write to its writer")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := &logHooks{logger: newLogger(&buf, log.DebugLevel)}
	ctx := context.Background()

	h.OnGenerateStart(ctx, 42, 60)
	h.OnGenerateComplete(ctx, 42, 66, time.Millisecond, nil)
	h.OnRenderStart(ctx, []string{"png"})
	h.OnRenderComplete(ctx, []string{"png"}, time.Millisecond, nil)
	h.OnCacheMiss(ctx, "pattern:abc")
	h.OnCacheSet(ctx, "pattern:abc", 128)
	h.OnCacheHit(ctx, "pattern:abc")

	out := buf.String()
	for _, want := range []string{"generated", "hexes=66", "rendered", "cache miss", "cache set", "bytes=128", "cache hit"} {
		if !strings.Contains(out, want) {
			t.Errorf("hook log missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksQuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	h := &logHooks{logger: newLogger(&buf, log.InfoLevel)}
	h.OnGenerateStart(context.Background(), 1, 10)
	h.OnCacheHit(context.Background(), "k")
	if buf.Len() != 0 {
		t.Errorf("debug hooks wrote at info level: %q", buf.String())
	}
}
