package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blocktree/pkg/observability"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		emit  func(*log.Logger)
		want  bool
	}{
		{"info at info", log.InfoLevel, func(l *log.Logger) { l.Info("m") }, true},
		{"debug at info", log.InfoLevel, func(l *log.Logger) { l.Debug("m") }, false},
		{"debug at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("m") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("logged = %v, want %v", got, tt.want)
			}
			if tt.want && !strings.Contains(buf.String(), appName) {
				t.Errorf("output %q lacks the prefix", buf.String())
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Laid out %s", "main.c")
	out := buf.String()
	if !strings.Contains(out, "Laid out main.c") || !strings.Contains(out, "elapsed") {
		t.Errorf("output = %q", out)
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("empty context should yield the default logger")
	}
	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	if got := loggerFromContext(withLogger(context.Background(), l)); got != l {
		t.Error("attached logger not returned")
	}
}

func TestEnableDebugHooks(t *testing.T) {
	defer observability.Reset()
	var buf bytes.Buffer
	c := New(&buf, LogDebug)
	c.EnableDebugHooks()

	ctx := context.Background()
	observability.Edit().OnFold(ctx, "3.1", true)
	observability.Cache().OnCacheHit(ctx, "artifact")
	out := buf.String()
	for _, want := range []string{"fold", "3.1", "cache hit", "artifact"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q: %s", want, out)
		}
	}
}
