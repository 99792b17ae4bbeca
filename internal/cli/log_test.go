package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stagger/pkg/observability"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
		{"warn at error level", log.ErrorLevel, func(l *log.Logger) { l.Warn("test") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if gotLog := buf.Len() > 0; gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(10 * time.Millisecond)
	prog.done("Rendered 2 artifacts")

	out := buf.String()
	if !strings.Contains(out, "Rendered 2 artifacts (") || !strings.Contains(out, "ms)") {
		t.Errorf("progress output = %q, want message with elapsed time", out)
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext without a logger should return log.Default()")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), custom)
	if loggerFromContext(ctx) != custom {
		t.Fatal("loggerFromContext should return the attached logger")
	}
}

func TestLogHooks(t *testing.T) {
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	registerLogHooks(newLogger(&buf, log.DebugLevel))
	ctx := context.Background()

	tests := []struct {
		name string
		emit func()
		want []string
	}{
		{"layout start", func() { observability.Layout().OnLayoutStart(ctx, 3, 19) }, []string{"layout start", "rows=3", "children=19"}},
		{"layout done", func() { observability.Layout().OnLayoutComplete(ctx, 3, 19, time.Millisecond, nil) }, []string{"layout done", "duration"}},
		{"layout failed", func() {
			observability.Layout().OnLayoutComplete(ctx, 0, 1, 0, stderrors.New("bad rows"))
		}, []string{"layout failed", "bad rows"}},
		{"cache hit", func() { observability.Cache().OnCacheHit(ctx, "artifact") }, []string{"cache hit", "type=artifact"}},
		{"cache miss", func() { observability.Cache().OnCacheMiss(ctx, "artifact") }, []string{"cache miss"}},
		{"cache set", func() { observability.Cache().OnCacheSet(ctx, "artifact", 42) }, []string{"cache set", "bytes=42"}},
		{"todo", func() { observability.Todo().OnTodoChange(ctx, "add", "abc") }, []string{"todo add", "id=abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.emit()
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("log %q missing %q", buf.String(), want)
				}
			}
		})
	}
}

func TestSetLogLevel(t *testing.T) {
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)
	c.SetLogLevel(log.DebugLevel)
	c.Logger.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Error("debug output should be visible after SetLogLevel(debug)")
	}

	buf.Reset()
	observability.Cache().OnCacheMiss(context.Background(), "artifact")
	if !strings.Contains(buf.String(), "cache miss") {
		t.Error("debug level should route hooks to the logger")
	}
}
