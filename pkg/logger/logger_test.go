package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(buf *bytes.Buffer, level slog.Level) Logger {
	h := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: level})
	return &slogLogger{logger: slog.New(h)}
}

func TestFieldsAndLevels(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf, slog.LevelDebug)
	ctx := context.Background()

	l.Info(ctx, "request handled",
		String("jobID", "job-1"),
		Int("count", 3),
		Float64("fit", 0.87),
	)

	out := buf.String()
	for _, want := range []string{"request handled", "jobID=job-1", "count=3", "fit=0.87", "level=INFO"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}

	buf.Reset()
	l.Error(ctx, "update failed", Error(errors.New("store unavailable")))
	out = buf.String()
	if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, "store unavailable") {
		t.Errorf("unexpected error output: %s", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf, slog.LevelWarn)
	ctx := context.Background()

	l.Debug(ctx, "noise")
	l.Info(ctx, "more noise")
	if buf.Len() != 0 {
		t.Errorf("expected below-threshold logs to be dropped, got: %s", buf.String())
	}

	l.Warn(ctx, "queue nearly full")
	if !strings.Contains(buf.String(), "queue nearly full") {
		t.Errorf("expected warning to pass the threshold, got: %s", buf.String())
	}
}

func TestNamed(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf, slog.LevelInfo).Named("worker")

	l.Info(context.Background(), "processing", String("requestID", "r1"))
	out := buf.String()
	if !strings.Contains(out, "worker.requestID=r1") {
		t.Errorf("expected fields grouped under the logger name, got: %s", out)
	}
}

func TestSetLevelString(t *testing.T) {
	cases := map[string]bool{
		"debug":   true,
		"info":    true,
		"":        true,
		"WARN":    true,
		"warning": true,
		"Error":   true,
		"verbose": false,
	}
	for input, ok := range cases {
		err := SetLevelString(input)
		if ok && err != nil {
			t.Errorf("SetLevelString(%q): unexpected error %v", input, err)
		}
		if !ok && err == nil {
			t.Errorf("SetLevelString(%q): expected error", input)
		}
	}
	// Restore the default for other tests in the package.
	SetLevel(slog.LevelInfo)
}
