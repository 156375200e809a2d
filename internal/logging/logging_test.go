package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestContextLogger(t *testing.T) {
	t.Run("round trips through context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, "info")
		ctx := ContextWithLogger(context.Background(), logger)

		if FromContext(ctx) != logger {
			t.Fatalf("expected logger to be retrievable from context")
		}
		FromContextOr(ctx, nil).Info("hello", "user_id", 7)
		if !strings.Contains(buf.String(), `"user_id":7`) {
			t.Fatalf("expected structured attribute in output, got %s", buf.String())
		}
	})

	t.Run("falls back when absent", func(t *testing.T) {
		fallback := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		if got := FromContextOr(context.Background(), fallback); got != fallback {
			t.Fatalf("expected fallback logger")
		}
		if FromContext(context.Background()) != nil {
			t.Fatalf("expected nil logger for bare context")
		}
	})
}
