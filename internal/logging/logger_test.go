package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(level slog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)
	return slog.New(newPrettyHandler(&buf, levelVar)), &buf
}

func TestPrettyHandlerFormatsComponentPrefix(t *testing.T) {
	logger, buf := newBufferLogger(slog.LevelInfo)
	logger = NewComponentLogger(logger, "organizer")

	logger.Info("moved book", String("title", "Dune"))

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, " INFO organizer: moved book") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "title=Dune") {
		t.Fatalf("missing attribute in line: %q", line)
	}
}

func TestPrettyHandlerQuotesValuesWithSpaces(t *testing.T) {
	logger, buf := newBufferLogger(slog.LevelInfo)

	logger.Info("planned", String("target", "Frank Herbert - Dune"))

	if !strings.Contains(buf.String(), `target="Frank Herbert - Dune"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestPrettyHandlerHonorsLevel(t *testing.T) {
	logger, buf := newBufferLogger(slog.LevelWarn)

	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be suppressed: %q", out)
	}
	if !strings.Contains(out, "WARN visible") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestWithContextAddsSessionFields(t *testing.T) {
	logger, buf := newBufferLogger(slog.LevelInfo)

	ctx := WithSessionID(context.Background(), "abc-123")
	ctx = WithBook(ctx, "Dune Messiah")
	WithContext(ctx, logger).Info("processing")

	out := buf.String()
	if !strings.Contains(out, "session_id=abc-123") {
		t.Fatalf("session_id missing: %q", out)
	}
	if !strings.Contains(out, `book="Dune Messiah"`) {
		t.Fatalf("book missing: %q", out)
	}
}

func TestWithContextNilLogger(t *testing.T) {
	if WithContext(context.Background(), nil) == nil {
		t.Fatal("expected fallback logger")
	}
}

func TestErrorAttrNil(t *testing.T) {
	attr := Error(nil)
	if attr.Value.String() != "<nil>" {
		t.Fatalf("Error(nil) = %q, want <nil>", attr.Value.String())
	}
}
