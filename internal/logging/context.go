package logging

import (
	"context"
	"log/slog"
	"strings"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldSessionID is the standardized structured logging key for tidy session identifiers.
	FieldSessionID = "session_id"
	// FieldBook is the standardized structured logging key for the book title being processed.
	FieldBook = "book"
	// FieldPhase is the standardized structured logging key for session controller phases.
	FieldPhase = "phase"
)

type contextKey string

const (
	sessionIDContextKey contextKey = "session_id"
	bookContextKey      contextKey = "book"
)

// WithSessionID stores the tidy session identifier on the context.
func WithSessionID(ctx context.Context, id string) context.Context {
	if strings.TrimSpace(id) == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDContextKey, id)
}

// SessionIDFromContext extracts the session identifier when present.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(sessionIDContextKey).(string)
	return id, ok && id != ""
}

// WithBook stores the title of the book currently being processed.
func WithBook(ctx context.Context, title string) context.Context {
	if strings.TrimSpace(title) == "" {
		return ctx
	}
	return context.WithValue(ctx, bookContextKey, title)
}

// BookFromContext extracts the current book title when present.
func BookFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	title, ok := ctx.Value(bookContextKey).(string)
	return title, ok && title != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := SessionIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldSessionID, id))
	}
	if title, ok := BookFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldBook, title))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
