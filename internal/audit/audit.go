package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

// Kind names the action recorded by one audit entry.
type Kind string

const (
	KindBookStart    Kind = "START BOOK"
	KindMoved        Kind = "MOVED"
	KindCleanup      Kind = "CLEANUP"
	KindApplied      Kind = "APPLIED"
	KindIdentical    Kind = "IDENTICAL"
	KindConflict     Kind = "CONFLICT"
	KindCollision    Kind = "COLLISION"
	KindSkipped      Kind = "SKIPPED"
	KindParseFailure Kind = "PARSE FAILURE"
	KindPlanFailure  Kind = "PLAN FAILURE"
	KindError        Kind = "ERROR"
	KindAborted      Kind = "ABORTED"
)

// Entry is one audited outcome. Source and Target carry full paths for the
// history store; Detail is the human-readable remainder of the log line.
type Entry struct {
	Kind   Kind
	Source string
	Target string
	Detail string
}

// Message renders the entry as it appears in the log, without the
// timestamp. File-level kinds are indented beneath their book line.
func (e Entry) Message() string {
	switch e.Kind {
	case KindMoved, KindConflict, KindCleanup:
		return "  " + string(e.Kind) + ": " + e.Detail
	}
	return string(e.Kind) + ": " + e.Detail
}

// BookStarted marks the beginning of one book's application.
func BookStarted(title string) Entry {
	return Entry{Kind: KindBookStart, Detail: title}
}

// FileMoved records one relocated file.
func FileMoved(source, target string) Entry {
	return Entry{
		Kind:   KindMoved,
		Source: source,
		Target: target,
		Detail: filepath.Base(source) + " -> " + filepath.Base(target),
	}
}

// DirRemoved records one pruned empty directory.
func DirRemoved(path string) Entry {
	return Entry{
		Kind:   KindCleanup,
		Source: path,
		Detail: "Removed empty dir " + filepath.Base(path),
	}
}

// BookApplied records a fully moved book.
func BookApplied(display string) Entry {
	return Entry{Kind: KindApplied, Detail: display}
}

// BookIdentical records a book whose destinations already hold identical
// copies.
func BookIdentical(display string, files int) Entry {
	return Entry{
		Kind:   KindIdentical,
		Detail: fmt.Sprintf("%s (%d files already at destination)", display, files),
	}
}

// FileConflict records one occupied destination.
func FileConflict(target string) Entry {
	return Entry{
		Kind:   KindConflict,
		Target: target,
		Detail: filepath.Base(target) + " already exists.",
	}
}

// BookCollision records a book deferred because a destination is occupied.
func BookCollision(display string) Entry {
	return Entry{Kind: KindCollision, Detail: display}
}

// BookSkipped records a book the user declined.
func BookSkipped(display string) Entry {
	return Entry{Kind: KindSkipped, Detail: display}
}

// ParseFailed records an unusable metadata descriptor.
func ParseFailed(dir, reason string) Entry {
	return Entry{
		Kind:   KindParseFailure,
		Source: dir,
		Detail: fmt.Sprintf("%s (%s)", dir, reason),
	}
}

// PlanFailed records a book whose path segments could not be planned.
func PlanFailed(title, reason string) Entry {
	return Entry{
		Kind:   KindPlanFailure,
		Detail: fmt.Sprintf("%s (%s)", title, reason),
	}
}

// MoveFailed records a filesystem failure while applying a book.
func MoveFailed(display string, err error) Entry {
	return Entry{Kind: KindError, Detail: fmt.Sprintf("%s: %v", display, err)}
}

// SessionAborted records the user ending the session early.
func SessionAborted() Entry {
	return Entry{Kind: KindAborted, Detail: "session ended by user"}
}

// Log is the append-only audit trail kept in the library root.
type Log struct {
	f    *os.File
	path string
}

// OpenLog opens or creates the audit log for appending.
func OpenLog(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	return &Log{f: f, path: path}, nil
}

// Event appends one timestamped line.
func (l *Log) Event(message string) error {
	_, err := fmt.Fprintf(l.f, "[%s] %s\n", time.Now().Format(timestampLayout), message)
	return err
}

// Path returns the log file location.
func (l *Log) Path() string { return l.path }

// Close releases the underlying file.
func (l *Log) Close() error { return l.f.Close() }
