package session

import (
	"context"

	"shelftidy/internal/plan"
)

// Decision is the user's answer to a single confirmation prompt.
type Decision int

const (
	// DecisionApprove applies the presented book and prompts again for the next.
	DecisionApprove Decision = iota
	// DecisionApplyAll applies the presented book and every later one without
	// further prompting. The escalation is one-way for the rest of the run.
	DecisionApplyAll
	// DecisionSkip leaves the presented book untouched.
	DecisionSkip
	// DecisionAbort ends the session before the presented book is touched.
	DecisionAbort
)

// String returns the lowercase name of the decision.
func (d Decision) String() string {
	switch d {
	case DecisionApprove:
		return "approve"
	case DecisionApplyAll:
		return "apply-all"
	case DecisionSkip:
		return "skip"
	case DecisionAbort:
		return "abort"
	default:
		return "unknown"
	}
}

// Review describes one proposed change set for a confirmation prompt.
type Review struct {
	// Index is the 1-based position among the books that need changes.
	Index int
	// Total is the number of books that need changes this session.
	Total int
	// Root is the library root, for rendering paths relative to it.
	Root        string
	DisplayName string
	SourceDir   string
	TargetDir   string
	// Moves lists only the renames that would actually happen.
	Moves []plan.FileMove
}

// NoteKind classifies a progress note for rendering.
type NoteKind int

const (
	NoteInfo NoteKind = iota
	NoteWarn
	NoteError
)

// Note is a non-prompting progress report emitted while the session runs.
type Note struct {
	Kind    NoteKind
	Message string
}

// Channel is the interaction seam between the controller and the user.
// Confirm blocks until a decision is made; Report never blocks on input.
// Implementations must be safe for sequential use from a single goroutine.
type Channel interface {
	Confirm(ctx context.Context, review Review) (Decision, error)
	Report(note Note)
}
