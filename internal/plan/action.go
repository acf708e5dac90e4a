package plan

// Action classifies what a session does with one planned book.
type Action int

const (
	// ActionMove means at least one file needs relocating and every
	// destination is free.
	ActionMove Action = iota
	// ActionSkipIdentical means every remaining destination already holds
	// an identical copy; the book is organized and nothing is touched.
	ActionSkipIdentical
	// ActionCollision means at least one destination is occupied by
	// different content. The whole book is deferred; nothing is moved.
	ActionCollision
)

func (a Action) String() string {
	switch a {
	case ActionMove:
		return "move"
	case ActionSkipIdentical:
		return "skip-identical"
	case ActionCollision:
		return "collision"
	default:
		return "unknown"
	}
}

// Conflict records one occupied destination and why it was rejected.
type Conflict struct {
	Move   FileMove
	Reason string
}

// Resolution is the live-filesystem classification of a BookPlan, produced
// by the organizer at decision time. Pending holds the files still needing
// a move, Identical the files whose destinations already match, and
// Conflicts the occupied destinations that force deferral.
type Resolution struct {
	Action    Action
	Pending   []FileMove
	Identical []FileMove
	Conflicts []Conflict
}
