package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"shelftidy/internal/audit"
	"shelftidy/internal/config"
	"shelftidy/internal/history"
	"shelftidy/internal/logging"
	"shelftidy/internal/organizer"
	"shelftidy/internal/plan"
)

// ErrAborted reports that the user ended the session early. Run treats it as
// a normal termination and still returns the partial summary.
var ErrAborted = errors.New("session aborted")

// Phase names one step of the session state machine.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseScanning   Phase = "scanning"
	PhasePlanning   Phase = "planning"
	PhaseAwaiting   Phase = "awaiting-confirmation"
	PhaseApplying   Phase = "applying"
	PhaseLogging    Phase = "logging"
	PhaseSummarized Phase = "summarized"
	PhaseAborted    Phase = "aborted"
)

// Options tune a single run.
type Options struct {
	// ApplyAll starts the session in apply-all mode, so no prompt is ever
	// shown. The channel still receives progress notes.
	ApplyAll bool
}

// Result is what a finished run produced.
type Result struct {
	SessionID string
	// Planned is the number of books that had proposed changes.
	Planned int
	// LogPath is the audit log written this run, or empty when the
	// library needed nothing.
	LogPath string
	Summary audit.Summary
}

// Controller owns one tidy session: the library lock, the session ID, the
// interaction channel, and the phase transitions. A controller is
// single-use; create a new one per run.
type Controller struct {
	cfg       *config.Config
	root      string
	channel   Channel
	organizer *organizer.Organizer
	store     *history.Store
	logger    *slog.Logger

	applyAll      bool
	phase         Phase
	sessionID     string
	historyActive bool
}

// New builds a controller for one run over root. The store may be nil when
// session history is disabled.
func New(cfg *config.Config, root string, channel Channel, store *history.Store, opts Options, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		cfg:       cfg,
		root:      root,
		channel:   channel,
		organizer: organizer.New(cfg, root, logger),
		store:     store,
		logger:    logging.NewComponentLogger(logger, "session"),
		applyAll:  opts.ApplyAll,
		phase:     PhaseIdle,
	}
}

// Phase reports the controller's current phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Run executes the full session: lock, scan, plan, confirm and apply book by
// book, write the audit log, and summarize. A user abort is not an error;
// the returned result then carries the partial summary.
func (c *Controller) Run(ctx context.Context) (Result, error) {
	c.sessionID = uuid.NewString()
	ctx = logging.WithSessionID(ctx, c.sessionID)
	logger := logging.WithContext(ctx, c.logger)
	result := Result{SessionID: c.sessionID}

	lock := flock.New(filepath.Join(c.root, config.LockFilename))
	locked, err := lock.TryLock()
	if err != nil {
		return result, fmt.Errorf("acquire library lock: %w", err)
	}
	if !locked {
		return result, fmt.Errorf("another session is already tidying %s", c.root)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("release library lock", logging.Error(err))
		}
	}()

	a, err := c.analyze(ctx)
	if err != nil {
		return result, err
	}
	result.Planned = a.proposals
	logger.Info("library analyzed",
		logging.Int("books", len(a.books)),
		logging.Int("planned", a.proposals),
		logging.Int("failures", a.failures))

	if a.proposals == 0 && a.failures == 0 {
		sink := audit.NewSink(nil, nil, c.logger)
		for _, b := range a.books {
			sink.AddBook(b)
		}
		result.Summary = sink.Summarize()
		c.setPhase(PhaseSummarized)
		return result, nil
	}

	logPath := filepath.Join(c.root, c.cfg.Library.AuditLogFilename)
	auditLog, err := audit.OpenLog(logPath)
	if err != nil {
		return result, fmt.Errorf("open audit log: %w", err)
	}
	result.LogPath = logPath

	var recorder audit.Recorder
	if c.store != nil {
		if err := c.store.BeginSession(ctx, c.sessionID, c.root, c.mode()); err != nil {
			logger.Warn("history disabled for this session", logging.Error(err))
		} else {
			c.historyActive = true
			recorder = c.store.Recorder(c.sessionID)
		}
	}

	sink := audit.NewSink(auditLog, recorder, c.logger)
	defer sink.Close()
	for _, b := range a.books {
		sink.AddBook(b)
	}

	sink.SessionStarted(a.proposals)
	runErr := c.pipeline(ctx, a, sink)
	sink.SessionEnded()

	result.Summary = sink.Summarize()
	c.finishHistory(ctx, result.Summary, logger)

	if runErr != nil {
		c.setPhase(PhaseAborted)
		if errors.Is(runErr, ErrAborted) {
			return result, nil
		}
		return result, runErr
	}
	c.setPhase(PhaseSummarized)
	logger.Info("session complete",
		logging.Int("applied", result.Summary.Applied),
		logging.Int("skipped", result.Summary.UserSkipped),
		logging.Int("collisions", result.Summary.Collisions))
	return result, nil
}

func (c *Controller) finishHistory(ctx context.Context, summary audit.Summary, logger *slog.Logger) {
	if !c.historyActive {
		return
	}
	// The session row must land even when the run context was cancelled.
	ctx = context.WithoutCancel(ctx)
	if err := c.store.FinishSession(ctx, c.sessionID, c.mode(), summary); err != nil {
		logger.Warn("finish history session", logging.Error(err))
	}
}

func (c *Controller) mode() string {
	if c.applyAll {
		return "apply-all"
	}
	return "confirm-each"
}

func (c *Controller) setPhase(p Phase) {
	c.phase = p
	c.logger.Debug("phase change", logging.String("phase", string(p)))
}

func (c *Controller) escalate() {
	if c.applyAll {
		return
	}
	c.applyAll = true
	c.logger.Info("apply-all engaged for the rest of the session")
}

func (c *Controller) report(kind NoteKind, format string, args ...any) {
	if c.channel == nil {
		return
	}
	c.channel.Report(Note{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// pipeline walks the ordered work items and settles each book completely
// before moving on. It returns ErrAborted on a user abort and the context
// error on cancellation; both leave later books untouched and unlogged.
func (c *Controller) pipeline(ctx context.Context, a *analysis, sink *audit.Sink) error {
	reviewed := 0
	for _, item := range a.items {
		if err := ctx.Err(); err != nil {
			sink.Record(ctx, audit.SessionAborted())
			return err
		}
		switch item.kind {
		case itemParseFailure:
			sink.Record(ctx, audit.ParseFailed(item.folder.Path, item.reason))
			c.report(NoteWarn, "cannot read %s: %s", filepath.Base(item.folder.Path), item.reason)
		case itemPlanFailure:
			sink.Record(ctx, audit.PlanFailed(item.book.Title, item.reason))
			c.report(NoteWarn, "cannot plan %q: %s", item.book.Title, item.reason)
		case itemTidy:
			// Already in place; counts toward library figures only.
		case itemProposal:
			reviewed++
			if err := c.settle(ctx, item, reviewed, a.proposals, sink); err != nil {
				return err
			}
		}
	}
	return nil
}

// settle resolves, confirms, and applies a single book.
func (c *Controller) settle(ctx context.Context, item workItem, index, total int, sink *audit.Sink) error {
	res := c.organizer.Resolve(item.plan)
	display := item.plan.DisplayName

	switch res.Action {
	case plan.ActionCollision:
		sink.Record(ctx, audit.BookCollision(display))
		for _, conflict := range res.Conflicts {
			sink.Record(ctx, audit.FileConflict(conflict.Move.Target))
		}
		c.report(NoteWarn, "collision: %s (%d files blocked)", display, len(res.Conflicts))
		return nil
	case plan.ActionSkipIdentical:
		sink.Record(ctx, audit.BookIdentical(display, len(res.Identical)))
		c.report(NoteInfo, "already in place: %s", display)
		return nil
	}

	if !c.applyAll {
		c.setPhase(PhaseAwaiting)
		if c.channel == nil {
			sink.Record(ctx, audit.SessionAborted())
			return errors.New("confirmation required but no interaction channel is attached")
		}
		decision, err := c.channel.Confirm(ctx, Review{
			Index:       index,
			Total:       total,
			Root:        c.root,
			DisplayName: display,
			SourceDir:   item.plan.SourceDir,
			TargetDir:   item.plan.TargetDir,
			Moves:       res.Pending,
		})
		if err != nil {
			sink.Record(ctx, audit.SessionAborted())
			return fmt.Errorf("confirmation failed: %w", err)
		}
		switch decision {
		case DecisionAbort:
			sink.Record(ctx, audit.SessionAborted())
			return ErrAborted
		case DecisionSkip:
			sink.Record(ctx, audit.BookSkipped(display))
			c.report(NoteInfo, "skipped %s", display)
			return nil
		case DecisionApplyAll:
			c.escalate()
		}
	}

	c.setPhase(PhaseApplying)
	sink.Record(ctx, audit.BookStarted(item.book.Title))
	applied, err := c.organizer.Apply(ctx, item.plan, res.Pending)

	c.setPhase(PhaseLogging)
	for _, moved := range applied.Moved {
		sink.Record(ctx, audit.FileMoved(moved.Source, moved.Target))
	}
	for _, dir := range applied.RemovedDirs {
		sink.Record(ctx, audit.DirRemoved(dir))
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			sink.Record(ctx, audit.SessionAborted())
			return err
		}
		sink.Record(ctx, audit.MoveFailed(display, err))
		c.report(NoteError, "move failed: %s: %v", display, err)
		return nil
	}
	sink.Record(ctx, audit.BookApplied(display))
	c.report(NoteInfo, "applied %s", display)
	return nil
}
