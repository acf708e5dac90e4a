package audit

import (
	"context"
	"fmt"

	"log/slog"

	"shelftidy/internal/logging"
	"shelftidy/internal/metadata"
)

// Recorder receives every audited entry as it is recorded. The run-history
// store implements it.
type Recorder interface {
	RecordEntry(ctx context.Context, e Entry) error
}

// Sink ties the audit log, the counters, and the optional history recorder
// together. A nil Log yields a stats-only sink for dry runs; a nil Recorder
// disables history forwarding. Failures on either side are logged and
// swallowed so the session itself never stalls on its own bookkeeping.
type Sink struct {
	log      *Log
	stats    *Stats
	recorder Recorder
	logger   *slog.Logger
}

// NewSink builds a sink around an open log.
func NewSink(log *Log, recorder Recorder, logger *slog.Logger) *Sink {
	return &Sink{
		log:      log,
		stats:    NewStats(),
		recorder: recorder,
		logger:   logging.NewComponentLogger(logger, "audit"),
	}
}

// AddBook folds one parsed record into the library figures.
func (s *Sink) AddBook(book metadata.Book) {
	s.stats.AddBook(book)
}

// SessionStarted writes the opening bracket line.
func (s *Sink) SessionStarted(books int) {
	s.event(fmt.Sprintf("--- SESSION START: %d books ---", books))
}

// SessionEnded writes the closing bracket line.
func (s *Sink) SessionEnded() {
	s.event("--- SESSION END ---")
}

// Record appends the entry's log line, updates the counters, and forwards
// the entry to the history store when one is attached.
func (s *Sink) Record(ctx context.Context, e Entry) {
	s.event(e.Message())
	s.stats.Observe(e)
	if s.recorder != nil {
		if err := s.recorder.RecordEntry(ctx, e); err != nil {
			s.logger.Warn("history record failed",
				logging.String("kind", string(e.Kind)),
				logging.Error(err))
		}
	}
}

// Summarize snapshots the current counters.
func (s *Sink) Summarize() Summary {
	return s.stats.Summarize()
}

// Close releases the underlying log file.
func (s *Sink) Close() error {
	if s.log == nil {
		return nil
	}
	return s.log.Close()
}

func (s *Sink) event(message string) {
	if s.log == nil {
		return
	}
	if err := s.log.Event(message); err != nil {
		s.logger.Warn("audit log write failed", logging.Error(err))
	}
}
