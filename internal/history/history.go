package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"shelftidy/internal/audit"
	"shelftidy/internal/config"
)

// Store manages session history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database under the configured
// log directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.HistoryDBPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Session is one recorded tidy run.
type Session struct {
	ID            string
	LibraryRoot   string
	Mode          string
	StartedAt     time.Time
	FinishedAt    *time.Time
	Books         int
	Applied       int
	Identical     int
	UserSkipped   int
	Collisions    int
	ParseFailures int
	PlanFailures  int
	MoveErrors    int
	Aborted       bool
}

// Outcome is one recorded audit entry within a session.
type Outcome struct {
	SessionID  string
	OccurredAt time.Time
	Action     string
	Source     string
	Target     string
	Detail     string
}

// BeginSession inserts a new session row in its starting state.
func (s *Store) BeginSession(ctx context.Context, id, libraryRoot, mode string) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO sessions (id, library_root, mode, started_at) VALUES (?, ?, ?, ?)`,
		id,
		libraryRoot,
		mode,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// RecordOutcome appends one audited entry to a session.
func (s *Store) RecordOutcome(ctx context.Context, sessionID string, e audit.Entry) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO outcomes (session_id, occurred_at, action, source, target, detail)
         VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID,
		time.Now().UTC().Format(time.RFC3339Nano),
		string(e.Kind),
		nullableString(e.Source),
		nullableString(e.Target),
		nullableString(e.Detail),
	)
	if err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

// FinishSession stores the final mode and counters and stamps the end time.
func (s *Store) FinishSession(ctx context.Context, id, mode string, summary audit.Summary) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE sessions
         SET mode = ?, finished_at = ?, books = ?, applied = ?, identical = ?,
             user_skipped = ?, collisions = ?, parse_failures = ?, plan_failures = ?,
             move_errors = ?, aborted = ?
         WHERE id = ?`,
		mode,
		time.Now().UTC().Format(time.RFC3339Nano),
		summary.Books,
		summary.Applied,
		summary.Identical,
		summary.UserSkipped,
		summary.Collisions,
		summary.ParseFailures,
		summary.PlanFailures,
		summary.MoveErrors,
		boolToInt(summary.Aborted),
		id,
	)
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	return nil
}

// Session fetches one session by identifier. Unknown IDs return nil.
func (s *Store) Session(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// RecentSessions returns the newest sessions first.
func (s *Store) RecentSessions(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+sessionColumns+` FROM sessions ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	return sessions, rows.Err()
}

// Outcomes returns a session's entries in recorded order.
func (s *Store) Outcomes(ctx context.Context, sessionID string) ([]Outcome, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT session_id, occurred_at, action, source, target, detail
         FROM outcomes WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []Outcome
	for rows.Next() {
		var (
			outcome     Outcome
			occurredRaw string
			source      sql.NullString
			target      sql.NullString
			detail      sql.NullString
		)
		if err := rows.Scan(&outcome.SessionID, &occurredRaw, &outcome.Action, &source, &target, &detail); err != nil {
			return nil, err
		}
		outcome.Source = source.String
		outcome.Target = target.String
		outcome.Detail = detail.String
		if occurred, err := parseTimeString(occurredRaw); err == nil {
			outcome.OccurredAt = occurred
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, rows.Err()
}

// Recorder binds a session ID to the store so the audit sink can forward
// entries without knowing about history.
func (s *Store) Recorder(sessionID string) *SessionRecorder {
	return &SessionRecorder{store: s, sessionID: sessionID}
}

// SessionRecorder implements audit.Recorder for one session.
type SessionRecorder struct {
	store     *Store
	sessionID string
}

// RecordEntry forwards one audit entry into the outcomes table.
func (r *SessionRecorder) RecordEntry(ctx context.Context, e audit.Entry) error {
	return r.store.RecordOutcome(ctx, r.sessionID, e)
}

const sessionColumns = "id, library_root, mode, started_at, finished_at, books, applied, identical, user_skipped, collisions, parse_failures, plan_failures, move_errors, aborted"

func scanSession(scanner interface{ Scan(dest ...any) error }) (*Session, error) {
	var (
		session     Session
		startedRaw  string
		finishedRaw sql.NullString
		aborted     int
	)
	if err := scanner.Scan(
		&session.ID,
		&session.LibraryRoot,
		&session.Mode,
		&startedRaw,
		&finishedRaw,
		&session.Books,
		&session.Applied,
		&session.Identical,
		&session.UserSkipped,
		&session.Collisions,
		&session.ParseFailures,
		&session.PlanFailures,
		&session.MoveErrors,
		&aborted,
	); err != nil {
		return nil, err
	}

	session.Aborted = aborted != 0
	if started, err := parseTimeString(startedRaw); err == nil {
		session.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			session.FinishedAt = &finished
		}
	}
	return &session, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
