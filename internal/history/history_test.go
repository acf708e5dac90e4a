package history_test

import (
	"context"
	"testing"

	"shelftidy/internal/audit"
	"shelftidy/internal/testsupport"
)

func TestSessionLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	const id = "6a1f0c1e-0000-4000-8000-000000000001"
	if err := store.BeginSession(ctx, id, cfg.Paths.LibraryDir, "confirm-each"); err != nil {
		t.Fatalf("BeginSession: %v", err)
	}

	session, err := store.Session(ctx, id)
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if session == nil {
		t.Fatal("session not found after begin")
	}
	if session.Mode != "confirm-each" || session.FinishedAt != nil {
		t.Fatalf("session = %+v", session)
	}

	summary := audit.Summary{
		Books:       4,
		Applied:     2,
		Identical:   1,
		UserSkipped: 1,
		Collisions:  1,
		Aborted:     true,
	}
	if err := store.FinishSession(ctx, id, "apply-all", summary); err != nil {
		t.Fatalf("FinishSession: %v", err)
	}

	session, err = store.Session(ctx, id)
	if err != nil {
		t.Fatalf("Session after finish: %v", err)
	}
	if session.Mode != "apply-all" {
		t.Fatalf("mode = %q, want escalated mode recorded", session.Mode)
	}
	if session.FinishedAt == nil {
		t.Fatal("finished_at not stamped")
	}
	if session.Books != 4 || session.Applied != 2 || session.Identical != 1 || session.UserSkipped != 1 || session.Collisions != 1 {
		t.Fatalf("counters = %+v", session)
	}
	if !session.Aborted {
		t.Fatal("aborted flag lost")
	}
}

func TestUnknownSessionReturnsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)

	session, err := store.Session(context.Background(), "no-such-session")
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if session != nil {
		t.Fatalf("session = %+v, want nil", session)
	}
}

func TestOutcomesPreserveRecordedOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	const id = "6a1f0c1e-0000-4000-8000-000000000002"
	if err := store.BeginSession(ctx, id, cfg.Paths.LibraryDir, "apply-all"); err != nil {
		t.Fatalf("BeginSession: %v", err)
	}

	recorder := store.Recorder(id)
	entries := []audit.Entry{
		audit.BookStarted("Dune"),
		audit.FileMoved("/in/dune.m4b", "/lib/Frank Herbert/Dune/Frank Herbert - Dune.m4b"),
		audit.BookApplied("Frank Herbert - Dune"),
	}
	for _, e := range entries {
		if err := recorder.RecordEntry(ctx, e); err != nil {
			t.Fatalf("RecordEntry: %v", err)
		}
	}

	outcomes, err := store.Outcomes(ctx, id)
	if err != nil {
		t.Fatalf("Outcomes: %v", err)
	}
	if len(outcomes) != len(entries) {
		t.Fatalf("got %d outcomes, want %d", len(outcomes), len(entries))
	}
	for i, outcome := range outcomes {
		if outcome.Action != string(entries[i].Kind) {
			t.Fatalf("outcome %d action = %q, want %q", i, outcome.Action, entries[i].Kind)
		}
	}
	if outcomes[1].Source != "/in/dune.m4b" || outcomes[1].Target == "" {
		t.Fatalf("moved outcome lost its paths: %+v", outcomes[1])
	}
	if outcomes[0].OccurredAt.IsZero() {
		t.Fatal("occurred_at not recorded")
	}
}

func TestRecentSessionsNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	ids := []string{
		"6a1f0c1e-0000-4000-8000-00000000000a",
		"6a1f0c1e-0000-4000-8000-00000000000b",
		"6a1f0c1e-0000-4000-8000-00000000000c",
	}
	for _, id := range ids {
		if err := store.BeginSession(ctx, id, cfg.Paths.LibraryDir, "confirm-each"); err != nil {
			t.Fatalf("BeginSession(%s): %v", id, err)
		}
	}

	sessions, err := store.RecentSessions(ctx, 2)
	if err != nil {
		t.Fatalf("RecentSessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	for i := 1; i < len(sessions); i++ {
		if sessions[i].StartedAt.After(sessions[i-1].StartedAt) {
			t.Fatal("sessions not ordered newest first")
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	const id = "6a1f0c1e-0000-4000-8000-00000000000d"
	first := testsupport.MustOpenHistory(t, cfg)
	if err := first.BeginSession(ctx, id, cfg.Paths.LibraryDir, "confirm-each"); err != nil {
		t.Fatalf("BeginSession: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second := testsupport.MustOpenHistory(t, cfg)
	session, err := second.Session(ctx, id)
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if session == nil {
		t.Fatal("session lost across reopen")
	}
}
