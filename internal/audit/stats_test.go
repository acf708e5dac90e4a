package audit_test

import (
	"reflect"
	"testing"

	"shelftidy/internal/audit"
	"shelftidy/internal/metadata"
)

func TestStatsLibraryFigures(t *testing.T) {
	stats := audit.NewStats()
	stats.AddBook(metadata.Book{
		Title:           "Dune",
		Authors:         []string{"Frank Herbert"},
		Narrators:       []string{"Scott Brick"},
		SeriesName:      "Dune",
		SeriesSequence:  1,
		HasSequence:     true,
		DurationSeconds: 3600,
		SizeBytes:       1 << 30,
	})
	stats.AddBook(metadata.Book{
		Title:           "Dune Messiah",
		Authors:         []string{"Frank Herbert"},
		Narrators:       []string{"Scott Brick", "Katherine Kellgren"},
		SeriesName:      "Dune",
		SeriesSequence:  2,
		HasSequence:     true,
		DurationSeconds: 1800,
		SizeBytes:       1 << 20,
	})
	stats.AddBook(metadata.Book{
		Title:           "The Dispossessed",
		Authors:         []string{"Ursula K. Le Guin"},
		DurationSeconds: 600,
		SizeBytes:       512,
	})

	summary := stats.Summarize()
	if summary.Books != 3 {
		t.Fatalf("books = %d", summary.Books)
	}
	if summary.Authors != 2 {
		t.Fatalf("authors = %d", summary.Authors)
	}
	if summary.Narrators != 2 {
		t.Fatalf("narrators = %d", summary.Narrators)
	}
	if summary.Series != 1 {
		t.Fatalf("series = %d", summary.Series)
	}
	if summary.Standalone != 1 {
		t.Fatalf("standalone = %d", summary.Standalone)
	}
	if summary.Seconds != 6000 {
		t.Fatalf("seconds = %v", summary.Seconds)
	}
	if summary.TotalBytes != 1<<30+1<<20+512 {
		t.Fatalf("bytes = %d", summary.TotalBytes)
	}
}

func TestStatsCountersFollowEntries(t *testing.T) {
	stats := audit.NewStats()
	stats.Observe(audit.BookApplied("a"))
	stats.Observe(audit.BookApplied("b"))
	stats.Observe(audit.FileMoved("/x/1.m4b", "/y/1.m4b"))
	stats.Observe(audit.BookIdentical("c", 1))
	stats.Observe(audit.BookSkipped("d"))
	stats.Observe(audit.BookCollision("e"))
	stats.Observe(audit.FileConflict("/lib/e/cover.jpg"))
	stats.Observe(audit.FileConflict("/lib/other/cover.jpg"))
	stats.Observe(audit.FileConflict("/lib/e/notes.txt"))
	stats.Observe(audit.ParseFailed("/lib/bad", "malformed metadata descriptor"))
	stats.Observe(audit.PlanFailed("???", "title unusable after sanitizing"))
	stats.Observe(audit.SessionAborted())

	summary := stats.Summarize()
	if summary.Applied != 2 || summary.FilesMoved != 1 || summary.Identical != 1 || summary.UserSkipped != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.Collisions != 1 {
		t.Fatalf("collisions = %d", summary.Collisions)
	}
	// Colliding file names are unique and sorted.
	want := []string{"cover.jpg", "notes.txt"}
	if !reflect.DeepEqual(summary.CollidingFiles, want) {
		t.Fatalf("colliding files = %v, want %v", summary.CollidingFiles, want)
	}
	if summary.ParseFailures != 1 || summary.PlanFailures != 1 {
		t.Fatalf("failures = %+v", summary)
	}
	if !summary.Aborted {
		t.Fatal("aborted flag not set")
	}
}

func TestSummarizeIsIdempotent(t *testing.T) {
	stats := audit.NewStats()
	stats.AddBook(metadata.Book{Title: "Dune", Authors: []string{"Frank Herbert"}})
	stats.Observe(audit.BookApplied("Frank Herbert - Dune"))

	first := stats.Summarize()
	second := stats.Summarize()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("summaries differ: %+v vs %+v", first, second)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00:00"},
		{59, "0:00:59"},
		{3661, "1:01:01"},
		{29520, "8:12:00"},
		{90000, "25:00:00"},
		{10800.5, "3:00:01"},
	}
	for _, tc := range cases {
		if got := audit.FormatDuration(tc.seconds); got != tc.want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestFormatSize(t *testing.T) {
	cases := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{2048, "2.00 KiB"},
		{3 * 1024 * 1024, "3.00 MiB"},
		{5 << 30, "5.00 GiB"},
	}
	for _, tc := range cases {
		if got := audit.FormatSize(tc.bytes); got != tc.want {
			t.Fatalf("FormatSize(%d) = %q, want %q", tc.bytes, got, tc.want)
		}
	}
}
