package audit

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"

	"shelftidy/internal/metadata"
)

// Stats accumulates one session's library figures and outcome counters.
// Library figures cover every successfully parsed book whether or not it
// moves; outcome counters track what the session actually did.
type Stats struct {
	Books      int
	Standalone int
	TotalBytes int64
	Seconds    float64

	Applied       int
	FilesMoved    int
	Identical     int
	UserSkipped   int
	Collisions    int
	ParseFailures int
	PlanFailures  int
	MoveErrors    int
	Aborted       bool

	authors   map[string]struct{}
	narrators map[string]struct{}
	series    map[string]struct{}
	colliding map[string]struct{}
}

// NewStats returns an empty accumulator.
func NewStats() *Stats {
	return &Stats{
		authors:   make(map[string]struct{}),
		narrators: make(map[string]struct{}),
		series:    make(map[string]struct{}),
		colliding: make(map[string]struct{}),
	}
}

// AddBook folds one parsed record into the library figures.
func (s *Stats) AddBook(book metadata.Book) {
	s.Books++
	for _, author := range book.Authors {
		s.authors[author] = struct{}{}
	}
	for _, narrator := range book.Narrators {
		s.narrators[narrator] = struct{}{}
	}
	if book.SeriesName != "" {
		s.series[book.SeriesName] = struct{}{}
	} else {
		s.Standalone++
	}
	s.Seconds += book.DurationSeconds
	s.TotalBytes += book.SizeBytes
}

// Observe bumps the counters matching one recorded entry.
func (s *Stats) Observe(e Entry) {
	switch e.Kind {
	case KindMoved:
		s.FilesMoved++
	case KindApplied:
		s.Applied++
	case KindIdentical:
		s.Identical++
	case KindSkipped:
		s.UserSkipped++
	case KindCollision:
		s.Collisions++
	case KindConflict:
		s.colliding[filepath.Base(e.Target)] = struct{}{}
	case KindParseFailure:
		s.ParseFailures++
	case KindPlanFailure:
		s.PlanFailures++
	case KindError:
		s.MoveErrors++
	case KindAborted:
		s.Aborted = true
	}
}

// Summary is the final aggregate of one session.
type Summary struct {
	Books          int
	Authors        int
	Narrators      int
	Series         int
	Standalone     int
	TotalBytes     int64
	Seconds        float64
	Applied        int
	FilesMoved     int
	Identical      int
	UserSkipped    int
	Collisions     int
	CollidingFiles []string
	ParseFailures  int
	PlanFailures   int
	MoveErrors     int
	Aborted        bool
}

// Summarize snapshots the accumulator. It never mutates state; repeated
// calls return equal summaries.
func (s *Stats) Summarize() Summary {
	colliding := make([]string, 0, len(s.colliding))
	for name := range s.colliding {
		colliding = append(colliding, name)
	}
	sort.Strings(colliding)

	return Summary{
		Books:          s.Books,
		Authors:        len(s.authors),
		Narrators:      len(s.narrators),
		Series:         len(s.series),
		Standalone:     s.Standalone,
		TotalBytes:     s.TotalBytes,
		Seconds:        s.Seconds,
		Applied:        s.Applied,
		FilesMoved:     s.FilesMoved,
		Identical:      s.Identical,
		UserSkipped:    s.UserSkipped,
		Collisions:     s.Collisions,
		CollidingFiles: colliding,
		ParseFailures:  s.ParseFailures,
		PlanFailures:   s.PlanFailures,
		MoveErrors:     s.MoveErrors,
		Aborted:        s.Aborted,
	}
}

// FormatDuration renders seconds as H:MM:SS with uncapped hours.
func FormatDuration(seconds float64) string {
	total := int64(math.Round(seconds))
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := (total % 3600) / 60
	sec := total % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
}

// FormatSize renders a byte count on the 1024 ladder.
func FormatSize(value int64) string {
	const (
		kiB = int64(1024)
		miB = kiB * 1024
		giB = miB * 1024
	)
	switch {
	case value >= giB:
		return fmt.Sprintf("%.2f GiB", float64(value)/float64(giB))
	case value >= miB:
		return fmt.Sprintf("%.2f MiB", float64(value)/float64(miB))
	case value >= kiB:
		return fmt.Sprintf("%.2f KiB", float64(value)/float64(kiB))
	default:
		return fmt.Sprintf("%d B", value)
	}
}
