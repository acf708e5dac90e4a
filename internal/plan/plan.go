package plan

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"shelftidy/internal/metadata"
	"shelftidy/internal/scan"
	"shelftidy/internal/textutil"
)

const defaultMinVolumeWidth = 2

// FileMove pairs one source file with its planned destination.
type FileMove struct {
	Source string
	Target string
}

// BookPlan is the planned relocation of one book folder. Moves lists only
// the files not already at their destination; an empty Moves means the book
// is already tidy and needs nothing.
type BookPlan struct {
	SourceDir   string
	TargetDir   string
	DisplayName string
	Moves       []FileMove
}

// PlanError reports a record whose path segments are unusable even after
// sanitizing. Planning failures are logged and counted like parse failures.
type PlanError struct {
	Title  string
	Reason string
}

func (e *PlanError) Error() string {
	return fmt.Sprintf("plan %q: %s", e.Title, e.Reason)
}

// Option adjusts planner construction.
type Option func(*Planner)

// WithMinVolumeWidth overrides the minimum zero-padding width for series
// volume numbers. Values below one are ignored.
func WithMinVolumeWidth(width int) Option {
	return func(p *Planner) {
		if width > 0 {
			p.minWidth = width
		}
	}
}

// Planner computes destination paths against a fixed library root.
type Planner struct {
	root     string
	minWidth int
	widths   map[string]int
}

// NewPlanner builds a planner for one session. The record set is scanned
// once to learn the widest integer sequence per series; books outside any
// series cost nothing here.
func NewPlanner(root string, books []metadata.Book, opts ...Option) *Planner {
	p := &Planner{
		root:     root,
		minWidth: defaultMinVolumeWidth,
		widths:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(p)
	}
	for _, book := range books {
		if !book.InSeries() {
			continue
		}
		author := textutil.SanitizeFileName(book.PrimaryAuthor())
		series := textutil.SanitizeFileName(book.SeriesName)
		if author == "" || series == "" {
			continue
		}
		key := seriesKey(author, series)
		if digits := integerDigits(book.SeriesSequence); digits > p.widths[key] {
			p.widths[key] = digits
		}
	}
	return p
}

// Plan computes the destination for one book. The folder inventory supplies
// the files to relocate; files already at their planned path are omitted
// from Moves. Plan never touches the filesystem.
func (p *Planner) Plan(book metadata.Book, folder scan.Folder) (BookPlan, error) {
	author := textutil.SanitizeFileName(book.PrimaryAuthor())
	if author == "" {
		return BookPlan{}, &PlanError{Title: book.Title, Reason: "author unusable after sanitizing"}
	}
	title := textutil.SanitizeFileName(book.Title)
	if title == "" {
		return BookPlan{}, &PlanError{Title: book.Title, Reason: "title unusable after sanitizing"}
	}

	var targetDir, display string
	if book.InSeries() {
		series := textutil.SanitizeFileName(book.SeriesName)
		if series == "" {
			return BookPlan{}, &PlanError{Title: book.Title, Reason: "series name unusable after sanitizing"}
		}
		padded := formatSequence(book.SeriesSequence, p.seriesWidth(author, series, book.SeriesSequence))
		display = fmt.Sprintf("%s - %s Vol %s - %s", author, series, padded, title)
		targetDir = filepath.Join(p.root, author, series, fmt.Sprintf("%s - %s", padded, title))
	} else {
		display = fmt.Sprintf("%s - %s", author, title)
		targetDir = filepath.Join(p.root, author, title)
	}

	result := BookPlan{
		SourceDir:   folder.Path,
		TargetDir:   targetDir,
		DisplayName: display,
	}
	for i, file := range folder.Audio {
		stem := display
		if len(folder.Audio) > 1 {
			stem = fmt.Sprintf("%s - %02d", display, i+1)
		}
		target := filepath.Join(targetDir, stem+filepath.Ext(file.Name))
		if file.Path == target {
			continue
		}
		result.Moves = append(result.Moves, FileMove{Source: file.Path, Target: target})
	}
	for _, file := range folder.Extras {
		target := filepath.Join(targetDir, file.Name)
		if file.Path == target {
			continue
		}
		result.Moves = append(result.Moves, FileMove{Source: file.Path, Target: target})
	}
	return result, nil
}

// seriesWidth returns the padding width for one series: the widest integer
// sequence seen in the pre-pass, the book's own sequence, or the configured
// minimum, whichever is largest.
func (p *Planner) seriesWidth(author, series string, sequence float64) int {
	width := p.widths[seriesKey(author, series)]
	if own := integerDigits(sequence); own > width {
		width = own
	}
	if width < p.minWidth {
		width = p.minWidth
	}
	return width
}

func seriesKey(author, series string) string {
	return author + "/" + series
}

// integerDigits counts the digits of the integer portion of a sequence, so
// 2.5 counts one digit and 150 counts three.
func integerDigits(sequence float64) int {
	if sequence < 0 {
		sequence = -sequence
	}
	text := strconv.FormatFloat(sequence, 'f', -1, 64)
	intPart, _, _ := strings.Cut(text, ".")
	return len(intPart)
}

// formatSequence zero-pads the integer portion of a sequence to the given
// width, keeping any fractional part intact: sequence 2.5 at width 2
// renders as "02.5".
func formatSequence(sequence float64, width int) string {
	text := strconv.FormatFloat(sequence, 'f', -1, 64)
	intPart, fraction, hasFraction := strings.Cut(text, ".")
	for len(intPart) < width {
		intPart = "0" + intPart
	}
	if hasFraction {
		return intPart + "." + fraction
	}
	return intPart
}
