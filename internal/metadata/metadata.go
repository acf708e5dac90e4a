// Package metadata converts raw book descriptors into normalized records.
//
// The extractor is deliberately tolerant about descriptor shape: authors may
// be plain strings or objects with a name field, series information may be a
// structured object or the legacy "Name #2" string, and sequence numbers may
// arrive as JSON numbers or numeric text. What it is never tolerant about is
// the two fields path planning depends on: a record without a usable title
// or at least one author is a parse failure, not a guess.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"shelftidy/internal/scan"
)

// Book is the normalized record derived from one metadata descriptor.
type Book struct {
	Title           string
	Authors         []string
	Narrators       []string
	SeriesName      string
	SeriesSequence  float64
	HasSequence     bool
	DurationSeconds float64
	SizeBytes       int64
	SourceDir       string
}

// PrimaryAuthor returns the first listed author, the one used for folder
// placement. Multi-author books are never split across folders.
func (b Book) PrimaryAuthor() string {
	if len(b.Authors) == 0 {
		return ""
	}
	return b.Authors[0]
}

// InSeries reports whether the book uses the series layout: both a series
// name and a numeric sequence are required. A name without a sequence (or
// the reverse) downgrades to the standard layout.
func (b Book) InSeries() bool {
	return b.SeriesName != "" && b.HasSequence
}

// ParseError reports an unusable metadata descriptor. Books with parse
// errors are logged and counted, never silently defaulted.
type ParseError struct {
	Dir    string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("metadata in %s: %s: %v", e.Dir, e.Reason, e.Err)
	}
	return fmt.Sprintf("metadata in %s: %s", e.Dir, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

type rawSeries struct {
	Name     string          `json:"name"`
	Sequence json.RawMessage `json:"sequence"`
}

type rawBook struct {
	Title        string          `json:"title"`
	Authors      json.RawMessage `json:"authors"`
	AuthorName   string          `json:"authorName"`
	Narrators    json.RawMessage `json:"narrators"`
	NarratorName string          `json:"narratorName"`
	Series       json.RawMessage `json:"series"`
	SeriesName   string          `json:"seriesName"`
	Duration     json.RawMessage `json:"duration"`
	Size         int64           `json:"size"`
}

// Extract reads the folder's metadata descriptor and builds a Book. The
// returned error is always a *ParseError; extraction never touches the
// filesystem beyond reading.
func Extract(folder scan.Folder) (Book, error) {
	if folder.MetadataPath == "" {
		return Book{}, &ParseError{Dir: folder.Path, Reason: "metadata descriptor missing"}
	}

	data, err := os.ReadFile(folder.MetadataPath)
	if err != nil {
		return Book{}, &ParseError{Dir: folder.Path, Reason: "read metadata descriptor", Err: err}
	}

	var raw rawBook
	if err := json.Unmarshal(data, &raw); err != nil {
		return Book{}, &ParseError{Dir: folder.Path, Reason: "malformed metadata descriptor", Err: err}
	}

	book := Book{
		Title:     strings.TrimSpace(raw.Title),
		SourceDir: folder.Path,
	}
	if book.Title == "" {
		return Book{}, &ParseError{Dir: folder.Path, Reason: "missing or blank title"}
	}

	book.Authors = decodeNames(raw.Authors, raw.AuthorName)
	if len(book.Authors) == 0 {
		return Book{}, &ParseError{Dir: folder.Path, Reason: "missing or blank authors"}
	}
	book.Narrators = decodeNames(raw.Narrators, raw.NarratorName)

	book.SeriesName, book.SeriesSequence, book.HasSequence = decodeSeries(raw.Series, raw.SeriesName)
	book.DurationSeconds = decodeNumber(raw.Duration)

	book.SizeBytes = raw.Size
	if book.SizeBytes <= 0 {
		book.SizeBytes = folder.TotalSize()
	}

	return book, nil
}

// decodeNames accepts a JSON array of strings, an array of {"name": ...}
// objects, or a bare string. The flat fallback (authorName style fields)
// applies when the structured value yields nothing; comma and semicolon
// separated lists are split apart. Order is preserved throughout.
func decodeNames(raw json.RawMessage, flat string) []string {
	var names []string

	if len(raw) > 0 {
		var plain []string
		if err := json.Unmarshal(raw, &plain); err == nil {
			names = appendClean(names, plain...)
		} else {
			var objects []struct {
				Name string `json:"name"`
			}
			if err := json.Unmarshal(raw, &objects); err == nil {
				for _, obj := range objects {
					names = appendClean(names, obj.Name)
				}
			} else {
				var single string
				if err := json.Unmarshal(raw, &single); err == nil {
					names = appendClean(names, splitNames(single)...)
				}
			}
		}
	}

	if len(names) == 0 && strings.TrimSpace(flat) != "" {
		names = appendClean(names, splitNames(flat)...)
	}
	return names
}

func splitNames(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ';'
	})
}

func appendClean(dst []string, values ...string) []string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			dst = append(dst, trimmed)
		}
	}
	return dst
}

// decodeSeries handles the structured {"name": ..., "sequence": ...} object,
// a bare series-name string, and the legacy flat "Dune #2" form. A
// non-numeric sequence means the book has no sequence; it is not an error.
func decodeSeries(raw json.RawMessage, flat string) (name string, sequence float64, ok bool) {
	if len(raw) > 0 {
		var structured rawSeries
		if err := json.Unmarshal(raw, &structured); err == nil {
			name = strings.TrimSpace(structured.Name)
			if len(structured.Sequence) > 0 {
				if seq, parsed := parseSequence(structured.Sequence); parsed {
					return name, seq, true
				}
			}
			if name != "" {
				return name, 0, false
			}
		} else {
			var legacy string
			if err := json.Unmarshal(raw, &legacy); err == nil && strings.TrimSpace(legacy) != "" {
				return parseLegacySeries(legacy)
			}
		}
	}
	if strings.TrimSpace(flat) != "" {
		return parseLegacySeries(flat)
	}
	return name, 0, false
}

// parseLegacySeries splits the flat "Name #sequence" form. Without a "#"
// (or with a non-numeric suffix) only the name survives.
func parseLegacySeries(value string) (string, float64, bool) {
	name, after, found := strings.Cut(value, "#")
	name = strings.TrimSpace(name)
	if !found {
		return name, 0, false
	}
	seq, err := strconv.ParseFloat(strings.TrimSpace(after), 64)
	if err != nil {
		return name, 0, false
	}
	return name, seq, true
}

func parseSequence(raw json.RawMessage) (float64, bool) {
	var number float64
	if err := json.Unmarshal(raw, &number); err == nil {
		return number, true
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			return parsed, true
		}
	}
	return 0, false
}

// decodeNumber reads a JSON number or numeric string, returning 0 for
// anything else. Durations come through here; a missing duration is simply
// zero seconds, not a failure.
func decodeNumber(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var number float64
	if err := json.Unmarshal(raw, &number); err == nil {
		return number
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			return parsed
		}
	}
	return 0
}
