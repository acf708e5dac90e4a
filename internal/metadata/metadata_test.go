package metadata_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"shelftidy/internal/metadata"
	"shelftidy/internal/scan"
)

func bookFolder(t *testing.T, descriptor string) scan.Folder {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "metadata.json")
	if err := os.WriteFile(path, []byte(descriptor), 0o644); err != nil {
		t.Fatalf("write descriptor: %v", err)
	}
	return scan.Folder{Path: dir, MetadataPath: path}
}

func TestExtractStructuredRecord(t *testing.T) {
	folder := bookFolder(t, `{
		"title": "  Dune Messiah ",
		"authors": ["Frank Herbert"],
		"narrators": [{"name": "Scott Brick"}, {"name": "Katherine Kellgren"}],
		"series": {"name": "Dune", "sequence": 2},
		"duration": 29520,
		"size": 812345678
	}`)

	book, err := metadata.Extract(folder)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if book.Title != "Dune Messiah" {
		t.Fatalf("title = %q, want trimmed %q", book.Title, "Dune Messiah")
	}
	if book.PrimaryAuthor() != "Frank Herbert" {
		t.Fatalf("primary author = %q", book.PrimaryAuthor())
	}
	wantNarrators := []string{"Scott Brick", "Katherine Kellgren"}
	if !reflect.DeepEqual(book.Narrators, wantNarrators) {
		t.Fatalf("narrators = %v, want %v", book.Narrators, wantNarrators)
	}
	if !book.InSeries() {
		t.Fatal("expected book to use the series layout")
	}
	if book.SeriesName != "Dune" || book.SeriesSequence != 2 {
		t.Fatalf("series = %q #%v", book.SeriesName, book.SeriesSequence)
	}
	if book.DurationSeconds != 29520 {
		t.Fatalf("duration = %v", book.DurationSeconds)
	}
	if book.SizeBytes != 812345678 {
		t.Fatalf("size = %d", book.SizeBytes)
	}
	if book.SourceDir != folder.Path {
		t.Fatalf("source dir = %q, want %q", book.SourceDir, folder.Path)
	}
}

func TestExtractAuthorObjectsAndFractionalSequence(t *testing.T) {
	folder := bookFolder(t, `{
		"title": "The Butlerian Jihad",
		"authors": [{"name": "Brian Herbert"}, {"name": "Kevin J. Anderson"}],
		"series": {"name": "Legends of Dune", "sequence": "1.5"}
	}`)

	book, err := metadata.Extract(folder)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	want := []string{"Brian Herbert", "Kevin J. Anderson"}
	if !reflect.DeepEqual(book.Authors, want) {
		t.Fatalf("authors = %v, want %v", book.Authors, want)
	}
	if !book.HasSequence || book.SeriesSequence != 1.5 {
		t.Fatalf("sequence = %v (has=%v), want 1.5", book.SeriesSequence, book.HasSequence)
	}
}

func TestExtractLegacyFlatFields(t *testing.T) {
	folder := bookFolder(t, `{
		"title": "Children of Dune",
		"authorName": "Frank Herbert, Beverly Herbert; Unknown Editor",
		"narratorName": "Simon Vance",
		"seriesName": "Dune #3",
		"duration": "10800.5"
	}`)

	book, err := metadata.Extract(folder)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	wantAuthors := []string{"Frank Herbert", "Beverly Herbert", "Unknown Editor"}
	if !reflect.DeepEqual(book.Authors, wantAuthors) {
		t.Fatalf("authors = %v, want %v", book.Authors, wantAuthors)
	}
	if !reflect.DeepEqual(book.Narrators, []string{"Simon Vance"}) {
		t.Fatalf("narrators = %v", book.Narrators)
	}
	if !book.InSeries() || book.SeriesName != "Dune" || book.SeriesSequence != 3 {
		t.Fatalf("series = %q #%v (in series=%v)", book.SeriesName, book.SeriesSequence, book.InSeries())
	}
	if book.DurationSeconds != 10800.5 {
		t.Fatalf("duration = %v", book.DurationSeconds)
	}
}

func TestExtractSeriesNameWithoutSequence(t *testing.T) {
	cases := []struct {
		name       string
		descriptor string
		wantSeries string
	}{
		{"structured without sequence", `{"title": "T", "authors": ["A"], "series": {"name": "Dune"}}`, "Dune"},
		{"structured non-numeric sequence", `{"title": "T", "authors": ["A"], "series": {"name": "Dune", "sequence": "special"}}`, "Dune"},
		{"legacy without marker", `{"title": "T", "authors": ["A"], "seriesName": "Dune"}`, "Dune"},
		{"legacy non-numeric suffix", `{"title": "T", "authors": ["A"], "seriesName": "Dune #omnibus"}`, "Dune"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			book, err := metadata.Extract(bookFolder(t, tc.descriptor))
			if err != nil {
				t.Fatalf("Extract returned error: %v", err)
			}
			if book.SeriesName != tc.wantSeries {
				t.Fatalf("series name = %q, want %q", book.SeriesName, tc.wantSeries)
			}
			if book.HasSequence || book.InSeries() {
				t.Fatal("book without numeric sequence must not use the series layout")
			}
		})
	}
}

func TestExtractBareStringAuthors(t *testing.T) {
	folder := bookFolder(t, `{"title": "T", "authors": "Ann Leckie, Ursula K. Le Guin"}`)
	book, err := metadata.Extract(folder)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	want := []string{"Ann Leckie", "Ursula K. Le Guin"}
	if !reflect.DeepEqual(book.Authors, want) {
		t.Fatalf("authors = %v, want %v", book.Authors, want)
	}
}

func TestExtractSizeFallsBackToFolderTotal(t *testing.T) {
	folder := bookFolder(t, `{"title": "T", "authors": ["A"]}`)
	folder.Audio = []scan.File{{Name: "a.m4b", Size: 1000}, {Name: "b.m4b", Size: 500}}
	folder.Extras = []scan.File{{Name: "cover.jpg", Size: 24}}

	book, err := metadata.Extract(folder)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if book.SizeBytes != 1524 {
		t.Fatalf("size = %d, want folder total 1524", book.SizeBytes)
	}
}

func TestExtractFailures(t *testing.T) {
	cases := []struct {
		name       string
		descriptor string
		reason     string
	}{
		{"missing title", `{"authors": ["A"]}`, "missing or blank title"},
		{"blank title", `{"title": "   ", "authors": ["A"]}`, "missing or blank title"},
		{"missing authors", `{"title": "T"}`, "missing or blank authors"},
		{"blank author entries", `{"title": "T", "authors": ["", "  "]}`, "missing or blank authors"},
		{"malformed descriptor", `{"title": "T",`, "malformed metadata descriptor"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			folder := bookFolder(t, tc.descriptor)
			_, err := metadata.Extract(folder)
			if err == nil {
				t.Fatal("expected a parse error")
			}
			var parseErr *metadata.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("error %T is not a *ParseError", err)
			}
			if parseErr.Reason != tc.reason {
				t.Fatalf("reason = %q, want %q", parseErr.Reason, tc.reason)
			}
			if parseErr.Dir != folder.Path {
				t.Fatalf("dir = %q, want %q", parseErr.Dir, folder.Path)
			}
		})
	}
}

func TestExtractMissingDescriptor(t *testing.T) {
	folder := scan.Folder{Path: t.TempDir()}
	_, err := metadata.Extract(folder)
	var parseErr *metadata.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error %T is not a *ParseError", err)
	}
	if parseErr.Reason != "metadata descriptor missing" {
		t.Fatalf("reason = %q", parseErr.Reason)
	}
}
