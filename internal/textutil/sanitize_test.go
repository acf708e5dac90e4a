package textutil

import (
	"sort"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Dune Messiah", "Dune Messiah"},
		{"slashes become dashes", "AC/DC: Back", "AC-DC- Back"},
		{"removed characters", `Who? "What" <Why> |`, "Who What Why"},
		{"whitespace collapses", "  The   Stars\tMy    Destination ", "The Stars My Destination"},
		{"trailing dots stripped", "Vol. 2.", "Vol. 2"},
		{"newlines", "line one\nline two", "line one line two"},
		{"empty", "   ", ""},
		{"only unsafe", `?"<>|`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFileName(tt.input); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFileNameNormalizesNFC(t *testing.T) {
	composed := "Amélie"
	decomposed := "Amélie"
	if SanitizeFileName(composed) != SanitizeFileName(decomposed) {
		t.Errorf("NFC normalization differs: %q vs %q", SanitizeFileName(composed), SanitizeFileName(decomposed))
	}
}

func TestNaturalLess(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{"numeric beats lexical", "Part 2.mp3", "Part 10.mp3", true},
		{"reverse", "Part 10.mp3", "Part 2.mp3", false},
		{"equal numbers continue", "Disc 1 Track 3", "Disc 1 Track 12", true},
		{"case insensitive", "alpha", "BETA", true},
		{"leading zeros equal value", "02", "2", true},
		{"prefix first", "Track 1", "Track 1 extra", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NaturalLess(tt.a, tt.b); got != tt.want {
				t.Errorf("NaturalLess(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestNaturalLessSortsTrackListing(t *testing.T) {
	names := []string{"ch10.mp3", "ch2.mp3", "ch1.mp3", "intro.mp3"}
	sort.Slice(names, func(i, j int) bool { return NaturalLess(names[i], names[j]) })

	want := []string{"ch1.mp3", "ch2.mp3", "ch10.mp3", "intro.mp3"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("sorted[%d] = %q, want %q (full: %v)", i, names[i], want[i], names)
		}
	}
}
