package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
	"\n", " ",
	"\t", " ",
	"\x00", "",
)

// SanitizeFileName makes a metadata string safe to use as a single path
// segment. Slashes, backslashes, colons, and asterisks become dashes; other
// unsafe characters are removed. Interior whitespace runs collapse to a
// single space, trailing dots are stripped, and the result is normalized to
// Unicode NFC. Returns "" when nothing usable remains.
func SanitizeFileName(name string) string {
	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	cleaned := fileNameReplacer.Replace(name)
	fields := strings.Fields(cleaned)
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(strings.Join(fields, " "), " .")
}
