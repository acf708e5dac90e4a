package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NaturalLess reports whether a orders before b when embedded digit runs are
// compared numerically and everything else case-insensitively, so
// "Part 2.mp3" sorts before "Part 10.mp3".
func NaturalLess(a, b string) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		da, db := isASCIIDigit(a[i]), isASCIIDigit(b[j])
		if da && db {
			ia, jb := i, j
			for ia < len(a) && isASCIIDigit(a[ia]) {
				ia++
			}
			for jb < len(b) && isASCIIDigit(b[jb]) {
				jb++
			}
			na := strings.TrimLeft(a[i:ia], "0")
			nb := strings.TrimLeft(b[j:jb], "0")
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			if na != nb {
				return na < nb
			}
			i, j = ia, jb
			continue
		}
		if da != db {
			// Digit runs order before letters, matching an empty text chunk.
			return da
		}
		ra, sa := utf8.DecodeRuneInString(a[i:])
		rb, sb := utf8.DecodeRuneInString(b[j:])
		la, lb := unicode.ToLower(ra), unicode.ToLower(rb)
		if la != lb {
			return la < lb
		}
		i += sa
		j += sb
	}
	if len(a)-i != len(b)-j {
		return len(a)-i < len(b)-j
	}
	// Stable tie-break for strings that differ only in case or zero padding.
	return a < b
}

func isASCIIDigit(c byte) bool { return c >= '0' && c <= '9' }
