// Package textutil provides text processing utilities for path-segment
// sanitization and natural ordering.
//
// The primary use cases are:
//   - Sanitizing author, series, and title strings for safe filesystem use
//   - Ordering audio file names so "track 2" sorts before "track 10"
//
// Sanitization normalizes input to Unicode NFC first so visually identical
// names produce byte-identical path segments across metadata sources.
package textutil
