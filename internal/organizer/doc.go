// Package organizer decides and performs the filesystem side of a tidy run.
//
// It has two halves. Resolve classifies a book plan against the live
// filesystem at the moment of the call: files whose destinations are free
// are pending, destinations already holding an identical copy are skipped,
// and anything else is a conflict. Classification is book-level in effect;
// a single conflict defers the whole book so a partially moved book can
// never result from a collision. The identical check compares file size by
// default and additionally compares SHA-256 digests when checksum
// verification is enabled.
//
// Apply executes the pending moves for one approved book. Destinations are
// re-checked immediately before each rename; an occupied destination at
// that point fails the book rather than overwriting anything. Cross-device
// renames fall back to a verified copy. After a fully applied book the
// emptied source directory and its empty ancestors are pruned, stopping
// below the library root.
package organizer
