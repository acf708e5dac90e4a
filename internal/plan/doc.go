// Package plan computes canonical destination paths for audiobook folders.
//
// A planner is built once per session from the full set of extracted book
// records. The pre-pass exists for one reason: volume padding. Sequence
// numbers inside a series are zero-padded to a shared width so lexical
// order matches numeric order, and that width depends on the largest
// sequence in the series. Series are keyed by sanitized author plus series
// name, matching the destination folder they will actually share.
//
// Planning itself is pure. Plan never reads the filesystem; the target of a
// book is a function of its author, series, sequence, and title alone, so
// two runs over the same records produce byte-identical paths. Filesystem
// truth (does the target exist, is it the same file) is the organizer's
// concern, which is why the Action and Resolution vocabulary lives here but
// is only ever filled in there.
package plan
