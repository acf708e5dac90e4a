// Package session drives one tidy run from scan to summary.
//
// The controller walks the library in deterministic lexical order and pushes
// every book through the same pipeline: extract, plan, resolve, confirm,
// apply, log. Processing is strictly sequential; one book finishes before
// the next begins, and the only suspension point is the confirmation
// prompt. The interaction seam is the Channel interface, so the same
// controller serves interactive review, unattended apply-all runs, and
// scripted tests.
//
// Two rules shape the state machine. Apply-All is a one-way transition:
// once entered, the confirmation phase is bypassed for the remainder of the
// run. Abort is observed between books, never mid-move; books not yet
// reached are neither moved nor logged, and the summary still covers
// everything processed up to that point.
//
// A per-library file lock excludes concurrent sessions over the same root.
// Preview runs the same analysis without the lock, the audit log, or any
// filesystem mutation.
package session
