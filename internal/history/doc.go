// Package history persists a browsable record of past tidy sessions in
// SQLite. One row per session carries the final counters; one row per
// outcome mirrors the audit log entries, correlated by session ID. The
// store is a convenience layer over the durable audit log, never a
// replacement for it: a history failure degrades browsing, not auditing.
package history
