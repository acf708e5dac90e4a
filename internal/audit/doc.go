// Package audit is the durable record of a tidy session: an append-only
// log file in the library root plus the running counters behind the final
// summary.
//
// Every outcome flows through the Sink exactly once. Record appends one
// human-readable line, bumps the counters for the entry's kind, and
// forwards the entry to the run-history store when one is attached. The
// log format is one line per event, "[timestamp] ACTION: detail", with
// file-level detail lines indented beneath their book. Lines are only ever
// appended, never rewritten or reordered, so the file stays trustworthy
// across sessions.
//
// Summarize snapshots the counters without mutating them; calling it
// repeatedly returns equal values.
package audit
