// Package logging builds the structured loggers used across shelftidy.
//
// It wraps log/slog with a console handler tuned for terminal reading
// (timestamp, level, component prefix, key=value pairs) and a JSON handler
// for machine consumption, selected through configuration. Attribute
// helpers keep call sites short, and context helpers thread session and
// book identity into every line without manual plumbing.
//
// Obtain loggers through New or NewFromConfig so output destinations and
// levels stay consistent between commands.
package logging
