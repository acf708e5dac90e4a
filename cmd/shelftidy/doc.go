// Package main hosts the shelftidy CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into library
// scans, tidy sessions, dry-run previews, history lookups, and configuration
// scaffolding. It centralizes configuration resolution, root selection, and
// logger setup so subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
