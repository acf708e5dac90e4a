// Package preflight provides readiness checks for the filesystem paths and
// stores a tidy session depends on.
//
// The CLI "shelftidy status" command runs RunAll and displays every result.
// Each check is independent; a failed check never stops the others, and no
// check mutates anything it inspects.
package preflight
