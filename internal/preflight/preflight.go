package preflight

import (
	"shelftidy/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every applicable check for the given config and library
// root. An empty root falls back to the configured library directory.
func RunAll(cfg *config.Config, root string) []Result {
	if cfg == nil {
		return nil
	}
	if root == "" {
		root = cfg.Paths.LibraryDir
	}

	return []Result{
		CheckDirectoryAccess("Library directory", root),
		CheckFreeSpace("Free space", root),
		CheckAuditLog(root, cfg.Library.AuditLogFilename),
		CheckLibraryLock(root),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckHistory(cfg),
	}
}
