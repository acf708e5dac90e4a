package preflight

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"shelftidy/internal/config"
	"shelftidy/internal/history"
)

// lowSpaceBytes is the free-space floor below which the space check fails.
// Moves on one filesystem are renames, but cross-device fallbacks copy the
// file data before unlinking the source.
const lowSpaceBytes = 256 << 20

// statfsFunc allows tests to stub filesystem stats.
type statfsFunc func(path string) (total uint64, free uint64, err error)

func realStatfs(path string) (uint64, uint64, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return 0, 0, err
	}
	total := stat.Blocks * uint64(stat.Bsize)
	free := stat.Bavail * uint64(stat.Bsize)
	return total, free, nil
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies the filesystem holding path has room to work in.
func CheckFreeSpace(name, path string) Result {
	return checkFreeSpace(name, path, realStatfs)
}

func checkFreeSpace(name, path string, statfs statfsFunc) Result {
	total, free, err := statfs(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	detail := fmt.Sprintf("%s (%s free of %s)", path, formatBytes(free), formatBytes(total))
	if free < lowSpaceBytes {
		return Result{Name: name, Detail: detail + " (error: low disk space)"}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckAuditLog verifies the audit log can be appended to, without creating
// it when it does not exist yet.
func CheckAuditLog(root, filename string) Result {
	const name = "Audit log"
	path := filepath.Join(root, filename)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			if err := unix.Access(root, unix.W_OK); err != nil {
				return Result{Name: name, Detail: fmt.Sprintf("%s (error: library root not writable: %v)", path, err)}
			}
			return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if err := unix.Access(path, unix.W_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not writable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (append ok)", path)}
}

// CheckLibraryLock reports whether another session currently holds the
// library. The probe lock is released immediately.
func CheckLibraryLock(root string) Result {
	const name = "Library lock"
	lock := flock.New(filepath.Join(root, config.LockFilename))
	locked, err := lock.TryLock()
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", lock.Path(), err)}
	}
	if !locked {
		return Result{Name: name, Detail: "another session is running"}
	}
	if err := lock.Unlock(); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("release probe lock: %v", err)}
	}
	return Result{Name: name, Passed: true, Detail: "no active session"}
}

// CheckHistory verifies the run-history database opens with the expected
// schema.
func CheckHistory(cfg *config.Config) Result {
	const name = "Session history"
	if !cfg.History.Enabled {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	store, err := history.Open(cfg)
	if err != nil {
		if errors.Is(err, history.ErrSchemaMismatch) {
			return Result{Name: name, Detail: err.Error()}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", cfg.HistoryDBPath(), err)}
	}
	store.Close()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (schema ok)", cfg.HistoryDBPath())}
}

func formatBytes(value uint64) string {
	switch {
	case value >= 1<<30:
		return fmt.Sprintf("%.1f GiB", float64(value)/(1<<30))
	case value >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(value)/(1<<20))
	case value >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(value)/(1<<10))
	default:
		return fmt.Sprintf("%d B", value)
	}
}
