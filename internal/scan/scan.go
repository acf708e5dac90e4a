// Package scan enumerates book folders beneath a library root.
//
// A book folder is any directory containing the configured metadata
// descriptor. Enumeration is deterministic: folders are returned in lexical
// path order regardless of filesystem iteration order, so repeated runs over
// an unchanged library process books identically.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"shelftidy/internal/config"
	"shelftidy/internal/logging"
	"shelftidy/internal/textutil"
)

// File describes one regular file inside a book folder.
type File struct {
	Path string
	Name string
	Size int64
}

// Folder is one book folder's inventory. Audio files are ordered naturally
// (track 2 before track 10); extras carry everything else that moves with
// the book, including the metadata descriptor itself.
type Folder struct {
	Path         string
	MetadataPath string
	Audio        []File
	Extras       []File
}

// TotalSize sums the sizes of every file in the folder.
func (f Folder) TotalSize() int64 {
	var total int64
	for _, file := range f.Audio {
		total += file.Size
	}
	for _, file := range f.Extras {
		total += file.Size
	}
	return total
}

// FileCount returns the number of files that would move with the book.
func (f Folder) FileCount() int {
	return len(f.Audio) + len(f.Extras)
}

// Scanner walks a library tree and builds book folder inventories.
type Scanner struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewScanner constructs a Scanner. A nil logger is replaced with a no-op.
func NewScanner(cfg *config.Config, logger *slog.Logger) *Scanner {
	return &Scanner{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "scan"),
	}
}

// Scan returns every book folder under root in lexical path order. Hidden
// directories are not descended into; session artifacts (the audit log and
// the lock file) are excluded from inventories.
func (s *Scanner) Scan(ctx context.Context, root string) ([]Folder, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("inspect library root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("library root %s is not a directory", root)
	}

	metadataName := s.cfg.Library.MetadataFilename
	var bookDirs []string
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			if path != root && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.Name() == metadataName {
			bookDirs = append(bookDirs, filepath.Dir(path))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan library: %w", err)
	}

	sort.Strings(bookDirs)

	folders := make([]Folder, 0, len(bookDirs))
	for _, dir := range bookDirs {
		folder, err := s.inventory(dir)
		if err != nil {
			return nil, err
		}
		folders = append(folders, folder)
	}

	s.logger.Debug("library scanned",
		logging.String("root", root),
		logging.Int("book_folders", len(folders)))
	return folders, nil
}

// inventory lists the immediate files of one book folder. Subdirectories are
// left alone; a nested book folder is its own scan result.
func (s *Scanner) inventory(dir string) (Folder, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Folder{}, fmt.Errorf("list book folder %s: %w", dir, err)
	}

	folder := Folder{Path: dir}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if s.isSessionArtifact(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return Folder{}, fmt.Errorf("stat %s: %w", filepath.Join(dir, name), err)
		}
		file := File{
			Path: filepath.Join(dir, name),
			Name: name,
			Size: info.Size(),
		}
		switch {
		case name == s.cfg.Library.MetadataFilename:
			folder.MetadataPath = file.Path
			folder.Extras = append(folder.Extras, file)
		case s.cfg.IsAudioFile(name):
			folder.Audio = append(folder.Audio, file)
		default:
			folder.Extras = append(folder.Extras, file)
		}
	}

	sort.Slice(folder.Audio, func(i, j int) bool {
		return textutil.NaturalLess(folder.Audio[i].Name, folder.Audio[j].Name)
	})
	sort.Slice(folder.Extras, func(i, j int) bool {
		return folder.Extras[i].Name < folder.Extras[j].Name
	})
	return folder, nil
}

func (s *Scanner) isSessionArtifact(name string) bool {
	if name == s.cfg.Library.AuditLogFilename {
		return true
	}
	return name == config.LockFilename
}
