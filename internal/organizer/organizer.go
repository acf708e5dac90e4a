package organizer

import (
	"context"
	"errors"
	"fmt"
	"os"

	"log/slog"

	"shelftidy/internal/config"
	"shelftidy/internal/fileutil"
	"shelftidy/internal/logging"
	"shelftidy/internal/plan"
)

// ErrMove marks a failed move operation. Move failures are logged and
// counted but never end the session.
var ErrMove = errors.New("move failed")

// Applied reports what one executed book changed on disk. Moved lists the
// files relocated before any failure, so callers can log partial progress.
type Applied struct {
	Moved       []plan.FileMove
	RemovedDirs []string
}

// Organizer resolves planned moves against the live filesystem and applies
// approved ones.
type Organizer struct {
	cfg    *config.Config
	root   string
	logger *slog.Logger
}

// New constructs an organizer rooted at the library being tidied. Pruning
// never ascends past root.
func New(cfg *config.Config, root string, logger *slog.Logger) *Organizer {
	return &Organizer{
		cfg:    cfg,
		root:   root,
		logger: logging.NewComponentLogger(logger, "organizer"),
	}
}

// Resolve classifies every planned move of one book against the filesystem
// as it is right now. Earlier moves in the same session may have changed
// what exists at a destination, so resolution always happens immediately
// before a decision, never from a stale snapshot.
func (o *Organizer) Resolve(p plan.BookPlan) plan.Resolution {
	var res plan.Resolution
	for _, move := range p.Moves {
		dstInfo, err := os.Stat(move.Target)
		switch {
		case errors.Is(err, os.ErrNotExist):
			res.Pending = append(res.Pending, move)
			continue
		case err != nil:
			res.Conflicts = append(res.Conflicts, plan.Conflict{Move: move, Reason: fmt.Sprintf("cannot inspect destination: %v", err)})
			continue
		case dstInfo.IsDir():
			res.Conflicts = append(res.Conflicts, plan.Conflict{Move: move, Reason: "destination is a directory"})
			continue
		}

		srcInfo, err := os.Stat(move.Source)
		if err != nil {
			res.Conflicts = append(res.Conflicts, plan.Conflict{Move: move, Reason: fmt.Sprintf("cannot inspect source: %v", err)})
			continue
		}
		if srcInfo.Size() != dstInfo.Size() {
			res.Conflicts = append(res.Conflicts, plan.Conflict{Move: move, Reason: "different file already at destination"})
			continue
		}
		if o.cfg.Library.VerifyChecksums {
			same, err := fileutil.SameContents(move.Source, move.Target)
			if err != nil {
				res.Conflicts = append(res.Conflicts, plan.Conflict{Move: move, Reason: fmt.Sprintf("checksum comparison failed: %v", err)})
				continue
			}
			if !same {
				res.Conflicts = append(res.Conflicts, plan.Conflict{Move: move, Reason: "same size but different content at destination"})
				continue
			}
		}
		res.Identical = append(res.Identical, move)
	}

	switch {
	case len(res.Conflicts) > 0:
		res.Action = plan.ActionCollision
	case len(res.Pending) == 0:
		res.Action = plan.ActionSkipIdentical
	default:
		res.Action = plan.ActionMove
	}
	return res
}

// Apply moves one approved book's pending files into place and prunes the
// emptied source directories. Destinations are re-checked just before each
// rename; nothing is ever overwritten. On failure the returned Applied
// still lists the files moved so far, so the caller can log them.
func (o *Organizer) Apply(ctx context.Context, p plan.BookPlan, pending []plan.FileMove) (Applied, error) {
	var result Applied
	if len(pending) == 0 {
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	if err := os.MkdirAll(p.TargetDir, 0o755); err != nil {
		return result, fmt.Errorf("%w: create %s: %w", ErrMove, p.TargetDir, err)
	}

	for _, move := range pending {
		if _, err := os.Lstat(move.Target); err == nil {
			return result, fmt.Errorf("%w: destination %s appeared since resolution", ErrMove, move.Target)
		} else if !errors.Is(err, os.ErrNotExist) {
			return result, fmt.Errorf("%w: inspect %s: %w", ErrMove, move.Target, err)
		}
		if err := fileutil.MoveFile(move.Source, move.Target); err != nil {
			return result, fmt.Errorf("%w: %s -> %s: %w", ErrMove, move.Source, move.Target, err)
		}
		result.Moved = append(result.Moved, move)
		o.logger.Debug("moved file",
			logging.String("source", move.Source),
			logging.String("target", move.Target))
	}

	removed, err := fileutil.RemoveEmptyParents(p.SourceDir, o.root)
	result.RemovedDirs = removed
	if err != nil {
		o.logger.Warn("source cleanup incomplete",
			logging.String("dir", p.SourceDir),
			logging.Error(err))
	}
	return result, nil
}
