package dedup

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/weberc2/mono/dedup/pkg/logger"
)

var errIsDirectory = errors.New("is a directory")

// DeleteOptions configures a removal run.
type DeleteOptions struct {
	// DryRun only checks that each duplicate still exists.
	DryRun bool

	// Soft limits removal to duplicates with a "(n)" in their name.
	Soft bool
}

// DeleteOutcome records what happened to each duplicate.
type DeleteOutcome struct {
	DryRun bool

	// Attempted counts the duplicates that weren't skipped.
	Attempted int

	// Removed are the paths that were deleted.
	Removed []string

	// Failed are the paths that couldn't be deleted (or, in a dry run,
	// couldn't be found).
	Failed []string

	// Skipped are the pairs excluded by soft mode.
	Skipped []Pair
}

// Delete removes the duplicate of every pair. Failures are collected rather
// than aborting the batch.
func Delete(
	ctx context.Context,
	notify Notifier,
	fs billy.Filesystem,
	pairs []Pair,
	opts DeleteOptions,
) *DeleteOutcome {
	log := logger.Get(ctx)
	outcome := DeleteOutcome{DryRun: opts.DryRun}
	for _, pair := range pairs {
		path := pair.Duplicate
		if opts.Soft && !numberMarker.MatchString(filepath.Base(path)) {
			outcome.Skipped = append(outcome.Skipped, pair)
			continue
		}

		outcome.Attempted++
		notify.RemovingDuplicateFile(path)
		if err := removeFile(fs, path, opts.DryRun); err != nil {
			notify.RemovalFailed(path, err)
			log.Debug("delete failed", "path", path, "error", err)
			outcome.Failed = append(outcome.Failed, path)
			continue
		}

		if opts.DryRun {
			notify.KeepingDuplicateFile(path)
			continue
		}
		log.Info("deleted duplicate", "path", path, "keeper", pair.Keeper)
		outcome.Removed = append(outcome.Removed, path)
	}

	notify.RemovalSummary(&outcome)
	return &outcome
}

func removeFile(fs billy.Filesystem, path string, dryRun bool) error {
	info, err := fs.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return errIsDirectory
	}
	if dryRun {
		return nil
	}
	return fs.Remove(path)
}
