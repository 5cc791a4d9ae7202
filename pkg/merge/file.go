package merge

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sdejongh/phodime/internal/platform"
	"github.com/sdejongh/phodime/pkg/logging"
	"github.com/sdejongh/phodime/pkg/models"
	"github.com/sdejongh/phodime/pkg/scheme"
	"github.com/sdejongh/phodime/pkg/storage"
)

// processFile copies one file of an accepted directory under its
// normalized name. Per-file problems are recorded on the returned outcome;
// the error is reserved for run-aborting failures.
func (r *dirRun) processFile(ctx context.Context, f storage.FileInfo) (models.FileOutcome, error) {
	e := r.e
	r.tally.IncFiles()
	fo := models.FileOutcome{Source: f.Path}

	stem, ext := platform.SplitName(f.Name)
	tokens := scheme.Split(stem)

	if scheme.Classify(tokens) != r.outcome.Scheme {
		fo.Action = models.ActionMismatch
		fo.Reason = "scheme mismatch"
		if e.flags.Verbose {
			fo.Suggestion = platform.CopyCommand(f.Path, filepath.Join(e.op.OutputDir, f.Name))
		}
		r.error(ctx, fmt.Sprintf("%q: scheme mismatch, file not copied", f.Name), fo.Suggestion)
		return fo, nil
	}

	name, err := r.outcome.Scheme.FileName(tokens, r.outcome.BaseName, ext)
	if err != nil {
		// Classify already vouched for the tokens
		r.fault()
		return fo, fatal(models.ExitError, "internal error: cannot format file name", f.Path, "", err)
	}
	fo.Dest = filepath.Join(e.op.OutputDir, name)

	exists, err := e.backend.Exists(ctx, fo.Dest)
	if err != nil {
		fo.Action = models.ActionFailed
		r.fault()
		return fo, fatal(models.ExitError, "failed to access destination", f.Path, fo.Dest, err)
	}

	overwrite := false
	if exists {
		switch {
		case e.flags.Force:
			overwrite = true
			r.warning(ctx, fmt.Sprintf("overwriting %q", fo.Dest))

		case e.interactive():
			ok, err := e.prompter.Confirm(fmt.Sprintf("overwrite %q?", fo.Dest), false)
			if err != nil {
				fo.Action = models.ActionFailed
				r.fault()
				return fo, fatal(models.ExitError, "failed to read answer", f.Path, fo.Dest, err)
			}
			if !ok {
				fo.Action = models.ActionSkipped
				fo.Reason = "kept existing destination"
				r.info(ctx, fmt.Sprintf("%q: skipped", f.Name))
				return fo, nil
			}
			overwrite = true

		default:
			fo.Action = models.ActionConflict
			fo.Reason = "destination exists"
			r.error(ctx, fmt.Sprintf("%q already exists, %q not copied", fo.Dest, f.Name), "")
			return fo, nil
		}
	}

	if err := r.copy(ctx, f, &fo, overwrite); err != nil {
		return fo, err
	}

	if e.op.CheckExif && e.flags.Verbose {
		r.crossCheckExif(ctx, f, tokens)
	}
	return fo, nil
}

// copy performs the copy and verifies the destination afterwards.
// A copy that fails, or reports success while the destination disagrees
// with the source, aborts the run.
func (r *dirRun) copy(ctx context.Context, f storage.FileInfo, fo *models.FileOutcome, overwrite bool) error {
	e := r.e

	written, err := e.backend.Copy(ctx, f.Path, fo.Dest, overwrite)
	fo.BytesCopied = written
	if err != nil {
		fo.Action = models.ActionFailed
		fo.Reason = err.Error()
		r.fault()
		return fatal(models.ExitError, "copy failed", f.Path, fo.Dest, err)
	}

	if err := r.verify(ctx, f, fo.Dest, written); err != nil {
		fo.Action = models.ActionFailed
		fo.Reason = ErrInconsistentCopy.Error()
		r.fault()
		return fatal(models.ExitError, "copy failed", f.Path, fo.Dest, err)
	}

	fo.Action = models.ActionCopied
	if overwrite {
		fo.Action = models.ActionOverwritten
	}
	r.outcome.FilesCopied++
	r.tally.IncCopied()

	e.logger.Debug(ctx, "file copied", logging.Fields{
		"source": f.Path,
		"dest":   fo.Dest,
		"bytes":  written,
		"action": string(fo.Action),
	})
	return nil
}

// verify checks the destination against its source once the copy returned
func (r *dirRun) verify(ctx context.Context, f storage.FileInfo, dest string, written int64) error {
	if written != f.Size {
		return fmt.Errorf("%w: wrote %d bytes of %d", ErrInconsistentCopy, written, f.Size)
	}

	cmp, err := r.e.verifier.Compare(ctx, r.e.backend, f.Path, dest)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInconsistentCopy, err)
	}
	if !cmp.Matches() {
		return fmt.Errorf("%w: %s", ErrInconsistentCopy, cmp.Reason)
	}
	return nil
}
