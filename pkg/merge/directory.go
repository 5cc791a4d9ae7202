package merge

import (
	"context"
	"fmt"
	"strings"

	"github.com/sdejongh/phodime/internal/platform"
	"github.com/sdejongh/phodime/pkg/logging"
	"github.com/sdejongh/phodime/pkg/models"
	"github.com/sdejongh/phodime/pkg/output"
	"github.com/sdejongh/phodime/pkg/scheme"
	"github.com/sdejongh/phodime/pkg/storage"
)

// dirRun carries the state of one input directory while it is processed.
// Every error or warning is recorded on both the outcome and the tally.
type dirRun struct {
	e       *Engine
	outcome models.DirectoryOutcome
	tally   models.Tally
}

// fault counts an error that aborts the run; the reporter hears of it
// through the returned error instead of a message
func (r *dirRun) fault() {
	r.outcome.Errors++
	r.tally.IncErrors()
}

func (r *dirRun) error(ctx context.Context, msg, suggestion string) {
	r.fault()
	r.e.message(ctx, &r.outcome, models.SeverityError, msg, suggestion)
}

func (r *dirRun) warning(ctx context.Context, msg string) {
	r.outcome.Warnings++
	r.tally.IncWarnings()
	r.e.message(ctx, &r.outcome, models.SeverityWarning, msg, "")
}

func (r *dirRun) info(ctx context.Context, msg string) {
	if r.e.flags.Verbose {
		r.e.message(ctx, &r.outcome, models.SeverityInfo, msg, "")
	}
}

func (r *dirRun) skip(reason models.SkipReason) {
	r.outcome.Skipped = true
	r.outcome.SkipReason = reason
}

func (r *dirRun) update(typ output.UpdateType, total int) {
	r.e.reporter.Progress(output.ProgressUpdate{
		Type:       typ,
		Directory:  &r.outcome,
		TotalFiles: total,
	})
}

// processDirectory merges one input directory into the output directory.
//
// names maps the base names of already accepted directories to their path;
// an accepted directory adds itself. Only run-aborting failures are
// returned as errors, everything else is recorded on the outcome.
func (e *Engine) processDirectory(ctx context.Context, dir string, names map[string]string) (models.DirectoryOutcome, models.Tally, error) {
	r := &dirRun{
		e: e,
		outcome: models.DirectoryOutcome{
			Path:     dir,
			BaseName: platform.BaseName(dir),
		},
	}

	err := r.process(ctx, names)
	if err == nil && r.outcome.Succeeded() {
		r.tally.IncDirsSucceeded()
	}

	e.logger.Debug(ctx, "directory done", logging.Fields{
		"dir":          dir,
		"scheme":       r.outcome.Scheme.String(),
		"files_seen":   r.outcome.FilesSeen,
		"files_copied": r.outcome.FilesCopied,
		"skipped":      r.outcome.Skipped,
		"errors":       r.outcome.Errors,
	})

	return r.outcome, r.tally, err
}

func (r *dirRun) process(ctx context.Context, names map[string]string) error {
	e := r.e
	dir := r.outcome.Path

	info, err := e.backend.Stat(ctx, dir)
	if err != nil || !info.IsDir {
		r.skip(models.SkipNotDirectory)
		r.update(output.UpdateDirectoryStart, 0)
		r.error(ctx, fmt.Sprintf("%q is not a directory", dir), "")
		r.update(output.UpdateDirectoryDone, 0)
		return nil
	}

	files, err := e.listFiles(ctx, dir)
	if err != nil {
		r.update(output.UpdateDirectoryStart, 0)
		r.fault()
		return fatal(models.ExitError, "failed to list directory", dir, "", err)
	}
	r.outcome.FilesSeen = len(files)

	if len(files) == 0 {
		r.skip(models.SkipEmpty)
		r.outcome.Confidence = 1
		r.update(output.UpdateDirectoryStart, 0)
		r.warning(ctx, "directory is empty")
		r.update(output.UpdateDirectoryDone, 0)
		return nil
	}

	stems := make([]string, len(files))
	for i, f := range files {
		stems[i], _ = platform.SplitName(f.Name)
	}
	d := scheme.Detect(stems)
	r.outcome.Scheme = d.Scheme
	r.outcome.Confidence = d.Confidence

	e.logger.Debug(ctx, "scheme detected", logging.Fields{
		"dir":        dir,
		"scheme":     d.Scheme.String(),
		"confidence": d.Confidence,
		"files":      d.Files,
		"sampled":    d.Sampled,
	})

	prior, duplicate := names[r.outcome.BaseName]
	switch {
	case !d.Scheme.IsKnown():
		r.skip(models.SkipUnknownScheme)
		r.update(output.UpdateDirectoryStart, 0)
		r.error(ctx, "unknown scheme", "")
		r.info(ctx, "sampled "+describeCounts(d))

	case duplicate:
		r.skip(models.SkipDuplicateName)
		r.update(output.UpdateDirectoryStart, 0)
		r.error(ctx, fmt.Sprintf("duplicate name %q, already used by %q", r.outcome.BaseName, prior), "")

	default:
		names[r.outcome.BaseName] = dir
		r.update(output.UpdateDirectoryStart, len(files))
		if err := r.copyFiles(ctx, files); err != nil {
			return err
		}
	}

	r.update(output.UpdateDirectoryDone, len(files))
	return nil
}

// listFiles returns the regular files of dir that are not excluded
func (e *Engine) listFiles(ctx context.Context, dir string) ([]storage.FileInfo, error) {
	all, err := e.backend.ListFiles(ctx, dir)
	if err != nil {
		return nil, err
	}

	files := all[:0]
	for _, f := range all {
		if e.exclude.excluded(f.Name) {
			e.logger.Debug(ctx, "file excluded", logging.Fields{"file": f.Path})
			continue
		}
		files = append(files, f)
	}
	return files, nil
}

func (r *dirRun) copyFiles(ctx context.Context, files []storage.FileInfo) error {
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return fatal(models.ExitError, "merge interrupted", f.Path, "", err)
		}

		fo, err := r.processFile(ctx, f)
		r.outcome.Files = append(r.outcome.Files, fo)
		if err != nil {
			return err
		}

		r.e.reporter.Progress(output.ProgressUpdate{
			Type:        output.UpdateFile,
			Directory:   &r.outcome,
			File:        &r.outcome.Files[len(r.outcome.Files)-1],
			CurrentFile: i + 1,
			TotalFiles:  len(files),
		})
	}
	return nil
}

func describeCounts(d scheme.Detection) string {
	parts := make([]string, 0, len(scheme.Known()))
	for _, s := range scheme.Known() {
		parts = append(parts, fmt.Sprintf("%s %d", s, d.Counts[s]))
	}
	return fmt.Sprintf("%d of %d files: %s", d.Sampled, d.Files, strings.Join(parts, ", "))
}
