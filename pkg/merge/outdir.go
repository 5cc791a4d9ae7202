package merge

import (
	"context"
	"fmt"

	"github.com/sdejongh/phodime/pkg/logging"
	"github.com/sdejongh/phodime/pkg/models"
)

// prepareOutputDir validates (and if needed creates) the output directory
// before any file is touched. Every returned error aborts the run.
func (e *Engine) prepareOutputDir(ctx context.Context) (models.Tally, error) {
	var t models.Tally
	out := e.op.OutputDir

	for _, in := range e.op.InputDirs {
		eq, err := e.backend.Equivalent(ctx, in, out)
		if err != nil {
			t.IncErrors()
			return t, fatal(models.ExitError, "failed to compare INDIR and OUTDIR", in, out, err)
		}
		if eq {
			t.IncErrors()
			return t, fatal(models.ExitInOutDirEqual, "an INDIR and the OUTDIR are equivalent", in, out, nil)
		}
	}

	exists, err := e.backend.Exists(ctx, out)
	if err != nil {
		t.IncErrors()
		return t, fatal(models.ExitError, "failed to access OUTDIR", out, "", err)
	}

	if !exists {
		if err := e.backend.MkdirAll(ctx, out); err != nil {
			t.IncErrors()
			return t, fatal(models.ExitOutDirNotCreated, "could not create OUTDIR", out, "", err)
		}
		if ok, err := e.backend.Exists(ctx, out); err != nil || !ok {
			t.IncErrors()
			return t, fatal(models.ExitOutDirNotCreated, "could not create OUTDIR", out, "", err)
		}
		e.logger.Info(ctx, "created output directory", logging.Fields{"output_dir": out})
		return t, nil
	}

	info, err := e.backend.Stat(ctx, out)
	if err != nil {
		t.IncErrors()
		return t, fatal(models.ExitError, "failed to access OUTDIR", out, "", err)
	}
	if !info.IsDir {
		t.IncErrors()
		return t, fatal(models.ExitOutDirNotCreated, "OUTDIR exists and is not a directory", out, "", nil)
	}

	empty, err := e.backend.IsEmpty(ctx, out)
	if err != nil {
		t.IncErrors()
		return t, fatal(models.ExitError, "failed to inspect OUTDIR", out, "", err)
	}
	if empty {
		return t, nil
	}

	msg := fmt.Sprintf("OUTDIR %q is not empty", out)
	switch {
	case e.flags.Force:
		t.IncWarnings()
		e.message(ctx, nil, models.SeverityWarning, "using non empty OUTDIR", "")
		return t, nil

	case e.interactive():
		e.message(ctx, nil, models.SeverityInfo, msg, "")
		ok, err := e.prompter.Confirm("use non empty OUTDIR?", false)
		if err != nil {
			t.IncErrors()
			return t, fatal(models.ExitError, "failed to read answer", "", "", err)
		}
		if !ok {
			return t, ErrUserAborted
		}
		return t, nil

	default:
		t.IncErrors()
		return t, fatal(models.ExitOutDirNotEmpty, msg, out, "", nil)
	}
}
