package merge

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sdejongh/phodime/pkg/compare"
	"github.com/sdejongh/phodime/pkg/logging"
	"github.com/sdejongh/phodime/pkg/models"
	"github.com/sdejongh/phodime/pkg/output"
	"github.com/sdejongh/phodime/pkg/storage"
)

// Prompter asks the operator a yes/no question and blocks until answered
type Prompter interface {
	Confirm(question string, defaultYes bool) (bool, error)
}

// Engine orchestrates a merge run.
//
// Directories are handled one at a time in the given order, files one at a
// time in listing order. The engine only ever reads input directories; the
// output directory is the single place it writes to.
type Engine struct {
	backend  storage.Backend
	reporter output.Reporter
	prompter Prompter
	logger   logging.Logger
	op       *models.MergeOperation
	flags    models.Flags
	out      io.Writer
	exclude  *excluder
	verifier compare.Comparator
	now      func() time.Time
}

// NewEngine creates a new merge engine.
// A nil reporter or logger discards output; a nil prompter makes the run
// non-interactive regardless of the verbose flag.
func NewEngine(
	backend storage.Backend,
	reporter output.Reporter,
	prompter Prompter,
	logger logging.Logger,
	op *models.MergeOperation,
) *Engine {
	flags := op.Flags.Normalized()

	if reporter == nil || flags.Quiet {
		reporter = output.NewNullFormatter()
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}

	return &Engine{
		backend:  backend,
		reporter: reporter,
		prompter: prompter,
		logger:   logger.WithFields(logging.Fields{"run_id": op.ID}),
		op:       op,
		flags:    flags,
		verifier: compare.NewVerifier(op.Verify),
		now:      time.Now,
	}
}

// SetOutput sets the writer handed to the reporter; nil means stdout
func (e *Engine) SetOutput(w io.Writer) {
	e.out = w
}

// Run executes the merge and returns its report.
//
// The returned error is non-nil only for run-aborting failures; the report
// is always returned and its ExitCode is the run's exit status. An operator
// declining to continue yields a nil error, exit code 0 and an aborted report.
func (e *Engine) Run(ctx context.Context) (*models.RunReport, error) {
	report := &models.RunReport{
		OperationID: e.op.ID,
		InputDirs:   e.op.InputDirs,
		OutputDir:   e.op.OutputDir,
		StartTime:   e.now(),
	}

	if err := e.reporter.Start(e.out, e.op); err != nil {
		return report, fatal(models.ExitError, "failed to start reporter", "", "", err)
	}

	e.logger.Info(ctx, "merge started", logging.Fields{
		"input_dirs": e.op.InputDirs,
		"output_dir": e.op.OutputDir,
		"force":      e.flags.Force,
		"verbose":    e.flags.Verbose,
	})

	err := e.run(ctx, report)

	report.EndTime = e.now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	if err != nil {
		report.ExitCode = ExitCode(err)
	}

	switch {
	case errors.Is(err, ErrUserAborted):
		report.Aborted = true
		err = nil
		e.logger.Info(ctx, "merge aborted by operator", nil)

	case err != nil:
		report.Fatal = err.Error()
		e.logger.Error(ctx, "merge failed", err, logging.Fields{"exit_code": report.ExitCode})
		e.reporter.Error(err)

	default:
		e.logger.Info(ctx, "merge finished", logging.Fields{
			"exit_code":      report.ExitCode,
			"errors":         report.Tally.Errors(),
			"warnings":       report.Tally.Warnings(),
			"files_total":    report.Tally.FilesTotal(),
			"files_copied":   report.Tally.FilesCopied(),
			"dirs_succeeded": report.Tally.DirsSucceeded(),
		})
	}

	if cerr := e.reporter.Complete(report); cerr != nil && err == nil {
		e.logger.Warn(ctx, "failed to complete report output", logging.Fields{"error": cerr.Error()})
	}

	return report, err
}

func (e *Engine) run(ctx context.Context, report *models.RunReport) error {
	if err := e.op.Validate(); err != nil {
		return fatal(models.ExitError, "invalid merge operation", "", "", err)
	}

	exclude, err := newExcluder(e.op.ExcludePatterns)
	if err != nil {
		return fatal(models.ExitError, "invalid merge operation", "", "", err)
	}
	e.exclude = exclude

	tally, err := e.prepareOutputDir(ctx)
	report.Tally.Merge(tally)
	if err != nil {
		return err
	}

	names := make(map[string]string, len(e.op.InputDirs))
	for _, dir := range e.op.InputDirs {
		if err := ctx.Err(); err != nil {
			return fatal(models.ExitError, "merge interrupted", dir, "", err)
		}

		outcome, tally, err := e.processDirectory(ctx, dir, names)
		report.Directories = append(report.Directories, outcome)
		report.Tally.Merge(tally)
		if err != nil {
			return err
		}
	}

	code, consistent := models.Verdict(report.Tally, len(e.op.InputDirs))
	if !consistent {
		return fatal(code, "internal error: directory results and error count disagree", "", "", nil)
	}
	report.ExitCode = code
	return nil
}

// message reports a message to the operator and mirrors it to the log
func (e *Engine) message(ctx context.Context, dir *models.DirectoryOutcome, severity models.Severity, msg, suggestion string) {
	e.reporter.Progress(output.ProgressUpdate{
		Type:       output.UpdateMessage,
		Directory:  dir,
		Severity:   severity,
		Message:    msg,
		Suggestion: suggestion,
	})

	fields := logging.Fields{}
	if dir != nil {
		fields["dir"] = dir.Path
	}
	switch severity {
	case models.SeverityError:
		e.logger.Error(ctx, msg, nil, fields)
	case models.SeverityWarning:
		e.logger.Warn(ctx, msg, fields)
	default:
		e.logger.Info(ctx, msg, fields)
	}
}

func (e *Engine) interactive() bool {
	return e.prompter != nil && e.flags.Interactive()
}
