package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/fatih/color"
	"github.com/sdejongh/phodime/pkg/models"
)

// prefixWidth aligns message text after the "error:" / "warning:" / "info:" labels
const prefixWidth = 10

var (
	errorLabel   = color.New(color.FgHiRed)
	warningLabel = color.New(color.FgHiYellow)
	infoLabel    = color.New(color.FgHiCyan)
	highlight    = color.New(color.FgHiWhite)
	failedLabel  = color.New(color.FgHiRed)
)

// HumanFormatter prints line-oriented, optionally coloured output
type HumanFormatter struct {
	writer  io.Writer
	verbose bool
}

// NewHumanFormatter creates a new human-readable reporter
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// Start initializes the reporter
func (f *HumanFormatter) Start(writer io.Writer, op *models.MergeOperation) error {
	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer
	f.verbose = op.Flags.Normalized().Verbose
	return nil
}

// Progress prints directory headers, messages and, when verbose, file actions
func (f *HumanFormatter) Progress(update ProgressUpdate) error {
	if f.writer == nil {
		return nil
	}

	switch update.Type {
	case UpdateDirectoryStart:
		f.directoryHeader(update.Directory)

	case UpdateDirectoryDone:
		if f.verbose && update.Directory != nil && !update.Directory.Skipped {
			f.message(models.SeverityInfo, fmt.Sprintf("copied %d of %d files",
				update.Directory.FilesCopied, update.Directory.FilesSeen))
		}

	case UpdateFile:
		if f.verbose && update.File != nil && update.File.Action.Copied() {
			fmt.Fprintf(f.writer, "  [%d/%d] %s %s -> %s\n",
				update.CurrentFile, update.TotalFiles, update.File.Action,
				update.File.Source, update.File.Dest)
		}

	case UpdateMessage:
		f.message(update.Severity, update.Message)
		if update.Suggestion != "" {
			fmt.Fprintf(f.writer, "%*s%s\n", prefixWidth, "", update.Suggestion)
		}
	}

	return nil
}

// Complete prints the run summary
func (f *HumanFormatter) Complete(report *models.RunReport) error {
	if f.writer == nil {
		f.writer = io.Discard
	}

	if report.Fatal != "" {
		if f.verbose {
			fmt.Fprintf(f.writer, "\n%s\n", failedLabel.Sprint("failed"))
		}
		return nil
	}
	if report.Aborted {
		return nil
	}

	writeSummary(f.writer, report, f.verbose, true)
	return nil
}

// Error reports a fatal error with whatever platform context it carries
func (f *HumanFormatter) Error(err error) error {
	if f.writer == nil {
		return nil
	}
	writeFatal(f.writer, err)
	return nil
}

// Name returns the reporter name
func (f *HumanFormatter) Name() string {
	return "human"
}

func (f *HumanFormatter) directoryHeader(d *models.DirectoryOutcome) {
	if d == nil {
		return
	}
	line := highlight.Sprintf("%q", d.Path) + " " + d.Scheme.String()
	if f.verbose && d.Scheme.IsKnown() {
		line += fmt.Sprintf(" (%d%%)", percent(d.Confidence))
	}
	fmt.Fprintln(f.writer, line)
}

func (f *HumanFormatter) message(severity models.Severity, msg string) {
	writeMessage(f.writer, severity, msg)
}

func writeMessage(w io.Writer, severity models.Severity, msg string) {
	label := infoLabel
	switch severity {
	case models.SeverityError:
		label = errorLabel
	case models.SeverityWarning:
		label = warningLabel
	}
	label.Fprintf(w, "%-*s", prefixWidth, string(severity)+":")
	fmt.Fprintln(w, msg)
}

func writeFatal(w io.Writer, err error) {
	writeMessage(w, models.SeverityError, "fatal error: "+err.Error())

	var pp pathPair
	if errors.As(err, &pp) {
		p1, p2 := pp.Paths()
		if p1 != "" {
			fmt.Fprintf(w, "    path1: %s\n", p1)
		}
		if p2 != "" {
			fmt.Fprintf(w, "    path2: %s\n", p2)
		}
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		fmt.Fprintf(w, "    code:  %d\n", int(errno))
		fmt.Fprintf(w, "    msg:   %s\n", errno.Error())
	}
}

// writeSummary prints the closing tally line
func writeSummary(w io.Writer, report *models.RunReport, verbose, colored bool) {
	t := report.Totals()

	errs := fmt.Sprintf("%d error%s", t.Errors, plural(t.Errors))
	warns := fmt.Sprintf("%d warning%s", t.Warnings, plural(t.Warnings))
	succeeded := fmt.Sprintf("%d/%d", t.DirsSucceeded, len(report.InputDirs))
	if colored {
		succeeded = highlight.Sprint(succeeded)
		if t.Errors != 0 {
			errs = errorLabel.Sprint(errs)
		}
		if t.Warnings != 0 {
			warns = warningLabel.Sprint(warns)
		}
	}

	fmt.Fprintf(w, "========  %s succeeded, %s, %s ========\n", succeeded, errs, warns)
	if verbose {
		fmt.Fprintf(w, "copied %d of %d files in %s\n", t.FilesCopied, t.FilesTotal, formatDuration(report.Duration))
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func percent(rate float64) int {
	return int(rate*100 + 0.5)
}
