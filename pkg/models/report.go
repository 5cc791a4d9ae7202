package models

import (
	"time"

	"github.com/sdejongh/phodime/pkg/scheme"
)

// Exit codes returned by a merge run. The specific codes start at 79 to stay
// clear of the values shells reserve.
const (
	ExitOK    = 0
	ExitError = 1

	ExitOutDirNotEmpty   = 79
	ExitInOutDirEqual    = 80
	ExitOutDirNotCreated = 81
)

// Severity classifies a reported message
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// SkipReason explains why an input directory was not merged
type SkipReason string

const (
	SkipNone          SkipReason = ""
	SkipNotDirectory  SkipReason = "not a directory"
	SkipEmpty         SkipReason = "directory is empty"
	SkipUnknownScheme SkipReason = "unknown scheme"
	SkipDuplicateName SkipReason = "duplicate name"
)

// DirectoryOutcome is the per-input-directory record of a merge
type DirectoryOutcome struct {
	Path       string        `json:"path"`
	BaseName   string        `json:"base_name"`
	Scheme     scheme.Scheme `json:"scheme"`
	Confidence float64       `json:"confidence"`

	FilesSeen   int `json:"files_seen"`
	FilesCopied int `json:"files_copied"`

	Skipped    bool       `json:"skipped"`
	SkipReason SkipReason `json:"skip_reason,omitempty"`

	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`

	Files []FileOutcome `json:"files,omitempty"`
}

// Succeeded reports whether no error was recorded for the directory.
// Warnings do not count as failure.
func (d *DirectoryOutcome) Succeeded() bool {
	return d.Errors == 0
}

// RunReport represents the results of a merge run
type RunReport struct {
	OperationID string   `json:"operation_id"`
	InputDirs   []string `json:"input_dirs"`
	OutputDir   string   `json:"output_dir"`

	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`

	Directories []DirectoryOutcome `json:"directories"`
	Tally       Tally              `json:"-"`

	// Aborted is set when the operator declined to continue
	Aborted bool `json:"aborted,omitempty"`

	// Fatal holds the message of a run-aborting error
	Fatal string `json:"fatal,omitempty"`

	ExitCode int `json:"exit_code"`
}

// Totals returns the counters of the run
func (r *RunReport) Totals() Totals {
	return r.Tally.Totals()
}

// Verdict classifies a finished run from its two independent success
// signals: the number of directories that succeeded and the error count.
// consistent is false when the signals disagree, which callers treat as an
// internal fault.
func Verdict(t Tally, totalDirs int) (code int, consistent bool) {
	allSucceeded := t.DirsSucceeded() == totalDirs
	noErrors := t.Errors() == 0

	if allSucceeded != noErrors {
		return ExitError, false
	}
	if allSucceeded {
		return ExitOK, true
	}
	return ExitError, true
}
