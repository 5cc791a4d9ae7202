package models

import (
	"time"
)

// Flags are the operator switches of a merge run
type Flags struct {
	// Force overwrites existing destination files and accepts a non-empty output directory
	Force bool
	// Quiet suppresses all textual reporting; counters and exit code are unaffected
	Quiet bool
	// Verbose adds detail and enables interactive confirmation prompts
	Verbose bool
}

// Interactive reports whether the operator may be asked to confirm decisions.
// Quiet always wins over verbose.
func (f Flags) Interactive() bool {
	return f.Verbose && !f.Quiet
}

// Normalized returns the flags with verbose cleared when quiet is set
func (f Flags) Normalized() Flags {
	if f.Quiet {
		f.Verbose = false
	}
	return f
}

// MergeOperation describes one merge run
type MergeOperation struct {
	ID              string
	InputDirs       []string
	OutputDir       string
	Flags           Flags
	ExcludePatterns []string
	// CheckExif cross-checks the name date against EXIF metadata in verbose runs
	CheckExif bool
	// Verify compares every copy with its source by content, not only by size
	Verify    bool
	CreatedAt time.Time
}

// Validate checks if the operation configuration is valid
func (op *MergeOperation) Validate() error {
	if len(op.InputDirs) == 0 {
		return &ValidationError{Field: "InputDirs", Message: "at least one input directory is required"}
	}
	for _, dir := range op.InputDirs {
		if dir == "" {
			return &ValidationError{Field: "InputDirs", Message: "input directory path is empty"}
		}
	}
	if op.OutputDir == "" {
		return &ValidationError{Field: "OutputDir", Message: "output directory is required"}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
