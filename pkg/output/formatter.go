package output

import (
	"io"

	"github.com/sdejongh/phodime/pkg/models"
)

// UpdateType tells a Reporter what a ProgressUpdate carries
type UpdateType string

const (
	// UpdateDirectoryStart is sent once per input directory after detection
	UpdateDirectoryStart UpdateType = "directory_start"
	// UpdateDirectoryDone is sent when a directory has been fully handled
	UpdateDirectoryDone UpdateType = "directory_done"
	// UpdateFile is sent after each file of an accepted directory
	UpdateFile UpdateType = "file"
	// UpdateMessage carries an error, warning or informational message
	UpdateMessage UpdateType = "message"
)

// ProgressUpdate represents a notification during a merge
type ProgressUpdate struct {
	Type UpdateType

	// Directory is set for directory updates and for messages raised while
	// a directory is being handled
	Directory *models.DirectoryOutcome

	// File is set for file updates
	File *models.FileOutcome

	// CurrentFile and TotalFiles position a file update within its directory
	CurrentFile int
	TotalFiles  int

	Severity models.Severity
	Message  string

	// Suggestion is an optional command the operator may run by hand
	Suggestion string
}

// Reporter renders the progress and result of a merge run.
// The merge engine performs no output of its own; everything the operator
// sees goes through a Reporter.
type Reporter interface {
	// Start initializes the reporter for a new run
	Start(writer io.Writer, op *models.MergeOperation) error

	// Progress reports an event during the run
	Progress(update ProgressUpdate) error

	// Complete finalizes output once the run has ended, fatally or not
	Complete(report *models.RunReport) error

	// Error reports a run-aborting error
	Error(err error) error

	// Name returns the reporter name
	Name() string
}

// pathPair is implemented by errors that involve one or two filesystem paths
type pathPair interface {
	Paths() (string, string)
}
