package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sdejongh/phodime/pkg/models"
)

// JSONFormatter writes a single JSON document describing the run
// once it is complete, for automation and scripting
type JSONFormatter struct {
	writer   io.Writer
	messages []JSONMessage
	fatal    *JSONFatal
}

// JSONMessage is an error, warning or info raised during the run
type JSONMessage struct {
	Timestamp  time.Time       `json:"timestamp"`
	Severity   models.Severity `json:"severity"`
	Directory  string          `json:"directory,omitempty"`
	Message    string          `json:"message"`
	Suggestion string          `json:"suggestion,omitempty"`
}

// JSONFatal describes a run-aborting error
type JSONFatal struct {
	Message string `json:"message"`
	Path1   string `json:"path1,omitempty"`
	Path2   string `json:"path2,omitempty"`
}

// JSONReport is the document written by JSONFormatter and by WriteReport
type JSONReport struct {
	OperationID string                    `json:"operation_id"`
	InputDirs   []string                  `json:"input_dirs"`
	OutputDir   string                    `json:"output_dir"`
	StartTime   time.Time                 `json:"start_time"`
	EndTime     time.Time                 `json:"end_time"`
	DurationMs  int64                     `json:"duration_ms"`
	Directories []models.DirectoryOutcome `json:"directories"`
	Totals      models.Totals             `json:"totals"`
	Messages    []JSONMessage             `json:"messages,omitempty"`
	Aborted     bool                      `json:"aborted"`
	Fatal       *JSONFatal                `json:"fatal,omitempty"`
	ExitCode    int                       `json:"exit_code"`
}

// NewJSONFormatter creates a new JSON reporter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Start initializes the reporter
func (f *JSONFormatter) Start(writer io.Writer, op *models.MergeOperation) error {
	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer
	f.messages = nil
	f.fatal = nil
	return nil
}

// Progress records messages; directory and file details come from the report
func (f *JSONFormatter) Progress(update ProgressUpdate) error {
	if update.Type != UpdateMessage {
		return nil
	}

	msg := JSONMessage{
		Timestamp:  time.Now(),
		Severity:   update.Severity,
		Message:    update.Message,
		Suggestion: update.Suggestion,
	}
	if update.Directory != nil {
		msg.Directory = update.Directory.Path
	}
	f.messages = append(f.messages, msg)
	return nil
}

// Complete writes the JSON document
func (f *JSONFormatter) Complete(report *models.RunReport) error {
	if f.writer == nil {
		f.writer = os.Stdout
	}

	doc := NewJSONReport(report)
	doc.Messages = f.messages
	if f.fatal != nil {
		doc.Fatal = f.fatal
	}

	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// Error records the fatal error for the final document
func (f *JSONFormatter) Error(err error) error {
	f.fatal = newJSONFatal(err)
	return nil
}

// Name returns the reporter name
func (f *JSONFormatter) Name() string {
	return "json"
}

// NewJSONReport converts a run report to its JSON document form
func NewJSONReport(report *models.RunReport) *JSONReport {
	doc := &JSONReport{
		OperationID: report.OperationID,
		InputDirs:   report.InputDirs,
		OutputDir:   report.OutputDir,
		StartTime:   report.StartTime,
		EndTime:     report.EndTime,
		DurationMs:  report.Duration.Milliseconds(),
		Directories: report.Directories,
		Totals:      report.Totals(),
		Aborted:     report.Aborted,
		ExitCode:    report.ExitCode,
	}
	if doc.Directories == nil {
		doc.Directories = []models.DirectoryOutcome{}
	}
	if report.Fatal != "" {
		doc.Fatal = &JSONFatal{Message: report.Fatal}
	}
	return doc
}

func newJSONFatal(err error) *JSONFatal {
	fatal := &JSONFatal{Message: err.Error()}
	var pp pathPair
	if errors.As(err, &pp) {
		fatal.Path1, fatal.Path2 = pp.Paths()
	}
	return fatal
}
