package output

import (
	"io"

	"github.com/sdejongh/phodime/pkg/models"
)

// NullFormatter discards all output; used in quiet mode
type NullFormatter struct{}

// NewNullFormatter creates a reporter that prints nothing
func NewNullFormatter() *NullFormatter {
	return &NullFormatter{}
}

func (f *NullFormatter) Start(writer io.Writer, op *models.MergeOperation) error { return nil }
func (f *NullFormatter) Progress(update ProgressUpdate) error                    { return nil }
func (f *NullFormatter) Complete(report *models.RunReport) error                 { return nil }
func (f *NullFormatter) Error(err error) error                                   { return nil }
func (f *NullFormatter) Name() string                                            { return "null" }
