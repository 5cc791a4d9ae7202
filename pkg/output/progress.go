package output

import (
	"io"
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/sdejongh/phodime/pkg/models"
)

// barTemplate shows the directory being merged followed by a counter bar
const barTemplate = `{{string . "prefix"}} {{counters . }} {{bar . "[" "=" ">" " " "]"}} {{percent . }}`

// ProgressFormatter draws one progress bar per accepted input directory.
// Messages raised while a bar is on screen are held back and printed once
// the bar has finished so they do not tear the bar apart.
type ProgressFormatter struct {
	human   *HumanFormatter
	writer  io.Writer
	bar     *pb.ProgressBar
	pending []ProgressUpdate
}

// NewProgressFormatter creates a new progress bar reporter
func NewProgressFormatter() *ProgressFormatter {
	return &ProgressFormatter{human: NewHumanFormatter()}
}

// Start initializes the reporter
func (f *ProgressFormatter) Start(writer io.Writer, op *models.MergeOperation) error {
	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer
	return f.human.Start(writer, op)
}

// Progress advances the bar or forwards the update to the line renderer
func (f *ProgressFormatter) Progress(update ProgressUpdate) error {
	switch update.Type {
	case UpdateDirectoryStart:
		if err := f.human.Progress(update); err != nil {
			return err
		}
		if update.Directory != nil && !update.Directory.Skipped && update.TotalFiles > 0 {
			f.bar = pb.New(update.TotalFiles).
				SetTemplateString(barTemplate).
				SetWriter(f.writer).
				Set("prefix", update.Directory.BaseName).
				Start()
		}
		return nil

	case UpdateFile:
		if f.bar != nil {
			f.bar.Increment()
			return nil
		}
		return f.human.Progress(update)

	case UpdateDirectoryDone:
		f.finishBar()
		return f.human.Progress(update)

	default:
		if f.bar != nil {
			f.pending = append(f.pending, update)
			return nil
		}
		return f.human.Progress(update)
	}
}

// Complete prints the run summary
func (f *ProgressFormatter) Complete(report *models.RunReport) error {
	f.finishBar()
	return f.human.Complete(report)
}

// Error reports a fatal error below any bar still on screen
func (f *ProgressFormatter) Error(err error) error {
	f.finishBar()
	return f.human.Error(err)
}

// Name returns the reporter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}

func (f *ProgressFormatter) finishBar() {
	if f.bar != nil {
		f.bar.Finish()
		f.bar = nil
	}
	for _, update := range f.pending {
		f.human.Progress(update)
	}
	f.pending = nil
}
