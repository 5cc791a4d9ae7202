package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sdejongh/phodime/pkg/models"
)

// WriteReport writes the run report to a file.
// Format can be "human" or "json"; an empty format is inferred from the
// file extension.
func WriteReport(report *models.RunReport, path string, format string) error {
	if format == "" {
		format = "human"
		if strings.EqualFold(filepath.Ext(path), ".json") {
			format = "json"
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	switch format {
	case "json":
		return writeReportJSON(report, file)
	default:
		return writeReportHuman(report, file)
	}
}

func writeReportJSON(report *models.RunReport, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewJSONReport(report)); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// writeReportHuman lists every directory and every file that was not copied,
// with the manual command suggested for it
func writeReportHuman(report *models.RunReport, w io.Writer) error {
	fmt.Fprintf(w, "Merge Report\n")
	fmt.Fprintf(w, "============\n\n")
	fmt.Fprintf(w, "Run:      %s\n", report.OperationID)
	fmt.Fprintf(w, "Started:  %s\n", report.StartTime.Format(time.RFC3339))
	fmt.Fprintf(w, "Duration: %s\n", formatDuration(report.Duration))
	fmt.Fprintf(w, "Output:   %s\n", report.OutputDir)
	if report.Aborted {
		fmt.Fprintf(w, "Status:   aborted by operator\n")
	}
	if report.Fatal != "" {
		fmt.Fprintf(w, "Fatal:    %s\n", report.Fatal)
	}
	fmt.Fprintf(w, "Exit:     %d\n\n", report.ExitCode)

	for _, d := range report.Directories {
		fmt.Fprintf(w, "%s\n", d.Path)
		fmt.Fprintf(w, "  name:       %s\n", d.BaseName)
		fmt.Fprintf(w, "  scheme:     %s (%d%%)\n", d.Scheme, percent(d.Confidence))
		if d.Skipped {
			fmt.Fprintf(w, "  skipped:    %s\n", d.SkipReason)
		}
		fmt.Fprintf(w, "  files:      %d copied of %d\n", d.FilesCopied, d.FilesSeen)
		fmt.Fprintf(w, "  errors:     %d, warnings: %d\n", d.Errors, d.Warnings)

		for _, f := range d.Files {
			if f.Action.Copied() {
				continue
			}
			fmt.Fprintf(w, "    [%s] %s", f.Action, f.Source)
			if f.Reason != "" {
				fmt.Fprintf(w, ": %s", f.Reason)
			}
			fmt.Fprintln(w)
			if f.Suggestion != "" {
				fmt.Fprintf(w, "      %s\n", f.Suggestion)
			}
		}
		fmt.Fprintln(w)
	}

	writeSummary(w, report, true, false)
	return nil
}

// formatDuration formats duration in human-readable format
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
