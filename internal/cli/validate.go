package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/sdejongh/phodime/internal/platform"
	"github.com/sdejongh/phodime/pkg/config"
	"github.com/sdejongh/phodime/pkg/models"
	"golang.org/x/term"
)

// validateMergeArgs checks the positional arguments.
// Existence and equivalence are the engine's business.
func validateMergeArgs(inputs []string, outdir string) error {
	for _, in := range inputs {
		if err := platform.ValidatePath(in); err != nil {
			return fmt.Errorf("INDIR: %w", err)
		}
	}
	if err := platform.ValidatePath(outdir); err != nil {
		return fmt.Errorf("OUTDIR: %w", err)
	}

	switch mergeFlags.Output {
	case "", "human", "json":
	default:
		return fmt.Errorf("invalid output format: %s (valid: human, json)", mergeFlags.Output)
	}

	switch mergeFlags.ReportFormat {
	case "", "human", "json":
	default:
		return fmt.Errorf("invalid report format: %s (valid: human, json)", mergeFlags.ReportFormat)
	}

	return nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	return config.Load(globalFlags.ConfigFile)
}

// applyFlagsToConfig overrides config values with command-line flags.
// Only flags given on the command line win over the file.
func applyFlagsToConfig(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if mergeFlags.Force {
		cfg.Merge.Force = true
	}
	if mergeFlags.CheckExif {
		cfg.Merge.CheckExif = true
	}
	if mergeFlags.Verify {
		cfg.Merge.Verify = true
	}
	if mergeFlags.BwLimit != "" {
		cfg.Merge.BandwidthLimit = mergeFlags.BwLimit
	}

	if flags.Changed("exclude") {
		cfg.Exclude = mergeFlags.Exclude
	}

	if mergeFlags.Output != "" {
		cfg.Output.Format = mergeFlags.Output
	}
	if mergeFlags.NoProgress {
		cfg.Output.Progress = false
	}
	if globalFlags.NoColor {
		cfg.Output.Color = "never"
	}

	if globalFlags.Verbose {
		cfg.Output.Verbose = true
	}
	// Quiet wins over verbose
	if globalFlags.Quiet {
		cfg.Output.Quiet = true
	}
	if cfg.Output.Quiet {
		cfg.Output.Verbose = false
		cfg.Output.Progress = false
	}

	if mergeFlags.LogFile != "" {
		cfg.Logging.Enabled = true
		cfg.Logging.File = mergeFlags.LogFile
	}
	if mergeFlags.LogFormat != "" {
		cfg.Logging.Format = mergeFlags.LogFormat
	}
	if mergeFlags.LogLevel != "" {
		cfg.Logging.Level = mergeFlags.LogLevel
	}
}

// createMergeOperation creates a merge operation from configuration
func createMergeOperation(cfg *config.Config, inputs []string, outdir string) (*models.MergeOperation, error) {
	operation := &models.MergeOperation{
		ID:        uuid.New().String(),
		InputDirs: inputs,
		OutputDir: outdir,
		Flags: models.Flags{
			Force:   cfg.Merge.Force,
			Quiet:   cfg.Output.Quiet,
			Verbose: cfg.Output.Verbose,
		},
		ExcludePatterns: cfg.Exclude,
		CheckExif:       cfg.Merge.CheckExif,
		Verify:          cfg.Merge.Verify,
		CreatedAt:       time.Now(),
	}

	if err := operation.Validate(); err != nil {
		return nil, err
	}

	return operation, nil
}

// configureColor applies the colour setting; "auto" leaves the decision to
// the terminal detection of the color package
func configureColor(cfg *config.Config) {
	switch cfg.Output.Color {
	case "never":
		color.NoColor = true
	case "always":
		color.NoColor = false
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
