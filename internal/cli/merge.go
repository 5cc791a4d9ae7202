package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/sdejongh/phodime/pkg/config"
	"github.com/sdejongh/phodime/pkg/logging"
	"github.com/sdejongh/phodime/pkg/merge"
	"github.com/sdejongh/phodime/pkg/models"
	"github.com/sdejongh/phodime/pkg/output"
	"github.com/sdejongh/phodime/pkg/ratelimit"
	"github.com/sdejongh/phodime/pkg/storage"
)

// MergeFlags holds merge flags
type MergeFlags struct {
	Force        bool
	Output       string
	Report       string
	ReportFormat string
	Exclude      []string
	CheckExif    bool
	Verify       bool
	BwLimit      string
	NoProgress   bool
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var mergeFlags MergeFlags

// NewRootCommand creates the root command, which runs the merge itself
func NewRootCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phodime [options] INDIR [INDIR...] OUTDIR",
		Short: "Merge photo directories from several phones into one",
		Long: `phodime merges photos exported from several phone cameras into a single
output directory. Each input directory is checked for a known file naming
scheme (Huawei, Samsung, Windows Phone) and every file is copied under a
normalized name:

  YYYYMMDD-hhmmss-INDIR[_suffix].ext

Source files are never modified, moved or deleted.`,
		Version:       version,
		Args:          cobra.MinimumNArgs(2),
		RunE:          runMerge,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd)

	cmd.Flags().BoolVarP(&mergeFlags.Force, "force", "f", false, "use a non empty OUTDIR and overwrite existing files")
	cmd.Flags().StringVarP(&mergeFlags.Output, "output", "o", "", "output format: human, json")
	cmd.Flags().StringVar(&mergeFlags.Report, "report", "", "write a run report to file")
	cmd.Flags().StringVar(&mergeFlags.ReportFormat, "report-format", "", "run report format: human, json (default from file extension)")
	cmd.Flags().StringSliceVar(&mergeFlags.Exclude, "exclude", []string{}, "glob patterns of file names to ignore")
	cmd.Flags().BoolVar(&mergeFlags.CheckExif, "check-exif", false, "compare file name dates with EXIF capture dates (verbose only)")
	cmd.Flags().BoolVar(&mergeFlags.Verify, "verify", false, "compare every copy with its source by SHA-256")
	cmd.Flags().StringVar(&mergeFlags.BwLimit, "bwlimit", "", "limit copy bandwidth, e.g. 512K, 10M, 1G")
	cmd.Flags().BoolVar(&mergeFlags.NoProgress, "no-progress", false, "disable the progress bar")

	// Logging flags
	cmd.Flags().StringVar(&mergeFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&mergeFlags.LogFormat, "log-format", "", "log format: text, json")
	cmd.Flags().StringVar(&mergeFlags.LogLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(NewConfigCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

func runMerge(cmd *cobra.Command, args []string) error {
	code, err := executeMerge(cmd, args)
	if err != nil {
		return err
	}
	if code != models.ExitOK {
		os.Exit(code)
	}
	return nil
}

// executeMerge runs a merge and returns its exit code. A returned error
// means the run could not be set up at all.
func executeMerge(cmd *cobra.Command, args []string) (int, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	inputs, outdir := args[:len(args)-1], args[len(args)-1]
	if err := validateMergeArgs(inputs, outdir); err != nil {
		return models.ExitError, err
	}

	cfg, err := loadConfig()
	if err != nil {
		return models.ExitError, fmt.Errorf("failed to load config: %w", err)
	}

	applyFlagsToConfig(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return models.ExitError, fmt.Errorf("invalid configuration: %w", err)
	}

	operation, err := createMergeOperation(cfg, inputs, outdir)
	if err != nil {
		return models.ExitError, fmt.Errorf("failed to create merge operation: %w", err)
	}

	configureColor(cfg)

	backend := storage.NewLocal()
	defer backend.Close()

	// Validate already vetted the rate
	limit, _ := ratelimit.ParseRate(cfg.Merge.BandwidthLimit)
	backend.SetBandwidthLimit(limit)

	logger, err := createLogger(cfg.Logging)
	if err != nil {
		return models.ExitError, fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	reporter := createReporter(cfg)
	prompter := createPrompter()

	engine := merge.NewEngine(backend, reporter, prompter, logger, operation)
	engine.SetOutput(cmd.OutOrStdout())

	report, _ := engine.Run(ctx)

	if mergeFlags.Report != "" {
		if err := output.WriteReport(report, mergeFlags.Report, mergeFlags.ReportFormat); err != nil {
			logger.Error(ctx, "failed to write run report", err, logging.Fields{"path": mergeFlags.Report})
			if !operation.Flags.Quiet {
				fmt.Fprintf(os.Stderr, "Error: failed to write run report: %v\n", err)
			}
			if report.ExitCode == models.ExitOK {
				return models.ExitError, nil
			}
		}
	}

	return report.ExitCode, nil
}

// createReporter picks the reporter for the configured output format
func createReporter(cfg *config.Config) output.Reporter {
	switch {
	case cfg.Output.Quiet:
		return output.NewNullFormatter()
	case cfg.Output.Format == "json":
		return output.NewJSONFormatter()
	case cfg.Output.Progress && !cfg.Output.Verbose && isTerminal(os.Stdout):
		return output.NewProgressFormatter()
	default:
		return output.NewHumanFormatter()
	}
}

// createLogger creates a logger based on configuration
func createLogger(cfg config.LoggingConfig) (logging.Logger, error) {
	if !cfg.Enabled || cfg.File == "" {
		return logging.NewNullLogger(), nil
	}

	format := logging.FormatText
	if cfg.Format == "json" {
		format = logging.FormatJSON
	}

	return logging.NewFileLogger(logging.FileLoggerConfig{
		Path:       cfg.File,
		Format:     format,
		Level:      logging.ParseLevel(cfg.Level),
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
	})
}
