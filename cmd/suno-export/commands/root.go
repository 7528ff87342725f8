package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/handiism/suno-exporter/internal/config"
	"github.com/handiism/suno-exporter/internal/pipeline"
)

const issuesURL = "https://github.com/handiism/suno-exporter/issues"

// errUsage marks errors caused by invalid input rather than a failure.
var errUsage = errors.New("invalid usage")

var (
	configPath string
	outputDir  string
	formats    []string
	verbose    bool
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", config.DefaultFileName, "Settings file (JSON5). A <name>.local.json5 next to it overrides it.")
	pf.StringVarP(&outputDir, "output", "o", "", "Directory export files are written to (overrides config).")
	pf.StringSliceVarP(&formats, "format", "f", nil, "Export formats: csv, json, txt, m3u (overrides config).")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Show debug output.")
}

var rootCmd = &cobra.Command{
	Use:           "suno-export",
	Short:         "suno-export collects every song of a Suno page and exports them as CSV, JSON and text.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExecuteContext runs the command line and returns the process exit code.
func ExecuteContext(ctx context.Context) (code int) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("unexpected failure, please report this issue", "panic", r, "issues", issuesURL)
			code = 1
		}
	}()

	err := rootCmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		slog.Warn("cancelled")
		return 130
	case errors.Is(err, pipeline.ErrNoSongs):
		slog.Error(err.Error())
		return 2
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		return 2
	default:
		slog.Error("export failed, please report this issue if it persists", "error", err, "issues", issuesURL)
		return 1
	}
}

// newLogger returns a colored logger tagged with a run identifier.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	return logger.With("run", uuid.NewString())
}

// loadSettings reads the settings file and applies the persistent flags.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		settings.OutputDir = outputDir
	}
	if flags.Changed("format") {
		settings.Formats = formats
	}
	if flags.Changed("verbose") {
		settings.Verbose = verbose
	}
	return settings, nil
}

// validate checks settings after every flag has been applied and installs
// the logger for the run.
func validate(settings *config.Settings) (*slog.Logger, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	logger := newLogger(settings.Verbose)
	slog.SetDefault(logger)
	return logger, nil
}
