// Package cmd provides the CLI commands for seqmatch.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/seqmatch/internal/config"
	seqerrors "github.com/Aman-CERP/seqmatch/internal/errors"
	"github.com/Aman-CERP/seqmatch/internal/logging"
	"github.com/Aman-CERP/seqmatch/internal/resources"
	"github.com/Aman-CERP/seqmatch/pkg/version"
)

// Profiling flags
var (
	profileCPU   string
	profileMem   string
	profileTrace string
	profiler     = resources.NewProfiler()
	cpuCleanup   func()
	traceCleanup func()
)

// Global flags and the configuration they produce
var (
	debugMode      bool
	noColor        bool
	dataDir        string
	appConfig      *config.Config
	loggingCleanup func()
)

// NewRootCmd creates the root command for the seqmatch CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seqmatch",
		Short: "Exact DNA pattern search with suffix arrays and FM-indexes",
		Long: `seqmatch finds every occurrence of a pattern in a DNA sequence using
two index structures, a suffix array and an FM-index, and compares how
much work each one does.

Searches are saved to a local history that can be exported as CSV, JSON
or a Markdown report.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("seqmatch version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&profileCPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&profileMem, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&profileTrace, "profile-trace", "", "Write execution trace to file")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging (also copied to stderr)")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory for history and logs (default ~/.seqmatch)")

	cmd.PersistentPreRunE = startProfilingAndLogging
	cmd.PersistentPostRunE = stopProfilingAndLogging

	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newCompareCmd())
	cmd.AddCommand(newBatchCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newBWTCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newSamplesCmd())
	cmd.AddCommand(newSchemesCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newLogsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startProfilingAndLogging loads configuration, then starts logging and any
// requested profiles.
func startProfilingAndLogging(_ *cobra.Command, _ []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	appConfig = cfg

	logCfg := logging.Config{
		Level:     cfg.Logging.Level,
		FilePath:  logPath(cfg),
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		MaxFiles:  cfg.Logging.MaxFiles,
	}
	if debugMode {
		logCfg.Level = "debug"
		logCfg.WriteToStderr = true
	}
	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		// Logging is best effort; commands still run without a log file
		slog.SetDefault(logging.Discard())
	} else {
		loggingCleanup = cleanup
		slog.SetDefault(logger)
		slog.Debug("debug logging enabled",
			slog.String("log_file", logCfg.FilePath),
			slog.String("version", version.Version))
	}

	if profileCPU != "" {
		cpuCleanup, err = profiler.StartCPU(profileCPU)
		if err != nil {
			return fmt.Errorf("failed to start CPU profile: %w", err)
		}
	}

	if profileTrace != "" {
		traceCleanup, err = profiler.StartTrace(profileTrace)
		if err != nil {
			if cpuCleanup != nil {
				cpuCleanup()
				cpuCleanup = nil
			}
			return fmt.Errorf("failed to start trace: %w", err)
		}
	}

	return nil
}

// stopProfilingAndLogging stops profiling and logging, writing the memory
// profile if requested.
func stopProfilingAndLogging(_ *cobra.Command, _ []string) error {
	if cpuCleanup != nil {
		cpuCleanup()
		cpuCleanup = nil
	}

	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}

	if profileMem != "" {
		if err := profiler.WriteHeap(profileMem); err != nil {
			return fmt.Errorf("failed to write memory profile: %w", err)
		}
	}

	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}

	return nil
}

// logPath returns the log file inside the configured data directory.
func logPath(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "logs", "seqmatch.log")
}

// currentConfig returns the configuration loaded by the root command, or
// defaults when a subcommand runs on its own.
func currentConfig() *config.Config {
	if appConfig == nil {
		appConfig = config.NewConfig()
	}
	return appConfig
}

// Execute runs the root command and prints any error.
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil {
		if _, ok := seqerrors.As(err); ok {
			slog.Error("command_failed", seqerrors.LogAttrs(err)...)
		}
		_, _ = fmt.Fprint(os.Stderr, seqerrors.FormatForCLI(err))
		// Post-run hooks are skipped when a command fails
		_ = stopProfilingAndLogging(nil, nil)
	}
	return err
}
