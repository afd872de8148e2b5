package cmd

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	seqerrors "github.com/Aman-CERP/seqmatch/internal/errors"
	"github.com/Aman-CERP/seqmatch/internal/export"
	"github.com/Aman-CERP/seqmatch/internal/output"
)

func newExportCmd() *cobra.Command {
	var (
		format  string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export search history as CSV, JSON or a Markdown report",
		Long: `Export every saved comparison. Without --out the file is written to the
current directory with a dated default name; use --out - for stdout.

Examples:
  seqmatch export
  seqmatch export --format json --out results.json
  seqmatch export --format report --out -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, format, outPath)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Export format: csv, json, report")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file, or - for stdout")

	return cmd
}

func runExport(cmd *cobra.Command, formatName, outPath string) error {
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	store, err := openHistory(currentConfig())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	items, err := store.List(cmd.Context(), 0)
	if err != nil {
		return err
	}

	out := output.New(cmd.ErrOrStderr())
	if len(items) == 0 {
		out.Warning("No search history to export")
		return nil
	}

	if outPath == "-" {
		return export.Write(cmd.OutOrStdout(), format, items)
	}
	if outPath == "" {
		outPath = format.DefaultFilename(time.Now())
	}

	f, err := os.Create(outPath)
	if err != nil {
		return seqerrors.IOError("failed to create export file", err).WithDetail("path", outPath)
	}
	if err := export.Write(f, format, items); err != nil {
		_ = f.Close()
		return seqerrors.IOError("failed to write export file", err).WithDetail("path", outPath)
	}
	if err := f.Close(); err != nil {
		return seqerrors.IOError("failed to write export file", err).WithDetail("path", outPath)
	}

	slog.Info("history_exported",
		slog.String("format", string(format)),
		slog.String("path", outPath),
		slog.Int("items", len(items)))
	output.New(cmd.OutOrStdout()).Successf("Exported %d searches to %s", len(items), outPath)
	return nil
}
