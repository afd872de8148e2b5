package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/seqmatch/internal/compare"
	"github.com/Aman-CERP/seqmatch/internal/config"
	seqerrors "github.com/Aman-CERP/seqmatch/internal/errors"
	"github.com/Aman-CERP/seqmatch/internal/history"
	"github.com/Aman-CERP/seqmatch/internal/output"
	"github.com/Aman-CERP/seqmatch/internal/sequence"
	"github.com/Aman-CERP/seqmatch/internal/watcher"
)

type watchOptions struct {
	file      string
	noHistory bool
	poll      bool
	debounce  time.Duration
	count     int
}

func newWatchCmd() *cobra.Command {
	var opts watchOptions

	cmd := &cobra.Command{
		Use:   "watch <pattern...> --file <path>",
		Short: "Re-run comparisons whenever a sequence file changes",
		Long: `Compare the patterns against a sequence file, then watch the file and
compare again each time it is saved. Press Ctrl+C to stop.

Examples:
  seqmatch watch ACGT GATC --file reads.fa
  seqmatch watch TTAG --file genome.txt --poll --no-history`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "Sequence file to watch (required)")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "Do not save the comparisons to history")
	cmd.Flags().BoolVar(&opts.poll, "poll", false, "Poll for changes instead of using file system notifications")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 200*time.Millisecond, "Wait this long after the last change before comparing")
	cmd.Flags().IntVar(&opts.count, "count", 0, "Stop after this many comparisons (0 = until interrupted)")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, patterns []string, opts watchOptions) error {
	if opts.file == "" {
		return seqerrors.ValidationError("watch needs a sequence file", nil).
			WithSuggestion("Pass the file to watch with --file")
	}

	cfg := currentConfig()
	w := cmd.OutOrStdout()
	out := output.New(w)

	// The first pass must succeed; later failures are reported and waited out.
	if err := watchPass(ctx, w, cfg, patterns, opts); err != nil {
		return err
	}
	runs := 1
	if opts.count > 0 && runs >= opts.count {
		return nil
	}

	fw, err := watcher.New(watcher.Options{
		DebounceWindow: opts.debounce,
		PollInterval:   cfg.SamplerInterval() * 10,
		ForcePolling:   opts.poll,
	}, opts.file)
	if err != nil {
		return seqerrors.IOError("cannot watch sequence file", err).WithDetail("path", opts.file)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := fw.Run(watchCtx); err != nil {
			slog.Warn("watcher_stopped", slog.String("error", err.Error()))
		}
	}()

	slog.Info("watch_started", slog.String("path", opts.file), slog.String("mode", fw.Type()))
	out.Newline()
	out.Statusf("👀", "Watching %s (%s), press Ctrl+C to stop", opts.file, fw.Type())

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-fw.Errors():
			out.Warningf("Watcher error: %v", err)
		case batch, ok := <-fw.Events():
			if !ok {
				return nil
			}
			last := batch[len(batch)-1]
			if last.Operation == watcher.OpDelete || last.Operation == watcher.OpRename {
				out.Warningf("%s was removed, waiting for it to come back", opts.file)
				continue
			}
			slog.Debug("watch_change", slog.String("op", last.Operation.String()))
			if err := watchPass(ctx, w, cfg, patterns, opts); err != nil {
				out.Warning(seqerrors.FormatForCLI(err))
				continue
			}
			runs++
			if opts.count > 0 && runs >= opts.count {
				return nil
			}
		}
	}
}

// watchPass loads the file and compares every pattern against it.
func watchPass(ctx context.Context, w io.Writer, cfg *config.Config, rawPatterns []string, opts watchOptions) error {
	input := inputOptions{file: opts.file}
	seq, err := input.resolve(cfg)
	if err != nil {
		return err
	}

	patterns := make([]string, 0, len(rawPatterns))
	for _, raw := range rawPatterns {
		p, err := resolvePattern(raw, seq)
		if err != nil {
			return err
		}
		patterns = append(patterns, p)
	}

	results, err := compare.Batch(ctx, seq.Data, patterns, nil)
	if err != nil {
		return err
	}

	rec := openRecorder(cfg, !opts.noHistory)
	defer rec.Close()

	stamp := time.Now().Format("15:04:05")
	_, _ = fmt.Fprintf(w, "%s  %s (%d bp)\n", stamp, displayName(seq), seq.Len())
	for _, c := range results {
		c.Name = displayName(seq) + ": " + c.Pattern
		if err := rec.saved(ctx, history.FromComparison(c)); err != nil {
			slog.Warn("history_save_failed", seqerrors.LogAttrs(err)...)
		}
		agree := ""
		if !c.Agreement.Agree {
			agree = "  (algorithms disagree)"
		}
		_, _ = fmt.Fprintf(w, "  %-12s %6d %s  sa %gms  fm %gms%s\n",
			truncate(c.Pattern, 12), c.FM.Count(), plural(c.FM.Count(), "match", "matches"),
			c.Suffix.TimeMS, c.FM.TimeMS, agree)
	}
	return nil
}

func displayName(seq *sequence.Sequence) string {
	if strings.TrimSpace(seq.Name) != "" {
		return seq.Name
	}
	return "sequence"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
