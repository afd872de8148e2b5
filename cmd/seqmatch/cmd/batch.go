package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/seqmatch/internal/compare"
	seqerrors "github.com/Aman-CERP/seqmatch/internal/errors"
	"github.com/Aman-CERP/seqmatch/internal/history"
	"github.com/Aman-CERP/seqmatch/internal/output"
)

type batchOptions struct {
	input       inputOptions
	patterns    []string
	parallelism int
	noHistory   bool
	format      string
}

func newBatchCmd() *cobra.Command {
	var opts batchOptions

	cmd := &cobra.Command{
		Use:   "batch [pattern...]",
		Short: "Compare many patterns against one sequence",
		Long: `Build both indexes once and compare every pattern against them.
Patterns come from arguments and --patterns; searches run concurrently.

Examples:
  seqmatch batch ACGT GATC TTAG
  seqmatch batch --patterns ACGT,GCGC --sample complex --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), cmd, append(opts.patterns, args...), opts)
		},
	}

	addInputFlags(cmd, &opts.input)
	cmd.Flags().StringSliceVarP(&opts.patterns, "patterns", "p", nil, "Comma-separated patterns")
	cmd.Flags().IntVarP(&opts.parallelism, "parallel", "j", 0, "Concurrent searches (default GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "Do not save the comparisons to history")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func runBatch(ctx context.Context, cmd *cobra.Command, rawPatterns []string, opts batchOptions) error {
	cfg := currentConfig()

	seq, err := opts.input.resolve(cfg)
	if err != nil {
		return err
	}

	var patterns []string
	for _, raw := range rawPatterns {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		p, err := resolvePattern(raw, seq)
		if err != nil {
			return err
		}
		patterns = append(patterns, p)
	}
	if len(patterns) == 0 {
		return seqerrors.New(seqerrors.ErrCodeEmptyInput, "no patterns given", nil).
			WithSuggestion("Pass patterns as arguments or with --patterns")
	}

	w := cmd.OutOrStdout()
	out := output.New(w)
	batchOpts := []compare.BatchOption{compare.WithParallelism(opts.parallelism)}
	if opts.format != "json" {
		batchOpts = append(batchOpts, compare.WithProgress(func(done, total int, pattern string) {
			out.Progress(done, total, pattern)
		}))
	}

	sampler := newSampler(cfg)
	sampler.Start(ctx, "")
	results, err := compare.Batch(ctx, seq.Data, patterns, sampler, batchOpts...)
	sampler.Stop()
	if err != nil {
		return err
	}

	rec := openRecorder(cfg, !opts.noHistory)
	var saveErr error
	for _, c := range results {
		if seq.Name != "" {
			c.Name = fmt.Sprintf("%s: %s", seq.Name, c.Name)
		}
		if err := rec.saved(ctx, history.FromComparison(c)); err != nil && saveErr == nil {
			saveErr = err
		}
	}
	rec.Close()

	if opts.format == "json" {
		if saveErr != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: not saved to history: %v\n", saveErr)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	out.Newline()
	_, _ = fmt.Fprintf(w, "  %-12s %8s %12s %12s %6s\n", "Pattern", "Matches", "Suffix (ms)", "FM (ms)", "Agree")
	for _, c := range results {
		agree := "yes"
		if !c.Agreement.Agree {
			agree = "NO"
		}
		_, _ = fmt.Fprintf(w, "  %-12s %8d %12g %12g %6s\n",
			truncate(c.Pattern, 12), c.FM.Count(), c.Suffix.TimeMS, c.FM.TimeMS, agree)
	}
	out.Newline()
	out.Successf("Compared %d patterns against %d bases", len(results), seq.Len())

	if saveErr != nil {
		out.Warningf("Not saved to history: %v", saveErr)
	}
	return nil
}

// truncate shortens s to n bytes, marking the cut with "…".
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
