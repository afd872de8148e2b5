package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/seqmatch/internal/output"
	"github.com/Aman-CERP/seqmatch/internal/ui"
	"github.com/Aman-CERP/seqmatch/pkg/matcher"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	input     inputOptions
	algorithm string
	format    string // "text", "json"
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <pattern>",
		Short: "Search a sequence with one algorithm",
		Long: `Build one index over the sequence and report every position where the
pattern occurs, with the work the algorithm did to find them.

Examples:
  seqmatch search ACGT
  seqmatch search GATC --sample gene --algorithm suffix
  seqmatch search TTAG --file genome.fa --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd, args[0], opts)
		},
	}

	addInputFlags(cmd, &opts.input)
	cmd.Flags().StringVarP(&opts.algorithm, "algorithm", "a", "", "Algorithm: suffix, fm (default from config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

// searchOutput is the JSON output of the search command.
type searchOutput struct {
	SequenceName   string         `json:"sequence_name,omitempty"`
	SequenceLength int            `json:"sequence_length"`
	Pattern        string         `json:"pattern"`
	Algorithm      string         `json:"algorithm"`
	BuildMS        float64        `json:"build_ms"`
	Result         matcher.Result `json:"result"`
}

func runSearch(ctx context.Context, cmd *cobra.Command, rawPattern string, opts searchOptions) error {
	cfg := currentConfig()

	alg, err := parseAlgorithm(opts.algorithm, cfg)
	if err != nil {
		return err
	}
	seq, err := opts.input.resolve(cfg)
	if err != nil {
		return err
	}
	pattern, err := resolvePattern(rawPattern, seq)
	if err != nil {
		return err
	}

	slog.Info("search_started",
		slog.String("algorithm", string(alg)),
		slog.String("pattern", pattern),
		slog.Int("sequence_length", seq.Len()))

	start := time.Now()
	index, err := matcher.Build(alg, seq.Data)
	if err != nil {
		return err
	}
	buildMS := float64(time.Since(start).Microseconds()) / 1000

	sampler := newSampler(cfg)
	sampler.Start(ctx, alg)
	result := index.Search(matcher.WithProbe(ctx, sampler), pattern)
	sampler.Stop()

	slog.Info("search_complete",
		slog.String("algorithm", string(alg)),
		slog.Int("matches", result.Count()),
		slog.Float64("time_ms", result.TimeMS))

	rec := openRecorder(cfg, false)
	rec.searched(pattern, alg, result)
	rec.Close()

	if opts.format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(searchOutput{
			SequenceName:   seq.Name,
			SequenceLength: seq.Len(),
			Pattern:        pattern,
			Algorithm:      string(alg),
			BuildMS:        buildMS,
			Result:         result,
		})
	}

	styles := ui.StylesFor(cmd.OutOrStdout(), cfg.UI.ColorScheme, noColor)
	out := output.New(cmd.OutOrStdout())
	out.Statusf("🔎", "Searching %d bases for %s with %s", seq.Len(), pattern, alg.DisplayName())
	out.Newline()
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), ui.AlgorithmCard(alg.DisplayName(), result, styles))
	if cfg.UI.Highlight {
		_, _ = fmt.Fprint(cmd.OutOrStdout(), ui.Highlight(seq.Data, len(pattern), result.Positions, styles))
	}
	out.Newline()
	out.Fields(
		[2]string{"Build", fmt.Sprintf("%gms", buildMS)},
		[2]string{"Memory", styles.Sparkline.Render(ui.SparklineOf(sampler.MemorySeries(), 40))},
	)
	return nil
}
