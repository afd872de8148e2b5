package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/seqmatch/internal/compare"
	"github.com/Aman-CERP/seqmatch/internal/history"
	"github.com/Aman-CERP/seqmatch/internal/output"
	"github.com/Aman-CERP/seqmatch/internal/ui"
)

type compareOptions struct {
	input     inputOptions
	name      string
	noHistory bool
	format    string
}

func newCompareCmd() *cobra.Command {
	var opts compareOptions

	cmd := &cobra.Command{
		Use:   "compare <pattern>",
		Short: "Search with both algorithms and compare them",
		Long: `Build a suffix array and an FM-index over the sequence, search both for
the pattern and show their results side by side. The comparison is saved
to history unless --no-history is given.

Examples:
  seqmatch compare ACGT
  seqmatch compare GCGC --sample complex
  seqmatch compare TAG --seq ACGTTAGCTAG --name "my read" --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd.Context(), cmd, args[0], opts)
		},
	}

	addInputFlags(cmd, &opts.input)
	cmd.Flags().StringVar(&opts.name, "name", "", "Name saved with the search (default: sample or file name)")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "Do not save this comparison to history")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func runCompare(ctx context.Context, cmd *cobra.Command, rawPattern string, opts compareOptions) error {
	cfg := currentConfig()

	seq, err := opts.input.resolve(cfg)
	if err != nil {
		return err
	}
	pattern, err := resolvePattern(rawPattern, seq)
	if err != nil {
		return err
	}

	name := opts.name
	if name == "" {
		name = seq.Name
	}

	sampler := newSampler(cfg)
	c, err := compare.Run(ctx, name, seq.Data, pattern, sampler)
	if err != nil {
		return err
	}

	rec := openRecorder(cfg, !opts.noHistory)
	item := history.FromComparison(c)
	saveErr := rec.saved(ctx, item)
	rec.Close()

	if opts.format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if saveErr != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: not saved to history: %v\n", saveErr)
		}
		return enc.Encode(c)
	}

	w := cmd.OutOrStdout()
	out := output.New(w)
	styles := ui.StylesFor(w, cfg.UI.ColorScheme, noColor)

	out.Statusf("🧬", "%d bases, pattern %s", len(c.Sequence), c.Pattern)
	out.Newline()
	_, _ = fmt.Fprintln(w, ui.AlgorithmCard("Suffix Array", c.Suffix, styles))
	_, _ = fmt.Fprintln(w, ui.AlgorithmCard("FM-Index", c.FM, styles))

	if cfg.UI.Highlight {
		_, _ = fmt.Fprint(w, ui.Highlight(c.Sequence, len(c.Pattern), c.FM.Positions, styles))
		out.Newline()
	}

	out.Fields(
		[2]string{"Build", fmt.Sprintf("suffix array %gms, FM-index %gms", c.Build.SuffixMS, c.Build.FMMS)},
		[2]string{"Speedup", speedupText(c)},
		[2]string{"Memory", styles.Sparkline.Render(ui.SparklineOf(sampler.MemorySeries(), 40))},
	)
	out.Newline()

	if c.Agreement.Agree {
		out.Success("Both algorithms found the same positions")
	} else {
		out.Warningf("Results differ: only in suffix array %v, only in FM-index %v",
			c.Agreement.OnlyInSuffix, c.Agreement.OnlyInFM)
	}

	switch {
	case saveErr != nil:
		out.Warningf("Not saved to history: %v", saveErr)
	case rec != nil && rec.save:
		out.Statusf("💾", "Saved as %s (%s)", item.SequenceName, shortID(item.ID))
	}
	return nil
}

func speedupText(c *compare.Comparison) string {
	s := c.Speedup()
	if s == 0 {
		return "n/a"
	}
	return fmt.Sprintf("FM-index %.2fx vs suffix array", s)
}

// shortID returns the first 8 characters of a history id.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
