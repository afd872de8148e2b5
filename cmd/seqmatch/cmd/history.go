package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	seqerrors "github.com/Aman-CERP/seqmatch/internal/errors"
	"github.com/Aman-CERP/seqmatch/internal/history"
	"github.com/Aman-CERP/seqmatch/internal/output"
	"github.com/Aman-CERP/seqmatch/internal/ui"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage saved comparisons",
		Long: `List, inspect and clear the comparisons saved by 'seqmatch compare'
and 'seqmatch batch'.`,
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryClearCmd())
	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved comparisons, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openHistory(currentConfig())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			items, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}

			w := cmd.OutOrStdout()
			if len(items) == 0 {
				output.New(w).Status("📭", "No saved comparisons")
				return nil
			}

			_, _ = fmt.Fprintf(w, "%-8s  %-20s  %-12s  %7s  %11s  %9s  %s\n",
				"ID", "Name", "Pattern", "Matches", "Suffix (ms)", "FM (ms)", "When")
			for _, it := range items {
				_, _ = fmt.Fprintf(w, "%-8s  %-20s  %-12s  %7d  %11g  %9g  %s\n",
					shortID(it.ID), truncate(it.SequenceName, 20), truncate(it.Pattern, 12),
					it.FMResult.Count(), it.SuffixResult.TimeMS, it.FMResult.TimeMS,
					ui.RelativeTime(it.Timestamp))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Show the newest N comparisons (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one saved comparison",
		Long:  `Show one saved comparison. The id may be shortened to any unique prefix of at least 4 characters.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := currentConfig()
			store, err := openHistory(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			item, err := store.Get(cmd.Context(), args[0])
			if errors.Is(err, history.ErrNotFound) {
				return seqerrors.ValidationError(err.Error(), err).
					WithSuggestion("Run 'seqmatch history list' to see saved ids")
			}
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(item)
			}

			return printItem(cmd, item, ui.StylesFor(cmd.OutOrStdout(), cfg.UI.ColorScheme, noColor))
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func printItem(cmd *cobra.Command, item *history.Item, styles ui.Styles) error {
	w := cmd.OutOrStdout()
	out := output.New(w)

	_, _ = fmt.Fprintln(w, styles.Header.Render(item.SequenceName))
	out.Fields(
		[2]string{"ID", item.ID},
		[2]string{"Saved", item.Timestamp.Local().Format("2006-01-02 15:04:05") + " (" + ui.RelativeTime(item.Timestamp) + ")"},
		[2]string{"Pattern", item.Pattern},
		[2]string{"Sequence Length", fmt.Sprint(len(item.Sequence))},
	)
	out.Newline()
	_, _ = fmt.Fprintln(w, ui.AlgorithmCard("Suffix Array", item.SuffixResult, styles))
	_, _ = fmt.Fprintln(w, ui.AlgorithmCard("FM-Index", item.FMResult, styles))
	_, _ = fmt.Fprint(w, ui.Highlight(item.Sequence, len(item.Pattern), item.FMResult.Positions, styles))
	return nil
}

func newHistoryClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved comparison",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openHistory(currentConfig())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			n, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}
			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			output.New(cmd.OutOrStdout()).Successf("Removed %d saved comparisons", n)
			return nil
		},
	}
}
