package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Aman-CERP/seqmatch/internal/telemetry"
	"github.com/Aman-CERP/seqmatch/internal/ui"
)

func newStatsCmd() *cobra.Command {
	var (
		jsonOutput bool
		top        int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show search statistics",
		Long: `Display telemetry recorded by past searches:
  - Searches and zero-result searches per algorithm
  - Most searched patterns
  - Recent patterns without matches
  - Latency distribution`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := currentConfig()
			store, err := openHistory(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			metrics, err := telemetry.NewSQLiteMetricsStore(store.DB())
			if err != nil {
				return err
			}
			snap, err := telemetry.LoadSnapshot(metrics, top)
			if err != nil {
				return err
			}

			renderer := ui.NewStatsRenderer(cmd.OutOrStdout(), ui.StylesFor(cmd.OutOrStdout(), cfg.UI.ColorScheme, noColor))
			if jsonOutput {
				return renderer.RenderJSON(snap)
			}
			return renderer.Render(snap)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().IntVar(&top, "top", 10, "Number of top patterns to show")

	return cmd
}
