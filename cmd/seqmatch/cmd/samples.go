package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/seqmatch/internal/sequence"
	"github.com/Aman-CERP/seqmatch/internal/ui"
)

func newSamplesCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "samples",
		Short: "List the built-in sample sequences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			samples := sequence.Samples()
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(samples)
			}

			styles := ui.StylesFor(cmd.OutOrStdout(), currentConfig().UI.ColorScheme, noColor)
			w := cmd.OutOrStdout()
			for _, s := range samples {
				_, _ = fmt.Fprintf(w, "%s  %s (%d bases)\n", styles.Title.Render(fmt.Sprintf("%-8s", s.Slug)), s.Name, len(s.Data))
				_, _ = fmt.Fprintf(w, "          %s\n", styles.Dim.Render(s.Description))
				_, _ = fmt.Fprintf(w, "          %s\n\n", s.Data)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newSchemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schemes",
		Short: "List the color schemes (set ui.color_scheme to choose one)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			current := currentConfig().UI.ColorScheme
			for _, s := range ui.Schemes() {
				styles := ui.StylesFor(w, s.ID, noColor)
				marker := " "
				if s.ID == current {
					marker = "*"
				}
				_, _ = fmt.Fprintf(w, "%s %-9s %-16s %s\n", marker, s.ID, s.Name, ui.Bases("ACGT", styles))
			}
			return nil
		},
	}
}
