package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	seqerrors "github.com/Aman-CERP/seqmatch/internal/errors"
	"github.com/Aman-CERP/seqmatch/internal/output"
	"github.com/Aman-CERP/seqmatch/internal/ui"
	"github.com/Aman-CERP/seqmatch/pkg/matcher"
)

// occTableLimit is the longest BWT whose full Occ table is printed.
const occTableLimit = 64

func newBWTCmd() *cobra.Command {
	var (
		input      inputOptions
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "bwt",
		Short: "Show the Burrows-Wheeler transform behind the FM-index",
		Long: `Print the Burrows-Wheeler transform of the sequence, its C-table,
the sorted rotation order and the suffix array, then check that inverting
the transform recovers the original text.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBWT(cmd, input, jsonOutput)
		},
	}

	addInputFlags(cmd, &input)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// bwtOutput is the JSON output of the bwt command.
type bwtOutput struct {
	Text          string         `json:"text"`
	BWT           string         `json:"bwt"`
	CTable        map[string]int `json:"c_table"`
	RotationOrder []int          `json:"rotation_order"`
	SuffixArray   []int          `json:"suffix_array"`
	RoundTrip     bool           `json:"round_trip"`
}

func runBWT(cmd *cobra.Command, input inputOptions, jsonOutput bool) error {
	cfg := currentConfig()
	seq, err := input.resolve(cfg)
	if err != nil {
		return err
	}

	fm := matcher.NewFMIndex(seq.Data)
	sa := matcher.NewSuffixArray(seq.Data)

	inverse, err := matcher.InverseBWT(fm.BWT())
	if err != nil {
		return seqerrors.New(seqerrors.ErrCodeIndexFailed, "failed to invert the transform", err)
	}
	text := seq.Data + string(matcher.Sentinel)
	roundTrip := inverse == text

	if jsonOutput {
		table := make(map[string]int)
		for sym, c := range fm.CTable() {
			table[string(sym)] = c
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(bwtOutput{
			Text:          text,
			BWT:           fm.BWT(),
			CTable:        table,
			RotationOrder: fm.RotationOrder(),
			SuffixArray:   sa.Array(),
			RoundTrip:     roundTrip,
		})
	}

	w := cmd.OutOrStdout()
	out := output.New(w)
	styles := ui.StylesFor(w, cfg.UI.ColorScheme, noColor)

	_, _ = fmt.Fprintln(w, styles.Header.Render("Burrows-Wheeler Transform"))
	out.Newline()
	out.Fields(
		[2]string{"Text", text},
		[2]string{"BWT", fm.BWT()},
		[2]string{"Length", fmt.Sprint(fm.Len())},
	)
	out.Newline()

	symbols := fm.Symbols()
	var ctable []string
	for _, sym := range symbols {
		ctable = append(ctable, fmt.Sprintf("%c=%d", sym, fm.CTable()[sym]))
	}
	out.Fields(
		[2]string{"C-table", strings.Join(ctable, "  ")},
		[2]string{"Rotation order", ui.PositionList(fm.RotationOrder(), 30)},
		[2]string{"Suffix array", ui.PositionList(sa.Array(), 30)},
	)

	if fm.Len() <= occTableLimit {
		out.Newline()
		_, _ = fmt.Fprintln(w, styles.Title.Render("Occ table"))
		_, _ = fmt.Fprint(w, occTable(fm, symbols))
	}

	out.Newline()
	if roundTrip {
		out.Success("Inverse BWT recovers the original text")
		return nil
	}
	out.Error("Inverse BWT does not match the original text")
	return seqerrors.InternalError("inverse BWT mismatch", nil).
		WithDetail("expected", text).
		WithDetail("got", inverse)
}

// occTable renders Occ(c, i) for every symbol and prefix length.
func occTable(fm *matcher.FMIndex, symbols []byte) string {
	var b strings.Builder
	bwt := fm.BWT()

	b.WriteString("     i  L")
	for _, sym := range symbols {
		fmt.Fprintf(&b, " %3c", sym)
	}
	b.WriteByte('\n')

	for i := 0; i <= len(bwt); i++ {
		ch := " "
		if i < len(bwt) {
			ch = string(bwt[i])
		}
		fmt.Fprintf(&b, "  %4d  %s", i, ch)
		for _, sym := range symbols {
			fmt.Fprintf(&b, " %3d", fm.Occ(sym, i))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
