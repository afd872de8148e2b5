package ui

import (
	"fmt"
	"strings"

	"github.com/Aman-CERP/seqmatch/pkg/matcher"
)

// cardPositionLimit caps the positions listed on a card.
const cardPositionLimit = 20

// AlgorithmCard renders a boxed summary of one search result.
func AlgorithmCard(title string, r matcher.Result, s Styles) string {
	rows := [][2]string{
		{"Execution Time", fmt.Sprintf("%gms", r.TimeMS)},
		{"Iterations", fmt.Sprint(r.Iters)},
		{"Char Comparisons", fmt.Sprint(r.CharComp)},
		{"Matches Found", fmt.Sprint(r.Count())},
		{"Memory", fmt.Sprintf("%.1f MB", r.MemoryUsage)},
		{"CPU", fmt.Sprintf("%.1f%%", r.CPUUsage)},
	}

	var b strings.Builder
	b.WriteString(s.Title.Render(title))
	b.WriteByte('\n')
	writeRows(&b, rows, s)
	if r.Found() {
		b.WriteString(s.Label.Render("Match Positions:"))
		b.WriteByte('\n')
		b.WriteString(s.Position.Render(PositionList(r.Positions, cardPositionLimit)))
	} else {
		b.WriteString(s.Dim.Render("No matches"))
	}

	if !s.Color {
		return b.String() + "\n"
	}
	return s.Panel.Render(b.String())
}

// complexityRow is one line of the theoretical complexity table.
type complexityRow struct {
	algorithm    string
	construction string
	space        string
	search       string
	description  string
}

var complexityRows = []complexityRow{
	{"Suffix Array", "O(n² log n)", "O(n)", "O(m log n)", "Simple but effective for multiple searches on the same text"},
	{"FM-Index", "O(n)", "O(n)", "O(m)", "Memory efficient with compressed representation"},
}

// ComplexityTable renders the theoretical costs of both algorithms.
func ComplexityTable(s Styles) string {
	var b strings.Builder
	b.WriteString(s.Header.Render("Time Complexity Analysis"))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "  %-14s %-14s %-8s %s\n", "Algorithm", "Construction", "Space", "Search")
	for _, r := range complexityRows {
		fmt.Fprintf(&b, "  %s %s %s %s\n",
			s.Title.Render(padRight(r.algorithm, 14)),
			padRight(r.construction, 14), padRight(r.space, 8), r.search)
		b.WriteString("  " + s.Dim.Render(r.description) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(s.Label.Render("  n: length of the text/sequence   m: length of the search pattern   σ: alphabet size (4 for DNA)"))
	b.WriteString("\n")
	return b.String()
}

func writeRows(b *strings.Builder, rows [][2]string, s Styles) {
	width := 0
	for _, r := range rows {
		width = max(width, len(r[0]))
	}
	for _, r := range rows {
		b.WriteString(s.Label.Render(padRight(r[0]+":", width+1)))
		b.WriteString(" ")
		b.WriteString(s.Value.Render(r[1]))
		b.WriteByte('\n')
	}
}

// padRight pads by rune count so multi-byte symbols line up.
func padRight(str string, width int) string {
	n := len([]rune(str))
	if n >= width {
		return str
	}
	return str + strings.Repeat(" ", width-n)
}
