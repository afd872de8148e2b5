package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/Aman-CERP/seqmatch/internal/history"
)

// Summary aggregates timing over a history.
type Summary struct {
	TotalSearches int
	AvgSuffixMS   float64
	AvgFMMS       float64
}

// Summarize averages per-algorithm times. An empty history gives zeros.
func Summarize(items []*history.Item) Summary {
	s := Summary{TotalSearches: len(items)}
	if len(items) == 0 {
		return s
	}
	for _, it := range items {
		s.AvgSuffixMS += it.SuffixResult.TimeMS
		s.AvgFMMS += it.FMResult.TimeMS
	}
	s.AvgSuffixMS /= float64(len(items))
	s.AvgFMMS /= float64(len(items))
	return s
}

// Improvement is how much faster the FM-index was than the suffix array, in
// percent of the suffix array time. Zero when there is nothing to compare.
func (s Summary) Improvement() float64 {
	if s.AvgSuffixMS == 0 {
		return 0
	}
	return (s.AvgSuffixMS - s.AvgFMMS) / s.AvgSuffixMS * 100
}

// Report writes the Markdown analysis report.
func Report(w io.Writer, items []*history.Item) error {
	s := Summarize(items)

	var b strings.Builder
	b.WriteString("# Genome Pattern Recognition Analysis Report\n\n")
	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- Total Searches: %d\n", s.TotalSearches)
	fmt.Fprintf(&b, "- Average Suffix Array Time: %.3fms\n", s.AvgSuffixMS)
	fmt.Fprintf(&b, "- Average FM-Index Time: %.3fms\n", s.AvgFMMS)
	fmt.Fprintf(&b, "- Performance Improvement: %.1f%%\n", s.Improvement())
	b.WriteString("\n## Detailed Results\n")

	for i, it := range items {
		fmt.Fprintf(&b, "\n### Search %d\n", i+1)
		fmt.Fprintf(&b, "- **Timestamp**: %s\n", it.Timestamp.Local().Format("2006-01-02 15:04:05"))
		if it.SequenceName != "" {
			fmt.Fprintf(&b, "- **Sequence Name**: %s\n", it.SequenceName)
		}
		fmt.Fprintf(&b, "- **Pattern**: %s\n", it.Pattern)
		fmt.Fprintf(&b, "- **Sequence Length**: %d\n", len(it.Sequence))

		b.WriteString("\n#### Suffix Array Results\n")
		writeResult(&b, it.SuffixResult.TimeMS, it.SuffixResult.Iters, it.SuffixResult.CharComp, it.SuffixResult.Count())
		b.WriteString("\n#### FM-Index Results\n")
		writeResult(&b, it.FMResult.TimeMS, it.FMResult.Iters, it.FMResult.CharComp, it.FMResult.Count())
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeResult(b *strings.Builder, timeMS float64, iters, charComp, matches int) {
	fmt.Fprintf(b, "- Time: %sms\n", formatNumber(timeMS))
	fmt.Fprintf(b, "- Iterations: %d\n", iters)
	fmt.Fprintf(b, "- Character Comparisons: %d\n", charComp)
	fmt.Fprintf(b, "- Matches Found: %d\n", matches)
}
