package ui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// DefaultLineWidth is the number of bases per highlighted line.
const DefaultLineWidth = 60

// Span is a half-open range [Start, End) of the sequence.
type Span struct {
	Start int
	End   int
}

// MergeSpans turns match positions into sorted, non-overlapping spans of
// patternLen bases, clipped to seqLen. Overlapping or touching matches merge.
func MergeSpans(positions []int, patternLen, seqLen int) []Span {
	if patternLen <= 0 || len(positions) == 0 {
		return nil
	}

	sorted := slices.Clone(positions)
	slices.Sort(sorted)

	var spans []Span
	for _, p := range sorted {
		if p < 0 || p >= seqLen {
			continue
		}
		end := min(p+patternLen, seqLen)
		if n := len(spans); n > 0 && p <= spans[n-1].End {
			spans[n-1].End = max(spans[n-1].End, end)
			continue
		}
		spans = append(spans, Span{Start: p, End: end})
	}
	return spans
}

// Highlight renders seq in lines of DefaultLineWidth bases, each prefixed by
// its offset, with matched spans emphasised. Plain styles mark matches with
// brackets instead of colour.
func Highlight(seq string, patternLen int, positions []int, s Styles) string {
	return HighlightWidth(seq, patternLen, positions, s, DefaultLineWidth)
}

// HighlightWidth is Highlight with an explicit line width.
func HighlightWidth(seq string, patternLen int, positions []int, s Styles, width int) string {
	if seq == "" {
		return ""
	}
	if width <= 0 {
		width = DefaultLineWidth
	}

	matched := make([]bool, len(seq))
	for _, sp := range MergeSpans(positions, patternLen, len(seq)) {
		for i := sp.Start; i < sp.End; i++ {
			matched[i] = true
		}
	}

	gutter := len(strconv.Itoa(len(seq) - 1))
	var b strings.Builder
	for lineStart := 0; lineStart < len(seq); lineStart += width {
		lineEnd := min(lineStart+width, len(seq))
		b.WriteString(s.Position.Render(fmt.Sprintf("%*d", gutter, lineStart)))
		b.WriteString("  ")
		renderLine(&b, seq, matched, lineStart, lineEnd, s)
		b.WriteByte('\n')
	}
	return b.String()
}

// renderLine writes seq[start:end] as runs of matched and unmatched bases.
func renderLine(b *strings.Builder, seq string, matched []bool, start, end int, s Styles) {
	for i := start; i < end; {
		j := i
		for j < end && matched[j] == matched[i] {
			j++
		}
		run := seq[i:j]
		switch {
		case matched[i] && s.Color:
			b.WriteString(s.Match.Render(run))
		case matched[i]:
			b.WriteString("[" + run + "]")
		default:
			b.WriteString(colorBases(run, s))
		}
		i = j
	}
}

// Bases renders seq with each nucleotide in its scheme colour.
func Bases(seq string, s Styles) string {
	return colorBases(seq, s)
}

func colorBases(run string, s Styles) string {
	if !s.Color || len(s.Nucleotides) == 0 {
		return run
	}
	var b strings.Builder
	for i := 0; i < len(run); i++ {
		if st, ok := s.Nucleotides[run[i]]; ok {
			b.WriteString(st.Render(run[i : i+1]))
		} else {
			b.WriteByte(run[i])
		}
	}
	return b.String()
}

// PositionList formats up to limit positions, noting how many were left out.
func PositionList(positions []int, limit int) string {
	if len(positions) == 0 {
		return "none"
	}
	shown := positions
	if limit > 0 && len(positions) > limit {
		shown = positions[:limit]
	}
	parts := make([]string, len(shown))
	for i, p := range shown {
		parts[i] = strconv.Itoa(p)
	}
	out := strings.Join(parts, ", ")
	if rest := len(positions) - len(shown); rest > 0 {
		out += fmt.Sprintf(" (+%d more)", rest)
	}
	return out
}
