package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Aman-CERP/seqmatch/internal/telemetry"
	"github.com/Aman-CERP/seqmatch/pkg/matcher"
)

// StatsRenderer displays persisted search telemetry.
type StatsRenderer struct {
	out    io.Writer
	styles Styles
}

// NewStatsRenderer creates a stats renderer.
func NewStatsRenderer(out io.Writer, styles Styles) *StatsRenderer {
	return &StatsRenderer{out: out, styles: styles}
}

// Render displays a telemetry snapshot.
func (r *StatsRenderer) Render(snap *telemetry.QueryMetricsSnapshot) error {
	_, _ = fmt.Fprintf(r.out, "%s\n\n", r.styles.Header.Render("Search Statistics"))

	if snap.TotalQueries == 0 {
		_, _ = fmt.Fprintln(r.out, "  No searches recorded yet")
		return nil
	}

	_, _ = fmt.Fprintf(r.out, "  Searches:     %d\n", snap.TotalQueries)
	_, _ = fmt.Fprintf(r.out, "  Zero results: %d (%.1f%%)\n", snap.ZeroResultCount, snap.ZeroResultPercentage())
	_, _ = fmt.Fprintln(r.out)

	_, _ = fmt.Fprintln(r.out, "  By algorithm:")
	for _, alg := range matcher.Algorithms() {
		c := snap.AlgorithmCounts[alg]
		_, _ = fmt.Fprintf(r.out, "    %-13s %d searches, %d without matches\n", alg.DisplayName()+":", c.Queries, c.ZeroResults)
	}
	_, _ = fmt.Fprintln(r.out)

	_, _ = fmt.Fprintln(r.out, "  Latency:")
	for _, b := range telemetry.LatencyBuckets() {
		_, _ = fmt.Fprintf(r.out, "    %-6s %d\n", string(b)+":", snap.LatencyDistribution[b])
	}

	if len(snap.TopPatterns) > 0 {
		_, _ = fmt.Fprintln(r.out)
		_, _ = fmt.Fprintln(r.out, "  Top patterns:")
		for _, pc := range snap.TopPatterns {
			_, _ = fmt.Fprintf(r.out, "    %s %s\n", r.styles.Value.Render(fmt.Sprintf("%5d", pc.Count)), pc.Pattern)
		}
	}

	if len(snap.ZeroResultPatterns) > 0 {
		_, _ = fmt.Fprintln(r.out)
		_, _ = fmt.Fprintln(r.out, "  Recent patterns without matches:")
		for _, p := range snap.ZeroResultPatterns {
			_, _ = fmt.Fprintf(r.out, "    %s\n", r.styles.Warning.Render(p))
		}
	}

	return nil
}

// RenderJSON outputs the snapshot as JSON.
func (r *StatsRenderer) RenderJSON(snap *telemetry.QueryMetricsSnapshot) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(snap)
}

// RelativeTime formats a time relative to now for listings.
func RelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Local().Format("2006-01-02 15:04")
	}
}
