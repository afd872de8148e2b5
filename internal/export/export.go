// Package export renders search history as CSV, JSON or a Markdown report.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	seqerrors "github.com/Aman-CERP/seqmatch/internal/errors"
	"github.com/Aman-CERP/seqmatch/internal/history"
)

// Format is an export encoding.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatReport Format = "report"
)

// isoMillis matches JavaScript's Date.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// CSVHeader is the header row written by CSV.
var CSVHeader = []string{
	"Timestamp",
	"Sequence Name",
	"Pattern",
	"Sequence Length",
	"Suffix Array Time (ms)",
	"Suffix Array Iterations",
	"Suffix Array Char Comparisons",
	"Suffix Array Matches",
	"FM-Index Time (ms)",
	"FM-Index Iterations",
	"FM-Index Char Comparisons",
	"FM-Index Matches",
}

// ParseFormat accepts csv, json, md, markdown or report in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "md", "markdown", "report":
		return FormatReport, nil
	default:
		return "", seqerrors.ValidationError(fmt.Sprintf("unknown export format %q", s), nil).
			WithSuggestion("Use one of: csv, json, report")
	}
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	if f == FormatReport {
		return ".md"
	}
	return "." + string(f)
}

// DefaultFilename names an export file after its format and day.
func (f Format) DefaultFilename(day time.Time) string {
	date := day.UTC().Format("2006-01-02")
	if f == FormatReport {
		return "genome-analysis-report-" + date + f.Extension()
	}
	return "genome-search-results-" + date + f.Extension()
}

// Write renders items to w in format f.
func Write(w io.Writer, f Format, items []*history.Item) error {
	switch f {
	case FormatCSV:
		return CSV(w, items)
	case FormatJSON:
		return JSON(w, items)
	case FormatReport:
		return Report(w, items)
	default:
		return seqerrors.ValidationError(fmt.Sprintf("unknown export format %q", string(f)), nil)
	}
}

// CSV writes one row per item, preceded by CSVHeader.
func CSV(w io.Writer, items []*history.Item) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, it := range items {
		name := it.SequenceName
		if name == "" {
			name = "Unnamed"
		}
		row := []string{
			it.Timestamp.UTC().Format(isoMillis),
			name,
			it.Pattern,
			strconv.Itoa(len(it.Sequence)),
			formatNumber(it.SuffixResult.TimeMS),
			strconv.Itoa(it.SuffixResult.Iters),
			strconv.Itoa(it.SuffixResult.CharComp),
			strconv.Itoa(it.SuffixResult.Count()),
			formatNumber(it.FMResult.TimeMS),
			strconv.Itoa(it.FMResult.Iters),
			strconv.Itoa(it.FMResult.CharComp),
			strconv.Itoa(it.FMResult.Count()),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSON writes items as an indented array. An empty history yields [].
func JSON(w io.Writer, items []*history.Item) error {
	if items == nil {
		items = []*history.Item{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

// formatNumber prints the shortest decimal form, like JavaScript's Number.toString.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
