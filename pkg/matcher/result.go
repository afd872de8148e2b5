package matcher

import (
	"context"
	"math"
	"time"
)

// Result is the outcome of a single search call.
type Result struct {
	// Positions holds 0-based match offsets, ascending and duplicate-free.
	// Empty (not nil) when the pattern does not occur.
	Positions []int `json:"positions"`

	// TimeMS is the wall-clock duration of the call in milliseconds,
	// rounded to 3 decimal places.
	TimeMS float64 `json:"time_ms"`

	// Iters counts algorithmic steps: binary-search probes for the suffix
	// array, pattern characters visited for the FM-index.
	Iters int `json:"iters"`

	// CharComp counts individual symbol comparisons or table lookups.
	CharComp int `json:"char_comp"`

	// MemoryUsage is the latest probe memory reading in MB (0 if none).
	MemoryUsage float64 `json:"memory_usage"`

	// CPUUsage is the latest probe CPU reading in percent (0 if none).
	CPUUsage float64 `json:"cpu_usage"`
}

// Found reports whether the pattern occurred at least once.
func (r Result) Found() bool {
	return len(r.Positions) > 0
}

// Count returns the number of matches.
func (r Result) Count() int {
	return len(r.Positions)
}

// finish assembles a Result once a search has stopped.
func finish(ctx context.Context, start time.Time, positions []int, iters, charComp int) Result {
	if positions == nil {
		positions = []int{}
	}
	r := Result{
		Positions: positions,
		TimeMS:    roundMillis(time.Since(start)),
		Iters:     iters,
		CharComp:  charComp,
	}
	if reading, ok := readingFrom(ctx); ok {
		r.MemoryUsage = reading.MemoryMB
		r.CPUUsage = reading.CPUPercent
	}
	return r
}

// roundMillis converts d to milliseconds with microsecond resolution.
func roundMillis(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e3) / 1e3
}
