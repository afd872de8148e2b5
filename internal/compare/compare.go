// Package compare runs the suffix array and FM-index side by side over the
// same sequence and checks that they agree.
package compare

import (
	"context"
	"log/slog"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	seqerrors "github.com/Aman-CERP/seqmatch/internal/errors"
	"github.com/Aman-CERP/seqmatch/internal/resources"
	"github.com/Aman-CERP/seqmatch/pkg/matcher"
)

// Monitor is a probe with a sampling lifecycle. When the probe passed to Run
// implements it, sampling is restarted around each algorithm's search.
type Monitor interface {
	matcher.Probe
	Start(ctx context.Context, algorithm matcher.Algorithm)
	Stop() []resources.Sample
}

// Verify interface implementation at compile time
var _ Monitor = (*resources.Sampler)(nil)

// Comparison holds both results for one pattern.
type Comparison struct {
	Name      string             `json:"name"`
	Sequence  string             `json:"sequence"`
	Pattern   string             `json:"pattern"`
	Suffix    matcher.Result     `json:"suffix_result"`
	FM        matcher.Result     `json:"fm_result"`
	Build     BuildTimes         `json:"build"`
	Agreement Agreement          `json:"agreement"`
	Samples   []resources.Sample `json:"samples,omitempty"`
}

// BuildTimes records index construction cost in milliseconds.
type BuildTimes struct {
	SuffixMS float64 `json:"suffix_ms"`
	FMMS     float64 `json:"fm_ms"`
}

// Agreement lists positions reported by only one of the two algorithms.
// Both lists are empty when the indexes agree.
type Agreement struct {
	Agree        bool  `json:"agree"`
	OnlyInSuffix []int `json:"only_in_suffix"`
	OnlyInFM     []int `json:"only_in_fm"`
}

// Speedup returns suffix time divided by FM time, or 0 when FM time is zero.
func (c *Comparison) Speedup() float64 {
	if c.FM.TimeMS <= 0 {
		return 0
	}
	return c.Suffix.TimeMS / c.FM.TimeMS
}

// Indexes is a pair of immutable indexes over one sequence.
type Indexes struct {
	Sequence string
	Suffix   *matcher.SuffixArray
	FM       *matcher.FMIndex
	Build    BuildTimes
}

// BuildIndexes constructs both indexes concurrently. Construction itself is
// not cancellable; ctx is only checked before work starts.
func BuildIndexes(ctx context.Context, seq string) (*Indexes, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx := &Indexes{Sequence: seq}
	var g errgroup.Group

	g.Go(func() error {
		start := time.Now()
		idx.Suffix = matcher.NewSuffixArray(seq)
		idx.Build.SuffixMS = millis(time.Since(start))
		return nil
	})
	g.Go(func() error {
		start := time.Now()
		idx.FM = matcher.NewFMIndex(seq)
		idx.Build.FMMS = millis(time.Since(start))
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, seqerrors.New(seqerrors.ErrCodeIndexFailed, "failed to build indexes", err)
	}

	slog.Debug("indexes_built",
		slog.Int("length", len(seq)),
		slog.Float64("suffix_ms", idx.Build.SuffixMS),
		slog.Float64("fm_ms", idx.Build.FMMS))

	return idx, nil
}

// Compare searches both indexes for pattern, suffix array first.
func (idx *Indexes) Compare(ctx context.Context, name, pattern string, probe matcher.Probe) (*Comparison, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if probe != nil {
		ctx = matcher.WithProbe(ctx, probe)
	}
	monitor, _ := probe.(Monitor)

	c := &Comparison{
		Name:     name,
		Sequence: idx.Sequence,
		Pattern:  pattern,
		Build:    idx.Build,
	}

	var s []resources.Sample
	c.Suffix, s = searchWith(ctx, idx.Suffix, pattern, monitor)
	c.Samples = append(c.Samples, s...)
	c.FM, s = searchWith(ctx, idx.FM, pattern, monitor)
	c.Samples = append(c.Samples, s...)

	c.Agreement = Agree(c.Suffix.Positions, c.FM.Positions)
	if !c.Agreement.Agree {
		slog.Warn("algorithms_disagree",
			slog.String("pattern", pattern),
			slog.Any("only_in_suffix", c.Agreement.OnlyInSuffix),
			slog.Any("only_in_fm", c.Agreement.OnlyInFM))
	}
	return c, nil
}

func searchWith(ctx context.Context, index matcher.Index, pattern string, monitor Monitor) (matcher.Result, []resources.Sample) {
	if monitor == nil {
		return index.Search(ctx, pattern), nil
	}
	monitor.Start(ctx, index.Algorithm())
	res := index.Search(ctx, pattern)
	return res, monitor.Stop()
}

// Run builds both indexes over seq and compares them on pattern.
// Inputs are expected to be validated already.
func Run(ctx context.Context, name, seq, pattern string, probe matcher.Probe) (*Comparison, error) {
	start := time.Now()

	idx, err := BuildIndexes(ctx, seq)
	if err != nil {
		return nil, err
	}
	c, err := idx.Compare(ctx, name, pattern, probe)
	if err != nil {
		return nil, err
	}

	slog.Info("search_complete",
		slog.String("name", name),
		slog.String("pattern", pattern),
		slog.Int("sequence_length", len(seq)),
		slog.Int("matches", c.FM.Count()),
		slog.Bool("agree", c.Agreement.Agree),
		slog.Duration("duration", time.Since(start)))

	return c, nil
}

// Agree diffs two position lists using compressed bitmaps.
func Agree(suffix, fm []int) Agreement {
	a := bitmapOf(suffix)
	b := bitmapOf(fm)

	return Agreement{
		Agree:        a.Equals(b),
		OnlyInSuffix: toInts(roaring.AndNot(a, b)),
		OnlyInFM:     toInts(roaring.AndNot(b, a)),
	}
}

func bitmapOf(positions []int) *roaring.Bitmap {
	bm := roaring.New()
	for _, p := range positions {
		bm.Add(uint32(p))
	}
	return bm
}

func toInts(bm *roaring.Bitmap) []int {
	out := make([]int, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
