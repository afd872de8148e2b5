package compare

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/seqmatch/pkg/matcher"
)

// BatchOption configures Batch.
type BatchOption func(*batchConfig)

type batchConfig struct {
	parallelism int
	progress    func(done, total int, pattern string)
}

// WithParallelism bounds concurrent searches (default: GOMAXPROCS).
func WithParallelism(n int) BatchOption {
	return func(c *batchConfig) {
		if n > 0 {
			c.parallelism = n
		}
	}
}

// WithProgress registers a callback invoked after each pattern finishes.
// Calls may arrive from several goroutines but never concurrently.
func WithProgress(fn func(done, total int, pattern string)) BatchOption {
	return func(c *batchConfig) {
		c.progress = fn
	}
}

// Batch builds each index once and compares every pattern against it.
// Results keep the input order. The probe is read but never started, since
// searches overlap.
func Batch(ctx context.Context, seq string, patterns []string, probe matcher.Probe, opts ...BatchOption) ([]*Comparison, error) {
	cfg := batchConfig{parallelism: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&cfg)
	}

	start := time.Now()
	idx, err := BuildIndexes(ctx, seq)
	if err != nil {
		return nil, err
	}

	// Hide any lifecycle from Compare.
	var readOnly matcher.Probe
	if probe != nil {
		readOnly = probeOnly{probe}
	}

	results := make([]*Comparison, len(patterns))
	progress := make(chan string, len(patterns))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.parallelism)

	for i, p := range patterns {
		g.Go(func() error {
			c, err := idx.Compare(gctx, fmt.Sprintf("Batch %d", i+1), p, readOnly)
			if err != nil {
				return err
			}
			results[i] = c
			progress <- p
			return nil
		})
	}

	reported := make(chan struct{})
	go func() {
		defer close(reported)
		n := 0
		for p := range progress {
			n++
			if cfg.progress != nil {
				cfg.progress(n, len(patterns), p)
			}
		}
	}()

	err = g.Wait()
	close(progress)
	<-reported
	if err != nil {
		return nil, err
	}

	slog.Info("batch_complete",
		slog.Int("patterns", len(patterns)),
		slog.Int("sequence_length", len(seq)),
		slog.Duration("duration", time.Since(start)))

	return results, nil
}

type probeOnly struct {
	p matcher.Probe
}

func (p probeOnly) Reading() (matcher.Reading, bool) {
	return p.p.Reading()
}
