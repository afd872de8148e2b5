package compare

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/seqmatch/pkg/matcher"
)

func TestBatch_KeepsInputOrder(t *testing.T) {
	// Given: several patterns, some absent
	patterns := []string{"ACGT", "TTTT", "GATC", "A"}

	// When: running a batch with limited parallelism
	results, err := Batch(context.Background(), shortDNA, patterns, nil, WithParallelism(2))

	// Then: one agreeing comparison per pattern, in input order
	require.NoError(t, err)
	require.Len(t, results, len(patterns))
	for i, c := range results {
		assert.Equal(t, patterns[i], c.Pattern)
		assert.True(t, c.Agreement.Agree, c.Pattern)
	}
	assert.Equal(t, []int{0, 4, 25, 29, 33}, results[0].FM.Positions)
	assert.Empty(t, results[1].FM.Positions)
	assert.Equal(t, "Batch 3", results[2].Name)
}

func TestBatch_Progress(t *testing.T) {
	var mu sync.Mutex
	var calls []int

	_, err := Batch(context.Background(), "AAAACCCC", []string{"A", "C", "AC"}, nil,
		WithProgress(func(done, total int, _ string) {
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, 3, total)
			calls = append(calls, done)
		}))

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, calls)
}

func TestBatch_MonitorIsNotStarted(t *testing.T) {
	// Given: a monitor probe
	mon := &fakeMonitor{}

	// When: running overlapping searches
	results, err := Batch(context.Background(), "AAAA", []string{"A", "AA"}, mon)

	// Then: readings flow through but no sampling lifecycle runs
	require.NoError(t, err)
	assert.Empty(t, mon.started)
	assert.Equal(t, 12.5, results[0].Suffix.MemoryUsage)
	assert.Empty(t, results[0].Samples)
}

func TestBatch_Empty(t *testing.T) {
	results, err := Batch(context.Background(), "ACGT", nil, nil)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestBatch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Batch(ctx, "ACGT", []string{"A"}, nil)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestProbeOnly(t *testing.T) {
	var p matcher.Probe = probeOnly{readingOnly{}}

	_, isMonitor := p.(Monitor)
	r, ok := p.Reading()

	assert.False(t, isMonitor)
	assert.True(t, ok)
	assert.Equal(t, 3.0, r.MemoryMB)
}
