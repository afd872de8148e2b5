package telemetry

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/seqmatch/pkg/matcher"
)

// =============================================================================
// LatencyBucket Tests
// =============================================================================

func TestLatencyToBucket(t *testing.T) {
	tests := []struct {
		latency  time.Duration
		expected LatencyBucket
	}{
		{0, BucketP1},
		{150 * time.Microsecond, BucketP1},
		{999 * time.Microsecond, BucketP1},
		{time.Millisecond, BucketP10},
		{9 * time.Millisecond, BucketP10},
		{10 * time.Millisecond, BucketP100},
		{99 * time.Millisecond, BucketP100},
		{100 * time.Millisecond, BucketP1000},
		{999 * time.Millisecond, BucketP1000},
		{time.Second, BucketSlow},
		{5 * time.Second, BucketSlow},
	}

	for _, tt := range tests {
		t.Run(tt.latency.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, LatencyToBucket(tt.latency))
		})
	}
}

func TestLatencyBuckets_Ordered(t *testing.T) {
	assert.Equal(t, []LatencyBucket{BucketP1, BucketP10, BucketP100, BucketP1000, BucketSlow}, LatencyBuckets())
}

// =============================================================================
// QueryEvent Tests
// =============================================================================

func TestEventFromResult(t *testing.T) {
	r := matcher.Result{Positions: []int{0, 4}, TimeMS: 2.5}

	e := EventFromResult("ACGT", matcher.AlgorithmFMIndex, r)

	assert.Equal(t, "ACGT", e.Pattern)
	assert.Equal(t, matcher.AlgorithmFMIndex, e.Algorithm)
	assert.Equal(t, 2, e.ResultCount)
	assert.Equal(t, 2500*time.Microsecond, e.Latency)
	assert.False(t, e.IsZeroResult())
	assert.False(t, e.Timestamp.IsZero())
}

func TestQueryEvent_IsZeroResult(t *testing.T) {
	assert.True(t, QueryEvent{ResultCount: 0}.IsZeroResult())
	assert.False(t, QueryEvent{ResultCount: 3}.IsZeroResult())
}

// =============================================================================
// QueryMetrics Tests
// =============================================================================

func TestQueryMetrics_Record_CountsPerAlgorithm(t *testing.T) {
	// Given: an in-memory collector
	m := NewQueryMetrics(nil)

	// When: recording searches for both algorithms
	m.Record(QueryEvent{Pattern: "ACGT", Algorithm: matcher.AlgorithmSuffixArray, ResultCount: 5})
	m.Record(QueryEvent{Pattern: "ACGT", Algorithm: matcher.AlgorithmFMIndex, ResultCount: 5})
	m.Record(QueryEvent{Pattern: "TTTT", Algorithm: matcher.AlgorithmFMIndex, ResultCount: 0})

	// Then: counts are split by algorithm
	snap := m.Snapshot()
	assert.Equal(t, int64(3), snap.TotalQueries)
	assert.Equal(t, AlgorithmCounts{Queries: 1}, snap.AlgorithmCounts[matcher.AlgorithmSuffixArray])
	assert.Equal(t, AlgorithmCounts{Queries: 2, ZeroResults: 1}, snap.AlgorithmCounts[matcher.AlgorithmFMIndex])
	assert.Equal(t, int64(1), snap.ZeroResultCount)
	assert.Equal(t, []string{"TTTT"}, snap.ZeroResultPatterns)
}

func TestQueryMetrics_TopPatterns_Sorted(t *testing.T) {
	m := NewQueryMetrics(nil)

	for range 3 {
		m.Record(QueryEvent{Pattern: "GATC", ResultCount: 1})
	}
	m.Record(QueryEvent{Pattern: "ACGT", ResultCount: 1})
	m.Record(QueryEvent{Pattern: "AAAA", ResultCount: 1})

	snap := m.Snapshot()
	require.Len(t, snap.TopPatterns, 3)
	assert.Equal(t, PatternCount{Pattern: "GATC", Count: 3}, snap.TopPatterns[0])
	// Ties break alphabetically
	assert.Equal(t, "AAAA", snap.TopPatterns[1].Pattern)
	assert.Equal(t, "ACGT", snap.TopPatterns[2].Pattern)
}

func TestQueryMetrics_TopPatterns_EvictsLeastRecent(t *testing.T) {
	m := NewQueryMetricsWithConfig(nil, QueryMetricsConfig{TopPatternsCapacity: 2})

	m.Record(QueryEvent{Pattern: "A", ResultCount: 1})
	m.Record(QueryEvent{Pattern: "C", ResultCount: 1})
	m.Record(QueryEvent{Pattern: "G", ResultCount: 1})

	var got []string
	for _, pc := range m.Snapshot().TopPatterns {
		got = append(got, pc.Pattern)
	}
	assert.ElementsMatch(t, []string{"C", "G"}, got)
}

func TestQueryMetrics_ZeroResults_Bounded(t *testing.T) {
	m := NewQueryMetricsWithConfig(nil, QueryMetricsConfig{ZeroResultsCapacity: 2})

	m.Record(QueryEvent{Pattern: "A"})
	m.Record(QueryEvent{Pattern: "C"})
	m.Record(QueryEvent{Pattern: "G"})

	snap := m.Snapshot()
	assert.Equal(t, []string{"C", "G"}, snap.ZeroResultPatterns)
	assert.Equal(t, int64(3), snap.ZeroResultCount)
	assert.InDelta(t, 100.0, snap.ZeroResultPercentage(), 0.001)
}

func TestQueryMetrics_Repetition(t *testing.T) {
	m := NewQueryMetrics(nil)

	m.Record(QueryEvent{Pattern: "ACGT", ResultCount: 1})
	m.Record(QueryEvent{Pattern: "ACGT", ResultCount: 1})
	m.Record(QueryEvent{Pattern: "GATC", ResultCount: 1})
	m.Record(QueryEvent{Pattern: "ACGT", ResultCount: 1})

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.RepeatCount)
	assert.InDelta(t, 0.5, snap.RepeatRate, 0.0001)
	assert.Equal(t, int64(2), snap.UniquePatterns)
}

func TestQueryMetrics_LatencyDistribution(t *testing.T) {
	m := NewQueryMetrics(nil)

	m.Record(QueryEvent{Pattern: "A", ResultCount: 1, Latency: 200 * time.Microsecond})
	m.Record(QueryEvent{Pattern: "A", ResultCount: 1, Latency: 300 * time.Microsecond})
	m.Record(QueryEvent{Pattern: "A", ResultCount: 1, Latency: 20 * time.Millisecond})

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.LatencyDistribution[BucketP1])
	assert.Equal(t, int64(1), snap.LatencyDistribution[BucketP100])
}

func TestQueryMetrics_EmptySnapshot(t *testing.T) {
	snap := NewQueryMetrics(nil).Snapshot()

	assert.Zero(t, snap.TotalQueries)
	assert.Zero(t, snap.ZeroResultPercentage())
	assert.Zero(t, snap.RepeatRate)
	assert.NotNil(t, snap.ZeroResultPatterns)
}

func TestQueryMetrics_SnapshotIsCopy(t *testing.T) {
	m := NewQueryMetrics(nil)
	m.Record(QueryEvent{Pattern: "A", Algorithm: matcher.AlgorithmFMIndex, ResultCount: 1})

	snap := m.Snapshot()
	snap.AlgorithmCounts[matcher.AlgorithmFMIndex] = AlgorithmCounts{Queries: 99}

	assert.Equal(t, int64(1), m.Snapshot().AlgorithmCounts[matcher.AlgorithmFMIndex].Queries)
}

func TestQueryMetrics_ConcurrentRecord(t *testing.T) {
	m := NewQueryMetrics(nil)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				alg := matcher.AlgorithmSuffixArray
				if i%2 == 0 {
					alg = matcher.AlgorithmFMIndex
				}
				m.Record(QueryEvent{Pattern: "ACGT", Algorithm: alg, ResultCount: 1})
				_ = m.Snapshot()
			}
		}()
	}
	wg.Wait()

	snap := m.Snapshot()
	assert.Equal(t, int64(800), snap.TotalQueries)
	assert.Equal(t, int64(400), snap.AlgorithmCounts[matcher.AlgorithmFMIndex].Queries)
}

func TestQueryMetrics_RecordAfterClose(t *testing.T) {
	m := NewQueryMetrics(nil)
	require.NoError(t, m.Close())

	m.Record(QueryEvent{Pattern: "A"})

	assert.Zero(t, m.Snapshot().TotalQueries)
	assert.NoError(t, m.Close())
}

// =============================================================================
// Flush Tests
// =============================================================================

type memStore struct {
	mu         sync.Mutex
	algorithms map[matcher.Algorithm]AlgorithmCounts
	patterns   map[string]int64
	zero       []string
	latencies  map[LatencyBucket]int64
	saves      int
	failNext   bool
}

func newMemStore() *memStore {
	return &memStore{
		algorithms: make(map[matcher.Algorithm]AlgorithmCounts),
		patterns:   make(map[string]int64),
		latencies:  make(map[LatencyBucket]int64),
	}
}

func (s *memStore) SaveAlgorithmCounts(_ string, counts map[matcher.Algorithm]AlgorithmCounts) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext {
		s.failNext = false
		return errors.New("disk full")
	}
	s.saves++
	for k, v := range counts {
		cur := s.algorithms[k]
		cur.Queries += v.Queries
		cur.ZeroResults += v.ZeroResults
		s.algorithms[k] = cur
	}
	return nil
}

func (s *memStore) GetAlgorithmCounts(_, _ string) (map[matcher.Algorithm]AlgorithmCounts, error) {
	return s.algorithms, nil
}

func (s *memStore) UpsertPatternCounts(patterns map[string]int64) error {
	for k, v := range patterns {
		s.patterns[k] += v
	}
	return nil
}

func (s *memStore) GetTopPatterns(int) ([]PatternCount, error) { return nil, nil }

func (s *memStore) AddZeroResultPatterns(patterns []string, _ time.Time) error {
	s.zero = append(s.zero, patterns...)
	return nil
}

func (s *memStore) GetZeroResultPatterns(int) ([]string, error) { return s.zero, nil }

func (s *memStore) SaveLatencyCounts(_ string, counts map[LatencyBucket]int64) error {
	for k, v := range counts {
		s.latencies[k] += v
	}
	return nil
}

func (s *memStore) GetLatencyCounts(_, _ string) (map[LatencyBucket]int64, error) {
	return s.latencies, nil
}

func (s *memStore) Close() error { return nil }

func TestQueryMetrics_Flush_WritesDeltasOnce(t *testing.T) {
	// Given: a collector with a store
	store := newMemStore()
	m := NewQueryMetrics(store)
	m.Record(QueryEvent{Pattern: "ACGT", Algorithm: matcher.AlgorithmFMIndex, ResultCount: 2})
	m.Record(QueryEvent{Pattern: "TTTT", Algorithm: matcher.AlgorithmFMIndex})

	// When: flushing twice with nothing new in between
	require.NoError(t, m.Flush())
	require.NoError(t, m.Flush())

	// Then: each event is persisted exactly once
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, AlgorithmCounts{Queries: 2, ZeroResults: 1}, store.algorithms[matcher.AlgorithmFMIndex])
	assert.Equal(t, int64(1), store.patterns["ACGT"])
	assert.Equal(t, []string{"TTTT"}, store.zero)
	assert.Equal(t, int64(2), store.latencies[BucketP1])

	// And: in-memory totals are untouched by flushing
	assert.Equal(t, int64(2), m.Snapshot().TotalQueries)
}

func TestQueryMetrics_Flush_RetainsOnError(t *testing.T) {
	store := newMemStore()
	store.failNext = true
	m := NewQueryMetrics(store)
	m.Record(QueryEvent{Pattern: "ACGT", Algorithm: matcher.AlgorithmSuffixArray, ResultCount: 1})

	require.Error(t, m.Flush())
	m.Record(QueryEvent{Pattern: "ACGT", Algorithm: matcher.AlgorithmSuffixArray, ResultCount: 1})
	require.NoError(t, m.Flush())

	assert.Equal(t, int64(2), store.algorithms[matcher.AlgorithmSuffixArray].Queries)
}

func TestQueryMetrics_CloseFlushes(t *testing.T) {
	store := newMemStore()
	m := NewQueryMetricsWithConfig(store, QueryMetricsConfig{FlushInterval: time.Hour})
	m.Record(QueryEvent{Pattern: "GATC", Algorithm: matcher.AlgorithmFMIndex, ResultCount: 1})

	require.NoError(t, m.Close())

	assert.Equal(t, int64(1), store.algorithms[matcher.AlgorithmFMIndex].Queries)
}

func TestQueryMetrics_FlushWithoutStore(t *testing.T) {
	m := NewQueryMetrics(nil)
	m.Record(QueryEvent{Pattern: "A"})

	assert.NoError(t, m.Flush())
}
