// Package telemetry records search pattern telemetry.
// All telemetry data is stored locally - no external reporting.
package telemetry

import (
	"cmp"
	"maps"
	"slices"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Aman-CERP/seqmatch/internal/resources"
	"github.com/Aman-CERP/seqmatch/pkg/matcher"
)

// =============================================================================
// Latency Buckets
// =============================================================================

// LatencyBucket represents a latency histogram bucket.
type LatencyBucket string

const (
	BucketP1    LatencyBucket = "p1"    // <1ms
	BucketP10   LatencyBucket = "p10"   // 1-10ms
	BucketP100  LatencyBucket = "p100"  // 10-100ms
	BucketP1000 LatencyBucket = "p1000" // 100ms-1s
	BucketSlow  LatencyBucket = "slow"  // >=1s
)

// LatencyBuckets lists buckets from fastest to slowest.
func LatencyBuckets() []LatencyBucket {
	return []LatencyBucket{BucketP1, BucketP10, BucketP100, BucketP1000, BucketSlow}
}

// LatencyToBucket converts a duration to its histogram bucket.
func LatencyToBucket(d time.Duration) LatencyBucket {
	switch {
	case d < time.Millisecond:
		return BucketP1
	case d < 10*time.Millisecond:
		return BucketP10
	case d < 100*time.Millisecond:
		return BucketP100
	case d < time.Second:
		return BucketP1000
	default:
		return BucketSlow
	}
}

// =============================================================================
// Query Event
// =============================================================================

// QueryEvent represents a single pattern search for telemetry recording.
type QueryEvent struct {
	Pattern     string
	Algorithm   matcher.Algorithm
	ResultCount int
	Latency     time.Duration
	Timestamp   time.Time
}

// EventFromResult builds an event from a finished search.
func EventFromResult(pattern string, alg matcher.Algorithm, r matcher.Result) QueryEvent {
	return QueryEvent{
		Pattern:     pattern,
		Algorithm:   alg,
		ResultCount: r.Count(),
		Latency:     time.Duration(r.TimeMS * float64(time.Millisecond)),
		Timestamp:   time.Now(),
	}
}

// IsZeroResult returns true if the pattern was not found.
func (e QueryEvent) IsZeroResult() bool {
	return e.ResultCount == 0
}

// =============================================================================
// Snapshot
// =============================================================================

// PatternCount represents a pattern and its search count.
type PatternCount struct {
	Pattern string `json:"pattern"`
	Count   int64  `json:"count"`
}

// AlgorithmCounts aggregates searches for one algorithm.
type AlgorithmCounts struct {
	Queries     int64 `json:"queries"`
	ZeroResults int64 `json:"zero_results"`
}

// QueryMetricsSnapshot is an immutable snapshot of query metrics.
type QueryMetricsSnapshot struct {
	AlgorithmCounts     map[matcher.Algorithm]AlgorithmCounts `json:"algorithm_counts"`
	TopPatterns         []PatternCount                        `json:"top_patterns"`
	ZeroResultPatterns  []string                              `json:"zero_result_patterns"`
	LatencyDistribution map[LatencyBucket]int64               `json:"latency_distribution"`
	TotalQueries        int64                                 `json:"total_queries"`
	ZeroResultCount     int64                                 `json:"zero_result_count"`
	Since               time.Time                             `json:"since"`

	// Repetition (in-memory only)
	RepeatCount    int64   `json:"repeat_count"`
	RepeatRate     float64 `json:"repeat_rate"`
	UniquePatterns int64   `json:"unique_patterns"`
}

// ZeroResultPercentage returns the percentage of zero-result searches.
func (s *QueryMetricsSnapshot) ZeroResultPercentage() float64 {
	if s.TotalQueries == 0 {
		return 0
	}
	return float64(s.ZeroResultCount) / float64(s.TotalQueries) * 100
}

// =============================================================================
// Query Metrics Store (Interface)
// =============================================================================

// QueryMetricsStore defines persistence operations for query metrics.
// Save and Upsert methods add to existing totals.
type QueryMetricsStore interface {
	// SaveAlgorithmCounts adds daily per-algorithm counts.
	SaveAlgorithmCounts(date string, counts map[matcher.Algorithm]AlgorithmCounts) error

	// GetAlgorithmCounts sums counts over an inclusive date range.
	GetAlgorithmCounts(from, to string) (map[matcher.Algorithm]AlgorithmCounts, error)

	// UpsertPatternCounts adds to pattern frequency counts.
	UpsertPatternCounts(patterns map[string]int64) error

	// GetTopPatterns retrieves the top N patterns by frequency.
	GetTopPatterns(limit int) ([]PatternCount, error)

	// AddZeroResultPatterns appends to the bounded zero-result log.
	AddZeroResultPatterns(patterns []string, timestamp time.Time) error

	// GetZeroResultPatterns retrieves recent zero-result patterns, newest first.
	GetZeroResultPatterns(limit int) ([]string, error)

	// SaveLatencyCounts adds daily latency histogram counts.
	SaveLatencyCounts(date string, counts map[LatencyBucket]int64) error

	// GetLatencyCounts sums latency counts over an inclusive date range.
	GetLatencyCounts(from, to string) (map[LatencyBucket]int64, error)

	// Close releases resources.
	Close() error
}

// =============================================================================
// Query Metrics Configuration
// =============================================================================

// QueryMetricsConfig configures the query metrics collector.
type QueryMetricsConfig struct {
	TopPatternsCapacity    int           // Max patterns to track (default: 100)
	ZeroResultsCapacity    int           // Max zero-result patterns to keep (default: 100)
	RecentPatternsCapacity int           // Window for repeat detection (default: 500)
	FlushInterval          time.Duration // Auto-flush period (default: 0 = flush on Close only)
}

// DefaultQueryMetricsConfig returns sensible defaults.
func DefaultQueryMetricsConfig() QueryMetricsConfig {
	return QueryMetricsConfig{
		TopPatternsCapacity:    100,
		ZeroResultsCapacity:    100,
		RecentPatternsCapacity: 500,
	}
}

// =============================================================================
// Query Metrics
// =============================================================================

// pending holds deltas not yet written to the store.
type pending struct {
	algorithms map[matcher.Algorithm]AlgorithmCounts
	patterns   map[string]int64
	zero       []string
	latencies  map[LatencyBucket]int64
}

func newPending() pending {
	return pending{
		algorithms: make(map[matcher.Algorithm]AlgorithmCounts),
		patterns:   make(map[string]int64),
		latencies:  make(map[LatencyBucket]int64),
	}
}

func (p *pending) empty() bool {
	return len(p.algorithms) == 0 && len(p.patterns) == 0 && len(p.zero) == 0 && len(p.latencies) == 0
}

// merge adds other back into p after a failed flush.
func (p *pending) merge(other pending) {
	for k, v := range other.algorithms {
		cur := p.algorithms[k]
		cur.Queries += v.Queries
		cur.ZeroResults += v.ZeroResults
		p.algorithms[k] = cur
	}
	for k, v := range other.patterns {
		p.patterns[k] += v
	}
	for k, v := range other.latencies {
		p.latencies[k] += v
	}
	p.zero = append(other.zero, p.zero...)
}

// QueryMetrics collects search telemetry.
// Thread-safe for concurrent access.
type QueryMetrics struct {
	mu sync.RWMutex

	// In-memory aggregates
	algorithms      map[matcher.Algorithm]AlgorithmCounts
	topPatterns     *lru.Cache[string, int64]
	zeroResults     *resources.Ring[string]
	latencies       map[LatencyBucket]int64
	totalQueries    int64
	zeroResultCount int64
	startTime       time.Time

	// Repetition tracking
	recentPatterns *lru.Cache[string, struct{}]
	repeatCount    int64

	// Persistence
	store       QueryMetricsStore
	pending     pending
	config      QueryMetricsConfig
	flushTicker *time.Ticker
	stopCh      chan struct{}
	closed      bool
}

// NewQueryMetrics creates a new metrics collector with default configuration.
// If store is nil, metrics are only kept in memory.
func NewQueryMetrics(store QueryMetricsStore) *QueryMetrics {
	return NewQueryMetricsWithConfig(store, DefaultQueryMetricsConfig())
}

// NewQueryMetricsWithConfig creates a new metrics collector with custom configuration.
func NewQueryMetricsWithConfig(store QueryMetricsStore, cfg QueryMetricsConfig) *QueryMetrics {
	def := DefaultQueryMetricsConfig()
	if cfg.TopPatternsCapacity <= 0 {
		cfg.TopPatternsCapacity = def.TopPatternsCapacity
	}
	if cfg.ZeroResultsCapacity <= 0 {
		cfg.ZeroResultsCapacity = def.ZeroResultsCapacity
	}
	if cfg.RecentPatternsCapacity <= 0 {
		cfg.RecentPatternsCapacity = def.RecentPatternsCapacity
	}

	// lru.New only fails for non-positive sizes
	topPatterns, _ := lru.New[string, int64](cfg.TopPatternsCapacity)
	recentPatterns, _ := lru.New[string, struct{}](cfg.RecentPatternsCapacity)

	m := &QueryMetrics{
		algorithms:     make(map[matcher.Algorithm]AlgorithmCounts),
		topPatterns:    topPatterns,
		zeroResults:    resources.NewRing[string](cfg.ZeroResultsCapacity),
		latencies:      make(map[LatencyBucket]int64),
		startTime:      time.Now(),
		recentPatterns: recentPatterns,
		store:          store,
		pending:        newPending(),
		config:         cfg,
		stopCh:         make(chan struct{}),
	}

	if cfg.FlushInterval > 0 && store != nil {
		m.flushTicker = time.NewTicker(cfg.FlushInterval)
		go m.flushLoop()
	}

	return m
}

// flushLoop periodically flushes metrics to storage.
func (m *QueryMetrics) flushLoop() {
	for {
		select {
		case <-m.flushTicker.C:
			_ = m.Flush()
		case <-m.stopCh:
			return
		}
	}
}

// Record captures metrics from one search.
// This method is thread-safe and non-blocking.
func (m *QueryMetrics) Record(event QueryEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}

	m.totalQueries++

	counts := m.algorithms[event.Algorithm]
	delta := m.pending.algorithms[event.Algorithm]
	counts.Queries++
	delta.Queries++
	if event.IsZeroResult() {
		counts.ZeroResults++
		delta.ZeroResults++
		m.zeroResultCount++
		m.zeroResults.Add(event.Pattern)
		m.pending.zero = append(m.pending.zero, event.Pattern)
	}
	m.algorithms[event.Algorithm] = counts
	m.pending.algorithms[event.Algorithm] = delta

	if event.Pattern != "" {
		count, _ := m.topPatterns.Get(event.Pattern)
		m.topPatterns.Add(event.Pattern, count+1)
		m.pending.patterns[event.Pattern]++

		if _, seen := m.recentPatterns.Get(event.Pattern); seen {
			m.repeatCount++
		}
		m.recentPatterns.Add(event.Pattern, struct{}{})
	}

	bucket := LatencyToBucket(event.Latency)
	m.latencies[bucket]++
	m.pending.latencies[bucket]++
}

// Snapshot returns current metrics for reporting.
func (m *QueryMetrics) Snapshot() *QueryMetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var top []PatternCount
	for _, key := range m.topPatterns.Keys() {
		if count, ok := m.topPatterns.Peek(key); ok {
			top = append(top, PatternCount{Pattern: key, Count: count})
		}
	}
	sortPatternCounts(top)

	var repeatRate float64
	if m.totalQueries > 0 {
		repeatRate = float64(m.repeatCount) / float64(m.totalQueries)
	}

	return &QueryMetricsSnapshot{
		AlgorithmCounts:     maps.Clone(m.algorithms),
		TopPatterns:         top,
		ZeroResultPatterns:  m.zeroResults.Items(),
		LatencyDistribution: maps.Clone(m.latencies),
		TotalQueries:        m.totalQueries,
		ZeroResultCount:     m.zeroResultCount,
		Since:               m.startTime,
		RepeatCount:         m.repeatCount,
		RepeatRate:          repeatRate,
		UniquePatterns:      int64(m.recentPatterns.Len()),
	}
}

// sortPatternCounts orders by count descending, then pattern ascending.
func sortPatternCounts(pcs []PatternCount) {
	slices.SortFunc(pcs, func(a, b PatternCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Pattern, b.Pattern)
	})
}

// Flush persists metrics recorded since the previous flush.
// Safe to call even if no store is configured.
func (m *QueryMetrics) Flush() error {
	if m.store == nil {
		return nil
	}

	m.mu.Lock()
	batch := m.pending
	m.pending = newPending()
	m.mu.Unlock()

	if batch.empty() {
		return nil
	}

	if err := m.write(batch); err != nil {
		m.mu.Lock()
		m.pending.merge(batch)
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *QueryMetrics) write(batch pending) error {
	now := time.Now()
	today := now.Format("2006-01-02")

	if err := m.store.SaveAlgorithmCounts(today, batch.algorithms); err != nil {
		return err
	}
	if err := m.store.UpsertPatternCounts(batch.patterns); err != nil {
		return err
	}
	if err := m.store.AddZeroResultPatterns(batch.zero, now); err != nil {
		return err
	}
	return m.store.SaveLatencyCounts(today, batch.latencies)
}

// Close flushes and releases resources.
func (m *QueryMetrics) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	if m.flushTicker != nil {
		m.flushTicker.Stop()
		close(m.stopCh)
	}

	return m.Flush()
}
