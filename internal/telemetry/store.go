package telemetry

import (
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/Aman-CERP/seqmatch/pkg/matcher"
)

// maxZeroResultRows bounds the persisted zero-result log.
const maxZeroResultRows = 100

// allTime bounds date-range queries that should cover every row.
const (
	allTimeFrom = "0000-01-01"
	allTimeTo   = "9999-12-31"
)

// SQLiteMetricsStore implements QueryMetricsStore using SQLite.
type SQLiteMetricsStore struct {
	db *sql.DB
}

// Verify interface implementation at compile time
var _ QueryMetricsStore = (*SQLiteMetricsStore)(nil)

// NewSQLiteMetricsStore creates a metrics store on a shared connection and
// ensures its tables exist.
func NewSQLiteMetricsStore(db *sql.DB) (*SQLiteMetricsStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if err := InitTelemetrySchema(db); err != nil {
		return nil, err
	}
	return &SQLiteMetricsStore{db: db}, nil
}

// InitTelemetrySchema creates the telemetry tables if they don't exist.
func InitTelemetrySchema(db *sql.DB) error {
	schema := `
	-- Searches per algorithm (aggregated daily)
	CREATE TABLE IF NOT EXISTS search_algorithm_stats (
		date TEXT NOT NULL,
		algorithm TEXT NOT NULL,
		count INTEGER NOT NULL DEFAULT 0,
		zero_count INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (date, algorithm)
	);

	-- Pattern frequency
	CREATE TABLE IF NOT EXISTS search_patterns (
		pattern TEXT PRIMARY KEY,
		count INTEGER NOT NULL DEFAULT 1,
		last_seen TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_search_patterns_count ON search_patterns(count DESC);

	-- Zero-result patterns (bounded log)
	CREATE TABLE IF NOT EXISTS zero_result_patterns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		pattern TEXT NOT NULL,
		timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Latency histogram (buckets: <1ms, 1-10ms, 10-100ms, 100ms-1s, >=1s)
	CREATE TABLE IF NOT EXISTS search_latency_stats (
		date TEXT NOT NULL,
		bucket TEXT NOT NULL,
		count INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (date, bucket)
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create telemetry schema: %w", err)
	}
	return nil
}

// SaveAlgorithmCounts adds daily per-algorithm counts.
func (s *SQLiteMetricsStore) SaveAlgorithmCounts(date string, counts map[matcher.Algorithm]AlgorithmCounts) error {
	if len(counts) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO search_algorithm_stats (date, algorithm, count, zero_count)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(date, algorithm) DO UPDATE SET
			count = count + excluded.count,
			zero_count = zero_count + excluded.zero_count
	`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for alg, c := range counts {
		if _, err := stmt.Exec(date, string(alg), c.Queries, c.ZeroResults); err != nil {
			return fmt.Errorf("insert algorithm count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetAlgorithmCounts sums counts over an inclusive date range.
func (s *SQLiteMetricsStore) GetAlgorithmCounts(from, to string) (map[matcher.Algorithm]AlgorithmCounts, error) {
	rows, err := s.db.Query(`
		SELECT algorithm, SUM(count), SUM(zero_count)
		FROM search_algorithm_stats
		WHERE date >= ? AND date <= ?
		GROUP BY algorithm
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("query algorithm counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[matcher.Algorithm]AlgorithmCounts)
	for rows.Next() {
		var alg string
		var c AlgorithmCounts
		if err := rows.Scan(&alg, &c.Queries, &c.ZeroResults); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		counts[matcher.Algorithm(alg)] = c
	}
	return counts, rows.Err()
}

// UpsertPatternCounts adds to pattern frequency counts.
func (s *SQLiteMetricsStore) UpsertPatternCounts(patterns map[string]int64) error {
	if len(patterns) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO search_patterns (pattern, count, last_seen)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(pattern) DO UPDATE SET
			count = count + excluded.count,
			last_seen = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for pattern, count := range patterns {
		if _, err := stmt.Exec(pattern, count); err != nil {
			return fmt.Errorf("upsert pattern count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetTopPatterns retrieves the top N patterns by frequency.
func (s *SQLiteMetricsStore) GetTopPatterns(limit int) ([]PatternCount, error) {
	rows, err := s.db.Query(`
		SELECT pattern, count
		FROM search_patterns
		ORDER BY count DESC, pattern ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query top patterns: %w", err)
	}
	defer rows.Close()

	var patterns []PatternCount
	for rows.Next() {
		var pc PatternCount
		if err := rows.Scan(&pc.Pattern, &pc.Count); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		patterns = append(patterns, pc)
	}
	return patterns, rows.Err()
}

// AddZeroResultPatterns appends patterns to the zero-result log and trims it
// to the newest 100 entries.
func (s *SQLiteMetricsStore) AddZeroResultPatterns(patterns []string, timestamp time.Time) error {
	if len(patterns) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range patterns {
		if _, err := tx.Exec(`
			INSERT INTO zero_result_patterns (pattern, timestamp)
			VALUES (?, ?)
		`, p, timestamp.UTC()); err != nil {
			return fmt.Errorf("insert zero-result pattern: %w", err)
		}
	}

	if _, err := tx.Exec(`
		DELETE FROM zero_result_patterns
		WHERE id NOT IN (
			SELECT id FROM zero_result_patterns
			ORDER BY id DESC
			LIMIT ?
		)
	`, maxZeroResultRows); err != nil {
		return fmt.Errorf("trim zero-result patterns: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetZeroResultPatterns retrieves recent zero-result patterns, newest first.
func (s *SQLiteMetricsStore) GetZeroResultPatterns(limit int) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT pattern
		FROM zero_result_patterns
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query zero-result patterns: %w", err)
	}
	defer rows.Close()

	var patterns []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		patterns = append(patterns, p)
	}
	return patterns, rows.Err()
}

// SaveLatencyCounts adds daily latency histogram counts.
func (s *SQLiteMetricsStore) SaveLatencyCounts(date string, counts map[LatencyBucket]int64) error {
	if len(counts) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO search_latency_stats (date, bucket, count)
		VALUES (?, ?, ?)
		ON CONFLICT(date, bucket) DO UPDATE SET count = count + excluded.count
	`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for bucket, count := range counts {
		if _, err := stmt.Exec(date, string(bucket), count); err != nil {
			return fmt.Errorf("insert latency count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetLatencyCounts sums latency counts over an inclusive date range.
func (s *SQLiteMetricsStore) GetLatencyCounts(from, to string) (map[LatencyBucket]int64, error) {
	rows, err := s.db.Query(`
		SELECT bucket, SUM(count) as total
		FROM search_latency_stats
		WHERE date >= ? AND date <= ?
		GROUP BY bucket
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("query latency counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[LatencyBucket]int64)
	for rows.Next() {
		var bucket string
		var count int64
		if err := rows.Scan(&bucket, &count); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		counts[LatencyBucket(bucket)] = count
	}
	return counts, rows.Err()
}

// Close releases resources. The underlying db is not closed as it's shared
// with the history store.
func (s *SQLiteMetricsStore) Close() error {
	return nil
}

// LoadSnapshot rebuilds an all-time snapshot from persisted telemetry.
// Zero-result patterns come back oldest first, as in Snapshot. Repetition
// fields and Since are left zero; they are not persisted.
func LoadSnapshot(store QueryMetricsStore, topN int) (*QueryMetricsSnapshot, error) {
	algorithms, err := store.GetAlgorithmCounts(allTimeFrom, allTimeTo)
	if err != nil {
		return nil, err
	}
	top, err := store.GetTopPatterns(topN)
	if err != nil {
		return nil, err
	}
	zero, err := store.GetZeroResultPatterns(maxZeroResultRows)
	if err != nil {
		return nil, err
	}
	slices.Reverse(zero)
	latencies, err := store.GetLatencyCounts(allTimeFrom, allTimeTo)
	if err != nil {
		return nil, err
	}

	snap := &QueryMetricsSnapshot{
		AlgorithmCounts:     algorithms,
		TopPatterns:         top,
		ZeroResultPatterns:  zero,
		LatencyDistribution: latencies,
	}
	for _, c := range algorithms {
		snap.TotalQueries += c.Queries
		snap.ZeroResultCount += c.ZeroResults
	}
	return snap, nil
}
