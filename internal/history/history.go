// Package history persists past comparisons in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/Aman-CERP/seqmatch/internal/compare"
	seqerrors "github.com/Aman-CERP/seqmatch/internal/errors"
	"github.com/Aman-CERP/seqmatch/pkg/matcher"
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = stderrors.New("history item not found")

// Item is one saved comparison. JSON field names match the export format.
type Item struct {
	ID           string         `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	Sequence     string         `json:"sequence"`
	Pattern      string         `json:"pattern"`
	SuffixResult matcher.Result `json:"suffixResult"`
	FMResult     matcher.Result `json:"fmResult"`
	SequenceName string         `json:"sequenceName,omitempty"`
}

// FromComparison converts a finished comparison into an unsaved Item.
func FromComparison(c *compare.Comparison) *Item {
	return &Item{
		Sequence:     c.Sequence,
		Pattern:      c.Pattern,
		SuffixResult: c.Suffix,
		FMResult:     c.FM,
		SequenceName: c.Name,
	}
}

// Store is a SQLite-backed history of comparisons.
// Safe for concurrent use; writes are serialized on one connection.
type Store struct {
	db       *sql.DB
	path     string
	maxItems int
	retry    seqerrors.RetryConfig
}

// Open opens or creates the history database at path. maxItems <= 0 keeps
// every item. The special path ":memory:" opens a private in-memory database.
func Open(path string, maxItems int) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, seqerrors.New(seqerrors.ErrCodeFilePermission, "cannot create history directory", err).
				WithDetail("path", filepath.Dir(path))
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, storeError("failed to open history database", err).WithDetail("path", path)
	}

	// Single writer to prevent lock contention
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, storeError("failed to set pragma", err).WithDetail("pragma", pragma)
		}
	}

	s := &Store{db: db, path: path, maxItems: maxItems, retry: seqerrors.DefaultRetryConfig()}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	slog.Debug("history_opened", slog.String("path", path), slog.Int("max_items", maxItems))
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS search_history (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		timestamp TEXT NOT NULL,
		sequence_name TEXT NOT NULL DEFAULT '',
		sequence TEXT NOT NULL,
		pattern TEXT NOT NULL,
		suffix_result TEXT NOT NULL,
		fm_result TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return storeError("failed to create history schema", err)
	}
	return nil
}

// DB exposes the connection so telemetry can share the file.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Add saves item, filling in a uuid, the current time and a default
// "Search <n+1>" name when those are missing. Oldest items beyond the
// configured maximum are removed.
func (s *Store) Add(ctx context.Context, item *Item) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Timestamp.IsZero() {
		item.Timestamp = time.Now()
	}
	if item.SequenceName == "" {
		n, err := s.Count(ctx)
		if err != nil {
			return err
		}
		item.SequenceName = fmt.Sprintf("Search %d", n+1)
	}

	suffix, err := json.Marshal(item.SuffixResult)
	if err != nil {
		return seqerrors.InternalError("failed to encode suffix result", err)
	}
	fm, err := json.Marshal(item.FMResult)
	if err != nil {
		return seqerrors.InternalError("failed to encode fm result", err)
	}

	err = s.exec(ctx, `
		INSERT INTO search_history (id, timestamp, sequence_name, sequence, pattern, suffix_result, fm_result)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, item.ID, item.Timestamp.UTC().Format(time.RFC3339Nano), item.SequenceName,
		item.Sequence, item.Pattern, string(suffix), string(fm))
	if err != nil {
		return err
	}

	if s.maxItems > 0 {
		if err := s.exec(ctx, `
			DELETE FROM search_history
			WHERE seq NOT IN (
				SELECT seq FROM search_history
				ORDER BY seq DESC
				LIMIT ?
			)
		`, s.maxItems); err != nil {
			return err
		}
	}

	slog.Debug("history_item_added",
		slog.String("id", item.ID),
		slog.String("name", item.SequenceName),
		slog.String("pattern", item.Pattern))
	return nil
}

// List returns the newest limit items in insertion order (oldest first).
// limit <= 0 returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]*Item, error) {
	query := `
		SELECT id, timestamp, sequence_name, sequence, pattern, suffix_result, fm_result
		FROM (
			SELECT * FROM search_history ORDER BY seq DESC LIMIT ?
		)
		ORDER BY seq ASC
	`
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, storeError("failed to list history", err)
	}
	defer rows.Close()

	items := []*Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("failed to list history", err)
	}
	return items, nil
}

// Get returns the item with the given id, or ErrNotFound. A unique id prefix
// of at least 4 characters is accepted.
func (s *Store) Get(ctx context.Context, id string) (*Item, error) {
	id = strings.TrimSpace(id)
	if len(id) < 4 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, sequence_name, sequence, pattern, suffix_result, fm_result
		FROM search_history
		WHERE id = ? OR substr(id, 1, length(?)) = ?
		ORDER BY (id = ?) DESC
		LIMIT 2
	`, id, id, id, id)
	if err != nil {
		return nil, storeError("failed to read history item", err)
	}
	defer rows.Close()

	var found []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, item)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("failed to read history item", err)
	}

	switch {
	case len(found) == 0:
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	case found[0].ID == id || len(found) == 1:
		return found[0], nil
	default:
		return nil, seqerrors.ValidationError("ambiguous history id prefix", nil).
			WithDetail("prefix", id).
			WithSuggestion("Use more characters of the id")
	}
}

// Count returns the number of stored items.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM search_history`).Scan(&n); err != nil {
		return 0, storeError("failed to count history", err)
	}
	return n, nil
}

// Clear removes every item.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.exec(ctx, `DELETE FROM search_history`); err != nil {
		return err
	}
	slog.Info("history_cleared", slog.String("path", s.path))
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// exec runs a write statement, retrying while the database is busy.
func (s *Store) exec(ctx context.Context, query string, args ...any) error {
	return seqerrors.Retry(ctx, s.retry, func() error {
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return storeError("history write failed", err)
		}
		return nil
	})
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*Item, error) {
	var (
		item           Item
		ts             string
		suffix, fmJSON string
	)
	if err := row.Scan(&item.ID, &ts, &item.SequenceName, &item.Sequence, &item.Pattern, &suffix, &fmJSON); err != nil {
		return nil, storeError("failed to scan history row", err)
	}

	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return nil, corrupt(item.ID, "timestamp", err)
	}
	item.Timestamp = t
	if err := json.Unmarshal([]byte(suffix), &item.SuffixResult); err != nil {
		return nil, corrupt(item.ID, "suffix_result", err)
	}
	if err := json.Unmarshal([]byte(fmJSON), &item.FMResult); err != nil {
		return nil, corrupt(item.ID, "fm_result", err)
	}
	return &item, nil
}

func corrupt(id, column string, err error) *seqerrors.SeqError {
	return seqerrors.New(seqerrors.ErrCodeFileCorrupt, "history row is corrupt", err).
		WithDetail("id", id).
		WithDetail("column", column).
		WithSuggestion("Run 'seqmatch history clear' to reset the history")
}

// storeError classifies a database error, marking lock contention retryable.
func storeError(msg string, err error) *seqerrors.SeqError {
	if isBusy(err) {
		return seqerrors.New(seqerrors.ErrCodeStoreBusy, msg, err)
	}
	return seqerrors.New(seqerrors.ErrCodeHistoryStore, msg, err)
}

func isBusy(err error) bool {
	var se *sqlite.Error
	if stderrors.As(err, &se) {
		code := se.Code() & 0xff
		return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
	}
	return err != nil && strings.Contains(err.Error(), "database is locked")
}
