package journal

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	boterror "github.com/msto63/botlang/foundation/core/error"
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// SQLiteConfig holds configuration for the SQLite store
type SQLiteConfig struct {
	Path string
}

// DefaultSQLiteConfig returns default configuration
func DefaultSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{
		Path: "./data/journal.db",
	}
}

// NewSQLiteStore opens (and if needed creates) the journal database
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, dbError(err, "failed to create journal directory").WithDetail("path", dir)
	}

	// Open database with WAL mode
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, dbError(err, "failed to open journal")
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, dbError(err, "failed to initialize journal schema")
	}
	return store, nil
}

// initSchema creates the runs table
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL,
		filename TEXT NOT NULL,
		source_hash TEXT NOT NULL,
		action TEXT,
		result TEXT,
		error_kind TEXT,
		error TEXT,
		duration_ms REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_filename ON runs(filename);
	CREATE INDEX IF NOT EXISTS idx_runs_action ON runs(action);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record stores a run
func (s *SQLiteStore) Record(ctx context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prepare(run)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, filename, source_hash, action, result, error_kind, error, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt, run.Filename, run.SourceHash, nullable(run.Action), nullable(run.Result),
		nullable(run.ErrorKind), nullable(run.Error), durationMillis(run.Duration))
	if err != nil {
		return dbError(err, "failed to insert run").WithDetail("id", run.ID)
	}
	return nil
}

// Query retrieves runs matching filter, newest first
func (s *SQLiteStore) Query(ctx context.Context, filter Filter) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, started_at, filename, source_hash, action, result, error_kind, error, duration_ms FROM runs WHERE 1=1`
	var args []interface{}

	if filter.Filename != "" {
		query += " AND filename = ?"
		args = append(args, filter.Filename)
	}
	if filter.Action != "" {
		query += " AND action = ?"
		args = append(args, filter.Action)
	}
	if filter.ErrorsOnly {
		query += " AND error IS NOT NULL"
	}
	if !filter.Since.IsZero() {
		query += " AND started_at >= ?"
		args = append(args, filter.Since.UTC())
	}
	if !filter.Until.IsZero() {
		query += " AND started_at <= ?"
		args = append(args, filter.Until.UTC())
	}

	query += " ORDER BY started_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	} else if filter.Offset > 0 {
		query += " LIMIT -1 OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(err, "failed to query runs")
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var run Run
		var action, result, errorKind, errText sql.NullString
		var millis float64

		if err := rows.Scan(&run.ID, &run.StartedAt, &run.Filename, &run.SourceHash,
			&action, &result, &errorKind, &errText, &millis); err != nil {
			return nil, dbError(err, "failed to scan run")
		}

		run.Action = action.String
		run.Result = result.String
		run.ErrorKind = errorKind.String
		run.Error = errText.String
		run.Duration = time.Duration(millis * float64(time.Millisecond))
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "failed to read runs")
	}
	return runs, nil
}

// Stats summarizes all recorded runs
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &Stats{
		ByAction:    make(map[string]int64),
		ByErrorKind: make(map[string]int64),
	}

	var avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(error), AVG(duration_ms) FROM runs`).Scan(&stats.Total, &stats.Failed, &avg)
	if err != nil {
		return nil, dbError(err, "failed to count runs")
	}
	if avg.Valid {
		stats.AverageDuration = time.Duration(avg.Float64 * float64(time.Millisecond))
	}

	if err := s.countBy(ctx, "action", stats.ByAction); err != nil {
		return nil, err
	}
	if err := s.countBy(ctx, "error_kind", stats.ByErrorKind); err != nil {
		return nil, err
	}

	if stats.Total > 0 {
		err := s.db.QueryRowContext(ctx,
			`SELECT started_at FROM runs ORDER BY started_at DESC LIMIT 1`).Scan(&stats.LastRun)
		if err != nil {
			return nil, dbError(err, "failed to read last run")
		}
	}
	return stats, nil
}

// countBy fills counts with the run count per non-null value of column.
// column is always one of the fixed names used by Stats.
func (s *SQLiteStore) countBy(ctx context.Context, column string, counts map[string]int64) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+column+`, COUNT(*) FROM runs WHERE `+column+` IS NOT NULL GROUP BY `+column)
	if err != nil {
		return dbError(err, "failed to group runs").WithDetail("column", column)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return dbError(err, "failed to scan run counts")
		}
		counts[key] = count
	}
	return rows.Err()
}

// Prune deletes runs older than the given age
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan).UTC()
	result, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, dbError(err, "failed to prune runs")
	}
	deleted, _ := result.RowsAffected()
	return deleted, nil
}

// Vacuum reclaims space after pruning
func (s *SQLiteStore) Vacuum(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return dbError(err, "failed to vacuum journal")
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func prepare(run *Run) {
	if run.ID == "" {
		run.ID = newID()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	run.StartedAt = run.StartedAt.UTC()
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func durationMillis(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

func dbError(err error, message string) *boterror.Error {
	return boterror.Wrap(err, message).
		WithCode(boterror.CodeDatabaseError).
		WithOperation("journal")
}
