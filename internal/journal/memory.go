package journal

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory implementation used when the journal is
// disabled on disk and in tests
type MemoryStore struct {
	mu   sync.RWMutex
	runs []*Run
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs: make([]*Run, 0),
	}
}

// Record stores a copy of run
func (s *MemoryStore) Record(ctx context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prepare(run)
	stored := *run
	s.runs = append(s.runs, &stored)
	return nil
}

// Query retrieves runs matching filter, newest first
func (s *MemoryStore) Query(ctx context.Context, filter Filter) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*Run
	for _, run := range s.runs {
		if filter.Filename != "" && run.Filename != filter.Filename {
			continue
		}
		if filter.Action != "" && run.Action != filter.Action {
			continue
		}
		if filter.ErrorsOnly && !run.Failed() {
			continue
		}
		if !filter.Since.IsZero() && run.StartedAt.Before(filter.Since) {
			continue
		}
		if !filter.Until.IsZero() && run.StartedAt.After(filter.Until) {
			continue
		}
		copied := *run
		results = append(results, &copied)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].StartedAt.After(results[j].StartedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(results) {
			return nil, nil
		}
		results = results[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(results) {
		results = results[:filter.Limit]
	}
	return results, nil
}

// Stats summarizes all recorded runs
func (s *MemoryStore) Stats(ctx context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &Stats{
		ByAction:    make(map[string]int64),
		ByErrorKind: make(map[string]int64),
	}

	var total time.Duration
	for _, run := range s.runs {
		stats.Total++
		total += run.Duration
		if run.Failed() {
			stats.Failed++
		}
		if run.Action != "" {
			stats.ByAction[run.Action]++
		}
		if run.ErrorKind != "" {
			stats.ByErrorKind[run.ErrorKind]++
		}
		if run.StartedAt.After(stats.LastRun) {
			stats.LastRun = run.StartedAt
		}
	}
	if stats.Total > 0 {
		stats.AverageDuration = total / time.Duration(stats.Total)
	}
	return stats, nil
}

// Prune deletes runs older than the given age
func (s *MemoryStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	kept := s.runs[:0]
	var deleted int64
	for _, run := range s.runs {
		if run.StartedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, run)
	}
	s.runs = kept
	return deleted, nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}

// Open returns the SQLite store at path, or a memory store when path is
// empty
func Open(path string) (Store, error) {
	if path == "" {
		return NewMemoryStore(), nil
	}
	return NewSQLiteStore(SQLiteConfig{Path: path})
}
