package memory

import (
	"context"
	"sync"

	"github.com/upb/log-ingest/models"
	"github.com/upb/log-ingest/repositories"
)

// LogRepository is an append-only, in-memory log store.
// Thread-safe implementation using sync.RWMutex; there is no capacity limit
// and nothing is ever evicted.
type LogRepository struct {
	mu   sync.RWMutex
	logs []models.Log
}

// NewLogRepository creates an empty LogRepository
func NewLogRepository() *LogRepository {
	return &LogRepository{}
}

var _ repositories.LogRepository = (*LogRepository)(nil)

// Append adds the whole batch under a single write lock
func (r *LogRepository) Append(_ context.Context, logs []models.Log) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logs = append(r.logs, logs...)
	return len(r.logs), nil
}

// List returns one page of matching logs in insertion order and the total
// number of matches. A non-positive limit returns every match after offset.
func (r *LogRepository) List(_ context.Context, filter repositories.LogFilter, limit, offset int) ([]models.Log, int, error) {
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	page := make([]models.Log, 0)
	total := 0
	for i := range r.logs {
		if !filter.Matches(&r.logs[i]) {
			continue
		}
		total++
		if total <= offset || (limit > 0 && len(page) >= limit) {
			continue
		}
		page = append(page, copyLog(r.logs[i]))
	}
	return page, total, nil
}

// Len returns the total number of stored logs
func (r *LogRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.logs)
}

// copyLog detaches the namespace pointer from the stored record
func copyLog(l models.Log) models.Log {
	if l.Namespace != nil {
		ns := *l.Namespace
		l.Namespace = &ns
	}
	return l
}
