package repositories

import (
	"context"

	"github.com/upb/log-ingest/models"
)

// LogFilter narrows a read over stored logs. Empty fields match everything.
type LogFilter struct {
	CustomerID string
	LogType    string
	Namespace  string
}

// Matches reports whether a log satisfies every non-empty filter field
func (f LogFilter) Matches(log *models.Log) bool {
	if f.CustomerID != "" && log.CustomerID != f.CustomerID {
		return false
	}
	if f.LogType != "" && log.LogType != f.LogType {
		return false
	}
	if f.Namespace != "" && log.NamespaceValue() != f.Namespace {
		return false
	}
	return true
}

// LogRepository holds canonical logs for the lifetime of the process
type LogRepository interface {
	// Append adds every log in one atomic step and returns the store size
	// observed under the same lock. Logs from a single call are never
	// interleaved with logs from a concurrent call.
	Append(ctx context.Context, logs []models.Log) (int, error)

	// List returns copies of one page of matching logs in insertion order,
	// plus the number of matches, both read from the same snapshot
	List(ctx context.Context, filter LogFilter, limit, offset int) ([]models.Log, int, error)

	// Len returns the total number of stored logs
	Len() int
}
