package ingest

import (
	"time"

	"github.com/upb/log-ingest/models"
)

// ResolveTimestamp picks the canonical RFC 3339 timestamp for one entry or event.
//
// An explicit RFC 3339 string always wins and is returned untouched. Otherwise
// the epoch value is converted in UTC, and when neither is present the current
// time is used. The epoch field is named in microseconds on the wire but has
// always been read as milliseconds; existing submitters depend on that.
// Epochs outside years 0001-9999 cannot be written as RFC 3339 and are
// treated as absent.
func ResolveTimestamp(rfc3339 *string, epoch *int64, now func() time.Time) string {
	if rfc3339 != nil {
		return *rfc3339
	}
	if epoch != nil && *epoch >= models.MinEpochMillis && *epoch <= models.MaxEpochMillis {
		return time.UnixMilli(*epoch).UTC().Format(time.RFC3339Nano)
	}
	return now().UTC().Format(time.RFC3339Nano)
}

// NormalizeUnstructured converts a free-text submission into one Log per entry,
// in entry order.
func NormalizeUnstructured(sub models.UnstructuredLogs, now func() time.Time) []models.Log {
	logs := make([]models.Log, 0, len(sub.Entries))
	for _, entry := range sub.Entries {
		logs = append(logs, models.Log{
			CustomerID: sub.CustomerID,
			LogType:    sub.LogType,
			LogText:    entry.Text(),
			TsRFC3339:  ResolveTimestamp(entry.TsRFC3339, entry.TsEpochMicroseconds, now),
			Namespace:  cloneString(sub.Namespace),
		})
	}
	return logs
}

// NormalizeUDMEvents converts a structured event submission into one Log per
// event, in event order. Structured events carry no text payload, so LogText
// is always empty. The invalid flag is not consulted.
func NormalizeUDMEvents(sub models.UDMEvents, now func() time.Time) []models.Log {
	logs := make([]models.Log, 0, len(sub.Events))
	for _, event := range sub.Events {
		var meta models.UDMMetadata
		if event.Metadata != nil {
			meta = *event.Metadata
		}
		logs = append(logs, models.Log{
			CustomerID: sub.CustomerID,
			LogType:    meta.LogType,
			LogText:    "",
			TsRFC3339:  ResolveTimestamp(meta.TsRFC3339, meta.TsEpochMicroseconds, now),
			Namespace:  cloneString(meta.Namespace),
		})
	}
	return logs
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
