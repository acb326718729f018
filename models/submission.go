package models

// SubmissionKind identifies which submission shape produced a batch of logs
type SubmissionKind string

const (
	SubmissionKindUnstructured SubmissionKind = "unstructured"
	SubmissionKindUDM          SubmissionKind = "udm"
)

// Epoch bounds accepted for ts_epoch_microseconds, in milliseconds. They
// span years 0001 through 9999, the range RFC 3339 can represent. The
// validate tags below repeat these literals.
const (
	MinEpochMillis int64 = -62135596800000
	MaxEpochMillis int64 = 253402300799999
)

// UnstructuredLogs is a free-text submission: one customer and log type,
// many text entries.
type UnstructuredLogs struct {
	CustomerID string                 `json:"customer_id" validate:"required"`
	LogType    string                 `json:"log_type" validate:"required"`
	Namespace  *string                `json:"namespace,omitempty"`
	Entries    []UnstructuredLogEntry `json:"entries" validate:"required,dive"`
}

// UnstructuredLogEntry is a single text line inside an UnstructuredLogs submission.
// LogText must be present but may be empty.
type UnstructuredLogEntry struct {
	LogText             *string `json:"log_text" validate:"required"`
	TsEpochMicroseconds *int64  `json:"ts_epoch_microseconds,omitempty" validate:"omitempty,gte=-62135596800000,lte=253402300799999"`
	TsRFC3339           *string `json:"ts_rfc3339,omitempty"`
}

// Text returns the entry text, empty when absent
func (e UnstructuredLogEntry) Text() string {
	if e.LogText == nil {
		return ""
	}
	return *e.LogText
}

// UDMEvents is a structured security-event submission.
type UDMEvents struct {
	CustomerID string     `json:"customer_id" validate:"required"`
	Events     []UDMEvent `json:"events" validate:"required,dive"`
}

// UDMEvent is one structured event. Invalid is accepted and carried but
// normalization ignores it.
type UDMEvent struct {
	Metadata *UDMMetadata `json:"metadata" validate:"required"`
	Invalid  *bool        `json:"invalid,omitempty"`
}

// IsInvalid reports whether the submitter flagged the event as invalid
func (e UDMEvent) IsInvalid() bool {
	return e.Invalid != nil && *e.Invalid
}

// UDMMetadata holds the classification and timing of a UDMEvent
type UDMMetadata struct {
	LogType             string  `json:"log_type" validate:"required"`
	Namespace           *string `json:"namespace,omitempty"`
	TsEpochMicroseconds *int64  `json:"ts_epoch_microseconds,omitempty" validate:"omitempty,gte=-62135596800000,lte=253402300799999"`
	TsRFC3339           *string `json:"ts_rfc3339,omitempty"`
}
