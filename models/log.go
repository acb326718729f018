package models

// Log is the canonical record every submission is normalized into.
type Log struct {
	CustomerID string  `json:"customer_id"`
	LogType    string  `json:"log_type"`
	LogText    string  `json:"log_text"`
	TsRFC3339  string  `json:"ts_rfc3339"`
	Namespace  *string `json:"namespace"`
}

// NamespaceValue returns the namespace or an empty string when unset
func (l Log) NamespaceValue() string {
	if l.Namespace == nil {
		return ""
	}
	return *l.Namespace
}
