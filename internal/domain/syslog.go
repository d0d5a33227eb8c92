package domain

import "time"

// LogType separates admin actions from ordinary user actions in the
// audit trail. Retention is bounded per type.
type LogType string

const (
	LogAdmin LogType = "ADMIN"
	LogUser  LogType = "USER"
)

// LogRetentionCap is the maximum number of retained rows per LogType
const LogRetentionCap = 100

// SystemLogEntry is one audit-trail row. Append-only; the table never
// holds more than LogRetentionCap rows per LogType.
type SystemLogEntry struct {
	ID        int64     `json:"id"`
	Type      LogType   `json:"type"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor"`
	Target    string    `json:"target,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLogEntry creates an audit entry stamped with the current time
func NewLogEntry(typ LogType, action, actor, target, detail string) *SystemLogEntry {
	return &SystemLogEntry{
		Type:      typ,
		Action:    action,
		Actor:     actor,
		Target:    target,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	}
}
