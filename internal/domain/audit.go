package domain

import "time"

// AuditEntry is one persisted change event.
type AuditEntry struct {
	ID       int64
	Type     EntityType
	Code     string
	Kind     ChangeKind
	ActorID  int64
	Document Document
	At       time.Time
}

// AuditFilter selects audit entries. Zero fields do not filter.
type AuditFilter struct {
	Type    EntityType
	Code    string
	ActorID int64
	Limit   int
}
