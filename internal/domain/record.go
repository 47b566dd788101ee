package domain

import "time"

// Meta holds the fields every persisted record carries.
type Meta struct {
	ID        int64
	CreatedAt time.Time
	EditedAt  time.Time
	Views     int64
}

// RecordID returns the internal numeric identifier.
func (m *Meta) RecordID() int64 { return m.ID }

// Stamp sets both timestamps for a record that is about to be created.
func (m *Meta) Stamp(now time.Time) {
	m.CreatedAt = now
	m.EditedAt = now
}

// Touch bumps EditedAt, never moving it before CreatedAt.
func (m *Meta) Touch(now time.Time) {
	if now.Before(m.CreatedAt) {
		now = m.CreatedAt
	}
	m.EditedAt = now
}

func (m *Meta) fields() map[string]any {
	return map[string]any{
		"views":     m.Views,
		"createdAt": m.CreatedAt,
		"editedAt":  m.EditedAt,
	}
}

// Owned is implemented by anything the permission gate can check ownership on.
// ok is false when the type has no author field at all.
type Owned interface {
	Owner() (authorID int64, ok bool)
}

// Record is a persisted entity the action set can serve.
type Record interface {
	Owned
	RecordID() int64
	Stamp(now time.Time)
	Touch(now time.Time)
	// Fields returns the serializable fields keyed by their client-facing
	// names. Reference fields hold raw numeric ids.
	Fields() map[string]any
}
