package domain

import "time"

// Document is the serialized, client-facing form of a record.
type Document map[string]any

// Code returns the public code of the document, or "" if it has none.
func (d Document) Code() string {
	code, _ := d["code"].(string)
	return code
}

// Clone returns a shallow copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// ChangeEvent reports a mutation of a record to change sinks.
type ChangeEvent struct {
	Type     EntityType `json:"type"`
	Kind     ChangeKind `json:"kind"`
	Code     string     `json:"code"`
	Document Document   `json:"document"`
	ActorID  int64      `json:"-"`
	At       time.Time  `json:"at"`
}
