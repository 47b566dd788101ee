// Package serialize turns records into client-facing documents.
package serialize

import (
	"strings"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

// Whitelist is the set of fields a record type exposes to clients.
type Whitelist struct {
	fields []string
	set    map[string]struct{}
}

// ParseWhitelist parses a space separated field list such as
// "code name desc createdAt".
func ParseWhitelist(s string) Whitelist {
	w := Whitelist{set: make(map[string]struct{})}
	for _, f := range strings.Fields(s) {
		if _, dup := w.set[f]; dup {
			continue
		}
		w.set[f] = struct{}{}
		w.fields = append(w.fields, f)
	}
	return w
}

// Has reports whether field is exposed.
func (w Whitelist) Has(field string) bool {
	_, ok := w.set[field]
	return ok
}

// Fields returns the exposed fields in declaration order.
func (w Whitelist) Fields() []string {
	return append([]string(nil), w.fields...)
}

// Document builds the client document for rec. The public code takes the
// place of the internal id and only whitelisted fields are kept. Unknown
// whitelist entries are ignored.
func Document(code string, rec domain.Record, w Whitelist) domain.Document {
	doc := domain.Document{"code": code}
	for k, v := range rec.Fields() {
		if w.Has(k) {
			doc[k] = v
		}
	}
	return doc
}
