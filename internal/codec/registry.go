package codec

import (
	"fmt"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

// Registry holds one Codec per entity type.
type Registry struct {
	codecs map[domain.EntityType]*Codec
}

// NewRegistry builds codecs for every entity type. Each salt is the type's
// collection name, prefixed by secret when one is configured.
func NewRegistry(secret string, minLength int) (*Registry, error) {
	r := &Registry{codecs: make(map[domain.EntityType]*Codec, len(domain.EntityTypes))}
	for _, t := range domain.EntityTypes {
		c, err := New(secret+t.Collection(), minLength)
		if err != nil {
			return nil, fmt.Errorf("codec registry %s: %w", t, err)
		}
		r.codecs[t] = c
	}
	return r, nil
}

// For returns the codec for t, or nil when t is unknown.
func (r *Registry) For(t domain.EntityType) *Codec {
	return r.codecs[t]
}

// Encode encodes id under the salt of t.
func (r *Registry) Encode(t domain.EntityType, id int64) (string, error) {
	c := r.codecs[t]
	if c == nil {
		return "", fmt.Errorf("codec: unknown entity type %q", t)
	}
	return c.Encode(id)
}

// Decode decodes code under the salt of t.
func (r *Registry) Decode(t domain.EntityType, code string) (int64, error) {
	c := r.codecs[t]
	if c == nil {
		return 0, fmt.Errorf("codec: unknown entity type %q", t)
	}
	return c.Decode(code)
}
