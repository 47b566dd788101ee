// Package populate expands numeric references in serialized records into
// embedded summaries of the referenced entities.
package populate

import (
	"context"
	"fmt"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

// Refs declares which document fields reference which entity type.
// A field holds either a single int64 id or a []int64 of ids.
type Refs map[string]domain.EntityType

type encoder interface {
	Encode(t domain.EntityType, id int64) (string, error)
}

// Resolver expands references. It uses the request's loaders when the
// middleware installed them and a private set otherwise.
type Resolver struct {
	src    *Sources
	codecs encoder
}

// NewResolver creates a Resolver.
func NewResolver(src *Sources, codecs encoder) *Resolver {
	return &Resolver{src: src, codecs: codecs}
}

// pending is one reference waiting for its loader result.
type pending struct {
	doc   domain.Document
	field string
	typ   domain.EntityType
	list  bool
	loads []func() (domain.Document, error)
}

// Populate replaces every declared reference field of docs in place.
// A single reference that cannot be found becomes nil; missing entries of a
// reference list are dropped.
func (r *Resolver) Populate(ctx context.Context, docs []domain.Document, refs Refs) error {
	if len(docs) == 0 || len(refs) == 0 {
		return nil
	}

	loaders := FromContext(ctx)
	if loaders == nil {
		loaders = NewLoaders(r.src)
	}

	// Queue every load before waiting on any so they land in one batch per type.
	var queue []*pending
	for _, doc := range docs {
		for field, typ := range refs {
			raw, ok := doc[field]
			if !ok {
				continue
			}
			p := &pending{doc: doc, field: field, typ: typ}
			switch v := raw.(type) {
			case int64:
				p.loads = append(p.loads, r.load(ctx, loaders, typ, v))
			case []int64:
				p.list = true
				for _, id := range v {
					p.loads = append(p.loads, r.load(ctx, loaders, typ, id))
				}
			case nil:
			default:
				// Already expanded.
				continue
			}
			queue = append(queue, p)
		}
	}

	for _, p := range queue {
		if p.list {
			out := make([]domain.Document, 0, len(p.loads))
			for _, load := range p.loads {
				summary, err := load()
				if err != nil {
					return fmt.Errorf("populate %s: %w", p.field, err)
				}
				if summary != nil {
					out = append(out, summary)
				}
			}
			p.doc[p.field] = out
			continue
		}

		var summary domain.Document
		if len(p.loads) == 1 {
			var err error
			if summary, err = p.loads[0](); err != nil {
				return fmt.Errorf("populate %s: %w", p.field, err)
			}
		}
		if summary == nil {
			p.doc[p.field] = nil
		} else {
			p.doc[p.field] = summary
		}
	}

	return nil
}

func (r *Resolver) load(ctx context.Context, l *Loaders, typ domain.EntityType, id int64) func() (domain.Document, error) {
	if id <= 0 {
		return func() (domain.Document, error) { return nil, nil }
	}

	switch typ {
	case domain.EntityTypeUser:
		return summarize(l.UserByID.Load(ctx, id), func(u *domain.User) (domain.Document, error) {
			code, err := r.codecs.Encode(domain.EntityTypeUser, u.ID)
			if err != nil {
				return nil, err
			}
			return UserSummary(code, u), nil
		})
	case domain.EntityTypeGoal:
		return summarize(l.GoalByID.Load(ctx, id), func(g *domain.Goal) (domain.Document, error) {
			code, err := r.codecs.Encode(domain.EntityTypeGoal, g.ID)
			if err != nil {
				return nil, err
			}
			return domain.Document{"code": code, "name": g.Name}, nil
		})
	}

	return func() (domain.Document, error) {
		return nil, fmt.Errorf("no reference source for %q", typ)
	}
}

func summarize[V any](thunk dataloader.Thunk[*V], fn func(*V) (domain.Document, error)) func() (domain.Document, error) {
	return func() (domain.Document, error) {
		v, err := thunk()
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, nil
		}
		return fn(v)
	}
}

// UserSummary is the embedded form of a user.
func UserSummary(code string, u *domain.User) domain.Document {
	return domain.Document{
		"code":     code,
		"username": u.Username,
		"fullName": u.FullName,
		"avatar":   u.Avatar,
	}
}
