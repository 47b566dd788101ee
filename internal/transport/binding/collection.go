package binding

import (
	"context"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
	"github.com/heartmarshall/contracthub-backend/internal/service/crud"
)

// Collection is one entity's action set with untyped inputs, the shape both
// the REST and GraphQL transports serve.
type Collection interface {
	Type() domain.EntityType
	Find(ctx context.Context, filter domain.ListFilter) ([]domain.Document, error)
	Get(ctx context.Context, code string) (domain.Document, error)
	Create(ctx context.Context, raw map[string]any) (domain.Document, error)
	Update(ctx context.Context, code string, raw map[string]any) (domain.Document, error)
	Remove(ctx context.Context, code string) (domain.Document, error)
}

// recordService is what a Collection needs from a typed crud service.
type recordService[R domain.Record] interface {
	Type() domain.EntityType
	Find(ctx context.Context, filter domain.ListFilter) ([]domain.Document, error)
	Get(ctx context.Context, code string) (domain.Document, error)
	Create(ctx context.Context, in crud.CreateInput[R]) (domain.Document, error)
	Update(ctx context.Context, code string, in crud.UpdateInput[R]) (domain.Document, error)
	Remove(ctx context.Context, code string) (domain.Document, error)
}

// Binder converts raw objects into one entity's typed inputs.
type Binder[R domain.Record] interface {
	CreateInput(raw map[string]any) (crud.CreateInput[R], error)
	UpdateInput(raw map[string]any) (crud.UpdateInput[R], error)
}

type collection[R domain.Record] struct {
	svc    recordService[R]
	binder Binder[R]
}

// Bind pairs a typed service with its binder.
func Bind[R domain.Record](svc recordService[R], binder Binder[R]) Collection {
	return &collection[R]{svc: svc, binder: binder}
}

func (c *collection[R]) Type() domain.EntityType { return c.svc.Type() }

func (c *collection[R]) Find(ctx context.Context, filter domain.ListFilter) ([]domain.Document, error) {
	return c.svc.Find(ctx, filter)
}

func (c *collection[R]) Get(ctx context.Context, code string) (domain.Document, error) {
	return c.svc.Get(ctx, code)
}

func (c *collection[R]) Create(ctx context.Context, raw map[string]any) (domain.Document, error) {
	in, err := c.binder.CreateInput(raw)
	if err != nil {
		return nil, err
	}
	return c.svc.Create(ctx, in)
}

func (c *collection[R]) Update(ctx context.Context, code string, raw map[string]any) (domain.Document, error) {
	in, err := c.binder.UpdateInput(raw)
	if err != nil {
		return nil, err
	}
	return c.svc.Update(ctx, code, in)
}

func (c *collection[R]) Remove(ctx context.Context, code string) (domain.Document, error) {
	return c.svc.Remove(ctx, code)
}

// Registry indexes collections by entity type.
type Registry struct {
	byType map[domain.EntityType]Collection
	order  []Collection
}

// NewRegistry creates a Registry. Later collections replace earlier ones of
// the same type.
func NewRegistry(cols ...Collection) *Registry {
	r := &Registry{byType: make(map[domain.EntityType]Collection, len(cols))}
	for _, c := range cols {
		if _, dup := r.byType[c.Type()]; !dup {
			r.order = append(r.order, c)
		}
		r.byType[c.Type()] = c
	}
	return r
}

// Lookup returns the collection for t.
func (r *Registry) Lookup(t domain.EntityType) (Collection, bool) {
	c, ok := r.byType[t]
	return c, ok
}

// All returns the collections in registration order.
func (r *Registry) All() []Collection {
	out := make([]Collection, 0, len(r.order))
	for _, c := range r.order {
		out = append(out, r.byType[c.Type()])
	}
	return out
}
