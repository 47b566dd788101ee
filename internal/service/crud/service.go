// Package crud implements the uniform, permission-gated action set
// (find, get, create, update, remove) shared by every record type.
package crud

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
	"github.com/heartmarshall/contracthub-backend/internal/populate"
	"github.com/heartmarshall/contracthub-backend/internal/serialize"
	"github.com/heartmarshall/contracthub-backend/pkg/ctxutil"
)

// Repo is the storage contract for one record type.
type Repo[R domain.Record] interface {
	Find(ctx context.Context, filter domain.ListFilter) ([]R, error)
	GetByID(ctx context.Context, id int64) (R, error)
	// IncrementViews atomically bumps the view counter and returns the
	// updated record.
	IncrementViews(ctx context.Context, id int64) (R, error)
	Create(ctx context.Context, rec R) (R, error)
	Update(ctx context.Context, rec R) (R, error)
	Delete(ctx context.Context, id int64) error
}

// CreateInput builds a new record from client input.
type CreateInput[R domain.Record] interface {
	Validate() error
	// Build returns the record to persist. authorID is the creating user,
	// or 0 for anonymous callers.
	Build(authorID int64) R
}

// UpdateInput applies client input to an existing record.
type UpdateInput[R domain.Record] interface {
	Validate() error
	Apply(rec R)
}

type idCodec interface {
	Encode(id int64) (string, error)
	Decode(code string) (int64, error)
}

type populator interface {
	Populate(ctx context.Context, docs []domain.Document, refs populate.Refs) error
}

// documentCache hands out a slot on every lookup. Values are written back
// to that slot so a change committed after the lookup is not masked.
type documentCache interface {
	Get(ctx context.Context, t domain.EntityType, key string, dst any) (slot string, found bool, err error)
	Set(ctx context.Context, slot string, v any) error
}

type changePublisher interface {
	Publish(ctx context.Context, ev domain.ChangeEvent)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Permissions holds the level each action requires.
type Permissions struct {
	Find   domain.Permission
	Get    domain.Permission
	Create domain.Permission
	Update domain.Permission
	Remove domain.Permission
}

// Descriptor configures the action set for one record type.
type Descriptor struct {
	Type        domain.EntityType
	Fields      string
	Populates   populate.Refs
	Permissions Permissions
	// ScopeFindToAuthor restricts find results to records authored by the
	// caller. Admins are never restricted.
	ScopeFindToAuthor bool
	CacheFind         bool
	CacheGet          bool
}

// Deps are the collaborators shared by every record type. Cache may be nil.
type Deps struct {
	Codec     idCodec
	Populator populator
	Cache     documentCache
	Changes   changePublisher
	Tx        txManager
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Service runs the action set for records of type R.
type Service[R domain.Record] struct {
	desc    Descriptor
	fields  serialize.Whitelist
	repo    Repo[R]
	codec   idCodec
	refs    populator
	cache   documentCache
	changes changePublisher
	tx      txManager
	log     *slog.Logger
	now     func() time.Time
}

// NewService creates the action set for one record type.
func NewService[R domain.Record](log *slog.Logger, desc Descriptor, repo Repo[R], deps Deps) *Service[R] {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Service[R]{
		desc:    desc,
		fields:  serialize.ParseWhitelist(desc.Fields),
		repo:    repo,
		codec:   deps.Codec,
		refs:    deps.Populator,
		cache:   deps.Cache,
		changes: deps.Changes,
		tx:      deps.Tx,
		log:     log.With("service", desc.Type.String()),
		now:     now,
	}
}

// Type returns the entity type the service serves.
func (s *Service[R]) Type() domain.EntityType { return s.desc.Type }

// ActorFromCtx returns the authenticated caller, or nil for anonymous requests.
func ActorFromCtx(ctx context.Context) *domain.Actor {
	id, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil
	}
	return &domain.Actor{UserID: id, Role: domain.UserRole(ctxutil.UserRoleFromCtx(ctx))}
}

func actorID(a *domain.Actor) int64 {
	if a == nil {
		return 0
	}
	return a.UserID
}
