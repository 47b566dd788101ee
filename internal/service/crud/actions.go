package crud

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/contracthub-backend/internal/access"
	"github.com/heartmarshall/contracthub-backend/internal/domain"
	"github.com/heartmarshall/contracthub-backend/internal/serialize"
)

// ---------------------------------------------------------------------------
// Find
// ---------------------------------------------------------------------------

// Find lists records visible to the caller as serialized, populated documents.
func (s *Service[R]) Find(ctx context.Context, filter domain.ListFilter) ([]domain.Document, error) {
	actor := ActorFromCtx(ctx)
	if err := s.preAuthorize(s.desc.Permissions.Find, actor); err != nil {
		return nil, err
	}

	filter = filter.Normalize()
	if s.desc.ScopeFindToAuthor && !actor.IsAdmin() {
		id := actorID(actor)
		filter.AuthorID = &id
	}

	var slot string
	if s.desc.CacheFind {
		var cached []domain.Document
		var hit bool
		if slot, hit = s.cacheGet(ctx, findKey(filter), &cached); hit {
			return cached, nil
		}
	}

	recs, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", s.desc.Type, err)
	}

	docs := make([]domain.Document, 0, len(recs))
	for _, rec := range recs {
		doc, err := s.serialize(rec)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := s.populate(ctx, docs...); err != nil {
		return nil, err
	}

	s.cacheSet(ctx, slot, docs)
	return docs, nil
}

// ---------------------------------------------------------------------------
// Get
// ---------------------------------------------------------------------------

// Get returns a single record by its public code. A fresh read increments
// the record's view counter; a cache hit does not.
func (s *Service[R]) Get(ctx context.Context, code string) (domain.Document, error) {
	actor := ActorFromCtx(ctx)
	level := s.desc.Permissions.Get
	if err := s.preAuthorize(level, actor); err != nil {
		return nil, err
	}

	// Owner-gated reads must see the record before answering, so they
	// bypass the cache.
	cacheable := s.desc.CacheGet && level < domain.PermissionOwner
	var slot string
	if cacheable {
		var cached domain.Document
		var hit bool
		if slot, hit = s.cacheGet(ctx, "get:"+code, &cached); hit {
			return cached, nil
		}
	}

	id, err := s.decode(code)
	if err != nil {
		return nil, err
	}

	if level >= domain.PermissionOwner {
		rec, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", s.desc.Type, err)
		}
		if err := access.Authorize(level, actor, rec); err != nil {
			return nil, err
		}
	}

	rec, err := s.repo.IncrementViews(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.desc.Type, err)
	}

	doc, err := s.present(ctx, rec)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, slot, doc)
	return doc, nil
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

// Create validates input, persists a new record authored by the caller and
// announces it.
func (s *Service[R]) Create(ctx context.Context, in CreateInput[R]) (domain.Document, error) {
	actor := ActorFromCtx(ctx)
	if err := s.preAuthorize(s.desc.Permissions.Create, actor); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	rec := in.Build(actorID(actor))
	rec.Stamp(s.now())

	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", s.desc.Type, err)
	}

	doc, err := s.present(ctx, created)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, domain.ChangeCreated, doc, actor)
	s.log.InfoContext(ctx, s.desc.Type.String()+" created",
		slog.String("code", doc.Code()),
		slog.Int64("user_id", actorID(actor)),
	)
	return doc, nil
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

// Update applies input to the record identified by code.
func (s *Service[R]) Update(ctx context.Context, code string, in UpdateInput[R]) (domain.Document, error) {
	actor := ActorFromCtx(ctx)
	level := s.desc.Permissions.Update
	if err := s.preAuthorize(level, actor); err != nil {
		return nil, err
	}

	id, err := s.decode(code)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var updated R
	err = s.runInTx(ctx, func(ctx context.Context) error {
		rec, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get %s: %w", s.desc.Type, err)
		}
		if err := access.Authorize(level, actor, rec); err != nil {
			return err
		}

		in.Apply(rec)
		rec.Touch(s.now())

		updated, err = s.repo.Update(ctx, rec)
		if err != nil {
			return fmt.Errorf("update %s: %w", s.desc.Type, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	doc, err := s.present(ctx, updated)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, domain.ChangeUpdated, doc, actor)
	s.log.InfoContext(ctx, s.desc.Type.String()+" updated",
		slog.String("code", code),
		slog.Int64("user_id", actorID(actor)),
	)
	return doc, nil
}

// ---------------------------------------------------------------------------
// Remove
// ---------------------------------------------------------------------------

// Remove deletes the record identified by code and returns its last state.
func (s *Service[R]) Remove(ctx context.Context, code string) (domain.Document, error) {
	actor := ActorFromCtx(ctx)
	level := s.desc.Permissions.Remove
	if err := s.preAuthorize(level, actor); err != nil {
		return nil, err
	}

	id, err := s.decode(code)
	if err != nil {
		return nil, err
	}

	var removed R
	err = s.runInTx(ctx, func(ctx context.Context) error {
		rec, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get %s: %w", s.desc.Type, err)
		}
		if err := access.Authorize(level, actor, rec); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete %s: %w", s.desc.Type, err)
		}
		removed = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	doc, err := s.present(ctx, removed)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, domain.ChangeRemoved, doc, actor)
	s.log.InfoContext(ctx, s.desc.Type.String()+" removed",
		slog.String("code", code),
		slog.Int64("user_id", actorID(actor)),
	)
	return doc, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// preAuthorize runs the gate before the record is loaded. Owner checks need
// the record, so at this stage they only require an authenticated caller.
func (s *Service[R]) preAuthorize(level domain.Permission, actor *domain.Actor) error {
	if level == domain.PermissionOwner {
		return access.Authorize(domain.PermissionLoggedIn, actor, nil)
	}
	return access.Authorize(level, actor, nil)
}

func (s *Service[R]) decode(code string) (int64, error) {
	id, err := s.codec.Decode(code)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", s.desc.Type, code, err)
	}
	return id, nil
}

func (s *Service[R]) serialize(rec R) (domain.Document, error) {
	code, err := s.codec.Encode(rec.RecordID())
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", s.desc.Type, err)
	}
	return serialize.Document(code, rec, s.fields), nil
}

func (s *Service[R]) populate(ctx context.Context, docs ...domain.Document) error {
	if s.refs == nil || len(s.desc.Populates) == 0 || len(docs) == 0 {
		return nil
	}
	if err := s.refs.Populate(ctx, docs, s.desc.Populates); err != nil {
		return fmt.Errorf("populate %s: %w", s.desc.Type, err)
	}
	return nil
}

func (s *Service[R]) present(ctx context.Context, rec R) (domain.Document, error) {
	doc, err := s.serialize(rec)
	if err != nil {
		return nil, err
	}
	if err := s.populate(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Service[R]) runInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx.RunInTx(ctx, fn)
}

func (s *Service[R]) emit(ctx context.Context, kind domain.ChangeKind, doc domain.Document, actor *domain.Actor) {
	if s.changes == nil {
		return
	}
	s.changes.Publish(ctx, domain.ChangeEvent{
		Type:     s.desc.Type,
		Kind:     kind,
		Code:     doc.Code(),
		Document: doc.Clone(),
		ActorID:  actorID(actor),
		At:       s.now(),
	})
}

// cacheGet looks key up and returns the slot to write a fresh value to. An
// empty slot means the cache is unavailable and nothing should be written.
func (s *Service[R]) cacheGet(ctx context.Context, key string, dst any) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	slot, found, err := s.cache.Get(ctx, s.desc.Type, key, dst)
	if err != nil {
		s.log.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		return "", false
	}
	return slot, found
}

func (s *Service[R]) cacheSet(ctx context.Context, slot string, v any) {
	if s.cache == nil || slot == "" {
		return
	}
	if err := s.cache.Set(ctx, slot, v); err != nil {
		s.log.WarnContext(ctx, "cache write failed", slog.String("slot", slot), slog.String("error", err.Error()))
	}
}

func findKey(f domain.ListFilter) string {
	scope := "all"
	if f.AuthorID != nil {
		scope = fmt.Sprintf("author=%d", *f.AuthorID)
	}
	return fmt.Sprintf("find:%s:%d:%d:%s", scope, f.Limit, f.Offset, f.Sort)
}
