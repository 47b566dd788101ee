package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/contracthub-backend/internal/access"
	"github.com/heartmarshall/contracthub-backend/internal/domain"
	"github.com/heartmarshall/contracthub-backend/internal/service/crud"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Page is one page of users with the overall total.
type Page struct {
	Rows   []domain.Document `json:"rows"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

// ListUsers returns a page of users ordered by id.
func (s *Service) ListUsers(ctx context.Context, limit, offset int) (*Page, error) {
	if err := access.Authorize(domain.PermissionAdmin, crud.ActorFromCtx(ctx), nil); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		return nil, domain.NewValidationError("offset", "must not be negative")
	}

	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("user.ListUsers: %w", err)
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("user.ListUsers: %w", err)
	}

	rows := make([]domain.Document, 0, len(users))
	for i := range users {
		doc, err := s.document(&users[i])
		if err != nil {
			return nil, fmt.Errorf("user.ListUsers: %w", err)
		}
		rows = append(rows, doc)
	}
	return &Page{Rows: rows, Total: total, Limit: limit, Offset: offset}, nil
}

// SetRole changes the role of the user with the given code. Admins cannot
// demote themselves, so at least one admin always remains.
func (s *Service) SetRole(ctx context.Context, code string, role domain.UserRole) (domain.Document, error) {
	actor := crud.ActorFromCtx(ctx)
	if err := access.Authorize(domain.PermissionAdmin, actor, nil); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, domain.NewValidationError("role", "must be 'user' or 'admin'")
	}

	id, err := s.codecs.Decode(domain.EntityTypeUser, code)
	if err != nil {
		return nil, fmt.Errorf("user.SetRole: %w", err)
	}
	if id == actor.UserID && role != domain.UserRoleAdmin {
		return nil, domain.NewValidationError("role", "cannot demote yourself")
	}

	updated, err := s.users.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, fmt.Errorf("user.SetRole: %w", err)
	}

	s.log.InfoContext(ctx, "user role updated",
		slog.Int64("target_user_id", id),
		slog.String("role", role.String()),
		slog.Int64("admin_id", actor.UserID),
	)
	return s.document(updated)
}

// History returns the recorded changes of one record, newest first.
func (s *Service) History(ctx context.Context, t domain.EntityType, code string, limit int) ([]domain.Document, error) {
	if err := access.Authorize(domain.PermissionAdmin, crud.ActorFromCtx(ctx), nil); err != nil {
		return nil, err
	}
	if s.audit == nil {
		return nil, fmt.Errorf("user.History: audit log disabled: %w", domain.ErrNotFound)
	}
	if !t.IsValid() {
		return nil, domain.NewValidationError("type", "unknown record type")
	}
	// Reject codes that could never have been issued for t.
	if _, err := s.codecs.Decode(t, code); err != nil {
		return nil, fmt.Errorf("user.History: %w", err)
	}

	entries, err := s.audit.List(ctx, domain.AuditFilter{Type: t, Code: code, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("user.History: %w", err)
	}

	out := make([]domain.Document, 0, len(entries))
	for _, e := range entries {
		doc := domain.Document{
			"kind":     string(e.Kind),
			"at":       e.At,
			"document": e.Document,
			"actor":    nil,
		}
		if e.ActorID > 0 {
			actor, err := s.codecs.Encode(domain.EntityTypeUser, e.ActorID)
			if err != nil {
				return nil, fmt.Errorf("user.History: %w", err)
			}
			doc["actor"] = actor
		}
		out = append(out, doc)
	}
	return out, nil
}

func (s *Service) document(u *domain.User) (domain.Document, error) {
	code, err := s.codecs.Encode(domain.EntityTypeUser, u.ID)
	if err != nil {
		return nil, err
	}
	return domain.Document{
		"code":      code,
		"username":  u.Username,
		"email":     u.Email,
		"fullName":  u.FullName,
		"role":      u.Role.String(),
		"createdAt": u.CreatedAt,
	}, nil
}
