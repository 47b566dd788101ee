// Package user implements admin-only user management and change history.
package user

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

type userRepo interface {
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
	Count(ctx context.Context) (int, error)
	UpdateRole(ctx context.Context, id int64, role domain.UserRole) (*domain.User, error)
}

type auditLog interface {
	List(ctx context.Context, f domain.AuditFilter) ([]domain.AuditEntry, error)
}

type codecs interface {
	Encode(t domain.EntityType, id int64) (string, error)
	Decode(t domain.EntityType, code string) (int64, error)
}

// Service implements admin operations on users.
type Service struct {
	log    *slog.Logger
	users  userRepo
	audit  auditLog
	codecs codecs
}

// NewService creates the admin user service. audit may be nil, in which case
// History reports ErrNotFound.
func NewService(logger *slog.Logger, users userRepo, audit auditLog, codecs codecs) *Service {
	return &Service{
		log:    logger.With("service", "user"),
		users:  users,
		audit:  audit,
		codecs: codecs,
	}
}
