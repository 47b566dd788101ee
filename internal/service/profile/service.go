// Package profile serves the authenticated user's own account data and goals.
package profile

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

// userRepo defines the user repository interface needed by profile service.
type userRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, u *domain.User) (*domain.User, error)
}

// goalRepo defines the goal repository interface needed by profile service.
type goalRepo interface {
	Create(ctx context.Context, g *domain.Goal) (*domain.Goal, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]domain.Goal, error)
}

type encoder interface {
	Encode(t domain.EntityType, id int64) (string, error)
}

// Service implements profile operations.
type Service struct {
	log    *slog.Logger
	users  userRepo
	goals  goalRepo
	codecs encoder
	now    func() time.Time
}

// NewService creates a new profile service instance.
func NewService(logger *slog.Logger, users userRepo, goals goalRepo, codecs encoder) *Service {
	return &Service{
		log:    logger.With("service", "profile"),
		users:  users,
		goals:  goals,
		codecs: codecs,
		now:    time.Now,
	}
}
