package profile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
	"github.com/heartmarshall/contracthub-backend/pkg/ctxutil"
)

// Me returns the authenticated user's profile document.
// Returns ErrUnauthorized if no userID is found in context.
func (s *Service) Me(ctx context.Context) (domain.Document, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile.Me: %w", err)
	}
	return s.userDocument(user)
}

// Update changes the authenticated user's name and avatar.
func (s *Service) Update(ctx context.Context, input UpdateInput) (domain.Document, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile.Update: %w", err)
	}
	if input.FullName != nil {
		user.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}
	user.EditedAt = s.now()
	if user.EditedAt.Before(user.CreatedAt) {
		user.EditedAt = user.CreatedAt
	}

	updated, err := s.users.UpdateProfile(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("profile.Update: %w", err)
	}

	s.log.InfoContext(ctx, "profile updated", slog.Int64("user_id", userID))
	return s.userDocument(updated)
}

// Goals lists the goals the authenticated user created.
func (s *Service) Goals(ctx context.Context) ([]domain.Document, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	goals, err := s.goals.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile.Goals: %w", err)
	}

	docs := make([]domain.Document, 0, len(goals))
	for i := range goals {
		doc, err := s.goalDocument(&goals[i])
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// CreateGoal adds a goal that relationships can reference by code.
func (s *Service) CreateGoal(ctx context.Context, input GoalInput) (domain.Document, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	goal, err := s.goals.Create(ctx, &domain.Goal{
		Author:    userID,
		Name:      strings.TrimSpace(input.Name),
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("profile.CreateGoal: %w", err)
	}

	doc, err := s.goalDocument(goal)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "goal created", slog.Int64("user_id", userID), slog.String("code", doc.Code()))
	return doc, nil
}

func (s *Service) userDocument(u *domain.User) (domain.Document, error) {
	code, err := s.codecs.Encode(domain.EntityTypeUser, u.ID)
	if err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}
	return domain.Document{
		"code":      code,
		"username":  u.Username,
		"email":     u.Email,
		"fullName":  u.FullName,
		"avatar":    u.Avatar,
		"role":      u.Role.String(),
		"createdAt": u.CreatedAt,
		"editedAt":  u.EditedAt,
	}, nil
}

func (s *Service) goalDocument(g *domain.Goal) (domain.Document, error) {
	code, err := s.codecs.Encode(domain.EntityTypeGoal, g.ID)
	if err != nil {
		return nil, fmt.Errorf("encode goal: %w", err)
	}
	return domain.Document{"code": code, "name": g.Name, "createdAt": g.CreatedAt}, nil
}
