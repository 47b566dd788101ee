package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser inserts a user with the given role and returns it with its id.
func SeedUser(t *testing.T, pool *pgxpool.Pool, role domain.UserRole) domain.User {
	t.Helper()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		Username:     "user-" + suffix,
		Email:        "user-" + suffix + "@example.com",
		FullName:     "Test User " + suffix,
		Role:         role,
		PasswordHash: "not-a-real-hash",
		CreatedAt:    now,
		EditedAt:     now,
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (username, email, full_name, role, password_hash, created_at, edited_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		user.Username, user.Email, user.FullName, string(user.Role), user.PasswordHash, user.CreatedAt, user.EditedAt,
	).Scan(&user.ID)
	if err != nil {
		t.Fatalf("testhelper: SeedUser: %v", err)
	}
	return user
}

// SeedGoal inserts a goal authored by authorID.
func SeedGoal(t *testing.T, pool *pgxpool.Pool, authorID int64, name string) domain.Goal {
	t.Helper()

	goal := domain.Goal{Author: authorID, Name: name, CreatedAt: time.Now().UTC().Truncate(time.Microsecond)}
	err := pool.QueryRow(context.Background(),
		`INSERT INTO goals (author, name, created_at) VALUES ($1, $2, $3) RETURNING id`,
		goal.Author, goal.Name, goal.CreatedAt,
	).Scan(&goal.ID)
	if err != nil {
		t.Fatalf("testhelper: SeedGoal: %v", err)
	}
	return goal
}
