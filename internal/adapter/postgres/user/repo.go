// Package user implements the User repository using PostgreSQL.
package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/contracthub-backend/internal/adapter/postgres"
	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

const entity = "user"

const userColumns = `id, username, email, full_name, avatar, role, password_hash, created_at, edited_at`

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// SQL
// ---------------------------------------------------------------------------

const (
	getByIDSQL       = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	getByUsernameSQL = `SELECT ` + userColumns + ` FROM users WHERE lower(username) = lower($1)`
	getByIDsSQL      = `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1::bigint[])`

	createSQL = `
INSERT INTO users (username, email, full_name, avatar, role, password_hash, created_at, edited_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + userColumns

	updateProfileSQL = `
UPDATE users SET full_name = $2, avatar = $3, edited_at = $4
WHERE id = $1
RETURNING ` + userColumns

	updateRoleSQL = `
UPDATE users SET role = $2, edited_at = greatest(now(), created_at)
WHERE id = $1
RETURNING ` + userColumns

	listSQL  = `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT $1 OFFSET $2`
	countSQL = `SELECT count(*) FROM users`
)

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return u, nil
}

// GetByUsername returns a user by username, case-insensitively.
func (r *Repo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := scanUser(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, getByUsernameSQL, strings.TrimSpace(username)))
	if err != nil {
		return nil, postgres.MapError(err, entity, 0)
	}
	return u, nil
}

// GetByIDs returns the users with the given ids in no particular order.
// Unknown ids are skipped.
func (r *Repo) GetByIDs(ctx context.Context, ids []int64) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, getByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("get users by ids: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0, len(ids))
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get users by ids: %w", err)
	}
	return users, nil
}

// List returns users ordered by id.
func (r *Repo) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, listSQL, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0, limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Count returns the total number of users.
func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, countSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new user. A taken username or email maps to
// domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	created, err := scanUser(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, createSQL,
		u.Username, u.Email, u.FullName, u.Avatar, string(u.Role), u.PasswordHash, u.CreatedAt, u.EditedAt,
	))
	if err != nil {
		return nil, postgres.MapError(err, entity, 0)
	}
	return created, nil
}

// UpdateProfile overwrites the user-editable profile fields.
func (r *Repo) UpdateProfile(ctx context.Context, u *domain.User) (*domain.User, error) {
	updated, err := scanUser(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, updateProfileSQL,
		u.ID, u.FullName, u.Avatar, u.EditedAt,
	))
	if err != nil {
		return nil, postgres.MapError(err, entity, u.ID)
	}
	return updated, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.Avatar, &role, &u.PasswordHash, &u.CreatedAt, &u.EditedAt)
	if err != nil {
		return nil, err
	}
	u.Role = domain.UserRole(role)
	return &u, nil
}

// UpdateRole sets the role of the user with the given id.
func (r *Repo) UpdateRole(ctx context.Context, id int64, role domain.UserRole) (*domain.User, error) {
	updated, err := scanUser(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, updateRoleSQL, id, string(role)))
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return updated, nil
}
