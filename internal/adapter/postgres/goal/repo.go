// Package goal implements the goal repository using PostgreSQL.
package goal

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/contracthub-backend/internal/adapter/postgres"
	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

const (
	createSQL = `INSERT INTO goals (author, name, created_at) VALUES ($1, $2, $3)
RETURNING id, author, name, created_at`
	getByIDsSQL     = `SELECT id, author, name, created_at FROM goals WHERE id = ANY($1::bigint[])`
	listByAuthorSQL = `SELECT id, author, name, created_at FROM goals WHERE author = $1 ORDER BY created_at DESC, id DESC`
)

// Repo provides goal persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new goal repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a goal and returns it with its assigned id.
func (r *Repo) Create(ctx context.Context, g *domain.Goal) (*domain.Goal, error) {
	created, err := scanGoal(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, createSQL, g.Author, g.Name, g.CreatedAt))
	if err != nil {
		return nil, postgres.MapError(err, "goal", 0)
	}
	return created, nil
}

// GetByIDs returns the goals with the given ids. Unknown ids are skipped.
func (r *Repo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Goal, error) {
	if len(ids) == 0 {
		return []domain.Goal{}, nil
	}
	return r.list(ctx, "get goals by ids", getByIDsSQL, ids)
}

// ListByAuthor returns the goals a user created, newest first.
func (r *Repo) ListByAuthor(ctx context.Context, authorID int64) ([]domain.Goal, error) {
	return r.list(ctx, "list goals", listByAuthorSQL, authorID)
}

func (r *Repo) list(ctx context.Context, op, sql string, arg any) ([]domain.Goal, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	goals := make([]domain.Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		goals = append(goals, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return goals, nil
}

func scanGoal(row pgx.Row) (*domain.Goal, error) {
	var g domain.Goal
	if err := row.Scan(&g.ID, &g.Author, &g.Name, &g.CreatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}
