// Package relationship implements the relationship repository using PostgreSQL.
package relationship

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/contracthub-backend/internal/adapter/postgres"
	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

const entity = "relationship"

var columns = []string{"id", "author", "name", `"desc"`, "goals", "views", "created_at", "edited_at"}

var sortable = postgres.BaseSortColumns.With(postgres.SortColumns{"name": "name"})

// Repo provides relationship persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new relationship repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var (
	returning         = " RETURNING " + postgres.Columns(columns)
	getByIDSQL        = `SELECT ` + postgres.Columns(columns) + ` FROM relationships WHERE id = $1`
	incrementViewsSQL = `UPDATE relationships SET views = views + 1 WHERE id = $1` + returning
	createSQL         = `INSERT INTO relationships (author, name, "desc", goals, created_at, edited_at)
VALUES ($1, $2, $3, $4, $5, $6)` + returning
	updateSQL = `UPDATE relationships SET name = $2, "desc" = $3, goals = $4, edited_at = $5
WHERE id = $1` + returning
	deleteSQL = `DELETE FROM relationships WHERE id = $1`
)

// Find lists relationships matching the filter.
func (r *Repo) Find(ctx context.Context, f domain.ListFilter) ([]*domain.Relationship, error) {
	q, err := postgres.ApplyListFilter(postgres.Builder.Select(columns...).From("relationships"), f, sortable)
	if err != nil {
		return nil, err
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find relationships: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("find relationships: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.Relationship, 0)
	for rows.Next() {
		rel, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan relationship: %w", err)
		}
		result = append(result, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find relationships: %w", err)
	}
	return result, nil
}

// GetByID returns a relationship by primary key.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Relationship, error) {
	rel, err := scan(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return rel, nil
}

// IncrementViews bumps the view counter in one statement and returns the row.
func (r *Repo) IncrementViews(ctx context.Context, id int64) (*domain.Relationship, error) {
	rel, err := scan(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, incrementViewsSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return rel, nil
}

// Create inserts a relationship and returns it with its assigned id.
func (r *Repo) Create(ctx context.Context, rel *domain.Relationship) (*domain.Relationship, error) {
	created, err := scan(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, createSQL,
		rel.Author, rel.Name, rel.Desc, goals(rel.Goals), rel.CreatedAt, rel.EditedAt,
	))
	if err != nil {
		return nil, postgres.MapError(err, entity, 0)
	}
	return created, nil
}

// Update overwrites the mutable columns of a relationship.
func (r *Repo) Update(ctx context.Context, rel *domain.Relationship) (*domain.Relationship, error) {
	updated, err := scan(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, updateSQL,
		rel.ID, rel.Name, rel.Desc, goals(rel.Goals), rel.EditedAt,
	))
	if err != nil {
		return nil, postgres.MapError(err, entity, rel.ID)
	}
	return updated, nil
}

// Delete removes a relationship. Returns domain.ErrNotFound if no row matched.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, deleteSQL, id)
	if err != nil {
		return postgres.MapError(err, entity, id)
	}
	if tag.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows, entity, id)
	}
	return nil
}

// goals never sends NULL; the column is NOT NULL.
func goals(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

func scan(row pgx.Row) (*domain.Relationship, error) {
	var rel domain.Relationship
	if err := row.Scan(&rel.ID, &rel.Author, &rel.Name, &rel.Desc, &rel.Goals, &rel.Views, &rel.CreatedAt, &rel.EditedAt); err != nil {
		return nil, err
	}
	if rel.Goals == nil {
		rel.Goals = []int64{}
	}
	return &rel, nil
}
