// Package organization implements the organization repository using PostgreSQL.
package organization

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/contracthub-backend/internal/adapter/postgres"
	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

const entity = "organization"

var columns = []string{"id", "name", `"desc"`, "logo", "website", "views", "created_at", "edited_at"}

var sortable = postgres.BaseSortColumns.With(postgres.SortColumns{"name": "name"})

// Repo provides organization persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new organization repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var (
	returning         = " RETURNING " + postgres.Columns(columns)
	getByIDSQL        = `SELECT ` + postgres.Columns(columns) + ` FROM organizations WHERE id = $1`
	incrementViewsSQL = `UPDATE organizations SET views = views + 1 WHERE id = $1` + returning
	createSQL         = `INSERT INTO organizations (name, "desc", logo, website, created_at, edited_at)
VALUES ($1, $2, $3, $4, $5, $6)` + returning
	updateSQL = `UPDATE organizations SET name = $2, "desc" = $3, logo = $4, website = $5, edited_at = $6
WHERE id = $1` + returning
	deleteSQL = `DELETE FROM organizations WHERE id = $1`
)

// Find lists organizations. Organizations have no author, so an author
// scope in the filter is ignored.
func (r *Repo) Find(ctx context.Context, f domain.ListFilter) ([]*domain.Organization, error) {
	f.AuthorID = nil
	q, err := postgres.ApplyListFilter(postgres.Builder.Select(columns...).From("organizations"), f, sortable)
	if err != nil {
		return nil, err
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find organizations: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("find organizations: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.Organization, 0)
	for rows.Next() {
		o, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find organizations: %w", err)
	}
	return result, nil
}

// GetByID returns an organization by primary key.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Organization, error) {
	o, err := scan(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return o, nil
}

// IncrementViews bumps the view counter in one statement and returns the row.
func (r *Repo) IncrementViews(ctx context.Context, id int64) (*domain.Organization, error) {
	o, err := scan(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, incrementViewsSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return o, nil
}

// Create inserts an organization and returns it with its assigned id.
func (r *Repo) Create(ctx context.Context, o *domain.Organization) (*domain.Organization, error) {
	created, err := scan(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, createSQL,
		o.Name, o.Desc, o.Logo, o.Website, o.CreatedAt, o.EditedAt,
	))
	if err != nil {
		return nil, postgres.MapError(err, entity, 0)
	}
	return created, nil
}

// Update overwrites the mutable columns of an organization.
func (r *Repo) Update(ctx context.Context, o *domain.Organization) (*domain.Organization, error) {
	updated, err := scan(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, updateSQL,
		o.ID, o.Name, o.Desc, o.Logo, o.Website, o.EditedAt,
	))
	if err != nil {
		return nil, postgres.MapError(err, entity, o.ID)
	}
	return updated, nil
}

// Delete removes an organization. Returns domain.ErrNotFound if no row matched.
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

func scan(row pgx.Row) (*domain.Organization, error) {
	var o domain.Organization
	if err := row.Scan(&o.ID, &o.Name, &o.Desc, &o.Logo, &o.Website, &o.Views, &o.CreatedAt, &o.EditedAt); err != nil {
		return nil, err
	}
	return &o, nil
}
