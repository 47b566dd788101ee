// Package contract implements the contract repository using PostgreSQL.
package contract

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/contracthub-backend/internal/adapter/postgres"
	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

const entity = "contract"

var columns = []string{
	"id", "author", "name", "description", "customer", "customer_email", "customer_terms",
	"renewal_period", "cancellation_terms", "billing_type", "contract_start", "contract_end",
	"resources", "views", "created_at", "edited_at",
}

var sortable = postgres.BaseSortColumns.With(postgres.SortColumns{
	"name":          "name",
	"customer":      "customer",
	"contractStart": "contract_start",
	"contractEnd":   "contract_end",
})

// Repo provides contract persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new contract repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// SQL
// ---------------------------------------------------------------------------

var (
	returning = " RETURNING " + postgres.Columns(columns)

	getByIDSQL = `SELECT ` + postgres.Columns(columns) + ` FROM contracts WHERE id = $1`

	incrementViewsSQL = `UPDATE contracts SET views = views + 1 WHERE id = $1` + returning

	createSQL = `
INSERT INTO contracts (
    author, name, description, customer, customer_email, customer_terms,
    renewal_period, cancellation_terms, billing_type, contract_start, contract_end,
    resources, created_at, edited_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)` + returning

	updateSQL = `
UPDATE contracts SET
    name = $2, description = $3, customer = $4, customer_email = $5, customer_terms = $6,
    renewal_period = $7, cancellation_terms = $8, billing_type = $9,
    contract_start = $10, contract_end = $11, resources = $12, edited_at = $13
WHERE id = $1` + returning

	deleteSQL = `DELETE FROM contracts WHERE id = $1`
)

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Find lists contracts matching the filter.
func (r *Repo) Find(ctx context.Context, f domain.ListFilter) ([]*domain.Contract, error) {
	q, err := postgres.ApplyListFilter(postgres.Builder.Select(columns...).From("contracts"), f, sortable)
	if err != nil {
		return nil, err
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find contracts: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("find contracts: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.Contract, 0)
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find contracts: %w", err)
	}
	return result, nil
}

// GetByID returns a contract by primary key.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Contract, error) {
	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, getByIDSQL, id)
	c, err := scan(row)
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return c, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// IncrementViews bumps the view counter in one statement and returns the row.
func (r *Repo) IncrementViews(ctx context.Context, id int64) (*domain.Contract, error) {
	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, incrementViewsSQL, id)
	c, err := scan(row)
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return c, nil
}

// Create inserts a contract and returns it with its assigned id.
func (r *Repo) Create(ctx context.Context, c *domain.Contract) (*domain.Contract, error) {
	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, createSQL,
		c.Author, c.Name, c.Description, c.Customer, c.CustomerEmail, c.CustomerTerms,
		int16(c.RenewalPeriod), int16(c.CancellationTerms), int16(c.BillingType),
		c.ContractStart, c.ContractEnd, c.Resources, c.CreatedAt, c.EditedAt,
	)
	created, err := scan(row)
	if err != nil {
		return nil, postgres.MapError(err, entity, 0)
	}
	return created, nil
}

// Update overwrites the mutable columns of a contract.
func (r *Repo) Update(ctx context.Context, c *domain.Contract) (*domain.Contract, error) {
	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, updateSQL,
		c.ID, c.Name, c.Description, c.Customer, c.CustomerEmail, c.CustomerTerms,
		int16(c.RenewalPeriod), int16(c.CancellationTerms), int16(c.BillingType),
		c.ContractStart, c.ContractEnd, c.Resources, c.EditedAt,
	)
	updated, err := scan(row)
	if err != nil {
		return nil, postgres.MapError(err, entity, c.ID)
	}
	return updated, nil
}

// Delete removes a contract. Returns domain.ErrNotFound if no row matched.
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

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

func scan(row pgx.Row) (*domain.Contract, error) {
	var (
		c                              domain.Contract
		renewal, cancellation, billing int16
		start, end                     *time.Time
	)
	err := row.Scan(
		&c.ID, &c.Author, &c.Name, &c.Description, &c.Customer, &c.CustomerEmail, &c.CustomerTerms,
		&renewal, &cancellation, &billing, &start, &end,
		&c.Resources, &c.Views, &c.CreatedAt, &c.EditedAt,
	)
	if err != nil {
		return nil, err
	}
	c.RenewalPeriod = domain.RenewalPeriod(renewal)
	c.CancellationTerms = domain.CancellationTerms(cancellation)
	c.BillingType = domain.BillingType(billing)
	c.ContractStart = start
	c.ContractEnd = end
	return &c, nil
}
