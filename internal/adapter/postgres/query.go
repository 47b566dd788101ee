package postgres

import (
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

// Builder is the squirrel statement builder configured for PostgreSQL.
var Builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// SortColumns maps client-facing sort fields to SQL columns.
type SortColumns map[string]string

// BaseSortColumns are sortable on every record table.
var BaseSortColumns = SortColumns{
	"createdAt": "created_at",
	"editedAt":  "edited_at",
	"views":     "views",
}

// With returns a copy of c extended with extra.
func (c SortColumns) With(extra SortColumns) SortColumns {
	out := make(SortColumns, len(c)+len(extra))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// OrderBy translates a sort expression like "-createdAt" into ORDER BY
// clauses. id is always appended as a tie breaker so paging is stable.
func (c SortColumns) OrderBy(sort string) ([]string, error) {
	field, desc := domain.ParseSort(sort)
	col, ok := c[field]
	if !ok {
		return nil, domain.NewValidationError("sort", "unsupported sort field "+field)
	}
	dir := " ASC"
	if desc {
		dir = " DESC"
	}
	return []string{col + dir, "id" + dir}, nil
}

// ApplyListFilter adds the author scope, ordering and paging of f to q.
func ApplyListFilter(q sq.SelectBuilder, f domain.ListFilter, sortable SortColumns) (sq.SelectBuilder, error) {
	f = f.Normalize()
	if f.AuthorID != nil {
		q = q.Where(sq.Eq{"author": *f.AuthorID})
	}
	order, err := sortable.OrderBy(f.Sort)
	if err != nil {
		return q, err
	}
	return q.OrderBy(order...).Limit(uint64(f.Limit)).Offset(uint64(f.Offset)), nil
}

// Columns joins column names for use in raw SQL.
func Columns(cols []string) string {
	return strings.Join(cols, ", ")
}
