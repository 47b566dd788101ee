package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	// Raised when statement_timeout fires.
	codeQueryCanceled = "57014"
)

// MapError translates a pgx error into the domain sentinels, prefixed with
// the entity and id. A dangling reference reads as not found.
func MapError(err error, entity string, id int64) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s %d: %w", entity, id, classify(err))
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		return domain.ErrAlreadyExists
	case codeForeignKeyViolation:
		return domain.ErrNotFound
	case codeCheckViolation:
		return domain.NewValidationError(pgErr.ConstraintName, "constraint violated")
	case codeQueryCanceled:
		return fmt.Errorf("%s: %w", pgErr.Message, context.DeadlineExceeded)
	}
	return err
}
