package graphql

import (
	"context"
	"errors"
	"log/slog"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/heartmarshall/contracthub-backend/internal/access"
	"github.com/heartmarshall/contracthub-backend/internal/domain"
	"github.com/heartmarshall/contracthub-backend/pkg/ctxutil"
)

// Extension codes, matched in order. Malformed codes precede not found
// because a code that fails to decode names no record.
var errorCodes = []struct {
	target error
	code   string
}{
	{domain.ErrMalformedCode, "BAD_REQUEST"},
	{domain.ErrNotFound, "NOT_FOUND"},
	{domain.ErrAlreadyExists, "ALREADY_EXISTS"},
	{domain.ErrUnauthorized, "UNAUTHENTICATED"},
	{domain.ErrForbidden, "FORBIDDEN"},
}

// NewErrorPresenter maps resolver errors onto GraphQL errors with a code
// extension. Anything unrecognised is logged and reported as INTERNAL.
// Errors the handler raises on its own pass through unchanged.
func NewErrorPresenter(log *slog.Logger) graphql.ErrorPresenterFunc {
	return func(ctx context.Context, err error) *gqlerror.Error {
		gqlErr := graphql.DefaultErrorPresenter(ctx, err)
		if gqlErr.Err == nil {
			// Parse, validation and limit errors raised by the handler itself.
			return gqlErr
		}

		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			gqlErr.Message = "validation failed"
			gqlErr.Extensions = map[string]any{"code": "VALIDATION", "fields": ve.Errors}
			return gqlErr
		}

		for _, ec := range errorCodes {
			if !errors.Is(err, ec.target) {
				continue
			}
			gqlErr.Extensions = map[string]any{"code": ec.code}

			var denied *access.DeniedError
			if errors.As(err, &denied) {
				gqlErr.Extensions["requires"] = denied.Level.String()
				if denied.Misconfigured {
					log.ErrorContext(ctx, "permission gate misconfigured",
						slog.String("error", err.Error()),
						slog.String("request_id", ctxutil.RequestIDFromCtx(ctx)),
					)
				}
			}
			return gqlErr
		}

		log.ErrorContext(ctx, "unexpected GraphQL error",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.RequestIDFromCtx(ctx)),
		)
		gqlErr.Message = "internal error"
		gqlErr.Extensions = map[string]any{"code": "INTERNAL"}
		return gqlErr
	}
}
