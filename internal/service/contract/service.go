// Package contract exposes the action set for customer contracts.
package contract

import (
	"log/slog"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
	"github.com/heartmarshall/contracthub-backend/internal/populate"
	"github.com/heartmarshall/contracthub-backend/internal/service/crud"
)

// Fields is the whitelist of document fields clients may see.
const Fields = "code author name description customer customerEmail customerTerms " +
	"renewalPeriod cancellationTerms billingType contractStart contractEnd " +
	"resources views createdAt editedAt"

type (
	Service = crud.Service[*domain.Contract]
	Repo    = crud.Repo[*domain.Contract]
)

// Descriptor returns the action-set configuration for contracts.
// Contracts are private to their author, so find only lists the caller's own.
func Descriptor() crud.Descriptor {
	return crud.Descriptor{
		Type:      domain.EntityTypeContract,
		Fields:    Fields,
		Populates: populate.Refs{"author": domain.EntityTypeUser},
		Permissions: crud.Permissions{
			Find:   domain.PermissionLoggedIn,
			Get:    domain.PermissionPublic,
			Create: domain.PermissionLoggedIn,
			Update: domain.PermissionOwner,
			Remove: domain.PermissionOwner,
		},
		ScopeFindToAuthor: true,
		CacheFind:         true,
		CacheGet:          true,
	}
}

// NewService creates the contract action set.
func NewService(log *slog.Logger, repo Repo, deps crud.Deps) *Service {
	return crud.NewService[*domain.Contract](log, Descriptor(), repo, deps)
}
