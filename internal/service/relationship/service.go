// Package relationship exposes the action set for customer relationships.
package relationship

import (
	"log/slog"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
	"github.com/heartmarshall/contracthub-backend/internal/populate"
	"github.com/heartmarshall/contracthub-backend/internal/service/crud"
)

const Fields = "code author name desc goals views createdAt editedAt"

type (
	Service = crud.Service[*domain.Relationship]
	Repo    = crud.Repo[*domain.Relationship]
)

// Descriptor returns the action-set configuration for relationships.
func Descriptor() crud.Descriptor {
	return crud.Descriptor{
		Type:   domain.EntityTypeRelationship,
		Fields: Fields,
		Populates: populate.Refs{
			"author": domain.EntityTypeUser,
			"goals":  domain.EntityTypeGoal,
		},
		Permissions: crud.Permissions{
			Find:   domain.PermissionLoggedIn,
			Get:    domain.PermissionPublic,
			Create: domain.PermissionLoggedIn,
			Update: domain.PermissionOwner,
			Remove: domain.PermissionOwner,
		},
		CacheFind: true,
		CacheGet:  true,
	}
}

func NewService(log *slog.Logger, repo Repo, deps crud.Deps) *Service {
	return crud.NewService[*domain.Relationship](log, Descriptor(), repo, deps)
}
