// Package organization exposes the action set for company profiles.
package organization

import (
	"log/slog"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
	"github.com/heartmarshall/contracthub-backend/internal/service/crud"
)

const Fields = "code name desc logo website views createdAt editedAt"

type (
	Service = crud.Service[*domain.Organization]
	Repo    = crud.Repo[*domain.Organization]
)

// Descriptor returns the action-set configuration for organizations.
// Organizations have no author, so update and remove are reserved for admins.
func Descriptor() crud.Descriptor {
	return crud.Descriptor{
		Type:   domain.EntityTypeOrganization,
		Fields: Fields,
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
	return crud.NewService[*domain.Organization](log, Descriptor(), repo, deps)
}
