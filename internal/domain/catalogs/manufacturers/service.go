package manufacturers

import (
	"bizerp/internal/core/id"
	"bizerp/internal/core/tx"
	"bizerp/internal/domain"
)

// Repository stores manufacturers.
type Repository = domain.CatalogRepository[*Manufacturer]

// Service manages manufacturers.
type Service = domain.CatalogService[*Manufacturer]

// NewService creates a manufacturer service.
func NewService(repo Repository, txm tx.Manager, orgID id.ID) *Service {
	return domain.NewCatalogService(domain.CatalogServiceConfig[*Manufacturer]{
		Repo:           repo,
		TxManager:      txm,
		EntityName:     "manufacturer",
		Required:       []string{"name"},
		OrganizationID: orgID,
	})
}
