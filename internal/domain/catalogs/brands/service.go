package brands

import (
	"bizerp/internal/core/id"
	"bizerp/internal/core/tx"
	"bizerp/internal/domain"
)

// Repository stores brands.
type Repository = domain.CatalogRepository[*Brand]

// Service manages brands.
type Service = domain.CatalogService[*Brand]

// NewService creates a brand service.
func NewService(repo Repository, txm tx.Manager, orgID id.ID) *Service {
	return domain.NewCatalogService(domain.CatalogServiceConfig[*Brand]{
		Repo:           repo,
		TxManager:      txm,
		EntityName:     "brand",
		Required:       []string{"name"},
		OrganizationID: orgID,
	})
}
