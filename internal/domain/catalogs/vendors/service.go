package vendors

import (
	"bizerp/internal/core/id"
	"bizerp/internal/core/tx"
	"bizerp/internal/domain"
)

// Repository stores vendors.
type Repository = domain.CatalogRepository[*Vendor]

// Service manages vendors.
type Service = domain.CatalogService[*Vendor]

// NewService creates a vendor service.
func NewService(repo Repository, txm tx.Manager, orgID id.ID) *Service {
	return domain.NewCatalogService(domain.CatalogServiceConfig[*Vendor]{
		Repo:           repo,
		TxManager:      txm,
		EntityName:     "vendor",
		Required:       []string{"name"},
		OrganizationID: orgID,
	})
}
