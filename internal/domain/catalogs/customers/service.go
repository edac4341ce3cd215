package customers

import (
	"bizerp/internal/core/id"
	"bizerp/internal/core/tx"
	"bizerp/internal/domain"
)

// Repository stores customers.
type Repository = domain.CatalogRepository[*Customer]

// Service manages customers.
type Service = domain.CatalogService[*Customer]

// NewService creates a customer service.
func NewService(repo Repository, txm tx.Manager, orgID id.ID) *Service {
	return domain.NewCatalogService(domain.CatalogServiceConfig[*Customer]{
		Repo:           repo,
		TxManager:      txm,
		EntityName:     "customer",
		Required:       []string{"name"},
		OrganizationID: orgID,
	})
}
