package bins

import (
	"bizerp/internal/core/id"
	"bizerp/internal/core/tx"
	"bizerp/internal/domain"
)

// LocationRepository stores bin locations.
type LocationRepository = domain.CatalogRepository[*BinLocation]

// LocationService manages bin locations.
type LocationService = domain.CatalogService[*BinLocation]

// NewLocationService creates the bin location catalog service.
func NewLocationService(repo LocationRepository, txm tx.Manager, orgID id.ID) *LocationService {
	return domain.NewCatalogService(domain.CatalogServiceConfig[*BinLocation]{
		Repo:           repo,
		TxManager:      txm,
		EntityName:     "bin location",
		Required:       []string{"bin_code", "warehouse"},
		Statuses:       []string{StatusActive, StatusInactive},
		OrganizationID: orgID,
	})
}
