package items

import (
	"context"
	"fmt"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/id"
	"bizerp/internal/core/tx"
	"bizerp/internal/domain"
)

// Repository defines item persistence.
type Repository interface {
	domain.CatalogRepository[*Item]

	// LowStock returns active items with current_stock <= reorder_point.
	LowStock(ctx context.Context, limit int) ([]*Item, error)

	// AdjustStock adds delta to current_stock in a single statement.
	AdjustStock(ctx context.Context, itemID id.ID, delta float64) error
}

// Service provides business logic for items.
type Service struct {
	*domain.CatalogService[*Item]
	repo Repository
}

// NewService creates an item service.
func NewService(repo Repository, txm tx.Manager, orgID id.ID) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Item]{
		Repo:           repo,
		TxManager:      txm,
		EntityName:     "item",
		Required:       []string{"name", "unit"},
		OrganizationID: orgID,
	})
	return &Service{CatalogService: base, repo: repo}
}

// LowStock lists items at or below their reorder point.
func (s *Service) LowStock(ctx context.Context, limit int) ([]*Item, error) {
	if limit <= 0 || limit > domain.MaxLimit {
		limit = domain.DefaultLimit
	}
	return s.repo.LowStock(ctx, limit)
}

// AdjustStock changes the stored stock of an item.
func (s *Service) AdjustStock(ctx context.Context, itemID id.ID, delta float64) error {
	if err := s.repo.AdjustStock(ctx, itemID, delta); err != nil {
		if apperror.IsNotFound(err) {
			return err
		}
		return fmt.Errorf("adjust stock of item %s: %w", itemID, err)
	}
	return nil
}
