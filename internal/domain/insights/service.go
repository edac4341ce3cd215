package insights

import (
	"context"

	"bizerp/internal/core/id"
	"bizerp/internal/core/tx"
	"bizerp/internal/domain"
)

// Repository stores insights.
type Repository = domain.CatalogRepository[*Insight]

// Service provides business logic for insights.
type Service struct {
	*domain.CatalogService[*Insight]
}

// NewService creates an insight service.
func NewService(repo Repository, txm tx.Manager, orgID id.ID) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Insight]{
			Repo:           repo,
			TxManager:      txm,
			EntityName:     "insight",
			Required:       []string{"title", "type", "severity"},
			Statuses:       Statuses,
			OrganizationID: orgID,
		}),
	}
}

// Acknowledge marks an insight as seen.
func (s *Service) Acknowledge(ctx context.Context, insightID id.ID) (*Insight, error) {
	return s.SetStatus(ctx, insightID, StatusAcknowledged, nil)
}

// Dismiss hides an insight.
func (s *Service) Dismiss(ctx context.Context, insightID id.ID) (*Insight, error) {
	return s.SetStatus(ctx, insightID, StatusDismissed, nil)
}
