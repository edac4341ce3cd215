package tasks

import (
	"context"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/id"
	"bizerp/internal/core/tx"
	"bizerp/internal/domain"
)

// Repository stores tasks.
type Repository = domain.CatalogRepository[*Task]

// Service provides business logic for tasks.
type Service struct {
	*domain.CatalogService[*Task]
}

// NewService creates a task service.
func NewService(repo Repository, txm tx.Manager, orgID id.ID) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Task]{
			Repo:           repo,
			TxManager:      txm,
			EntityName:     "task",
			Required:       []string{"title", "status", "priority"},
			Statuses:       Statuses,
			OrganizationID: orgID,
		}),
	}
}

// ChangeStatus moves a task to status. Finished tasks cannot be reopened
// except by an explicit move back to todo.
func (s *Service) ChangeStatus(ctx context.Context, taskID id.ID, status string) (*Task, error) {
	current, err := s.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if current.Status == StatusCancelled && status == StatusDone {
		return nil, apperror.NewBusinessRule(apperror.CodeInvalidStatus, "a cancelled task cannot be completed")
	}
	return s.SetStatus(ctx, taskID, status, nil)
}
