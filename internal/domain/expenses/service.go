package expenses

import (
	"context"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/entity"
	"bizerp/internal/core/id"
	"bizerp/internal/core/tx"
	"bizerp/internal/domain"
)

// Repository stores expenses.
type Repository = domain.CatalogRepository[*Expense]

// Service provides business logic for expenses.
type Service struct {
	*domain.CatalogService[*Expense]
}

// NewService creates an expense service.
func NewService(repo Repository, txm tx.Manager, orgID id.ID) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Expense]{
			Repo:           repo,
			TxManager:      txm,
			EntityName:     "expense",
			Required:       []string{"expense_date", "category"},
			Statuses:       Statuses,
			OrganizationID: orgID,
		}),
	}
}

// Approve moves a pending expense to approved.
func (s *Service) Approve(ctx context.Context, expenseID id.ID) (*Expense, error) {
	return s.decide(ctx, expenseID, StatusApproved)
}

// Reject moves a pending expense to rejected.
func (s *Service) Reject(ctx context.Context, expenseID id.ID) (*Expense, error) {
	return s.decide(ctx, expenseID, StatusRejected)
}

func (s *Service) decide(ctx context.Context, expenseID id.ID, status string) (*Expense, error) {
	current, err := s.GetByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if current.Status != StatusPending {
		return nil, apperror.NewBusinessRule(apperror.CodeInvalidStatus, "only pending expenses can be approved or rejected").
			WithDetail("status", current.Status)
	}
	return s.SetStatus(ctx, expenseID, status, nil)
}

// AttachReceipt stores the public URL of an uploaded receipt.
func (s *Service) AttachReceipt(ctx context.Context, expenseID id.ID, url string) (*Expense, error) {
	return s.Update(ctx, expenseID, entity.Patch{"receipt_url": &url})
}
