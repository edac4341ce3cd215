package sales_order

import (
	"bizerp/internal/core/numerator"
	"bizerp/internal/core/tx"
	"bizerp/internal/domain/documents"
)

// Service manages sales orders.
type Service = documents.Service[*SalesOrder, *Line]

// Repository stores sales orders.
type Repository = documents.Repository[*SalesOrder, *Line]

// NewService creates a sales order service.
func NewService(repo Repository, gen numerator.Generator, txm tx.Manager, opts documents.Options) *Service {
	return documents.NewService(documents.Config[*SalesOrder, *Line]{
		Definition: Definition.Bind(opts),
		Repo:       repo,
		Numerator:  gen,
		TxManager:  txm,
	})
}
