package purchase_order

import (
	"bizerp/internal/core/numerator"
	"bizerp/internal/core/tx"
	"bizerp/internal/domain/documents"
)

// Service manages purchase orders.
type Service = documents.Service[*PurchaseOrder, *Line]

// Repository stores purchase orders.
type Repository = documents.Repository[*PurchaseOrder, *Line]

// NewService creates a purchase order service.
func NewService(repo Repository, gen numerator.Generator, txm tx.Manager, opts documents.Options) *Service {
	return documents.NewService(documents.Config[*PurchaseOrder, *Line]{
		Definition: Definition.Bind(opts),
		Repo:       repo,
		Numerator:  gen,
		TxManager:  txm,
	})
}
