package delivery_challan

import (
	"bizerp/internal/core/numerator"
	"bizerp/internal/core/tx"
	"bizerp/internal/domain/documents"
)

// Service manages delivery challans.
type Service = documents.Service[*DeliveryChallan, *Line]

// Repository stores delivery challans.
type Repository = documents.Repository[*DeliveryChallan, *Line]

// NewService creates a delivery challan service.
func NewService(repo Repository, gen numerator.Generator, txm tx.Manager, opts documents.Options) *Service {
	return documents.NewService(documents.Config[*DeliveryChallan, *Line]{
		Definition: Definition.Bind(opts),
		Repo:       repo,
		Numerator:  gen,
		TxManager:  txm,
	})
}
