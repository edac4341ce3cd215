package transfer_order

import (
	"bizerp/internal/core/numerator"
	"bizerp/internal/core/tx"
	"bizerp/internal/domain/documents"
)

// Service manages transfer orders.
type Service = documents.Service[*TransferOrder, *Line]

// Repository stores transfer orders.
type Repository = documents.Repository[*TransferOrder, *Line]

// NewService creates a transfer order service.
func NewService(repo Repository, gen numerator.Generator, txm tx.Manager, opts documents.Options) *Service {
	return documents.NewService(documents.Config[*TransferOrder, *Line]{
		Definition: Definition.Bind(opts),
		Repo:       repo,
		Numerator:  gen,
		TxManager:  txm,
	})
}
