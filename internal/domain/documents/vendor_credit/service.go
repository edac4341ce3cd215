package vendor_credit

import (
	"bizerp/internal/core/numerator"
	"bizerp/internal/core/tx"
	"bizerp/internal/domain/documents"
)

// Service manages vendor credits.
type Service = documents.Service[*VendorCredit, *Line]

// Repository stores vendor credits.
type Repository = documents.Repository[*VendorCredit, *Line]

// NewService creates a vendor credit service.
func NewService(repo Repository, gen numerator.Generator, txm tx.Manager, opts documents.Options) *Service {
	return documents.NewService(documents.Config[*VendorCredit, *Line]{
		Definition: Definition.Bind(opts),
		Repo:       repo,
		Numerator:  gen,
		TxManager:  txm,
	})
}
