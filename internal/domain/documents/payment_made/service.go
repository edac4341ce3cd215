package payment_made

import (
	"bizerp/internal/core/numerator"
	"bizerp/internal/core/tx"
	"bizerp/internal/domain/documents"
)

// Service manages payments made.
type Service = documents.Service[*PaymentMade, *Allocation]

// Repository stores payments made.
type Repository = documents.Repository[*PaymentMade, *Allocation]

// NewService creates a payment service. Allocations settle bills through
// bills inside the payment transaction; a nil settler disables that.
func NewService(repo Repository, gen numerator.Generator, txm tx.Manager, opts documents.Options, bills documents.Settler) *Service {
	svc := documents.NewService(documents.Config[*PaymentMade, *Allocation]{
		Definition: Definition.Bind(opts),
		Repo:       repo,
		Numerator:  gen,
		TxManager:  txm,
	})
	if bills != nil {
		svc.Use(documents.NewSettlementEffect(bills, allocations))
	}
	return svc
}

func allocations(p *PaymentMade) []documents.Allocation {
	out := make([]documents.Allocation, 0, len(p.Items))
	for _, a := range p.Items {
		out = append(out, documents.Allocation{DocumentID: a.BillID, Amount: a.Amount})
	}
	return out
}
