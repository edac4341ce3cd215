package payment_received

import (
	"bizerp/internal/core/numerator"
	"bizerp/internal/core/tx"
	"bizerp/internal/domain/documents"
)

// Service manages received payments.
type Service = documents.Service[*PaymentReceived, *Allocation]

// Repository stores received payments.
type Repository = documents.Repository[*PaymentReceived, *Allocation]

// NewService creates a received payment service. Allocations settle
// invoices inside the payment transaction; a nil settler disables that.
func NewService(repo Repository, gen numerator.Generator, txm tx.Manager, opts documents.Options, invoices documents.Settler) *Service {
	svc := documents.NewService(documents.Config[*PaymentReceived, *Allocation]{
		Definition: Definition.Bind(opts),
		Repo:       repo,
		Numerator:  gen,
		TxManager:  txm,
	})
	if invoices != nil {
		svc.Use(documents.NewSettlementEffect(invoices, func(p *PaymentReceived) []documents.Allocation {
			out := make([]documents.Allocation, 0, len(p.Items))
			for _, a := range p.Items {
				out = append(out, documents.Allocation{DocumentID: a.InvoiceID, Amount: a.Amount})
			}
			return out
		}))
	}
	return svc
}
