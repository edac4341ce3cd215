package invoice

import (
	"context"

	"bizerp/internal/core/numerator"
	"bizerp/internal/core/tx"
	"bizerp/internal/domain/bins"
	"bizerp/internal/domain/documents"
)

// Service manages invoices.
type Service = documents.Service[*Invoice, *Line]

// Repository stores invoices.
type Repository = documents.Repository[*Invoice, *Line]

// BinLedger appends sale allocations.
type BinLedger interface {
	AppendSales(ctx context.Context, rows []bins.SaleAllocation) error
}

// NewService creates an invoice service. A nil ledger disables bin allocation.
func NewService(repo Repository, gen numerator.Generator, txm tx.Manager, opts documents.Options, ledger BinLedger) *Service {
	svc := documents.NewService(documents.Config[*Invoice, *Line]{
		Definition: Definition.Bind(opts),
		Repo:       repo,
		Numerator:  gen,
		TxManager:  txm,
	})
	if ledger != nil {
		svc.Use(binAllocations{ledger: ledger})
	}
	return svc
}

// binAllocations records invoice lines that name a bin in the sale ledger.
type binAllocations struct {
	ledger BinLedger
}

// Apply implements documents.Effect.
func (e binAllocations) Apply(ctx context.Context, inv *Invoice) error {
	var rows []bins.SaleAllocation
	for _, line := range inv.Items {
		if !line.BinLocationID.Valid || !line.ItemID.Valid || line.Quantity <= 0 {
			continue
		}
		rows = append(rows, bins.SaleAllocation{
			BinLocationID: line.BinLocationID.UUID,
			InvoiceItemID: line.ID,
			ItemID:        line.ItemID.UUID,
			Quantity:      line.Quantity,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	return e.ledger.AppendSales(ctx, rows)
}

// Revert implements documents.Effect. Allocation rows are removed together
// with the invoice lines they reference.
func (e binAllocations) Revert(ctx context.Context, inv *Invoice) error {
	return nil
}
