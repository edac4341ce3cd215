package bill

import (
	"context"
	"errors"
	"fmt"

	"bizerp/internal/core/id"
	"bizerp/internal/core/numerator"
	"bizerp/internal/core/tx"
	"bizerp/internal/domain/bins"
	"bizerp/internal/domain/documents"
)

// Service manages bills.
type Service = documents.Service[*Bill, *Line]

// Repository stores bills.
type Repository = documents.Repository[*Bill, *Line]

// StockAdjuster changes the stored stock of an item.
type StockAdjuster interface {
	AdjustStock(ctx context.Context, itemID id.ID, delta float64) error
}

// BinLedger appends purchase allocations.
type BinLedger interface {
	AppendPurchases(ctx context.Context, rows []bins.PurchaseAllocation) error
}

// NewService creates a bill service. Either dependency may be nil to
// disable the matching side effect.
func NewService(repo Repository, gen numerator.Generator, txm tx.Manager, opts documents.Options, stock StockAdjuster, ledger BinLedger) *Service {
	svc := documents.NewService(documents.Config[*Bill, *Line]{
		Definition: Definition.Bind(opts),
		Repo:       repo,
		Numerator:  gen,
		TxManager:  txm,
	})
	if ledger != nil {
		svc.Use(binAllocations{ledger: ledger})
	}
	if stock != nil {
		svc.Hooks().OnAfterCreate(incrementStock(stock))
	}
	return svc
}

// incrementStock adds every referenced item's quantity to its stored stock
// once the bill is committed. Failures are reported but do not undo the bill.
func incrementStock(stock StockAdjuster) func(ctx context.Context, b *Bill) error {
	return func(ctx context.Context, b *Bill) error {
		var errs []error
		for _, line := range b.Items {
			if !line.ItemID.Valid || line.Quantity == 0 {
				continue
			}
			if err := stock.AdjustStock(ctx, line.ItemID.UUID, line.Quantity); err != nil {
				errs = append(errs, fmt.Errorf("item %s: %w", line.ItemID, err))
			}
		}
		return errors.Join(errs...)
	}
}

// binAllocations records bill lines that name a bin in the purchase ledger.
type binAllocations struct {
	ledger BinLedger
}

// Apply implements documents.Effect.
func (e binAllocations) Apply(ctx context.Context, b *Bill) error {
	var rows []bins.PurchaseAllocation
	for _, line := range b.Items {
		if !line.BinLocationID.Valid || !line.ItemID.Valid || line.Quantity <= 0 {
			continue
		}
		rows = append(rows, bins.PurchaseAllocation{
			BinLocationID: line.BinLocationID.UUID,
			BillItemID:    line.ID,
			ItemID:        line.ItemID.UUID,
			Quantity:      line.Quantity,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	return e.ledger.AppendPurchases(ctx, rows)
}

// Revert implements documents.Effect. Allocation rows are removed together
// with the bill lines they reference.
func (e binAllocations) Revert(ctx context.Context, b *Bill) error {
	return nil
}
