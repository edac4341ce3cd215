package documents

import (
	"context"

	"bizerp/internal/core/id"
	"bizerp/internal/core/types"
)

// Allocation applies part of a payment to a payable document.
type Allocation struct {
	DocumentID id.ID
	Amount     types.Money
}

// Settler adjusts the paid amount of a payable document by delta and
// recomputes its balance and payment status.
type Settler interface {
	Settle(ctx context.Context, documentID id.ID, delta types.Money) error
}

// SettlementEffect applies payment allocations inside the payment transaction
// and takes them back when the payment lines are replaced or deleted.
type SettlementEffect[D any] struct {
	settler     Settler
	allocations func(D) []Allocation
}

// NewSettlementEffect creates a settlement effect.
func NewSettlementEffect[D any](settler Settler, allocations func(D) []Allocation) *SettlementEffect[D] {
	return &SettlementEffect[D]{settler: settler, allocations: allocations}
}

// Apply implements Effect.
func (e *SettlementEffect[D]) Apply(ctx context.Context, doc D) error {
	for _, a := range e.allocations(doc) {
		if err := e.settler.Settle(ctx, a.DocumentID, a.Amount); err != nil {
			return err
		}
	}
	return nil
}

// Revert implements Effect.
func (e *SettlementEffect[D]) Revert(ctx context.Context, doc D) error {
	for _, a := range e.allocations(doc) {
		if err := e.settler.Settle(ctx, a.DocumentID, a.Amount.Neg()); err != nil {
			return err
		}
	}
	return nil
}
