package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/entity"
	"bizerp/internal/core/id"
	"bizerp/internal/core/types"
	"bizerp/internal/domain/documents"
	"bizerp/internal/infrastructure/storage/postgres"
)

// Settler updates amount_paid, balance_due and status of payable documents.
type Settler struct {
	q      postgres.Querier
	table  string
	entity string
	unpaid string
}

var _ documents.Settler = (*Settler)(nil)

// NewSettler creates a settler for the payable table of def. unpaid is the
// status a document returns to when its payments are fully reverted.
func NewSettler(q postgres.Querier, def documents.Definition, unpaid string) *Settler {
	return &Settler{q: q, table: def.Table, entity: def.Name, unpaid: unpaid}
}

// Settle implements documents.Settler. SET expressions see the old row, so
// every column derives from amount_paid + delta.
func (s *Settler) Settle(ctx context.Context, documentID id.ID, delta types.Money) error {
	n, err := postgres.Exec(ctx, s.q, s.build(documentID, delta), s.entity, "settle "+s.entity)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NewNotFound(s.entity, documentID.String())
	}
	return nil
}

func (s *Settler) build(documentID id.ID, delta types.Money) squirrel.UpdateBuilder {
	return postgres.Builder().
		Update(s.table).
		Set("amount_paid", squirrel.Expr("amount_paid + ?", delta)).
		Set("balance_due", squirrel.Expr("GREATEST(total_amount - (amount_paid + ?), 0)", delta)).
		Set("status", squirrel.Expr(
			"CASE WHEN total_amount - (amount_paid + ?) <= 0 THEN ? WHEN amount_paid + ? > 0 THEN ? ELSE ? END",
			delta, entity.PaymentStatusPaid, delta, entity.PaymentStatusPartiallyPaid, s.unpaid)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": documentID})
}
