// Package register_repo stores the append-only bin allocation ledgers.
package register_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/id"
	"bizerp/internal/domain/bins"
	"bizerp/internal/infrastructure/storage/postgres"
)

const (
	binLocationsTable       = "bin_locations"
	purchaseAllocationTable = "purchase_bin_allocations"
	saleAllocationTable     = "sale_bin_allocations"
)

var (
	binColumns = postgres.ExtractDBColumns[bins.BinLocation]()

	purchaseColumns = []string{"id", "bin_location_id", "bill_item_id", "item_id", "quantity", "created_at"}
	saleColumns     = []string{"id", "bin_location_id", "invoice_item_id", "item_id", "quantity", "created_at"}
)

// BinRepo implements bins.Repository.
type BinRepo struct {
	q postgres.Querier
}

var _ bins.Repository = (*BinRepo)(nil)

// NewBinRepo creates a bin ledger repository.
func NewBinRepo(q postgres.Querier) *BinRepo {
	return &BinRepo{q: q}
}

// Bins implements bins.Repository.
func (r *BinRepo) Bins(ctx context.Context) ([]bins.BinLocation, error) {
	out := []bins.BinLocation{}
	q := postgres.Builder().Select(binColumns...).From(binLocationsTable).OrderBy("bin_code")
	if err := postgres.Select(ctx, r.q, &out, q, "bin location", "list bin locations"); err != nil {
		return nil, err
	}
	return out, nil
}

// Bin implements bins.Repository.
func (r *BinRepo) Bin(ctx context.Context, binID id.ID) (*bins.BinLocation, error) {
	var b bins.BinLocation
	q := postgres.Builder().Select(binColumns...).From(binLocationsTable).Where(squirrel.Eq{"id": binID})
	if err := postgres.Get(ctx, r.q, &b, q, "bin location", "get bin location"); err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("bin location", binID.String())
		}
		return nil, err
	}
	return &b, nil
}

// PurchaseMovements implements bins.Repository.
func (r *BinRepo) PurchaseMovements(ctx context.Context, itemID *id.ID) ([]bins.Movement, error) {
	return r.movements(ctx, purchaseMovementsQuery(itemID), "list purchase allocations")
}

// SaleMovements implements bins.Repository.
func (r *BinRepo) SaleMovements(ctx context.Context, itemID *id.ID) ([]bins.Movement, error) {
	return r.movements(ctx, saleMovementsQuery(itemID), "list sale allocations")
}

func (r *BinRepo) movements(ctx context.Context, q squirrel.SelectBuilder, op string) ([]bins.Movement, error) {
	out := []bins.Movement{}
	if err := postgres.Select(ctx, r.q, &out, q, "bin allocation", op); err != nil {
		return nil, err
	}
	return out, nil
}

// purchaseMovementsQuery joins each purchase allocation to its bill line,
// bill and item.
func purchaseMovementsQuery(itemID *id.ID) squirrel.SelectBuilder {
	q := postgres.Builder().
		Select(
			"a.bin_location_id", "a.item_id",
			"COALESCE(i.name, l.item_name, '') AS item_name",
			"a.quantity",
			"COALESCE(d.number, '') AS reference_number",
			"d.date AS reference_date",
			"a.created_at",
		).
		From(purchaseAllocationTable + " a").
		LeftJoin("bill_items l ON l.id = a.bill_item_id").
		LeftJoin("bills d ON d.id = l.bill_id").
		LeftJoin("items i ON i.id = a.item_id").
		OrderBy("a.created_at")
	if itemID != nil {
		q = q.Where(squirrel.Eq{"a.item_id": *itemID})
	}
	return q
}

// saleMovementsQuery joins each sale allocation to its invoice line,
// invoice and item.
func saleMovementsQuery(itemID *id.ID) squirrel.SelectBuilder {
	q := postgres.Builder().
		Select(
			"a.bin_location_id", "a.item_id",
			"COALESCE(i.name, l.item_name, '') AS item_name",
			"a.quantity",
			"COALESCE(d.number, '') AS reference_number",
			"d.date AS reference_date",
			"a.created_at",
		).
		From(saleAllocationTable + " a").
		LeftJoin("invoice_items l ON l.id = a.invoice_item_id").
		LeftJoin("invoices d ON d.id = l.invoice_id").
		LeftJoin("items i ON i.id = a.item_id").
		OrderBy("a.created_at")
	if itemID != nil {
		q = q.Where(squirrel.Eq{"a.item_id": *itemID})
	}
	return q
}

// AppendPurchases implements bins.Repository.
func (r *BinRepo) AppendPurchases(ctx context.Context, rows []bins.PurchaseAllocation) error {
	if len(rows) == 0 {
		return nil
	}
	q := postgres.Builder().Insert(purchaseAllocationTable).Columns(purchaseColumns...)
	for _, a := range rows {
		q = q.Values(a.ID, a.BinLocationID, a.BillItemID, a.ItemID, a.Quantity, a.CreatedAt)
	}
	_, err := postgres.Exec(ctx, r.q, q, "purchase bin allocation", "insert purchase allocations")
	return err
}

// AppendSales implements bins.Repository.
func (r *BinRepo) AppendSales(ctx context.Context, rows []bins.SaleAllocation) error {
	if len(rows) == 0 {
		return nil
	}
	q := postgres.Builder().Insert(saleAllocationTable).Columns(saleColumns...)
	for _, a := range rows {
		q = q.Values(a.ID, a.BinLocationID, a.InvoiceItemID, a.ItemID, a.Quantity, a.CreatedAt)
	}
	_, err := postgres.Exec(ctx, r.q, q, "sale bin allocation", "insert sale allocations")
	return err
}

const balancesSQL = `
SELECT i.id AS item_id, i.name AS item_name,
       COALESCE(p.qty, 0) - COALESCE(s.qty, 0) AS ledger_net,
       i.current_stock
FROM items i
LEFT JOIN (SELECT item_id, SUM(quantity) AS qty FROM purchase_bin_allocations GROUP BY item_id) p ON p.item_id = i.id
LEFT JOIN (SELECT item_id, SUM(quantity) AS qty FROM sale_bin_allocations GROUP BY item_id) s ON s.item_id = i.id
WHERE p.item_id IS NOT NULL OR s.item_id IS NOT NULL
ORDER BY i.name`

// Balances implements bins.Repository.
func (r *BinRepo) Balances(ctx context.Context) ([]bins.ItemBalance, error) {
	out := []bins.ItemBalance{}
	if err := postgres.Select(ctx, r.q, &out, squirrel.Expr(balancesSQL), "item", "compute ledger balances"); err != nil {
		return nil, err
	}
	return out, nil
}
