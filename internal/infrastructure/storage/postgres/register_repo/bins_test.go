package register_repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizerp/internal/core/id"
	"bizerp/internal/domain/bins"
)

type recorder struct {
	sql  []string
	args [][]any
}

func (r *recorder) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r.sql = append(r.sql, sql)
	r.args = append(r.args, args)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (r *recorder) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("query not supported")
}

func (r *recorder) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func TestPurchaseMovementsQuery(t *testing.T) {
	itemID := id.New()
	sql, args, err := purchaseMovementsQuery(&itemID).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT a.bin_location_id, a.item_id, COALESCE(i.name, l.item_name, '') AS item_name, a.quantity, "+
			"COALESCE(d.number, '') AS reference_number, d.date AS reference_date, a.created_at "+
			"FROM purchase_bin_allocations a "+
			"LEFT JOIN bill_items l ON l.id = a.bill_item_id "+
			"LEFT JOIN bills d ON d.id = l.bill_id "+
			"LEFT JOIN items i ON i.id = a.item_id "+
			"WHERE a.item_id = $1 ORDER BY a.created_at",
		sql)
	assert.Equal(t, []any{itemID}, args)
}

func TestSaleMovementsQuery_AllItems(t *testing.T) {
	sql, args, err := saleMovementsQuery(nil).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM sale_bin_allocations a LEFT JOIN invoice_items l ON l.id = a.invoice_item_id")
	assert.NotContains(t, sql, "WHERE")
	assert.Empty(t, args)
}

func TestBinRepo_AppendPurchases(t *testing.T) {
	rec := &recorder{}
	repo := NewBinRepo(rec)
	now := time.Now()

	require.NoError(t, repo.AppendPurchases(context.Background(), []bins.PurchaseAllocation{
		{ID: id.New(), BinLocationID: id.New(), BillItemID: id.New(), ItemID: id.New(), Quantity: 10, CreatedAt: now},
		{ID: id.New(), BinLocationID: id.New(), BillItemID: id.New(), ItemID: id.New(), Quantity: 5, CreatedAt: now},
	}))
	require.Len(t, rec.sql, 1)
	assert.Equal(t,
		"INSERT INTO purchase_bin_allocations (id,bin_location_id,bill_item_id,item_id,quantity,created_at) "+
			"VALUES ($1,$2,$3,$4,$5,$6),($7,$8,$9,$10,$11,$12)",
		rec.sql[0])

	require.NoError(t, repo.AppendSales(context.Background(), nil))
	assert.Len(t, rec.sql, 1)
}
