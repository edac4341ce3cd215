package bins

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/id"
)

type fakeRepo struct {
	bins      []BinLocation
	purchases []Movement
	sales     []Movement
	balances  []ItemBalance
	salesErr  error

	appendedPurchases []PurchaseAllocation
	appendedSales     []SaleAllocation
	itemFilter        *id.ID
}

func (f *fakeRepo) Bins(ctx context.Context) ([]BinLocation, error) { return f.bins, nil }

func (f *fakeRepo) Bin(ctx context.Context, binID id.ID) (*BinLocation, error) {
	for _, b := range f.bins {
		if b.ID == binID {
			b := b
			return &b, nil
		}
	}
	return nil, apperror.NewNotFound("bin location", binID)
}

func (f *fakeRepo) PurchaseMovements(ctx context.Context, itemID *id.ID) ([]Movement, error) {
	f.itemFilter = itemID
	return f.purchases, nil
}

func (f *fakeRepo) SaleMovements(ctx context.Context, itemID *id.ID) ([]Movement, error) {
	if f.salesErr != nil {
		return nil, f.salesErr
	}
	return f.sales, nil
}

func (f *fakeRepo) AppendPurchases(ctx context.Context, rows []PurchaseAllocation) error {
	f.appendedPurchases = append(f.appendedPurchases, rows...)
	return nil
}

func (f *fakeRepo) AppendSales(ctx context.Context, rows []SaleAllocation) error {
	f.appendedSales = append(f.appendedSales, rows...)
	return nil
}

func (f *fakeRepo) Balances(ctx context.Context) ([]ItemBalance, error) { return f.balances, nil }

func TestService_GetBinLocationsWithStock(t *testing.T) {
	repo := &fakeRepo{
		bins:      []BinLocation{binA},
		purchases: []Movement{mv(binA, cement, "Cement", 15, "BILL-0001", 0)},
		sales:     []Movement{mv(binA, cement, "Cement", 6, "INV-00001", 0)},
	}
	got, err := NewService(repo).GetBinLocationsWithStock(context.Background())
	require.NoError(t, err)
	require.Len(t, got[0].Items, 1)
	assert.Equal(t, 9.0, got[0].Items[0].Quantity)
	assert.Nil(t, repo.itemFilter)
}

func TestService_FetchFailureAbortsEverything(t *testing.T) {
	repo := &fakeRepo{
		bins:     []BinLocation{binA},
		salesErr: errors.New("timeout"),
	}
	got, err := NewService(repo).GetBinLocationsWithStock(context.Background())
	require.Error(t, err)
	assert.Nil(t, got)
}

func TestService_GetBinLocationsForItem_FiltersFetch(t *testing.T) {
	repo := &fakeRepo{bins: []BinLocation{binA}}
	_, err := NewService(repo).GetBinLocationsForItem(context.Background(), cement)
	require.NoError(t, err)
	require.NotNil(t, repo.itemFilter)
	assert.Equal(t, cement, *repo.itemFilter)
}

func TestService_AllocatePurchase(t *testing.T) {
	inactive := BinLocation{BinCode: "Z-99", Status: StatusInactive}
	inactive.ID = id.New()
	repo := &fakeRepo{bins: []BinLocation{binA, inactive}}
	svc := NewService(repo)
	ctx := context.Background()

	row, err := svc.AllocatePurchase(ctx, PurchaseAllocation{
		BinLocationID: binA.ID, ItemID: cement, BillItemID: id.New(), Quantity: 5,
	})
	require.NoError(t, err)
	assert.False(t, id.IsNil(row.ID))
	assert.False(t, row.CreatedAt.IsZero())
	assert.Len(t, repo.appendedPurchases, 1)

	_, err = svc.AllocatePurchase(ctx, PurchaseAllocation{
		BinLocationID: binA.ID, ItemID: cement, BillItemID: id.New(), Quantity: 0,
	})
	assert.Equal(t, 400, apperror.GetHTTPStatus(err))

	_, err = svc.AllocatePurchase(ctx, PurchaseAllocation{
		BinLocationID: inactive.ID, ItemID: cement, BillItemID: id.New(), Quantity: 1,
	})
	assert.Equal(t, 422, apperror.GetHTTPStatus(err))

	_, err = svc.AllocateSale(ctx, SaleAllocation{
		BinLocationID: id.New(), ItemID: cement, InvoiceItemID: id.New(), Quantity: 1,
	})
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, repo.appendedSales)
}

func TestService_StockDrift(t *testing.T) {
	repo := &fakeRepo{balances: []ItemBalance{
		{ItemID: cement, LedgerNet: 1, CurrentStock: 1},
		{ItemID: sand, LedgerNet: 1, CurrentStock: 3},
	}}
	drift, err := NewService(repo).StockDrift(context.Background())
	require.NoError(t, err)
	require.Len(t, drift, 1)
	assert.Equal(t, sand, drift[0].ItemID)
}
