package bins

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/id"
)

var tracer = otel.Tracer("bizerp/bins")

// Repository reads bins and their allocation ledgers.
type Repository interface {
	// Bins returns every bin ordered by bin code.
	Bins(ctx context.Context) ([]BinLocation, error)
	Bin(ctx context.Context, binID id.ID) (*BinLocation, error)

	// PurchaseMovements and SaleMovements return joined ledger rows,
	// restricted to itemID when it is not nil.
	PurchaseMovements(ctx context.Context, itemID *id.ID) ([]Movement, error)
	SaleMovements(ctx context.Context, itemID *id.ID) ([]Movement, error)

	AppendPurchases(ctx context.Context, rows []PurchaseAllocation) error
	AppendSales(ctx context.Context, rows []SaleAllocation) error

	// Balances returns the ledger net and stored stock of every item with ledger rows.
	Balances(ctx context.Context) ([]ItemBalance, error)
}

// Service derives bin stock from the allocation ledgers.
type Service struct {
	repo Repository
}

// NewService creates a bin stock service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type snapshot struct {
	bins      []BinLocation
	purchases []Movement
	sales     []Movement
}

// load fetches bins and both ledgers concurrently. Any failure cancels the
// remaining fetches and no partial result is returned.
func (s *Service) load(ctx context.Context, itemID *id.ID) (*snapshot, error) {
	ctx, span := tracer.Start(ctx, "bins.load")
	defer span.End()
	if itemID != nil {
		span.SetAttributes(attribute.String("item_id", itemID.String()))
	}

	var snap snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.bins, err = s.repo.Bins(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.purchases, err = s.repo.PurchaseMovements(gctx, itemID)
		return err
	})
	g.Go(func() error {
		var err error
		snap.sales, err = s.repo.SaleMovements(gctx, itemID)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("load bin stock: %w", err)
	}
	span.SetAttributes(
		attribute.Int("bins", len(snap.bins)),
		attribute.Int("purchases", len(snap.purchases)),
		attribute.Int("sales", len(snap.sales)),
	)
	return &snap, nil
}

// GetBinLocationsWithStock returns every bin with the items it holds.
func (s *Service) GetBinLocationsWithStock(ctx context.Context) ([]BinWithItems, error) {
	snap, err := s.load(ctx, nil)
	if err != nil {
		return nil, err
	}
	return Aggregate(snap.bins, snap.purchases, snap.sales), nil
}

// GetBinLocationsForItem returns the bins holding itemID.
func (s *Service) GetBinLocationsForItem(ctx context.Context, itemID id.ID) ([]BinStock, error) {
	snap, err := s.load(ctx, &itemID)
	if err != nil {
		return nil, err
	}
	return ForItem(snap.bins, snap.purchases, snap.sales, itemID), nil
}

// AllocatePurchase appends a purchase ledger row.
func (s *Service) AllocatePurchase(ctx context.Context, row PurchaseAllocation) (PurchaseAllocation, error) {
	if err := s.checkAllocation(ctx, row.BinLocationID, row.ItemID, row.BillItemID, row.Quantity, "bill_item_id"); err != nil {
		return row, err
	}
	stamp(&row.ID, &row.CreatedAt)
	if err := s.repo.AppendPurchases(ctx, []PurchaseAllocation{row}); err != nil {
		return row, err
	}
	return row, nil
}

// AllocateSale appends a sale ledger row.
func (s *Service) AllocateSale(ctx context.Context, row SaleAllocation) (SaleAllocation, error) {
	if err := s.checkAllocation(ctx, row.BinLocationID, row.ItemID, row.InvoiceItemID, row.Quantity, "invoice_item_id"); err != nil {
		return row, err
	}
	stamp(&row.ID, &row.CreatedAt)
	if err := s.repo.AppendSales(ctx, []SaleAllocation{row}); err != nil {
		return row, err
	}
	return row, nil
}

// AppendPurchases writes ledger rows produced by bill lines.
func (s *Service) AppendPurchases(ctx context.Context, rows []PurchaseAllocation) error {
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		stamp(&rows[i].ID, &rows[i].CreatedAt)
	}
	return s.repo.AppendPurchases(ctx, rows)
}

// AppendSales writes ledger rows produced by invoice lines.
func (s *Service) AppendSales(ctx context.Context, rows []SaleAllocation) error {
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		stamp(&rows[i].ID, &rows[i].CreatedAt)
	}
	return s.repo.AppendSales(ctx, rows)
}

// StockDrift lists items whose stored stock disagrees with the ledger.
func (s *Service) StockDrift(ctx context.Context) ([]ItemBalance, error) {
	balances, err := s.repo.Balances(ctx)
	if err != nil {
		return nil, fmt.Errorf("load item balances: %w", err)
	}
	return FindDrift(balances), nil
}

func (s *Service) checkAllocation(ctx context.Context, binID, itemID, lineID id.ID, qty float64, lineField string) error {
	switch {
	case id.IsNil(binID):
		return apperror.NewValidation("bin location is required").WithDetail("field", "bin_location_id")
	case id.IsNil(itemID):
		return apperror.NewValidation("item is required").WithDetail("field", "item_id")
	case id.IsNil(lineID):
		return apperror.NewValidation("document line is required").WithDetail("field", lineField)
	case qty <= 0:
		return apperror.NewValidation("quantity must be positive").WithDetail("field", "quantity")
	}
	bin, err := s.repo.Bin(ctx, binID)
	if err != nil {
		return err
	}
	if bin.Status != StatusActive {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "bin location is inactive").
			WithDetail("bin_code", bin.BinCode)
	}
	return nil
}

func stamp(rowID *id.ID, createdAt *time.Time) {
	if id.IsNil(*rowID) {
		*rowID = id.New()
	}
	if createdAt.IsZero() {
		*createdAt = time.Now().UTC()
	}
}
