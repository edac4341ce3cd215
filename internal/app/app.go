// Package app wires repositories and services into one container shared by
// the server, the worker and the admin CLI.
package app

import (
	"context"

	"bizerp/internal/config"
	"bizerp/internal/core/numerator"
	"bizerp/internal/core/tx"
	"bizerp/internal/domain"
	"bizerp/internal/domain/auth"
	"bizerp/internal/domain/bins"
	"bizerp/internal/domain/catalogs/brands"
	"bizerp/internal/domain/catalogs/customers"
	"bizerp/internal/domain/catalogs/items"
	"bizerp/internal/domain/catalogs/manufacturers"
	"bizerp/internal/domain/catalogs/vendors"
	"bizerp/internal/domain/documents"
	"bizerp/internal/domain/documents/bill"
	"bizerp/internal/domain/documents/delivery_challan"
	"bizerp/internal/domain/documents/invoice"
	"bizerp/internal/domain/documents/payment_made"
	"bizerp/internal/domain/documents/payment_received"
	"bizerp/internal/domain/documents/purchase_order"
	"bizerp/internal/domain/documents/sales_order"
	"bizerp/internal/domain/documents/transfer_order"
	"bizerp/internal/domain/documents/vendor_credit"
	"bizerp/internal/domain/expenses"
	"bizerp/internal/domain/insights"
	"bizerp/internal/domain/pos"
	"bizerp/internal/domain/reports"
	"bizerp/internal/domain/tasks"
	infranumerator "bizerp/internal/infrastructure/numerator"
	"bizerp/internal/infrastructure/storage/postgres"
	"bizerp/internal/infrastructure/storage/postgres/auth_repo"
	"bizerp/internal/infrastructure/storage/postgres/catalog_repo"
	"bizerp/internal/infrastructure/storage/postgres/document_repo"
	"bizerp/internal/infrastructure/storage/postgres/pos_repo"
	"bizerp/internal/infrastructure/storage/postgres/register_repo"
	"bizerp/internal/infrastructure/storage/postgres/report_repo"
)

// Cache serves report reads and is invalidated by writes that change them.
type Cache interface {
	reports.Cache
	domain.Invalidator
}

// Deps are the shared resources the container is built from.
type Deps struct {
	// Querier must resolve the active transaction from the context
	// (postgres.ContextQuerier) so repositories join service transactions.
	Querier   postgres.Querier
	TxManager tx.Manager
	Cache     Cache
}

// NumberSyncer raises a numbering counter to the highest stored number.
type NumberSyncer struct {
	Name string
	Sync func(ctx context.Context) (int64, error)
}

// App holds every service.
type App struct {
	Numerator numerator.Generator
	Auth      *auth.Service

	PurchaseOrders   *purchase_order.Service
	Bills            *bill.Service
	VendorCredits    *vendor_credit.Service
	PaymentsMade     *payment_made.Service
	SalesOrders      *sales_order.Service
	Invoices         *invoice.Service
	DeliveryChallans *delivery_challan.Service
	PaymentsReceived *payment_received.Service
	TransferOrders   *transfer_order.Service

	Items         *items.Service
	Vendors       *vendors.Service
	Customers     *customers.Service
	Manufacturers *manufacturers.Service
	Brands        *brands.Service
	BinLocations  *bins.LocationService
	Bins          *bins.Service
	Expenses      *expenses.Service
	Tasks         *tasks.Service
	Insights      *insights.Service
	POS           *pos.Service
	Reports       *reports.Service

	Sweeper *documents.Sweeper
}

// New builds the container.
func New(cfg *config.Config, deps Deps) *App {
	q := deps.Querier
	txm := deps.TxManager
	orgID := cfg.Organization()
	opts := documents.Options{OrganizationID: orgID, Strategy: cfg.Strategy()}
	gen := infranumerator.New(q)

	a := &App{Numerator: gen}

	a.Auth = auth.NewService(
		auth_repo.NewUserRepo(q),
		auth.NewJWTService(jwtConfig(cfg)),
		auth.DefaultServiceConfig(),
	)

	a.Items = items.NewService(catalog_repo.NewItemRepo(q), txm, orgID)
	a.Vendors = vendors.NewService(catalog_repo.NewVendorRepo(q), txm, orgID)
	a.Customers = customers.NewService(catalog_repo.NewCustomerRepo(q), txm, orgID)
	a.Manufacturers = manufacturers.NewService(catalog_repo.NewManufacturerRepo(q), txm, orgID)
	a.Brands = brands.NewService(catalog_repo.NewBrandRepo(q), txm, orgID)
	a.BinLocations = bins.NewLocationService(catalog_repo.NewBinLocationRepo(q), txm, orgID)
	a.Bins = bins.NewService(register_repo.NewBinRepo(q))
	a.Expenses = expenses.NewService(catalog_repo.NewExpenseRepo(q), txm, orgID)
	a.Tasks = tasks.NewService(catalog_repo.NewTaskRepo(q), txm, orgID)
	a.Insights = insights.NewService(catalog_repo.NewInsightRepo(q), txm, orgID)

	a.PurchaseOrders = purchase_order.NewService(
		document_repo.New[*purchase_order.PurchaseOrder, *purchase_order.Line](q, purchase_order.Definition),
		gen, txm, opts)
	a.Bills = bill.NewService(
		document_repo.New[*bill.Bill, *bill.Line](q, bill.Definition),
		gen, txm, opts, a.Items, a.Bins)
	a.VendorCredits = vendor_credit.NewService(
		document_repo.New[*vendor_credit.VendorCredit, *vendor_credit.Line](q, vendor_credit.Definition),
		gen, txm, opts)
	a.PaymentsMade = payment_made.NewService(
		document_repo.New[*payment_made.PaymentMade, *payment_made.Allocation](q, payment_made.Definition),
		gen, txm, opts, document_repo.NewSettler(q, bill.Definition, bill.StatusOpen))
	a.SalesOrders = sales_order.NewService(
		document_repo.New[*sales_order.SalesOrder, *sales_order.Line](q, sales_order.Definition),
		gen, txm, opts)
	a.Invoices = invoice.NewService(
		document_repo.New[*invoice.Invoice, *invoice.Line](q, invoice.Definition),
		gen, txm, opts, a.Bins)
	a.DeliveryChallans = delivery_challan.NewService(
		document_repo.New[*delivery_challan.DeliveryChallan, *delivery_challan.Line](q, delivery_challan.Definition),
		gen, txm, opts)
	a.PaymentsReceived = payment_received.NewService(
		document_repo.New[*payment_received.PaymentReceived, *payment_received.Allocation](q, payment_received.Definition),
		gen, txm, opts, document_repo.NewSettler(q, invoice.Definition, invoice.StatusSent))
	a.TransferOrders = transfer_order.NewService(
		document_repo.New[*transfer_order.TransferOrder, *transfer_order.Line](q, transfer_order.Definition),
		gen, txm, opts)

	a.POS = pos.NewService(pos_repo.NewSessionRepo(q), gen, txm, pos.Options{
		OrganizationID: orgID,
		Strategy:       cfg.Strategy(),
	})

	var cache reports.Cache
	if deps.Cache != nil {
		cache = deps.Cache
		a.invalidateOnWrites(deps.Cache)
	}
	a.Reports = reports.NewService(report_repo.NewReportRepo(q), cache)

	a.Sweeper = documents.NewSweeper(cfg.SweepGrace, a.sweepTargets()...)
	return a
}

func jwtConfig(cfg *config.Config) auth.JWTConfig {
	jc := auth.DefaultJWTConfig(cfg.JWTSecret)
	if cfg.JWTTTL > 0 {
		jc.AccessTokenTTL = cfg.JWTTTL
	}
	return jc
}

// invalidateOnWrites drops cached reports after any write that feeds them.
func (a *App) invalidateOnWrites(inv domain.Invalidator) {
	domain.InvalidateOnWrite(a.PurchaseOrders.Hooks(), inv)
	domain.InvalidateOnWrite(a.Bills.Hooks(), inv)
	domain.InvalidateOnWrite(a.VendorCredits.Hooks(), inv)
	domain.InvalidateOnWrite(a.PaymentsMade.Hooks(), inv)
	domain.InvalidateOnWrite(a.SalesOrders.Hooks(), inv)
	domain.InvalidateOnWrite(a.Invoices.Hooks(), inv)
	domain.InvalidateOnWrite(a.DeliveryChallans.Hooks(), inv)
	domain.InvalidateOnWrite(a.PaymentsReceived.Hooks(), inv)
	domain.InvalidateOnWrite(a.TransferOrders.Hooks(), inv)
	domain.InvalidateOnWrite(a.Items.Hooks(), inv)
	domain.InvalidateOnWrite(a.Customers.Hooks(), inv)
	domain.InvalidateOnWrite(a.Expenses.Hooks(), inv)
	domain.InvalidateOnWrite(a.Tasks.Hooks(), inv)
	domain.InvalidateOnWrite(a.Insights.Hooks(), inv)
}

// sweepTargets are the document types whose headers must carry lines.
func (a *App) sweepTargets() []documents.Sweepable {
	all := []interface {
		documents.Sweepable
		Definition() documents.Definition
	}{
		a.PurchaseOrders, a.Bills, a.VendorCredits, a.PaymentsMade,
		a.SalesOrders, a.Invoices, a.DeliveryChallans, a.PaymentsReceived,
		a.TransferOrders,
	}
	var out []documents.Sweepable
	for _, svc := range all {
		if svc.Definition().RequireLines {
			out = append(out, svc)
		}
	}
	return out
}

// NumberSyncers lists every numbered entity.
func (a *App) NumberSyncers() []NumberSyncer {
	docs := []interface {
		Name() string
		SyncNumbers(ctx context.Context) (int64, error)
	}{
		a.PurchaseOrders, a.Bills, a.VendorCredits, a.PaymentsMade,
		a.SalesOrders, a.Invoices, a.DeliveryChallans, a.PaymentsReceived,
		a.TransferOrders,
	}
	out := make([]NumberSyncer, 0, len(docs)+1)
	for _, d := range docs {
		out = append(out, NumberSyncer{Name: d.Name(), Sync: d.SyncNumbers})
	}
	out = append(out, NumberSyncer{Name: "pos session", Sync: a.POS.SyncNumbers})
	return out
}
