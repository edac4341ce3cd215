// Package report_repo fetches the narrow row sets the report folds consume.
package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"bizerp/internal/domain/reports"
	"bizerp/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	q postgres.Querier
}

var _ reports.Repository = (*ReportRepo)(nil)

// NewReportRepo creates a report repository.
func NewReportRepo(q postgres.Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

var sources = map[reports.Source]string{
	reports.SourceSalesOrders:      "sales_orders",
	reports.SourceInvoices:         "invoices",
	reports.SourceBills:            "bills",
	reports.SourcePaymentsMade:     "payments_made",
	reports.SourcePaymentsReceived: "payments_received",
}

// scoped applies the date range on dateCol and the status on statusCol.
func scoped(q squirrel.SelectBuilder, f reports.Filter, dateCol, statusCol string) squirrel.SelectBuilder {
	if !f.From.IsZero() {
		q = q.Where(squirrel.GtOrEq{dateCol: f.From})
	}
	if !f.To.IsZero() {
		q = q.Where(squirrel.LtOrEq{dateCol: f.To})
	}
	if f.Status != "" && statusCol != "" {
		q = q.Where(squirrel.Eq{statusCol: f.Status})
	}
	return q
}

func amountsQuery(src reports.Source, f reports.Filter) (squirrel.SelectBuilder, error) {
	table, ok := sources[src]
	if !ok {
		return squirrel.SelectBuilder{}, fmt.Errorf("unknown report source %q", src)
	}
	q := postgres.Builder().Select("status", "total_amount AS amount").From(table)
	return scoped(q, f, "date", "status"), nil
}

// Amounts implements reports.Repository.
func (r *ReportRepo) Amounts(ctx context.Context, src reports.Source, f reports.Filter) ([]reports.AmountRow, error) {
	q, err := amountsQuery(src, f)
	if err != nil {
		return nil, err
	}
	var rows []reports.AmountRow
	if err := postgres.Select(ctx, r.q, &rows, q, string(src), "fetch "+string(src)+" amounts"); err != nil {
		return nil, err
	}
	return rows, nil
}

// Expenses implements reports.Repository.
func (r *ReportRepo) Expenses(ctx context.Context, f reports.Filter) ([]reports.ExpenseRow, error) {
	q := postgres.Builder().Select("category", "status", "total_amount").From("expenses")
	q = scoped(q, f, "expense_date", "status")
	var rows []reports.ExpenseRow
	if err := postgres.Select(ctx, r.q, &rows, q, "expense", "fetch expense rows"); err != nil {
		return nil, err
	}
	return rows, nil
}

func groupsQuery(g reports.Grouping, f reports.Filter) (squirrel.SelectBuilder, error) {
	b := postgres.Builder()
	switch g {
	case reports.GroupExpensesByCategory:
		q := b.Select("category AS key", "total_amount AS amount", "0::float8 AS quantity").From("expenses")
		return scoped(q, f, "expense_date", "status"), nil
	case reports.GroupSalesByStatus:
		q := b.Select("status AS key", "total_amount AS amount", "0::float8 AS quantity").From("sales_orders")
		return scoped(q, f, "date", "status"), nil
	case reports.GroupTopCustomers:
		q := b.Select("customer_name AS key", "total_amount AS amount", "0::float8 AS quantity").
			From("invoices").
			Where(squirrel.NotEq{"status": "void"})
		return scoped(q, f, "date", "status"), nil
	case reports.GroupTopItems:
		q := b.Select("COALESCE(i.name, l.item_name) AS key", "l.amount AS amount", "l.quantity AS quantity").
			From("invoice_items l").
			Join("invoices d ON d.id = l.invoice_id").
			LeftJoin("items i ON i.id = l.item_id").
			Where(squirrel.NotEq{"d.status": "void"})
		return scoped(q, f, "d.date", "d.status"), nil
	}
	return squirrel.SelectBuilder{}, fmt.Errorf("unknown report grouping %q", g)
}

// Groups implements reports.Repository.
func (r *ReportRepo) Groups(ctx context.Context, g reports.Grouping, f reports.Filter) ([]reports.GroupRow, error) {
	q, err := groupsQuery(g, f)
	if err != nil {
		return nil, err
	}
	var rows []reports.GroupRow
	if err := postgres.Select(ctx, r.q, &rows, q, string(g), "fetch "+string(g)+" rows"); err != nil {
		return nil, err
	}
	return rows, nil
}

// Payables implements reports.Repository.
func (r *ReportRepo) Payables(ctx context.Context, f reports.Filter) ([]reports.PayableRow, error) {
	q := postgres.Builder().
		Select("status", "total_amount", "amount_paid", "balance_due", "due_date").
		From("bills")
	q = scoped(q, f, "date", "status")
	var rows []reports.PayableRow
	if err := postgres.Select(ctx, r.q, &rows, q, "bill", "fetch bill rows"); err != nil {
		return nil, err
	}
	return rows, nil
}

// Tasks implements reports.Repository. The range applies to creation time.
func (r *ReportRepo) Tasks(ctx context.Context, f reports.Filter) ([]reports.TaskRow, error) {
	q := postgres.Builder().Select("status", "priority", "due_date").From("tasks")
	q = scoped(q, f, "created_at::date", "status")
	var rows []reports.TaskRow
	if err := postgres.Select(ctx, r.q, &rows, q, "task", "fetch task rows"); err != nil {
		return nil, err
	}
	return rows, nil
}

// Insights implements reports.Repository.
func (r *ReportRepo) Insights(ctx context.Context, f reports.Filter) ([]reports.InsightRow, error) {
	q := postgres.Builder().Select("severity", "module", "status").From("ai_insights")
	q = scoped(q, f, "created_at::date", "status")
	var rows []reports.InsightRow
	if err := postgres.Select(ctx, r.q, &rows, q, "insight", "fetch insight rows"); err != nil {
		return nil, err
	}
	return rows, nil
}
