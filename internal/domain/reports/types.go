// Package reports folds document, expense, task and insight rows into
// summary views.
package reports

import (
	"fmt"

	"bizerp/internal/core/types"
)

// DefaultLimit bounds grouped reports when the caller passes no limit.
const DefaultLimit = 10

// MaxLimit caps grouped reports.
const MaxLimit = 100

// Filter narrows the rows a report folds.
type Filter struct {
	From   types.Date
	To     types.Date
	Status string
	Limit  int
}

// Normalize applies the default and maximum limit.
func (f Filter) Normalize() Filter {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	return f
}

// CacheKey identifies the filter inside a cached report name.
func (f Filter) CacheKey() string {
	return fmt.Sprintf("%s|%s|%s|%d", f.From, f.To, f.Status, f.Limit)
}

// --- Input rows ---

// Source names a document table whose rows carry a status and an amount.
type Source string

// Amount sources.
const (
	SourceSalesOrders      Source = "sales_orders"
	SourceInvoices         Source = "invoices"
	SourceBills            Source = "bills"
	SourcePaymentsMade     Source = "payments_made"
	SourcePaymentsReceived Source = "payments_received"
)

// Grouping names a key used by grouped reports.
type Grouping string

// Groupings.
const (
	GroupExpensesByCategory Grouping = "expenses_by_category"
	GroupSalesByStatus      Grouping = "sales_by_status"
	GroupTopCustomers       Grouping = "top_customers"
	GroupTopItems           Grouping = "top_items"
)

// AmountRow is one document reduced to its status and total.
type AmountRow struct {
	Status string      `db:"status"`
	Amount types.Money `db:"amount"`
}

// ExpenseRow is one expense reduced to the columns summaries need.
type ExpenseRow struct {
	Category    string      `db:"category"`
	Status      string      `db:"status"`
	TotalAmount types.Money `db:"total_amount"`
}

// PayableRow is one bill reduced to its payment state.
type PayableRow struct {
	Status      string      `db:"status"`
	TotalAmount types.Money `db:"total_amount"`
	AmountPaid  types.Money `db:"amount_paid"`
	BalanceDue  types.Money `db:"balance_due"`
	DueDate     types.Date  `db:"due_date"`
}

// GroupRow is one row labelled with its grouping key.
type GroupRow struct {
	Key      string      `db:"key"`
	Amount   types.Money `db:"amount"`
	Quantity float64     `db:"quantity"`
}

// TaskRow is one task reduced to its state.
type TaskRow struct {
	Status   string     `db:"status"`
	Priority string     `db:"priority"`
	DueDate  types.Date `db:"due_date"`
}

// InsightRow is one insight reduced to its classification.
type InsightRow struct {
	Severity string `db:"severity"`
	Module   string `db:"module"`
	Status   string `db:"status"`
}

// --- Output shapes ---

// Bucket accumulates a count and a sum.
type Bucket struct {
	Count int         `json:"count"`
	Total types.Money `json:"total"`
}

// Summary is the common count, total and per-status breakdown.
type Summary struct {
	Count    int               `json:"count"`
	Total    types.Money       `json:"total"`
	ByStatus map[string]Bucket `json:"byStatus"`
	Currency string            `json:"currency"`
}

// ExpensesSummary summarizes expenses by approval state.
type ExpensesSummary struct {
	TotalExpenses types.Money `json:"totalExpenses"`
	Count         int         `json:"count"`
	PendingCount  int         `json:"pendingCount"`
	ApprovedCount int         `json:"approvedCount"`
	RejectedCount int         `json:"rejectedCount"`
	Currency      string      `json:"currency"`
}

// Group is one materialized grouping key.
type Group struct {
	Key      string      `json:"key"`
	Count    int         `json:"count"`
	Total    types.Money `json:"total"`
	Quantity float64     `json:"quantity,omitempty"`
}

// BillsSummary summarizes payables.
type BillsSummary struct {
	Count        int               `json:"count"`
	Total        types.Money       `json:"total"`
	Paid         types.Money       `json:"paid"`
	Outstanding  types.Money       `json:"outstanding"`
	OverdueCount int               `json:"overdueCount"`
	ByStatus     map[string]Bucket `json:"byStatus"`
	Currency     string            `json:"currency"`
}

// PaymentsSummary compares money paid out with money received.
type PaymentsSummary struct {
	Made     Summary     `json:"made"`
	Received Summary     `json:"received"`
	Net      types.Money `json:"net"`
	Currency string      `json:"currency"`
}

// TasksSummary counts tasks by state.
type TasksSummary struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"byStatus"`
	ByPriority map[string]int `json:"byPriority"`
	Overdue    int            `json:"overdue"`
}

// InsightsSummary counts insights by classification.
type InsightsSummary struct {
	Total      int            `json:"total"`
	BySeverity map[string]int `json:"bySeverity"`
	ByModule   map[string]int `json:"byModule"`
	Unread     int            `json:"unread"`
}

// Dashboard bundles every summary.
type Dashboard struct {
	Expenses  ExpensesSummary `json:"expenses"`
	Sales     Summary         `json:"sales"`
	Purchases Summary         `json:"purchases"`
	Bills     BillsSummary    `json:"bills"`
	Payments  PaymentsSummary `json:"payments"`
	Tasks     TasksSummary    `json:"tasks"`
	Insights  InsightsSummary `json:"insights"`
}
