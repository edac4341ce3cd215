package reports

import (
	"context"
)

// Repository fetches the minimal columns each report folds.
// Every method honours the date range and, where it applies, the status.
type Repository interface {
	Amounts(ctx context.Context, src Source, filter Filter) ([]AmountRow, error)
	Expenses(ctx context.Context, filter Filter) ([]ExpenseRow, error)
	Groups(ctx context.Context, grouping Grouping, filter Filter) ([]GroupRow, error)
	Payables(ctx context.Context, filter Filter) ([]PayableRow, error)
	Tasks(ctx context.Context, filter Filter) ([]TaskRow, error)
	Insights(ctx context.Context, filter Filter) ([]InsightRow, error)
}

// Cache stores computed reports. FetchJSON decodes a cached value for key
// into dst, or calls load, stores its result and decodes that into dst.
type Cache interface {
	FetchJSON(ctx context.Context, namespace, key string, dst any, load func(ctx context.Context) (any, error)) error
}

// CacheNamespace is the version namespace bumped on writes that change reports.
const CacheNamespace = "reports"
