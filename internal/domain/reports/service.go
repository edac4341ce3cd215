package reports

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"bizerp/internal/core/types"
)

// Service provides report generation operations.
type Service struct {
	repo  Repository
	cache Cache
	now   func() time.Time
}

// NewService creates a new reports service. A nil cache disables caching.
func NewService(repo Repository, cache Cache) *Service {
	return &Service{repo: repo, cache: cache, now: time.Now}
}

func (s *Service) today() types.Date {
	return types.NewDate(s.now().UTC())
}

// cached runs load through the report cache under name and filter.
func cached[T any](ctx context.Context, s *Service, name string, filter Filter, load func(context.Context) (T, error)) (T, error) {
	if s.cache == nil {
		return load(ctx)
	}
	var out T
	err := s.cache.FetchJSON(ctx, CacheNamespace, name+":"+filter.CacheKey(), &out, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	return out, err
}

// GetExpensesSummary totals expenses and counts them per approval state.
func (s *Service) GetExpensesSummary(ctx context.Context, filter Filter) (ExpensesSummary, error) {
	return cached(ctx, s, "expenses.summary", filter, func(ctx context.Context) (ExpensesSummary, error) {
		rows, err := s.repo.Expenses(ctx, filter)
		if err != nil {
			return ExpensesSummary{}, fmt.Errorf("expenses summary: %w", err)
		}
		return SummarizeExpenses(rows), nil
	})
}

// GetExpensesByCategory groups expense totals by category.
func (s *Service) GetExpensesByCategory(ctx context.Context, filter Filter) ([]Group, error) {
	return s.grouped(ctx, GroupExpensesByCategory, filter)
}

// GetSalesSummary summarizes sales orders.
func (s *Service) GetSalesSummary(ctx context.Context, filter Filter) (Summary, error) {
	return s.summary(ctx, SourceSalesOrders, filter)
}

// GetSalesByStatus groups sales order totals by status.
func (s *Service) GetSalesByStatus(ctx context.Context, filter Filter) ([]Group, error) {
	return s.grouped(ctx, GroupSalesByStatus, filter)
}

// GetTopCustomers ranks customers by invoiced amount.
func (s *Service) GetTopCustomers(ctx context.Context, filter Filter) ([]Group, error) {
	return s.grouped(ctx, GroupTopCustomers, filter)
}

// GetTopSellingItems ranks items by invoiced line amount.
func (s *Service) GetTopSellingItems(ctx context.Context, filter Filter) ([]Group, error) {
	return s.grouped(ctx, GroupTopItems, filter)
}

// GetPurchasesSummary summarizes bills as purchases.
func (s *Service) GetPurchasesSummary(ctx context.Context, filter Filter) (Summary, error) {
	return s.summary(ctx, SourceBills, filter)
}

// GetBillsSummary reports paid, outstanding and overdue bills.
func (s *Service) GetBillsSummary(ctx context.Context, filter Filter) (BillsSummary, error) {
	return cached(ctx, s, "bills.summary", filter, func(ctx context.Context) (BillsSummary, error) {
		rows, err := s.repo.Payables(ctx, filter)
		if err != nil {
			return BillsSummary{}, fmt.Errorf("bills summary: %w", err)
		}
		return SummarizeBills(rows, s.today()), nil
	})
}

// GetPaymentsSummary compares payments made with payments received.
func (s *Service) GetPaymentsSummary(ctx context.Context, filter Filter) (PaymentsSummary, error) {
	return cached(ctx, s, "payments.summary", filter, func(ctx context.Context) (PaymentsSummary, error) {
		var made, received []AmountRow
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			made, err = s.repo.Amounts(gctx, SourcePaymentsMade, filter)
			return err
		})
		g.Go(func() error {
			var err error
			received, err = s.repo.Amounts(gctx, SourcePaymentsReceived, filter)
			return err
		})
		if err := g.Wait(); err != nil {
			return PaymentsSummary{}, fmt.Errorf("payments summary: %w", err)
		}
		return SummarizePayments(made, received), nil
	})
}

// GetTasksSummary counts tasks by status and priority.
func (s *Service) GetTasksSummary(ctx context.Context, filter Filter) (TasksSummary, error) {
	return cached(ctx, s, "tasks.summary", filter, func(ctx context.Context) (TasksSummary, error) {
		rows, err := s.repo.Tasks(ctx, filter)
		if err != nil {
			return TasksSummary{}, fmt.Errorf("tasks summary: %w", err)
		}
		return SummarizeTasks(rows, s.today()), nil
	})
}

// GetInsightsSummary counts insights by severity and module.
func (s *Service) GetInsightsSummary(ctx context.Context, filter Filter) (InsightsSummary, error) {
	return cached(ctx, s, "insights.summary", filter, func(ctx context.Context) (InsightsSummary, error) {
		rows, err := s.repo.Insights(ctx, filter)
		if err != nil {
			return InsightsSummary{}, fmt.Errorf("insights summary: %w", err)
		}
		return SummarizeInsights(rows), nil
	})
}

// GetDashboard computes every summary concurrently. Any failure fails the
// whole dashboard.
func (s *Service) GetDashboard(ctx context.Context, filter Filter) (Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { d.Expenses, err = s.GetExpensesSummary(gctx, filter); return })
	g.Go(func() (err error) { d.Sales, err = s.GetSalesSummary(gctx, filter); return })
	g.Go(func() (err error) { d.Purchases, err = s.GetPurchasesSummary(gctx, filter); return })
	g.Go(func() (err error) { d.Bills, err = s.GetBillsSummary(gctx, filter); return })
	g.Go(func() (err error) { d.Payments, err = s.GetPaymentsSummary(gctx, filter); return })
	g.Go(func() (err error) { d.Tasks, err = s.GetTasksSummary(gctx, filter); return })
	g.Go(func() (err error) { d.Insights, err = s.GetInsightsSummary(gctx, filter); return })
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}

func (s *Service) summary(ctx context.Context, src Source, filter Filter) (Summary, error) {
	return cached(ctx, s, string(src)+".summary", filter, func(ctx context.Context) (Summary, error) {
		rows, err := s.repo.Amounts(ctx, src, filter)
		if err != nil {
			return Summary{}, fmt.Errorf("%s summary: %w", src, err)
		}
		return Summarize(rows), nil
	})
}

func (s *Service) grouped(ctx context.Context, grouping Grouping, filter Filter) ([]Group, error) {
	filter = filter.Normalize()
	return cached(ctx, s, string(grouping), filter, func(ctx context.Context) ([]Group, error) {
		rows, err := s.repo.Groups(ctx, grouping, filter)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", grouping, err)
		}
		return GroupBy(rows, filter.Limit), nil
	})
}
