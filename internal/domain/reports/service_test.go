package reports

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu       sync.Mutex
	calls    int
	amounts  map[Source][]AmountRow
	expenses []ExpenseRow
	groups   map[Grouping][]GroupRow
	failOn   Source
	filters  []Filter
}

func (r *fakeRepo) record(f Filter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.filters = append(r.filters, f)
}

func (r *fakeRepo) Amounts(ctx context.Context, src Source, f Filter) ([]AmountRow, error) {
	r.record(f)
	if src == r.failOn {
		return nil, errors.New("connection reset")
	}
	return r.amounts[src], nil
}

func (r *fakeRepo) Expenses(ctx context.Context, f Filter) ([]ExpenseRow, error) {
	r.record(f)
	return r.expenses, nil
}

func (r *fakeRepo) Groups(ctx context.Context, g Grouping, f Filter) ([]GroupRow, error) {
	r.record(f)
	return r.groups[g], nil
}

func (r *fakeRepo) Payables(ctx context.Context, f Filter) ([]PayableRow, error) {
	r.record(f)
	return nil, nil
}

func (r *fakeRepo) Tasks(ctx context.Context, f Filter) ([]TaskRow, error) {
	r.record(f)
	return nil, nil
}

func (r *fakeRepo) Insights(ctx context.Context, f Filter) ([]InsightRow, error) {
	r.record(f)
	return nil, nil
}

// mapCache stores JSON in memory, mirroring the Redis cache contract.
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *mapCache) FetchJSON(ctx context.Context, ns, key string, dst any, load func(context.Context) (any, error)) error {
	c.mu.Lock()
	raw, ok := c.data[ns+":"+key]
	c.mu.Unlock()
	if !ok {
		v, err := load(ctx)
		if err != nil {
			return err
		}
		if raw, err = json.Marshal(v); err != nil {
			return err
		}
		c.mu.Lock()
		c.data[ns+":"+key] = raw
		c.mu.Unlock()
	}
	return json.Unmarshal(raw, dst)
}

func TestService_GroupedDefaultsLimit(t *testing.T) {
	rows := make([]GroupRow, 0, 15)
	for i := 0; i < 15; i++ {
		rows = append(rows, GroupRow{Key: string(rune('a' + i)), Amount: money("1")})
	}
	repo := &fakeRepo{groups: map[Grouping][]GroupRow{GroupExpensesByCategory: rows}}
	svc := NewService(repo, nil)

	got, err := svc.GetExpensesByCategory(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Len(t, got, DefaultLimit)
	assert.Equal(t, DefaultLimit, repo.filters[0].Limit)
}

func TestService_CachedSummaryLoadsOnce(t *testing.T) {
	repo := &fakeRepo{expenses: []ExpenseRow{
		{Status: "pending", TotalAmount: money("12.50")},
		{Status: "approved", TotalAmount: money("7.50")},
	}}
	svc := NewService(repo, &mapCache{data: map[string][]byte{}})
	ctx := context.Background()

	first, err := svc.GetExpensesSummary(ctx, Filter{Status: "any"})
	require.NoError(t, err)
	second, err := svc.GetExpensesSummary(ctx, Filter{Status: "any"})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, "20", second.TotalExpenses.String())
	assert.Equal(t, first.PendingCount, second.PendingCount)
}

func TestService_DashboardIsAllOrNothing(t *testing.T) {
	repo := &fakeRepo{failOn: SourcePaymentsReceived}
	svc := NewService(repo, nil)

	d, err := svc.GetDashboard(context.Background(), Filter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, Dashboard{}, d)
}

func TestService_Dashboard(t *testing.T) {
	repo := &fakeRepo{
		amounts: map[Source][]AmountRow{
			SourceSalesOrders: {{Status: "confirmed", Amount: money("90")}},
			SourceBills:       {{Status: "open", Amount: money("40")}},
		},
		expenses: []ExpenseRow{{Status: "pending", TotalAmount: money("5")}},
	}
	svc := NewService(repo, nil)

	d, err := svc.GetDashboard(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, "90", d.Sales.Total.String())
	assert.Equal(t, "40", d.Purchases.Total.String())
	assert.Equal(t, 1, d.Expenses.PendingCount)
	assert.Equal(t, "INR", d.Payments.Currency)
}
