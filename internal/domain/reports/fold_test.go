package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bizerp/internal/core/types"
)

func money(s string) types.Money { return types.MustMoney(s) }

func date(s string) types.Date {
	d, err := types.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSummarizeExpenses_ExactSumsAndCounts(t *testing.T) {
	rows := []ExpenseRow{
		{Category: "travel", Status: "pending", TotalAmount: money("100.10")},
		{Category: "travel", Status: "approved", TotalAmount: money("200.20")},
		{Category: "office", Status: "approved", TotalAmount: money("0.30")},
		{Category: "meals", Status: "rejected", TotalAmount: money("45")},
		{Category: "meals", Status: "pending", TotalAmount: money("54.40")},
	}

	got := SummarizeExpenses(rows)

	assert.Equal(t, "400", got.TotalExpenses.String())
	assert.Equal(t, 5, got.Count)
	assert.Equal(t, 2, got.PendingCount)
	assert.Equal(t, 2, got.ApprovedCount)
	assert.Equal(t, 1, got.RejectedCount)
	assert.Equal(t, "INR", got.Currency)
}

func TestSummarizeExpenses_Empty(t *testing.T) {
	got := SummarizeExpenses(nil)
	assert.Equal(t, 0, got.Count)
	assert.True(t, got.TotalExpenses.IsZero())
}

func TestSummarize_ByStatus(t *testing.T) {
	got := Summarize([]AmountRow{
		{Status: "draft", Amount: money("10")},
		{Status: "confirmed", Amount: money("20.5")},
		{Status: "confirmed", Amount: money("4.5")},
	})

	assert.Equal(t, 3, got.Count)
	assert.Equal(t, "35", got.Total.String())
	assert.Equal(t, 2, got.ByStatus["confirmed"].Count)
	assert.Equal(t, "25", got.ByStatus["confirmed"].Total.String())
	assert.Equal(t, 1, got.ByStatus["draft"].Count)
}

func TestGroupBy(t *testing.T) {
	rows := []GroupRow{
		{Key: "travel", Amount: money("50")},
		{Key: "office", Amount: money("70")},
		{Key: "travel", Amount: money("30")},
		{Key: "meals", Amount: money("80")},
		{Key: "rent", Amount: money("5")},
	}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{"all", 0, []string{"meals", "travel", "office", "rent"}},
		{"truncated", 2, []string{"meals", "travel"}},
		{"limit above size", 20, []string{"meals", "travel", "office", "rent"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GroupBy(rows, tt.limit)
			keys := make([]string, len(got))
			for i, g := range got {
				keys[i] = g.Key
			}
			assert.Equal(t, tt.want, keys)
		})
	}

	got := GroupBy(rows, 0)
	assert.Equal(t, 2, got[1].Count)
	assert.Equal(t, "80", got[1].Total.String())
}

func TestGroupBy_TiesOrderedByKey(t *testing.T) {
	got := GroupBy([]GroupRow{
		{Key: "b", Amount: money("10"), Quantity: 1},
		{Key: "a", Amount: money("10"), Quantity: 2},
	}, 10)
	assert.Equal(t, "a", got[0].Key)
	assert.Equal(t, 2.0, got[0].Quantity)
}

func TestSummarizeBills(t *testing.T) {
	today := date("2026-03-10")
	rows := []PayableRow{
		{Status: "open", TotalAmount: money("100"), BalanceDue: money("100"), DueDate: date("2026-03-01")},
		{Status: "partially_paid", TotalAmount: money("200"), AmountPaid: money("50"), BalanceDue: money("150"), DueDate: date("2026-03-20")},
		{Status: "paid", TotalAmount: money("300"), AmountPaid: money("300"), DueDate: date("2026-01-01")},
		{Status: "void", TotalAmount: money("40"), BalanceDue: money("40"), DueDate: date("2026-01-01")},
	}

	got := SummarizeBills(rows, today)

	assert.Equal(t, 4, got.Count)
	assert.Equal(t, "640", got.Total.String())
	assert.Equal(t, "350", got.Paid.String())
	assert.Equal(t, "250", got.Outstanding.String())
	assert.Equal(t, 1, got.OverdueCount)
	assert.Equal(t, 1, got.ByStatus["void"].Count)
}

func TestSummarizePayments_Net(t *testing.T) {
	got := SummarizePayments(
		[]AmountRow{{Status: "completed", Amount: money("100")}},
		[]AmountRow{{Status: "completed", Amount: money("250")}, {Status: "void", Amount: money("10")}},
	)
	assert.Equal(t, "160", got.Net.String())
	assert.Equal(t, 2, got.Received.Count)
}

func TestSummarizeTasks(t *testing.T) {
	today := types.NewDate(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	got := SummarizeTasks([]TaskRow{
		{Status: "todo", Priority: "high", DueDate: date("2026-03-09")},
		{Status: "done", Priority: "high", DueDate: date("2026-03-01")},
		{Status: "in_progress", Priority: "low"},
		{Status: "todo", Priority: "urgent", DueDate: date("2026-03-10")},
	}, today)

	assert.Equal(t, 4, got.Total)
	assert.Equal(t, 2, got.ByStatus["todo"])
	assert.Equal(t, 2, got.ByPriority["high"])
	assert.Equal(t, 1, got.Overdue)
}

func TestSummarizeInsights(t *testing.T) {
	got := SummarizeInsights([]InsightRow{
		{Severity: "critical", Module: "inventory", Status: "new"},
		{Severity: "info", Module: "inventory", Status: "acknowledged"},
		{Severity: "warning", Module: "sales", Status: "new"},
	})
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 2, got.ByModule["inventory"])
	assert.Equal(t, 1, got.BySeverity["critical"])
	assert.Equal(t, 2, got.Unread)
}
