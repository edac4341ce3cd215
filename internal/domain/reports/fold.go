package reports

import (
	"sort"

	"bizerp/internal/core/types"
)

// Statuses counted by the expense and payable folds.
const (
	expensePending  = "pending"
	expenseApproved = "approved"
	expenseRejected = "rejected"

	taskDone      = "done"
	taskCancelled = "cancelled"

	insightNew = "new"

	billPaid = "paid"
	billVoid = "void"
)

// Summarize folds amount rows into a Summary.
func Summarize(rows []AmountRow) Summary {
	out := Summary{
		Total:    types.Zero(),
		ByStatus: make(map[string]Bucket),
		Currency: types.Currency,
	}
	for _, r := range rows {
		out.Count++
		out.Total = out.Total.Add(r.Amount)
		b := out.ByStatus[r.Status]
		b.Count++
		b.Total = b.Total.Add(r.Amount)
		out.ByStatus[r.Status] = b
	}
	return out
}

// SummarizeExpenses folds expense rows.
func SummarizeExpenses(rows []ExpenseRow) ExpensesSummary {
	out := ExpensesSummary{TotalExpenses: types.Zero(), Currency: types.Currency}
	for _, r := range rows {
		out.Count++
		out.TotalExpenses = out.TotalExpenses.Add(r.TotalAmount)
		switch r.Status {
		case expensePending:
			out.PendingCount++
		case expenseApproved:
			out.ApprovedCount++
		case expenseRejected:
			out.RejectedCount++
		}
	}
	return out
}

// GroupBy accumulates rows per key, sorts by total descending with ties by
// key, and keeps at most limit groups. A non-positive limit keeps all.
func GroupBy(rows []GroupRow, limit int) []Group {
	acc := make(map[string]*Group)
	for _, r := range rows {
		g, ok := acc[r.Key]
		if !ok {
			g = &Group{Key: r.Key, Total: types.Zero()}
			acc[r.Key] = g
		}
		g.Count++
		g.Total = g.Total.Add(r.Amount)
		g.Quantity += r.Quantity
	}

	out := make([]Group, 0, len(acc))
	for _, g := range acc {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Key < out[j].Key
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// SummarizeBills folds payable rows. A bill is overdue when it is neither
// paid nor void, still owes money and its due date is before today.
func SummarizeBills(rows []PayableRow, today types.Date) BillsSummary {
	out := BillsSummary{
		Total:       types.Zero(),
		Paid:        types.Zero(),
		Outstanding: types.Zero(),
		ByStatus:    make(map[string]Bucket),
		Currency:    types.Currency,
	}
	for _, r := range rows {
		out.Count++
		out.Total = out.Total.Add(r.TotalAmount)
		out.Paid = out.Paid.Add(r.AmountPaid)
		if r.Status != billVoid {
			out.Outstanding = out.Outstanding.Add(r.BalanceDue)
		}
		b := out.ByStatus[r.Status]
		b.Count++
		b.Total = b.Total.Add(r.TotalAmount)
		out.ByStatus[r.Status] = b

		if r.Status != billPaid && r.Status != billVoid && r.BalanceDue.IsPositive() &&
			!r.DueDate.IsZero() && r.DueDate.Before(today.Time) {
			out.OverdueCount++
		}
	}
	return out
}

// SummarizePayments combines the made and received folds.
func SummarizePayments(made, received []AmountRow) PaymentsSummary {
	m, r := Summarize(made), Summarize(received)
	return PaymentsSummary{
		Made:     m,
		Received: r,
		Net:      r.Total.Sub(m.Total),
		Currency: types.Currency,
	}
}

// SummarizeTasks folds task rows. Open tasks past their due date count as overdue.
func SummarizeTasks(rows []TaskRow, today types.Date) TasksSummary {
	out := TasksSummary{
		ByStatus:   make(map[string]int),
		ByPriority: make(map[string]int),
	}
	for _, r := range rows {
		out.Total++
		out.ByStatus[r.Status]++
		out.ByPriority[r.Priority]++
		if r.Status != taskDone && r.Status != taskCancelled &&
			!r.DueDate.IsZero() && r.DueDate.Before(today.Time) {
			out.Overdue++
		}
	}
	return out
}

// SummarizeInsights folds insight rows. New insights count as unread.
func SummarizeInsights(rows []InsightRow) InsightsSummary {
	out := InsightsSummary{
		BySeverity: make(map[string]int),
		ByModule:   make(map[string]int),
	}
	for _, r := range rows {
		out.Total++
		out.BySeverity[r.Severity]++
		out.ByModule[r.Module]++
		if r.Status == insightNew {
			out.Unread++
		}
	}
	return out
}
