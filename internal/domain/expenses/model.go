// Package expenses tracks business expenses and their approval.
package expenses

import (
	"context"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/entity"
	"bizerp/internal/core/types"
)

// Expense statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Statuses is the expense status set.
var Statuses = []string{StatusPending, StatusApproved, StatusRejected}

// Expense is money spent outside the purchase cycle.
type Expense struct {
	entity.BaseEntity
	entity.OrgScoped

	ExpenseDate types.Date  `db:"expense_date" json:"expense_date"`
	Category    string      `db:"category" json:"category"`
	Description *string     `db:"description" json:"description"`
	VendorName  *string     `db:"vendor_name" json:"vendor_name"`
	Amount      types.Money `db:"amount" json:"amount"`
	TaxAmount   types.Money `db:"tax_amount" json:"tax_amount"`
	TotalAmount types.Money `db:"total_amount" json:"total_amount"`
	PaymentMode *string     `db:"payment_mode" json:"payment_mode"`
	Status      string      `db:"status" json:"status"`
	ReceiptURL  *string     `db:"receipt_url" json:"receipt_url"`
}

// Validate implements entity.Validatable.
func (e *Expense) Validate(ctx context.Context) error {
	if e.ExpenseDate.IsZero() {
		return apperror.NewValidation("expense date is required").WithDetail("field", "expense_date")
	}
	if e.Category == "" {
		return apperror.NewValidation("category is required").WithDetail("field", "category")
	}
	if e.Amount.IsNegative() || e.TaxAmount.IsNegative() {
		return apperror.NewValidation("amounts cannot be negative").WithDetail("field", "amount")
	}
	if e.Status == "" {
		e.Status = StatusPending
	}
	if e.TotalAmount.IsZero() {
		e.TotalAmount = e.Amount.Add(e.TaxAmount)
	}
	return nil
}
