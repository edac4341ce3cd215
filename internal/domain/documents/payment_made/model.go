// Package payment_made provides the PaymentMade document: money paid to a
// vendor, allocated against one or more bills.
package payment_made

import (
	"context"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/entity"
	"bizerp/internal/core/id"
	"bizerp/internal/core/types"
)

// Payment statuses.
const (
	StatusDraft     = "draft"
	StatusCompleted = "completed"
	StatusVoid      = "void"
)

// PaymentMade is a payment to a vendor. TotalAmount is the amount paid.
type PaymentMade struct {
	entity.Document
	entity.VendorParty

	PaymentMode string  `db:"payment_mode" json:"payment_mode"`
	Reference   *string `db:"reference" json:"reference"`

	Items []*Allocation `db:"-" json:"items"`
}

// Allocation applies part of the payment to a bill.
type Allocation struct {
	ID            id.ID       `db:"id" json:"id"`
	PaymentMadeID id.ID       `db:"payment_made_id" json:"payment_made_id"`
	BillID        id.ID       `db:"bill_id" json:"bill_id"`
	Amount        types.Money `db:"amount" json:"amount"`
}

// ValidateLine implements documents.Line.
func (a *Allocation) ValidateLine(index int) error {
	if id.IsNil(a.BillID) {
		return apperror.NewValidation("bill is required").
			WithDetail("field", "items").
			WithDetail("index", index)
	}
	if !a.Amount.IsPositive() {
		return apperror.NewValidation("allocated amount must be positive").
			WithDetail("field", "items").
			WithDetail("index", index)
	}
	return nil
}

// PrepareLine implements documents.Line.
func (a *Allocation) PrepareLine() { a.ID = id.New() }

// GetLineID implements documents.Line.
func (a *Allocation) GetLineID() id.ID { return a.ID }

// SetDocumentID implements documents.Line.
func (a *Allocation) SetDocumentID(docID id.ID) { a.PaymentMadeID = docID }

// Validate implements entity.Validatable.
func (p *PaymentMade) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}
	if err := p.ValidateVendor(); err != nil {
		return err
	}
	if !p.TotalAmount.IsPositive() {
		return apperror.NewValidation("payment amount must be positive").
			WithDetail("field", "total_amount")
	}
	allocated := types.Zero()
	for _, a := range p.Items {
		allocated = allocated.Add(a.Amount)
	}
	if allocated.GreaterThan(p.TotalAmount) {
		return apperror.NewValidation("allocations exceed the payment amount").
			WithDetail("field", "items").
			WithDetail("allocated", allocated.String())
	}
	return nil
}

// GetLines implements documents.Header.
func (p *PaymentMade) GetLines() []*Allocation { return p.Items }

// SetLines implements documents.Header.
func (p *PaymentMade) SetLines(lines []*Allocation) { p.Items = lines }
