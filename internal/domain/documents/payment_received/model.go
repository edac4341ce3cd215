// Package payment_received provides the PaymentReceived document: money
// received from a customer, allocated against invoices.
package payment_received

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

// PaymentReceived is a customer payment. TotalAmount is the amount received.
type PaymentReceived struct {
	entity.Document
	entity.CustomerParty

	PaymentMode string  `db:"payment_mode" json:"payment_mode"`
	Reference   *string `db:"reference" json:"reference"`

	Items []*Allocation `db:"-" json:"items"`
}

// Allocation applies part of the payment to an invoice.
type Allocation struct {
	ID                id.ID       `db:"id" json:"id"`
	PaymentReceivedID id.ID       `db:"payment_received_id" json:"payment_received_id"`
	InvoiceID         id.ID       `db:"invoice_id" json:"invoice_id"`
	Amount            types.Money `db:"amount" json:"amount"`
}

// ValidateLine implements documents.Line.
func (a *Allocation) ValidateLine(index int) error {
	if id.IsNil(a.InvoiceID) {
		return apperror.NewValidation("invoice is required").
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
func (a *Allocation) SetDocumentID(docID id.ID) { a.PaymentReceivedID = docID }

// Validate implements entity.Validatable.
func (p *PaymentReceived) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}
	if err := p.ValidateCustomer(); err != nil {
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
func (p *PaymentReceived) GetLines() []*Allocation { return p.Items }

// SetLines implements documents.Header.
func (p *PaymentReceived) SetLines(lines []*Allocation) { p.Items = lines }
