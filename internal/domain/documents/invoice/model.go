// Package invoice provides the Invoice document: a demand for payment sent to
// a customer. Invoice lines may take goods out of bins.
package invoice

import (
	"context"

	"bizerp/internal/core/entity"
	"bizerp/internal/core/id"
	"bizerp/internal/core/types"
)

// Invoice statuses.
const (
	StatusDraft         = "draft"
	StatusSent          = "sent"
	StatusPartiallyPaid = entity.PaymentStatusPartiallyPaid
	StatusPaid          = entity.PaymentStatusPaid
	StatusOverdue       = "overdue"
	StatusVoid          = "void"
)

// Invoice represents a customer invoice.
type Invoice struct {
	entity.Document
	entity.CustomerParty
	entity.Payable

	DueDate      types.Date `db:"due_date" json:"due_date"`
	SalesOrderID id.Ref     `db:"sales_order_id" json:"sales_order_id"`

	Items []*Line `db:"-" json:"items"`
}

// Line is an invoice line.
type Line struct {
	entity.Line
	InvoiceID     id.ID  `db:"invoice_id" json:"invoice_id"`
	BinLocationID id.Ref `db:"bin_location_id" json:"bin_location_id"`
}

// SetDocumentID implements documents.Line.
func (l *Line) SetDocumentID(docID id.ID) {
	l.InvoiceID = docID
}

// Validate implements entity.Validatable.
func (i *Invoice) Validate(ctx context.Context) error {
	if err := i.Document.Validate(ctx); err != nil {
		return err
	}
	return i.ValidateCustomer()
}

// Normalize derives the balance from the total and the amount already paid.
func (i *Invoice) Normalize() {
	i.ComputeBalance(i.TotalAmount)
}

// GetLines implements documents.Header.
func (i *Invoice) GetLines() []*Line { return i.Items }

// SetLines implements documents.Header.
func (i *Invoice) SetLines(lines []*Line) { i.Items = lines }
