// Package bill provides the Bill document: a vendor's demand for payment.
// Posting a bill increases item stock and may allocate received goods to bins.
package bill

import (
	"context"

	"bizerp/internal/core/entity"
	"bizerp/internal/core/id"
	"bizerp/internal/core/types"
)

// Bill statuses.
const (
	StatusDraft         = "draft"
	StatusOpen          = "open"
	StatusPartiallyPaid = entity.PaymentStatusPartiallyPaid
	StatusPaid          = entity.PaymentStatusPaid
	StatusOverdue       = "overdue"
	StatusVoid          = "void"
)

// Bill represents a vendor bill.
type Bill struct {
	entity.Document
	entity.VendorParty
	entity.Payable

	DueDate         types.Date `db:"due_date" json:"due_date"`
	PurchaseOrderID id.Ref     `db:"purchase_order_id" json:"purchase_order_id"`

	Items []*Line `db:"-" json:"items"`
}

// Line is a bill line. A line with a bin location puts its quantity into
// that bin.
type Line struct {
	entity.Line
	BillID        id.ID  `db:"bill_id" json:"bill_id"`
	BinLocationID id.Ref `db:"bin_location_id" json:"bin_location_id"`
}

// SetDocumentID implements documents.Line.
func (l *Line) SetDocumentID(docID id.ID) {
	l.BillID = docID
}

// Validate implements entity.Validatable.
func (b *Bill) Validate(ctx context.Context) error {
	if err := b.Document.Validate(ctx); err != nil {
		return err
	}
	return b.ValidateVendor()
}

// Normalize derives the balance from the total and the amount already paid.
func (b *Bill) Normalize() {
	b.ComputeBalance(b.TotalAmount)
}

// GetLines implements documents.Header.
func (b *Bill) GetLines() []*Line { return b.Items }

// SetLines implements documents.Header.
func (b *Bill) SetLines(lines []*Line) { b.Items = lines }
