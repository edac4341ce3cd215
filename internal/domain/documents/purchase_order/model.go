// Package purchase_order provides the PurchaseOrder document: goods ordered
// from a vendor, later billed.
package purchase_order

import (
	"context"

	"bizerp/internal/core/entity"
	"bizerp/internal/core/id"
	"bizerp/internal/core/types"
)

// Purchase order statuses.
const (
	StatusDraft             = "draft"
	StatusIssued            = "issued"
	StatusPartiallyReceived = "partially_received"
	StatusReceived          = "received"
	StatusBilled            = "billed"
	StatusCancelled         = "cancelled"
)

// PurchaseOrder is an order placed with a vendor.
type PurchaseOrder struct {
	entity.Document
	entity.VendorParty

	ExpectedDate types.Date `db:"expected_date" json:"expected_date"`

	Items []*Line `db:"-" json:"items"`
}

// Line is a purchase order line.
type Line struct {
	entity.Line
	PurchaseOrderID id.ID `db:"purchase_order_id" json:"purchase_order_id"`
}

// SetDocumentID implements documents.Line.
func (l *Line) SetDocumentID(docID id.ID) {
	l.PurchaseOrderID = docID
}

// Validate implements entity.Validatable.
func (p *PurchaseOrder) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}
	return p.ValidateVendor()
}

// GetLines implements documents.Header.
func (p *PurchaseOrder) GetLines() []*Line { return p.Items }

// SetLines implements documents.Header.
func (p *PurchaseOrder) SetLines(lines []*Line) { p.Items = lines }
