// Package delivery_challan provides the DeliveryChallan document: goods
// dispatched to a customer, with or without a sale.
package delivery_challan

import (
	"context"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/entity"
	"bizerp/internal/core/id"
)

// Delivery challan statuses.
const (
	StatusDraft      = "draft"
	StatusDispatched = "dispatched"
	StatusDelivered  = "delivered"
	StatusReturned   = "returned"
	StatusCancelled  = "cancelled"
)

// Challan types.
const (
	TypeSupply     = "supply"
	TypeJobWork    = "job_work"
	TypeOnApproval = "on_approval"
	TypeOthers     = "others"
)

// DeliveryChallan accompanies goods sent to a customer.
type DeliveryChallan struct {
	entity.Document
	entity.CustomerParty

	ChallanType  string `db:"challan_type" json:"challan_type"`
	SalesOrderID id.Ref `db:"sales_order_id" json:"sales_order_id"`

	Items []*Line `db:"-" json:"items"`
}

// Line is a delivery challan line.
type Line struct {
	entity.Line
	DeliveryChallanID id.ID `db:"delivery_challan_id" json:"delivery_challan_id"`
}

// SetDocumentID implements documents.Line.
func (l *Line) SetDocumentID(docID id.ID) {
	l.DeliveryChallanID = docID
}

// Validate implements entity.Validatable.
func (d *DeliveryChallan) Validate(ctx context.Context) error {
	if err := d.Document.Validate(ctx); err != nil {
		return err
	}
	if err := d.ValidateCustomer(); err != nil {
		return err
	}
	switch d.ChallanType {
	case "", TypeSupply, TypeJobWork, TypeOnApproval, TypeOthers:
		return nil
	default:
		return apperror.NewValidation("unknown challan type").
			WithDetail("field", "challan_type")
	}
}

// Normalize defaults the challan type.
func (d *DeliveryChallan) Normalize() {
	if d.ChallanType == "" {
		d.ChallanType = TypeSupply
	}
}

// GetLines implements documents.Header.
func (d *DeliveryChallan) GetLines() []*Line { return d.Items }

// SetLines implements documents.Header.
func (d *DeliveryChallan) SetLines(lines []*Line) { d.Items = lines }
