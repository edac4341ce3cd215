// Package transfer_order provides the TransferOrder document: stock moved
// between two warehouses.
package transfer_order

import (
	"context"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/entity"
	"bizerp/internal/core/id"
)

// Transfer order statuses.
const (
	StatusDraft     = "draft"
	StatusInTransit = "in_transit"
	StatusReceived  = "received"
	StatusCancelled = "cancelled"
)

// TransferOrder moves goods between warehouses.
type TransferOrder struct {
	entity.Document

	FromWarehouse string  `db:"from_warehouse" json:"from_warehouse"`
	ToWarehouse   string  `db:"to_warehouse" json:"to_warehouse"`
	Reason        *string `db:"reason" json:"reason"`

	Items []*Line `db:"-" json:"items"`
}

// Line is a transfer order line.
type Line struct {
	entity.Line
	TransferOrderID id.ID `db:"transfer_order_id" json:"transfer_order_id"`
}

// SetDocumentID implements documents.Line.
func (l *Line) SetDocumentID(docID id.ID) {
	l.TransferOrderID = docID
}

// Validate implements entity.Validatable.
func (t *TransferOrder) Validate(ctx context.Context) error {
	if err := t.Document.Validate(ctx); err != nil {
		return err
	}
	if t.FromWarehouse == "" {
		return apperror.NewValidation("source warehouse is required").
			WithDetail("field", "from_warehouse")
	}
	if t.ToWarehouse == "" {
		return apperror.NewValidation("destination warehouse is required").
			WithDetail("field", "to_warehouse")
	}
	if t.FromWarehouse == t.ToWarehouse {
		return apperror.NewValidation("source and destination warehouse must differ").
			WithDetail("field", "to_warehouse")
	}
	return nil
}

// GetLines implements documents.Header.
func (t *TransferOrder) GetLines() []*Line { return t.Items }

// SetLines implements documents.Header.
func (t *TransferOrder) SetLines(lines []*Line) { t.Items = lines }
