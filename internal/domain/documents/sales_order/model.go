// Package sales_order provides the SalesOrder document: an order confirmed
// to a customer, later shipped and invoiced.
package sales_order

import (
	"context"

	"bizerp/internal/core/entity"
	"bizerp/internal/core/id"
	"bizerp/internal/core/types"
)

// Sales order statuses.
const (
	StatusDraft            = "draft"
	StatusConfirmed        = "confirmed"
	StatusPartiallyShipped = "partially_shipped"
	StatusShipped          = "shipped"
	StatusInvoiced         = "invoiced"
	StatusCancelled        = "cancelled"
)

// SalesOrder is an order received from a customer.
type SalesOrder struct {
	entity.Document
	entity.CustomerParty

	ExpectedShipmentDate types.Date `db:"expected_shipment_date" json:"expected_shipment_date"`

	Items []*Line `db:"-" json:"items"`
}

// Line is a sales order line.
type Line struct {
	entity.Line
	SalesOrderID id.ID `db:"sales_order_id" json:"sales_order_id"`
}

// SetDocumentID implements documents.Line.
func (l *Line) SetDocumentID(docID id.ID) {
	l.SalesOrderID = docID
}

// Validate implements entity.Validatable.
func (s *SalesOrder) Validate(ctx context.Context) error {
	if err := s.Document.Validate(ctx); err != nil {
		return err
	}
	return s.ValidateCustomer()
}

// GetLines implements documents.Header.
func (s *SalesOrder) GetLines() []*Line { return s.Items }

// SetLines implements documents.Header.
func (s *SalesOrder) SetLines(lines []*Line) { s.Items = lines }
