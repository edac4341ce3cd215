package entity

import (
	"context"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/id"
	"bizerp/internal/core/types"
)

// Document is the common header of every numbered business record:
// bills, orders, challans, transfers and payments.
type Document struct {
	BaseEntity

	// Number is the human-readable document number, unique per type.
	Number string `db:"number" json:"number"`

	// Date is the business date of the document.
	Date types.Date `db:"date" json:"date"`

	// Status values vary per document type.
	Status string `db:"status" json:"status"`

	// OrganizationID is injected from configuration, never taken from the client.
	OrganizationID id.ID `db:"organization_id" json:"organization_id"`

	Subtotal       types.Money `db:"subtotal" json:"subtotal"`
	TaxAmount      types.Money `db:"tax_amount" json:"tax_amount"`
	DiscountAmount types.Money `db:"discount_amount" json:"discount_amount"`
	TotalAmount    types.Money `db:"total_amount" json:"total_amount"`

	Notes *string `db:"notes" json:"notes"`
}

// Doc returns the embedded Document.
func (d *Document) Doc() *Document {
	return d
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	return nil
}

// Line is the common part of a document line item.
// Amount is caller-supplied and never recomputed from quantity and rate.
type Line struct {
	ID       id.ID       `db:"id" json:"id"`
	ItemID   id.Ref      `db:"item_id" json:"item_id"`
	ItemName string      `db:"item_name" json:"item_name"`
	Quantity float64     `db:"quantity" json:"quantity"`
	Rate     types.Money `db:"rate" json:"rate"`
	Amount   types.Money `db:"amount" json:"amount"`
}

// PrepareLine assigns a fresh ID to the line.
func (l *Line) PrepareLine() {
	l.ID = id.New()
}

// GetLineID returns the line ID.
func (l *Line) GetLineID() id.ID {
	return l.ID
}

// ValidateLine checks the invariants every line shares.
func (l *Line) ValidateLine(index int) error {
	if l.Quantity < 0 {
		return apperror.NewValidation("quantity cannot be negative").
			WithDetail("field", "items").
			WithDetail("index", index)
	}
	if l.ItemName == "" && !l.ItemID.Valid {
		return apperror.NewValidation("item name or item reference is required").
			WithDetail("field", "items").
			WithDetail("index", index)
	}
	return nil
}
