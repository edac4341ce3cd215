// Package vendor_credit provides the VendorCredit document: an amount a vendor
// owes back, usually against returned goods.
package vendor_credit

import (
	"context"

	"bizerp/internal/core/entity"
	"bizerp/internal/core/id"
)

// Vendor credit statuses.
const (
	StatusDraft   = "draft"
	StatusOpen    = "open"
	StatusApplied = "applied"
	StatusVoid    = "void"
)

// VendorCredit is a credit note received from a vendor.
type VendorCredit struct {
	entity.Document
	entity.VendorParty

	BillID id.Ref  `db:"bill_id" json:"bill_id"`
	Reason *string `db:"reason" json:"reason"`

	Items []*Line `db:"-" json:"items"`
}

// Line is a vendor credit line.
type Line struct {
	entity.Line
	VendorCreditID id.ID `db:"vendor_credit_id" json:"vendor_credit_id"`
}

// SetDocumentID implements documents.Line.
func (l *Line) SetDocumentID(docID id.ID) {
	l.VendorCreditID = docID
}

// Validate implements entity.Validatable.
func (v *VendorCredit) Validate(ctx context.Context) error {
	if err := v.Document.Validate(ctx); err != nil {
		return err
	}
	return v.ValidateVendor()
}

// GetLines implements documents.Header.
func (v *VendorCredit) GetLines() []*Line { return v.Items }

// SetLines implements documents.Header.
func (v *VendorCredit) SetLines(lines []*Line) { v.Items = lines }
