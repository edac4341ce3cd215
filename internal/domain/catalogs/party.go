// Package catalogs holds master data shared by documents: items, vendors,
// customers, manufacturers and brands.
package catalogs

import (
	"bizerp/internal/core/apperror"
)

// Party holds the contact fields of vendors and customers.
type Party struct {
	Name           string  `db:"name" json:"name"`
	Email          *string `db:"email" json:"email"`
	Phone          *string `db:"phone" json:"phone"`
	GSTIN          *string `db:"gstin" json:"gstin"`
	PAN            *string `db:"pan" json:"pan"`
	BillingAddress *string `db:"billing_address" json:"billing_address"`
	IsActive       bool    `db:"is_active" json:"is_active"`
}

// ValidateParty checks the contact fields.
func (p *Party) ValidateParty() error {
	if p.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if p.GSTIN != nil && *p.GSTIN != "" && len(*p.GSTIN) != 15 {
		return apperror.NewValidation("GSTIN must be 15 characters").WithDetail("field", "gstin")
	}
	if p.PAN != nil && *p.PAN != "" && len(*p.PAN) != 10 {
		return apperror.NewValidation("PAN must be 10 characters").WithDetail("field", "pan")
	}
	return nil
}

// Named holds the fields of simple named catalogs.
type Named struct {
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description"`
}

// ValidateName checks the name is present.
func (n *Named) ValidateName() error {
	if n.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	return nil
}
