// Package vendors provides the Vendor catalog: a supplier of goods and services.
package vendors

import (
	"context"

	"bizerp/internal/core/entity"
	"bizerp/internal/domain/catalogs"
)

// Vendor is a supplier of goods and services.
type Vendor struct {
	entity.BaseEntity
	entity.OrgScoped
	catalogs.Party
}

// Validate implements entity.Validatable.
func (v *Vendor) Validate(ctx context.Context) error {
	return v.ValidateParty()
}
