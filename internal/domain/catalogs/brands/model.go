// Package brands provides the Brand catalog: a product line items are sold under.
package brands

import (
	"context"

	"bizerp/internal/core/entity"
	"bizerp/internal/domain/catalogs"
)

// Brand is a product line items are sold under.
type Brand struct {
	entity.BaseEntity
	entity.OrgScoped
	catalogs.Named
}

// Validate implements entity.Validatable.
func (b *Brand) Validate(ctx context.Context) error {
	return b.ValidateName()
}
