// Package manufacturers provides the Manufacturer catalog: a maker of items.
package manufacturers

import (
	"context"

	"bizerp/internal/core/entity"
	"bizerp/internal/domain/catalogs"
)

// Manufacturer is a maker of items.
type Manufacturer struct {
	entity.BaseEntity
	entity.OrgScoped
	catalogs.Named
}

// Validate implements entity.Validatable.
func (m *Manufacturer) Validate(ctx context.Context) error {
	return m.ValidateName()
}
