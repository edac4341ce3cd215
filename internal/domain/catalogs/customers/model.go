// Package customers provides the Customer catalog: a buyer of goods and services.
package customers

import (
	"context"

	"bizerp/internal/core/entity"
	"bizerp/internal/domain/catalogs"
)

// Customer is a buyer of goods and services.
type Customer struct {
	entity.BaseEntity
	entity.OrgScoped
	catalogs.Party
}

// Validate implements entity.Validatable.
func (c *Customer) Validate(ctx context.Context) error {
	return c.ValidateParty()
}
