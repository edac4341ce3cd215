// Package items provides the Item catalog: goods that are bought, stocked
// and sold.
package items

import (
	"context"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/entity"
	"bizerp/internal/core/id"
	"bizerp/internal/core/types"
)

// Item is a stock-keeping unit.
type Item struct {
	entity.BaseEntity
	entity.OrgScoped

	Name           string      `db:"name" json:"name"`
	SKU            *string     `db:"sku" json:"sku"`
	Unit           string      `db:"unit" json:"unit"`
	Category       *string     `db:"category" json:"category"`
	Subcategory    *string     `db:"subcategory" json:"subcategory"`
	BrandID        id.Ref      `db:"brand_id" json:"brand_id"`
	ManufacturerID id.Ref      `db:"manufacturer_id" json:"manufacturer_id"`
	SellingPrice   types.Money `db:"selling_price" json:"selling_price"`
	CostPrice      types.Money `db:"cost_price" json:"cost_price"`

	// CurrentStock is the stored stock level. Bills raise it after commit;
	// bin allocations keep a separate ledger that the stock audit compares.
	CurrentStock float64 `db:"current_stock" json:"current_stock"`
	ReorderPoint float64 `db:"reorder_point" json:"reorder_point"`
	IsActive     bool    `db:"is_active" json:"is_active"`
}

// Validate implements entity.Validatable.
func (i *Item) Validate(ctx context.Context) error {
	if i.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if i.Unit == "" {
		i.Unit = "pcs"
	}
	if i.SellingPrice.IsNegative() {
		return apperror.NewValidation("selling price cannot be negative").WithDetail("field", "selling_price")
	}
	if i.CostPrice.IsNegative() {
		return apperror.NewValidation("cost price cannot be negative").WithDetail("field", "cost_price")
	}
	if i.ReorderPoint < 0 {
		return apperror.NewValidation("reorder point cannot be negative").WithDetail("field", "reorder_point")
	}
	return nil
}

// IsLowStock reports whether stock has fallen to the reorder point.
func (i *Item) IsLowStock() bool {
	return i.CurrentStock <= i.ReorderPoint
}
