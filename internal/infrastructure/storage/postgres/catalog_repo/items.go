package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/id"
	"bizerp/internal/domain/catalogs/items"
	"bizerp/internal/infrastructure/storage/postgres"
)

// ItemRepo stores inventory items.
type ItemRepo struct {
	*BaseCatalogRepo[*items.Item]
}

var _ items.Repository = (*ItemRepo)(nil)

// NewItemRepo creates the item repository.
func NewItemRepo(q postgres.Querier) *ItemRepo {
	return &ItemRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*items.Item](q, Table{
			Name: "items", Entity: "item",
			Search: []string{"name", "sku", "category"}, DefaultOrder: "name ASC",
		}),
	}
}

// LowStock implements items.Repository.
func (r *ItemRepo) LowStock(ctx context.Context, limit int) ([]*items.Item, error) {
	return r.FindAll(ctx, lowStockWhere(), "current_stock - reorder_point ASC, name ASC", limit)
}

func lowStockWhere() squirrel.Sqlizer {
	return squirrel.And{
		squirrel.Eq{"is_active": true},
		squirrel.Expr("current_stock <= reorder_point"),
	}
}

// AdjustStock implements items.Repository with a single relative UPDATE.
func (r *ItemRepo) AdjustStock(ctx context.Context, itemID id.ID, delta float64) error {
	n, err := postgres.Exec(ctx, r.Querier(), adjustStockQuery(itemID, delta), "item", "adjust item stock")
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NewNotFound("item", itemID.String())
	}
	return nil
}

func adjustStockQuery(itemID id.ID, delta float64) squirrel.UpdateBuilder {
	return postgres.Builder().
		Update("items").
		Set("current_stock", squirrel.Expr("current_stock + ?", delta)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": itemID})
}
