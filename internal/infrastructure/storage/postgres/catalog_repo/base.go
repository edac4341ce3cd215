// Package catalog_repo provides PostgreSQL implementations of the flat
// entity repositories: catalogs, bin locations, expenses, tasks and insights.
package catalog_repo

import (
	"context"
	"fmt"
	"reflect"

	"github.com/Masterminds/squirrel"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/entity"
	"bizerp/internal/core/id"
	"bizerp/internal/domain"
	"bizerp/internal/infrastructure/storage/postgres"
)

// Table describes where an entity lives.
type Table struct {
	Name   string
	Entity string

	// Search lists the columns matched by ListFilter.Search.
	Search []string

	// DefaultOrder is used when the filter names no order.
	DefaultOrder string
}

// BaseCatalogRepo provides CRUD for one entity table. Columns come from the
// db tags of T.
type BaseCatalogRepo[T domain.Entity] struct {
	table   Table
	q       postgres.Querier
	cols    []string
	allowed postgres.Columns
}

// NewBaseCatalogRepo creates a repository for table.
func NewBaseCatalogRepo[T domain.Entity](q postgres.Querier, table Table) *BaseCatalogRepo[T] {
	cols := postgres.ExtractDBColumns[T]()
	if table.DefaultOrder == "" {
		table.DefaultOrder = "created_at DESC"
	}
	return &BaseCatalogRepo[T]{
		table:   table,
		q:       q,
		cols:    cols,
		allowed: postgres.NewColumns(cols),
	}
}

// Querier returns the querier for specialised statements.
func (r *BaseCatalogRepo[T]) Querier() postgres.Querier {
	return r.q
}

// Columns returns the selected columns.
func (r *BaseCatalogRepo[T]) Columns() []string {
	return r.cols
}

// Create inserts a new entity using its "db" tags.
func (r *BaseCatalogRepo[T]) Create(ctx context.Context, e T) error {
	data := postgres.Pick(postgres.StructToMap(e), r.cols)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found on %s", r.table.Entity)
	}
	_, err := postgres.Exec(ctx, r.q, postgres.Builder().Insert(r.table.Name).SetMap(data),
		r.table.Entity, "insert "+r.table.Entity)
	return err
}

// GetByID retrieves entity by ID.
func (r *BaseCatalogRepo[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	e := newOf[T]()
	q := r.baseSelect().Where(squirrel.Eq{"id": entityID}).Limit(1)
	if err := postgres.Get(ctx, r.q, e, q, r.table.Entity, "get "+r.table.Entity); err != nil {
		var zero T
		if apperror.IsNotFound(err) {
			return zero, apperror.NewNotFound(r.table.Entity, entityID.String())
		}
		return zero, err
	}
	return e, nil
}

// FindAll returns every entity matching where in order.
func (r *BaseCatalogRepo[T]) FindAll(ctx context.Context, where squirrel.Sqlizer, orderBy string, limit int) ([]T, error) {
	items := []T{}
	q := r.baseSelect().Where(where).OrderBy(orderBy)
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if err := postgres.Select(ctx, r.q, &items, q, r.table.Entity, "list "+r.table.Entity); err != nil {
		return nil, err
	}
	return items, nil
}

// Update writes the columns in patch. Unknown columns are ignored.
func (r *BaseCatalogRepo[T]) Update(ctx context.Context, entityID id.ID, patch entity.Patch) error {
	set := make(map[string]any, len(patch))
	for col, v := range patch {
		if r.allowed.Has(col) && col != "updated_at" {
			set[col] = v
		}
	}
	q := postgres.Builder().
		Update(r.table.Name).
		SetMap(set).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": entityID})

	n, err := postgres.Exec(ctx, r.q, q, r.table.Entity, "update "+r.table.Entity)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NewNotFound(r.table.Entity, entityID.String())
	}
	return nil
}

// Delete performs physical removal and reports whether a row existed.
// A row still referenced elsewhere gives a conflict.
func (r *BaseCatalogRepo[T]) Delete(ctx context.Context, entityID id.ID) (bool, error) {
	n, err := postgres.Exec(ctx, r.q,
		postgres.Builder().Delete(r.table.Name).Where(squirrel.Eq{"id": entityID}),
		r.table.Entity, "delete "+r.table.Entity)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return false, apperror.NewConflict(r.table.Entity+" is still referenced by other records").
				WithDetail("id", entityID.String()).
				WithCause(err)
		}
		return false, err
	}
	return n > 0, nil
}

// List retrieves entities with filtering and pagination.
func (r *BaseCatalogRepo[T]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error) {
	return postgres.List[T](ctx, r.q, postgres.ListQuery{
		Table:         r.table.Name,
		Select:        r.cols,
		SearchColumns: r.table.Search,
		Allowed:       r.allowed,
		DefaultOrder:  r.table.DefaultOrder,
		Entity:        r.table.Entity,
	}, filter)
}

func (r *BaseCatalogRepo[T]) baseSelect() squirrel.SelectBuilder {
	return postgres.Builder().Select(r.cols...).From(r.table.Name)
}

func newOf[T any]() T {
	var zero T
	t := reflect.TypeOf(zero)
	if t != nil && t.Kind() == reflect.Ptr {
		return reflect.New(t.Elem()).Interface().(T)
	}
	return zero
}
