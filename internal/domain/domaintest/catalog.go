// Package domaintest provides an in-memory catalog repository for tests.
package domaintest

import (
	"context"
	"reflect"
	"sync"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/entity"
	"bizerp/internal/core/id"
	"bizerp/internal/domain"
)

// MemoryCatalog is a domain.CatalogRepository backed by a map.
// Patches resolve columns through db struct tags.
type MemoryCatalog[T domain.Entity] struct {
	name string

	mu    sync.Mutex
	rows  map[id.ID]T
	order []id.ID
}

// NewMemoryCatalog creates an empty repository; name is used in errors.
func NewMemoryCatalog[T domain.Entity](name string) *MemoryCatalog[T] {
	return &MemoryCatalog[T]{name: name, rows: make(map[id.ID]T)}
}

// Create implements domain.CatalogRepository.
func (r *MemoryCatalog[T]) Create(ctx context.Context, e T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[e.GetID()]; ok {
		return apperror.NewDuplicate(r.name, "id", e.GetID().String())
	}
	r.rows[e.GetID()] = clone(e)
	r.order = append(r.order, e.GetID())
	return nil
}

// GetByID implements domain.CatalogRepository.
func (r *MemoryCatalog[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rows[entityID]
	if !ok {
		var zero T
		return zero, apperror.NewNotFound(r.name, entityID)
	}
	return clone(e), nil
}

// Update implements domain.CatalogRepository.
func (r *MemoryCatalog[T]) Update(ctx context.Context, entityID id.ID, patch entity.Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rows[entityID]
	if !ok {
		return apperror.NewNotFound(r.name, entityID)
	}
	if err := entity.ApplyPatch(e, patch); err != nil {
		return err
	}
	e.Base().Touch()
	return nil
}

// Delete implements domain.CatalogRepository.
func (r *MemoryCatalog[T]) Delete(ctx context.Context, entityID id.ID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[entityID]
	delete(r.rows, entityID)
	return ok, nil
}

// List implements domain.CatalogRepository. Only paging is honoured.
func (r *MemoryCatalog[T]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]T, 0, len(r.rows))
	for _, entityID := range r.order {
		if e, ok := r.rows[entityID]; ok {
			items = append(items, clone(e))
		}
	}
	total := int64(len(items))
	if filter.Offset < len(items) {
		items = items[filter.Offset:]
	} else {
		items = items[:0]
	}
	if filter.Limit > 0 && filter.Limit < len(items) {
		items = items[:filter.Limit]
	}
	return domain.ListResult[T]{Items: items, TotalCount: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

// Len returns the number of stored rows.
func (r *MemoryCatalog[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

func clone[T any](v T) T {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return v
	}
	c := reflect.New(rv.Elem().Type())
	c.Elem().Set(rv.Elem())
	return c.Interface().(T)
}
