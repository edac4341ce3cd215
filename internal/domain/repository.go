// Package domain provides the generic building blocks of domain services:
// list filters, catalog repositories and lifecycle hooks.
package domain

import (
	"context"

	"bizerp/internal/core/entity"
	"bizerp/internal/core/id"
	"bizerp/internal/domain/filter"
)

// Paging limits applied to every list operation.
const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// ListFilter contains common filtering options for list operations.
type ListFilter struct {
	// Search matches case-insensitively against the entity's search columns.
	Search string

	// Filters are column conditions, validated against the repository whitelist.
	Filters []filter.Item

	// OrderBy is a column name, prefixed with "-" for descending order.
	OrderBy string

	Limit  int
	Offset int
}

// Normalize clamps paging values.
func (f ListFilter) Normalize() ListFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// Where appends a condition.
func (f *ListFilter) Where(item filter.Item) {
	f.Filters = append(f.Filters, item)
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"total_count"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// Entity is the constraint of entities handled by CatalogService.
type Entity interface {
	entity.Validatable
	entity.Identifiable
}

// CatalogRepository defines CRUD operations for flat entities.
type CatalogRepository[T Entity] interface {
	Create(ctx context.Context, e T) error
	GetByID(ctx context.Context, entityID id.ID) (T, error)

	// Update writes only the columns present in patch.
	// It returns a not-found AppError when no row matched.
	Update(ctx context.Context, entityID id.ID, patch entity.Patch) error

	// Delete removes the row and reports whether one existed.
	Delete(ctx context.Context, entityID id.ID) (bool, error)

	List(ctx context.Context, filter ListFilter) (ListResult[T], error)
}

// HookEvent represents lifecycle event type.
type HookEvent string

const (
	BeforeCreate HookEvent = "before_create"
	AfterCreate  HookEvent = "after_create"
	AfterUpdate  HookEvent = "after_update"
	AfterDelete  HookEvent = "after_delete"
)

// Hook is a function that runs at specific lifecycle points.
type Hook[T any] func(ctx context.Context, e T) error

// HookRegistry stores lifecycle hooks for an entity type.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{
		hooks: make(map[HookEvent][]Hook[T]),
	}
}

// On registers a hook for the specified event.
func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes hooks for event in registration order and stops at the first error.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, e T) error {
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// RunAll executes every hook for event and returns the errors it collected.
// Used for best-effort hooks that run after a commit.
func (r *HookRegistry[T]) RunAll(ctx context.Context, event HookEvent, e T) []error {
	var errs []error
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// OnBeforeCreate registers a hook to run before create.
func (r *HookRegistry[T]) OnBeforeCreate(hook Hook[T]) {
	r.On(BeforeCreate, hook)
}

// OnAfterCreate registers a hook to run after a committed create.
func (r *HookRegistry[T]) OnAfterCreate(hook Hook[T]) {
	r.On(AfterCreate, hook)
}

// OnAfterUpdate registers a hook to run after a committed update.
func (r *HookRegistry[T]) OnAfterUpdate(hook Hook[T]) {
	r.On(AfterUpdate, hook)
}

// OnAfterDelete registers a hook to run after a committed delete.
func (r *HookRegistry[T]) OnAfterDelete(hook Hook[T]) {
	r.On(AfterDelete, hook)
}
