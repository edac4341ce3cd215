package domain

import "context"

// Invalidator drops cached data derived from stored entities.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// InvalidateOnWrite registers after-commit hooks that invalidate inv
// whenever an entity is created, updated or deleted.
func InvalidateOnWrite[T any](hooks *HookRegistry[T], inv Invalidator) {
	hook := func(ctx context.Context, _ T) error {
		return inv.Invalidate(ctx)
	}
	hooks.OnAfterCreate(hook)
	hooks.OnAfterUpdate(hook)
	hooks.OnAfterDelete(hook)
}
