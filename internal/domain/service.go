package domain

import (
	"context"
	"fmt"
	"slices"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/entity"
	"bizerp/internal/core/id"
	"bizerp/internal/core/tx"
	"bizerp/pkg/logger"
)

// CatalogService provides business logic for flat entities:
// catalogs, expenses, tasks and insights.
type CatalogService[T Entity] struct {
	repo      CatalogRepository[T]
	txManager tx.Manager
	hooks     *HookRegistry[T]

	// entityName for error messages
	entityName string

	required []string
	statuses []string
	orgID    id.ID
}

// CatalogServiceConfig configures the catalog service.
type CatalogServiceConfig[T Entity] struct {
	Repo       CatalogRepository[T]
	TxManager  tx.Manager
	EntityName string

	// Required columns cannot be blanked by an update.
	Required []string

	// Statuses is the allowed status set; empty disables status checks.
	Statuses []string

	// OrganizationID is stamped on entities carrying entity.OrgScoped.
	OrganizationID id.ID
}

// NewCatalogService creates a new catalog service.
func NewCatalogService[T Entity](cfg CatalogServiceConfig[T]) *CatalogService[T] {
	txm := cfg.TxManager
	if txm == nil {
		txm = tx.Passthrough{}
	}
	return &CatalogService[T]{
		repo:       cfg.Repo,
		txManager:  txm,
		hooks:      NewHookRegistry[T](),
		entityName: cfg.EntityName,
		required:   cfg.Required,
		statuses:   cfg.Statuses,
		orgID:      cfg.OrganizationID,
	}
}

// Hooks returns the hook registry for external registration.
func (s *CatalogService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

// EntityName returns the name used in error messages.
func (s *CatalogService[T]) EntityName() string {
	return s.entityName
}

func (s *CatalogService[T]) normalizeValidationErr(err error) error {
	if err == nil {
		return nil
	}
	// If entity already returns structured AppError, keep it.
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

func (s *CatalogService[T]) normalizeGetErr(err error, entityID id.ID) error {
	if err == nil {
		return nil
	}
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName, entityID.String())
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", s.entityName).WithDetail("id", entityID.String())
}

// Create validates and inserts a new entity.
func (s *CatalogService[T]) Create(ctx context.Context, e T) (T, error) {
	e.Base().Prepare()
	if o, ok := any(e).(entity.OrganizationSetter); ok {
		o.SetOrganizationID(s.orgID)
	}

	if err := e.Validate(ctx); err != nil {
		return e, s.normalizeValidationErr(err)
	}
	if err := s.hooks.Run(ctx, BeforeCreate, e); err != nil {
		return e, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, e); err != nil {
			return fmt.Errorf("create %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return e, err
	}

	s.runAfter(ctx, AfterCreate, e)
	return s.GetByID(ctx, e.GetID())
}

// GetByID retrieves entity by ID.
func (s *CatalogService[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	e, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return e, s.normalizeGetErr(err, entityID)
	}
	return e, nil
}

// Update applies a partial update and returns the stored entity. The
// patched entity must still pass validation.
func (s *CatalogService[T]) Update(ctx context.Context, entityID id.ID, patch entity.Patch) (T, error) {
	var zero T

	patch = patch.Without(entity.ImmutableColumns...)
	if err := patch.RequireNonEmpty(s.required...); err != nil {
		return zero, err
	}
	if status, ok := patch["status"].(string); ok {
		if err := s.checkStatus(status); err != nil {
			return zero, err
		}
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByID(ctx, entityID)
		if err != nil {
			return err
		}
		if err := entity.ApplyPatch(current, patch); err != nil {
			return err
		}
		if err := current.Validate(ctx); err != nil {
			return s.normalizeValidationErr(err)
		}
		return s.repo.Update(ctx, entityID, patch)
	})
	if err != nil {
		return zero, s.normalizeGetErr(err, entityID)
	}

	updated, err := s.GetByID(ctx, entityID)
	if err != nil {
		return zero, err
	}
	s.runAfter(ctx, AfterUpdate, updated)
	return updated, nil
}

// SetStatus moves the entity to status after checking the allowed set.
func (s *CatalogService[T]) SetStatus(ctx context.Context, entityID id.ID, status string, extra entity.Patch) (T, error) {
	if err := s.checkStatus(status); err != nil {
		var zero T
		return zero, err
	}
	patch := entity.Patch{"status": status}
	for k, v := range extra {
		patch[k] = v
	}
	return s.Update(ctx, entityID, patch)
}

// Delete removes the entity. Deleting a missing entity succeeds.
func (s *CatalogService[T]) Delete(ctx context.Context, entityID id.ID) error {
	var existed bool
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		existed, err = s.repo.Delete(ctx, entityID)
		if err != nil {
			return fmt.Errorf("delete %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if existed {
		var e T
		s.runAfter(ctx, AfterDelete, e)
	}
	return nil
}

// List retrieves entities with filtering.
func (s *CatalogService[T]) List(ctx context.Context, filter ListFilter) (ListResult[T], error) {
	return s.repo.List(ctx, filter.Normalize())
}

func (s *CatalogService[T]) checkStatus(status string) error {
	if len(s.statuses) == 0 || slices.Contains(s.statuses, status) {
		return nil
	}
	return apperror.NewValidation(fmt.Sprintf("invalid status %q for %s", status, s.entityName)).
		WithDetail("field", "status").
		WithDetail("allowed", s.statuses)
}

func (s *CatalogService[T]) runAfter(ctx context.Context, event HookEvent, e T) {
	for _, err := range s.hooks.RunAll(ctx, event, e) {
		logger.Warn(ctx, "after-commit hook failed",
			"entity", s.entityName,
			"event", string(event),
			"error", err)
	}
}
