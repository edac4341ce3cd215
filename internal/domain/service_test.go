package domain_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/entity"
	"bizerp/internal/core/id"
	"bizerp/internal/domain"
	"bizerp/internal/domain/domaintest"
)

type widget struct {
	entity.BaseEntity
	entity.OrgScoped

	Name   string  `db:"name"`
	Note   *string `db:"note"`
	Status string  `db:"status"`
}

func (w *widget) Validate(ctx context.Context) error {
	if w.Name == "" {
		return errors.New("name is required")
	}
	if w.Status == "" {
		w.Status = "active"
	}
	return nil
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(ctx context.Context) error {
	c.calls++
	return errors.New("redis down")
}

func newWidgetService(repo *domaintest.MemoryCatalog[*widget], orgID id.ID) *domain.CatalogService[*widget] {
	return domain.NewCatalogService(domain.CatalogServiceConfig[*widget]{
		Repo:           repo,
		EntityName:     "widget",
		Required:       []string{"name"},
		Statuses:       []string{"active", "inactive"},
		OrganizationID: orgID,
	})
}

func TestCatalogService_Create(t *testing.T) {
	orgID := id.New()
	repo := domaintest.NewMemoryCatalog[*widget]("widget")
	svc := newWidgetService(repo, orgID)

	created, err := svc.Create(context.Background(), &widget{Name: "Hex bolt"})
	require.NoError(t, err)
	assert.False(t, id.IsNil(created.ID))
	assert.Equal(t, orgID, created.OrganizationID)
	assert.Equal(t, "active", created.Status)

	_, err = svc.Create(context.Background(), &widget{})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetHTTPStatus(err))
	assert.Equal(t, 1, repo.Len())
}

func TestCatalogService_BeforeCreateHookBlocks(t *testing.T) {
	repo := domaintest.NewMemoryCatalog[*widget]("widget")
	svc := newWidgetService(repo, id.New())
	svc.Hooks().OnBeforeCreate(func(ctx context.Context, w *widget) error {
		return apperror.NewConflict("name taken")
	})

	_, err := svc.Create(context.Background(), &widget{Name: "dup"})
	assert.Equal(t, 409, apperror.GetHTTPStatus(err))
	assert.Equal(t, 0, repo.Len())
}

func TestCatalogService_Update(t *testing.T) {
	ctx := context.Background()
	svc := newWidgetService(domaintest.NewMemoryCatalog[*widget]("widget"), id.New())
	created, err := svc.Create(ctx, &widget{Name: "Hex bolt"})
	require.NoError(t, err)

	note := "zinc plated"
	updated, err := svc.Update(ctx, created.ID, entity.Patch{
		"note":            &note,
		"id":              id.New(),
		"organization_id": id.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.OrganizationID, updated.OrganizationID)
	require.NotNil(t, updated.Note)
	assert.Equal(t, note, *updated.Note)

	cleared, err := svc.Update(ctx, created.ID, entity.Patch{"note": nil})
	require.NoError(t, err)
	assert.Nil(t, cleared.Note)

	_, err = svc.Update(ctx, created.ID, entity.Patch{"name": ""})
	assert.Equal(t, 400, apperror.GetHTTPStatus(err))

	_, err = svc.SetStatus(ctx, created.ID, "melted", nil)
	assert.Equal(t, 400, apperror.GetHTTPStatus(err))

	_, err = svc.Update(ctx, id.New(), entity.Patch{"note": &note})
	assert.True(t, apperror.IsNotFound(err))
}

func TestCatalogService_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newWidgetService(domaintest.NewMemoryCatalog[*widget]("widget"), id.New())
	created, err := svc.Create(ctx, &widget{Name: "Hex bolt"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.GetByID(ctx, created.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestInvalidateOnWrite_FailuresAreBestEffort(t *testing.T) {
	ctx := context.Background()
	svc := newWidgetService(domaintest.NewMemoryCatalog[*widget]("widget"), id.New())
	inv := &countingInvalidator{}
	domain.InvalidateOnWrite(svc.Hooks(), inv)

	created, err := svc.Create(ctx, &widget{Name: "Hex bolt"})
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, created.ID, "inactive", nil)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, created.ID))
	require.NoError(t, svc.Delete(ctx, created.ID))

	assert.Equal(t, 3, inv.calls)
}
