package handlers

import (
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/entity"
	"bizerp/internal/domain"
)

// CatalogConfig configures a CatalogHandler.
type CatalogConfig struct {
	// Name is used in response messages, e.g. "vendor".
	Name string

	// DateColumn receives the from_date/to_date bounds; empty disables them.
	DateColumn string

	// Filters maps query keys to equality conditions.
	Filters map[string]string

	// Readonly columns are ignored on update.
	Readonly []string
}

// CatalogHandler serves CRUD for flat entities.
type CatalogHandler[T domain.Entity] struct {
	*BaseHandler
	service *domain.CatalogService[T]
	cfg     CatalogConfig
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler[T domain.Entity](base *BaseHandler, service *domain.CatalogService[T], cfg CatalogConfig) *CatalogHandler[T] {
	if cfg.Name == "" {
		cfg.Name = service.EntityName()
	}
	return &CatalogHandler[T]{BaseHandler: base, service: service, cfg: cfg}
}

// List handles GET /{entity}.
func (h *CatalogHandler[T]) List(c *gin.Context) {
	f, ok := h.ListFilter(c, h.cfg.DateColumn, h.cfg.Filters)
	if !ok {
		return
	}
	result, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	List(c, result)
}

// Get handles GET /{entity}/:id.
func (h *CatalogHandler[T]) Get(c *gin.Context) {
	entityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	e, err := h.service.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, e)
}

// Create handles POST /{entity}.
func (h *CatalogHandler[T]) Create(c *gin.Context) {
	e := newDocument[T]()
	if err := json.NewDecoder(c.Request.Body).Decode(e); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return
	}
	created, err := h.service.Create(c.Request.Context(), e)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, created)
}

// Update handles PUT /{entity}/:id with partial semantics.
func (h *CatalogHandler[T]) Update(c *gin.Context) {
	entityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid request body"))
		return
	}
	patch, _, err := entity.DecodePatch[T](body, h.cfg.Readonly...)
	if err != nil {
		h.Error(c, err)
		return
	}
	updated, err := h.service.Update(c.Request.Context(), entityID, patch)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// Delete handles DELETE /{entity}/:id.
func (h *CatalogHandler[T]) Delete(c *gin.Context) {
	entityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), entityID); err != nil {
		h.Error(c, err)
		return
	}
	h.Deleted(c, h.cfg.Name)
}

// RegisterRoutes mounts CRUD on group.
func (h *CatalogHandler[T]) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}
