package handlers

import (
	"encoding/json"
	"io"
	"reflect"
	"slices"

	"github.com/gin-gonic/gin"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/entity"
	"bizerp/internal/domain/documents"
	"bizerp/internal/infrastructure/http/v1/dto"
)

// DocumentHandler serves the REST surface shared by every document type.
type DocumentHandler[D documents.Header[L], L documents.Line] struct {
	*BaseHandler
	service *documents.Service[D, L]
	def     documents.Definition
	extra   map[string]string
}

// NewDocumentHandler creates a handler for one document type.
func NewDocumentHandler[D documents.Header[L], L documents.Line](base *BaseHandler, service *documents.Service[D, L]) *DocumentHandler[D, L] {
	def := service.Definition()
	extra := map[string]string{}
	if def.CounterpartColumn != "" {
		extra[def.CounterpartColumn] = def.CounterpartColumn
	}
	return &DocumentHandler[D, L]{BaseHandler: base, service: service, def: def, extra: extra}
}

// List handles GET /{docs}.
func (h *DocumentHandler[D, L]) List(c *gin.Context) {
	f, ok := h.ListFilter(c, "date", h.extra)
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

// Get handles GET /{docs}/:id and returns the header with its items.
func (h *DocumentHandler[D, L]) Get(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// Create handles POST /{docs}. The body is the header with an items array.
func (h *DocumentHandler[D, L]) Create(c *gin.Context) {
	doc := newDocument[D]()
	if err := json.NewDecoder(c.Request.Body).Decode(doc); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return
	}

	created, err := h.service.Create(c.Request.Context(), doc)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, created)
}

// Update handles PUT /{docs}/:id. Only the supplied header fields change.
// When items is present the lines are replaced.
func (h *DocumentHandler[D, L]) Update(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid request body"))
		return
	}

	patch, rest, err := entity.DecodePatch[D](body, h.def.Numbering.Column)
	if err != nil {
		h.Error(c, err)
		return
	}

	var lines []L
	rawItems, replace := rest["items"]
	if replace {
		if err := json.Unmarshal(rawItems, &lines); err != nil {
			h.Error(c, apperror.NewValidation("invalid items").WithDetail("error", err.Error()))
			return
		}
	}

	updated, err := h.service.Update(c.Request.Context(), docID, patch, lines, replace)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// UpdateStatus handles PATCH /{docs}/:id/status.
func (h *DocumentHandler[D, L]) UpdateStatus(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.StatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	updated, err := h.service.UpdateStatus(c.Request.Context(), docID, req.Status)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// Delete handles DELETE /{docs}/:id. Deleting a missing document succeeds.
func (h *DocumentHandler[D, L]) Delete(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}
	h.Deleted(c, h.def.Name)
}

// GenerateNumber handles GET /{docs}/generate-number. The number is a
// preview and is not reserved.
func (h *DocumentHandler[D, L]) GenerateNumber(c *gin.Context) {
	number, err := h.service.GenerateNumber(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	data := gin.H{"number": number}
	if h.def.NumberKey != "" {
		data[h.def.NumberKey] = number
	}
	h.OK(c, data)
}

// RegisterRoutes mounts the handler on group. approvers guard status
// changes.
func (h *DocumentHandler[D, L]) RegisterRoutes(group *gin.RouterGroup, approvers ...gin.HandlerFunc) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/generate-number", h.GenerateNumber)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.PATCH("/:id/status", guarded(approvers, h.UpdateStatus)...)
	group.DELETE("/:id", h.Delete)
}

// guarded returns the middleware chain followed by handler.
func guarded(chain []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	return append(slices.Clone(chain), handler)
}

func newDocument[D any]() D {
	var zero D
	return reflect.New(reflect.TypeOf(zero).Elem()).Interface().(D)
}
