// Package handlers provides HTTP request handlers.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"bizerp/internal/core/apperror"
	appctx "bizerp/internal/core/context"
	"bizerp/internal/core/id"
	"bizerp/internal/domain"
	"bizerp/internal/domain/filter"
	"bizerp/internal/infrastructure/http/v1/dto"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates the JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// BindQuery binds and validates query parameters.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error registers err on the gin context and aborts. The response is
// rendered by middleware.ErrorHandler.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParseID parses the named path parameter as an id.
func (h *BaseHandler) ParseID(c *gin.Context, param string) (id.ID, bool) {
	v, err := id.Parse(c.Param(param))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format").WithDetail("field", param))
		return id.Nil(), false
	}
	return v, true
}

// UserID returns the authenticated user's id.
func (h *BaseHandler) UserID(c *gin.Context) (id.ID, bool) {
	v, err := id.Parse(appctx.GetUserID(c.Request.Context()))
	if err != nil {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return id.Nil(), false
	}
	return v, true
}

// ListFilter builds a domain list filter from the common query parameters.
// Date bounds apply to dateColumn; extra maps query keys to columns matched
// by equality.
func (h *BaseHandler) ListFilter(c *gin.Context, dateColumn string, extra map[string]string) (domain.ListFilter, bool) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return domain.ListFilter{}, false
	}

	f := domain.ListFilter{
		Search:  q.Search,
		OrderBy: q.OrderBy,
		Limit:   q.Limit,
		Offset:  q.Offset,
	}
	if q.Filter != "" {
		if err := json.Unmarshal([]byte(q.Filter), &f.Filters); err != nil {
			h.Error(c, apperror.NewValidation("invalid filter format (json expected)"))
			return domain.ListFilter{}, false
		}
	}
	if q.Status != "" {
		f.Where(filter.Eq("status", q.Status))
	}
	if dateColumn != "" {
		from, to := dto.DateRange(q.From, q.To)
		if !from.IsZero() {
			f.Where(filter.Gte(dateColumn, from))
		}
		if !to.IsZero() {
			f.Where(filter.Lte(dateColumn, to))
		}
	}
	for key, column := range extra {
		if v := c.Query(key); v != "" {
			f.Where(filter.Eq(column, v))
		}
	}
	return f.Normalize(), true
}

// OK sends {success:true, data}.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.Response{Success: true, Data: data})
}

// Created sends 201 {success:true, data}.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.Response{Success: true, Data: data})
}

// Deleted sends {success:true, message}.
func (h *BaseHandler) Deleted(c *gin.Context, entity string) {
	c.JSON(http.StatusOK, dto.Response{Success: true, Message: entity + " deleted successfully"})
}

// List sends a paginated result.
func List[T any](c *gin.Context, result domain.ListResult[T]) {
	items := result.Items
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, dto.ListResponse{
		Success:    true,
		Data:       items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}
