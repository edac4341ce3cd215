package handlers

import (
	"github.com/gin-gonic/gin"

	"bizerp/internal/domain/pos"
	"bizerp/internal/infrastructure/http/v1/dto"
)

// POSHandler serves POS sessions.
type POSHandler struct {
	*BaseHandler
	service *pos.Service
}

// NewPOSHandler creates a POS handler.
func NewPOSHandler(base *BaseHandler, service *pos.Service) *POSHandler {
	return &POSHandler{BaseHandler: base, service: service}
}

// Open handles POST /pos/sessions for the authenticated user.
func (h *POSHandler) Open(c *gin.Context) {
	userID, ok := h.UserID(c)
	if !ok {
		return
	}
	var req dto.OpenSessionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	session, err := h.service.Open(c.Request.Context(), userID, req.OpeningCash, req.Notes)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, session)
}

// Close handles POST /pos/sessions/:id/close.
func (h *POSHandler) Close(c *gin.Context) {
	sessionID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.CloseSessionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	session, err := h.service.Close(c.Request.Context(), sessionID, pos.CloseInput{
		ClosingCash: req.ClosingCash,
		TotalSales:  req.TotalSales,
		OrderCount:  req.OrderCount,
		Notes:       req.Notes,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, session)
}

// Current handles GET /pos/sessions/current.
func (h *POSHandler) Current(c *gin.Context) {
	userID, ok := h.UserID(c)
	if !ok {
		return
	}
	session, err := h.service.Current(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, session)
}

// List handles GET /pos/sessions.
func (h *POSHandler) List(c *gin.Context) {
	f, ok := h.ListFilter(c, "", map[string]string{"opened_by": "opened_by"})
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

// Get handles GET /pos/sessions/:id.
func (h *POSHandler) Get(c *gin.Context) {
	sessionID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	session, err := h.service.Get(c.Request.Context(), sessionID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, session)
}

// GenerateNumber handles GET /pos/sessions/generate-number.
func (h *POSHandler) GenerateNumber(c *gin.Context) {
	number, err := h.service.GenerateNumber(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"session_number": number, "number": number})
}

// RegisterRoutes mounts POS routes under /pos.
func (h *POSHandler) RegisterRoutes(group *gin.RouterGroup) {
	sessions := group.Group("/sessions")
	sessions.GET("", h.List)
	sessions.POST("", h.Open)
	sessions.GET("/current", h.Current)
	sessions.GET("/generate-number", h.GenerateNumber)
	sessions.GET("/:id", h.Get)
	sessions.POST("/:id/close", h.Close)
}
