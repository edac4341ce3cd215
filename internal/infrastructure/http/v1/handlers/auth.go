package handlers

import (
	"github.com/gin-gonic/gin"

	"bizerp/internal/core/apperror"
	"bizerp/internal/domain/auth"
	"bizerp/internal/infrastructure/http/v1/middleware"
)

// AuthHandler serves login, registration and token verification.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.Credentials
	if !h.BindJSON(c, &req) {
		return
	}
	session, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, session)
}

// TechnicianLogin handles POST /auth/technician-login.
func (h *AuthHandler) TechnicianLogin(c *gin.Context) {
	var req auth.TechnicianCredentials
	if !h.BindJSON(c, &req) {
		return
	}
	session, err := h.service.TechnicianLogin(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, session)
}

// Register handles POST /auth/register. The account is always created
// with the staff role.
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}
	user, err := h.service.SignUp(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, user)
}

// CreateUser handles POST /users. It honours the requested role and is
// mounted behind an admin role check.
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req auth.RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}
	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, user)
}

// Verify handles GET /auth/verify and returns the token's user.
func (h *AuthHandler) Verify(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		h.Error(c, apperror.NewUnauthorized("missing bearer token"))
		return
	}
	user, err := h.service.Verify(c.Request.Context(), token)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"user": user})
}

// RegisterRoutes mounts auth routes under /auth.
func (h *AuthHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/login", h.Login)
	group.POST("/register", h.Register)
	group.POST("/technician-login", h.TechnicianLogin)
	group.GET("/verify", h.Verify)
}
