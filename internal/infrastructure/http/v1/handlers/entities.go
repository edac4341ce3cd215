package handlers

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/id"
	"bizerp/internal/domain/catalogs/items"
	"bizerp/internal/domain/expenses"
	"bizerp/internal/domain/insights"
	"bizerp/internal/domain/tasks"
	"bizerp/internal/infrastructure/http/v1/dto"
	"bizerp/pkg/logger"
)

// --- Items ---

// ItemHandler adds stock views to item CRUD.
type ItemHandler struct {
	*CatalogHandler[*items.Item]
	service *items.Service
}

// NewItemHandler creates an item handler.
func NewItemHandler(base *BaseHandler, service *items.Service) *ItemHandler {
	return &ItemHandler{
		CatalogHandler: NewCatalogHandler(base, service.CatalogService, CatalogConfig{
			Name: "item",
			Filters: map[string]string{
				"category":        "category",
				"brand_id":        "brand_id",
				"manufacturer_id": "manufacturer_id",
				"is_active":       "is_active",
			},
			Readonly: []string{"current_stock"},
		}),
		service: service,
	}
}

// LowStock handles GET /items/low-stock.
func (h *ItemHandler) LowStock(c *gin.Context) {
	var q struct {
		Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
	}
	if !h.BindQuery(c, &q) {
		return
	}
	list, err := h.service.LowStock(c.Request.Context(), q.Limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	if list == nil {
		list = []*items.Item{}
	}
	h.OK(c, list)
}

// RegisterRoutes mounts item routes.
func (h *ItemHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/low-stock", h.LowStock)
	h.CatalogHandler.RegisterRoutes(group)
}

// --- Expenses ---

// ReceiptStore persists uploaded receipt images.
type ReceiptStore interface {
	SaveReceipt(ctx context.Context, r io.Reader) (string, error)
	Remove(url string) error
}

// ExpenseHandler adds approval and receipts to expense CRUD.
type ExpenseHandler struct {
	*CatalogHandler[*expenses.Expense]
	service  *expenses.Service
	receipts ReceiptStore
}

// NewExpenseHandler creates an expense handler.
func NewExpenseHandler(base *BaseHandler, service *expenses.Service, receipts ReceiptStore) *ExpenseHandler {
	return &ExpenseHandler{
		CatalogHandler: NewCatalogHandler(base, service.CatalogService, CatalogConfig{
			Name:       "expense",
			DateColumn: "expense_date",
			Filters:    map[string]string{"category": "category", "payment_mode": "payment_mode"},
			Readonly:   []string{"receipt_url"},
		}),
		service:  service,
		receipts: receipts,
	}
}

// Approve handles POST /expenses/:id/approve.
func (h *ExpenseHandler) Approve(c *gin.Context) {
	h.decide(c, h.service.Approve)
}

// Reject handles POST /expenses/:id/reject.
func (h *ExpenseHandler) Reject(c *gin.Context) {
	h.decide(c, h.service.Reject)
}

func (h *ExpenseHandler) decide(c *gin.Context, fn func(context.Context, id.ID) (*expenses.Expense, error)) {
	expenseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	e, err := fn(c.Request.Context(), expenseID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, e)
}

// UploadReceipt handles POST /expenses/:id/receipt with a multipart "file".
func (h *ExpenseHandler) UploadReceipt(c *gin.Context) {
	ctx := c.Request.Context()
	expenseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if h.receipts == nil {
		h.Error(c, apperror.NewBusinessRule(apperror.CodeBusinessRule, "receipt uploads are disabled"))
		return
	}
	existing, err := h.service.GetByID(ctx, expenseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		h.Error(c, apperror.NewValidation("file is required").WithDetail("field", "file"))
		return
	}
	file, err := header.Open()
	if err != nil {
		h.Error(c, apperror.NewValidation("cannot read uploaded file").WithCause(err))
		return
	}
	defer file.Close()

	url, err := h.receipts.SaveReceipt(ctx, file)
	if err != nil {
		h.Error(c, err)
		return
	}
	updated, err := h.service.AttachReceipt(ctx, expenseID, url)
	if err != nil {
		_ = h.receipts.Remove(url)
		h.Error(c, err)
		return
	}
	if existing.ReceiptURL != nil && *existing.ReceiptURL != url {
		if err := h.receipts.Remove(*existing.ReceiptURL); err != nil {
			logger.Warn(ctx, "old receipt not removed", "url", *existing.ReceiptURL, "error", err)
		}
	}
	h.OK(c, updated)
}

// RegisterRoutes mounts expense routes. approvers guard approve and reject.
func (h *ExpenseHandler) RegisterRoutes(group *gin.RouterGroup, approvers ...gin.HandlerFunc) {
	h.CatalogHandler.RegisterRoutes(group)
	group.POST("/:id/approve", guarded(approvers, h.Approve)...)
	group.POST("/:id/reject", guarded(approvers, h.Reject)...)
	group.POST("/:id/receipt", h.UploadReceipt)
}

// --- Tasks ---

// TaskHandler adds status changes to task CRUD.
type TaskHandler struct {
	*CatalogHandler[*tasks.Task]
	service *tasks.Service
}

// NewTaskHandler creates a task handler.
func NewTaskHandler(base *BaseHandler, service *tasks.Service) *TaskHandler {
	return &TaskHandler{
		CatalogHandler: NewCatalogHandler(base, service.CatalogService, CatalogConfig{
			Name:       "task",
			DateColumn: "due_date",
			Filters: map[string]string{
				"priority":    "priority",
				"assigned_to": "assigned_to",
				"module":      "module",
			},
		}),
		service: service,
	}
}

// ChangeStatus handles PATCH /tasks/:id/status.
func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	taskID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.StatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	t, err := h.service.ChangeStatus(c.Request.Context(), taskID, req.Status)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, t)
}

// RegisterRoutes mounts task routes.
func (h *TaskHandler) RegisterRoutes(group *gin.RouterGroup) {
	h.CatalogHandler.RegisterRoutes(group)
	group.PATCH("/:id/status", h.ChangeStatus)
}

// --- Insights ---

// InsightHandler adds acknowledge and dismiss to insight CRUD.
type InsightHandler struct {
	*CatalogHandler[*insights.Insight]
	service *insights.Service
}

// NewInsightHandler creates an insight handler.
func NewInsightHandler(base *BaseHandler, service *insights.Service) *InsightHandler {
	return &InsightHandler{
		CatalogHandler: NewCatalogHandler(base, service.CatalogService, CatalogConfig{
			Name:    "insight",
			Filters: map[string]string{"severity": "severity", "module": "module", "type": "type"},
		}),
		service: service,
	}
}

// Acknowledge handles POST /insights/:id/acknowledge.
func (h *InsightHandler) Acknowledge(c *gin.Context) {
	h.transition(c, h.service.Acknowledge)
}

// Dismiss handles POST /insights/:id/dismiss.
func (h *InsightHandler) Dismiss(c *gin.Context) {
	h.transition(c, h.service.Dismiss)
}

func (h *InsightHandler) transition(c *gin.Context, fn func(context.Context, id.ID) (*insights.Insight, error)) {
	insightID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	in, err := fn(c.Request.Context(), insightID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, in)
}

// RegisterRoutes mounts insight routes.
func (h *InsightHandler) RegisterRoutes(group *gin.RouterGroup) {
	h.CatalogHandler.RegisterRoutes(group)
	group.POST("/:id/acknowledge", h.Acknowledge)
	group.POST("/:id/dismiss", h.Dismiss)
}
