package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"bizerp/internal/domain/reports"
	"bizerp/internal/infrastructure/http/v1/dto"
)

// ReportsHandler serves the summary reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

func (h *ReportsHandler) filter(c *gin.Context) (reports.Filter, bool) {
	var q dto.ReportQuery
	if !h.BindQuery(c, &q) {
		return reports.Filter{}, false
	}
	from, to := dto.DateRange(q.From, q.To)
	return reports.Filter{From: from, To: to, Status: q.Status, Limit: q.Limit}, true
}

// serve adapts a report getter to a gin handler.
func serve[T any](h *ReportsHandler, get func(context.Context, reports.Filter) (T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, ok := h.filter(c)
		if !ok {
			return
		}
		result, err := get(c.Request.Context(), f)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, result)
	}
}

// RegisterRoutes mounts report routes under /reports.
func (h *ReportsHandler) RegisterRoutes(group *gin.RouterGroup) {
	s := h.service
	group.GET("/dashboard", serve(h, s.GetDashboard))
	group.GET("/expenses/summary", serve(h, s.GetExpensesSummary))
	group.GET("/expenses/by-category", serve(h, s.GetExpensesByCategory))
	group.GET("/sales/summary", serve(h, s.GetSalesSummary))
	group.GET("/sales/by-status", serve(h, s.GetSalesByStatus))
	group.GET("/sales/top-customers", serve(h, s.GetTopCustomers))
	group.GET("/sales/top-items", serve(h, s.GetTopSellingItems))
	group.GET("/purchases/summary", serve(h, s.GetPurchasesSummary))
	group.GET("/bills/summary", serve(h, s.GetBillsSummary))
	group.GET("/payments/summary", serve(h, s.GetPaymentsSummary))
	group.GET("/tasks/summary", serve(h, s.GetTasksSummary))
	group.GET("/insights/summary", serve(h, s.GetInsightsSummary))
}
