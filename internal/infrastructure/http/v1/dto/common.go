// Package dto provides the request and response shapes of the REST API.
package dto

import (
	"bizerp/internal/core/types"
)

// Response is the success envelope.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse is the failure envelope rendered by the error middleware.
type ErrorResponse struct {
	Success bool           `json:"success"`
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// ListResponse is the envelope of paginated lists.
type ListResponse struct {
	Success    bool  `json:"success"`
	Data       any   `json:"data"`
	TotalCount int64 `json:"total_count"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// ListQuery holds the common list query parameters.
type ListQuery struct {
	Search  string `form:"search"`
	Status  string `form:"status" binding:"omitempty,docstatus"`
	From    string `form:"from_date" binding:"omitempty,datetime=2006-01-02"`
	To      string `form:"to_date" binding:"omitempty,datetime=2006-01-02"`
	Limit   int    `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset  int    `form:"offset" binding:"omitempty,min=0"`
	OrderBy string `form:"order_by"`

	// Filter is a JSON array of filter items.
	Filter string `form:"filter"`
}

// StatusRequest changes a status.
type StatusRequest struct {
	Status string `json:"status" binding:"required,docstatus"`
}

// ReportQuery holds report parameters.
type ReportQuery struct {
	From   string `form:"from_date" binding:"omitempty,datetime=2006-01-02"`
	To     string `form:"to_date" binding:"omitempty,datetime=2006-01-02"`
	Status string `form:"status" binding:"omitempty,docstatus"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// DateRange parses from/to. Both are validated by binding already.
func DateRange(from, to string) (types.Date, types.Date) {
	var f, t types.Date
	if from != "" {
		f, _ = types.ParseDate(from)
	}
	if to != "" {
		t, _ = types.ParseDate(to)
	}
	return f, t
}
