package dto

import (
	"bizerp/internal/core/id"
	"bizerp/internal/core/types"
)

// PurchaseAllocationRequest puts part of a bill line into a bin.
type PurchaseAllocationRequest struct {
	BinLocationID id.ID   `json:"bin_location_id" binding:"required"`
	BillItemID    id.ID   `json:"bill_item_id" binding:"required"`
	ItemID        id.ID   `json:"item_id" binding:"required"`
	Quantity      float64 `json:"quantity" binding:"required,gt=0"`
}

// SaleAllocationRequest takes part of an invoice line out of a bin.
type SaleAllocationRequest struct {
	BinLocationID id.ID   `json:"bin_location_id" binding:"required"`
	InvoiceItemID id.ID   `json:"invoice_item_id" binding:"required"`
	ItemID        id.ID   `json:"item_id" binding:"required"`
	Quantity      float64 `json:"quantity" binding:"required,gt=0"`
}

// OpenSessionRequest opens a POS session.
type OpenSessionRequest struct {
	OpeningCash types.Money `json:"opening_cash"`
	Notes       *string     `json:"notes"`
}

// CloseSessionRequest closes a POS session.
type CloseSessionRequest struct {
	ClosingCash types.Money `json:"closing_cash"`
	TotalSales  types.Money `json:"total_sales"`
	OrderCount  int         `json:"order_count" binding:"min=0"`
	Notes       *string     `json:"notes"`
}

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
}
