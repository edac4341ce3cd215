// Package bins tracks stock per bin location. Bins store no quantity: the
// stock of an item in a bin is derived from append-only purchase and sale
// allocation ledgers.
package bins

import (
	"context"
	"time"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/entity"
	"bizerp/internal/core/id"
	"bizerp/internal/core/types"
)

// Bin statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Movement types in item history.
const (
	MovementPurchase = "purchase"
	MovementSale     = "sale"
)

// BinLocation is a physical storage location.
type BinLocation struct {
	entity.BaseEntity

	BinCode     string  `db:"bin_code" json:"bin_code"`
	Warehouse   string  `db:"warehouse" json:"warehouse"`
	Description *string `db:"description" json:"description"`
	Status      string  `db:"status" json:"status"`

	entity.OrgScoped
}

// Validate implements entity.Validatable.
func (b *BinLocation) Validate(ctx context.Context) error {
	if b.BinCode == "" {
		return apperror.NewValidation("bin code is required").WithDetail("field", "bin_code")
	}
	if b.Warehouse == "" {
		return apperror.NewValidation("warehouse is required").WithDetail("field", "warehouse")
	}
	if b.Status == "" {
		b.Status = StatusActive
	}
	if b.Status != StatusActive && b.Status != StatusInactive {
		return apperror.NewValidation("status must be active or inactive").WithDetail("field", "status")
	}
	return nil
}

// PurchaseAllocation puts part of a bill line into a bin.
type PurchaseAllocation struct {
	ID            id.ID     `db:"id" json:"id"`
	BinLocationID id.ID     `db:"bin_location_id" json:"bin_location_id"`
	BillItemID    id.ID     `db:"bill_item_id" json:"bill_item_id"`
	ItemID        id.ID     `db:"item_id" json:"item_id"`
	Quantity      float64   `db:"quantity" json:"quantity"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// SaleAllocation takes part of an invoice line out of a bin.
type SaleAllocation struct {
	ID            id.ID     `db:"id" json:"id"`
	BinLocationID id.ID     `db:"bin_location_id" json:"bin_location_id"`
	InvoiceItemID id.ID     `db:"invoice_item_id" json:"invoice_item_id"`
	ItemID        id.ID     `db:"item_id" json:"item_id"`
	Quantity      float64   `db:"quantity" json:"quantity"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Movement is a ledger row joined with its document line, document and item.
// Quantity is always positive; the ledger it came from gives the sign.
type Movement struct {
	BinLocationID   id.ID      `db:"bin_location_id"`
	ItemID          id.ID      `db:"item_id"`
	ItemName        string     `db:"item_name"`
	Quantity        float64    `db:"quantity"`
	ReferenceNumber string     `db:"reference_number"`
	ReferenceDate   types.Date `db:"reference_date"`
	CreatedAt       time.Time  `db:"created_at"`
}

// HistoryEntry is one signed movement in an item's bin history.
type HistoryEntry struct {
	Type            string     `json:"type"`
	ReferenceNumber string     `json:"reference_number"`
	ReferenceDate   types.Date `json:"reference_date"`
	Quantity        float64    `json:"quantity"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ItemStock is the positive net quantity of one item in a bin.
type ItemStock struct {
	ItemID   id.ID          `json:"item_id"`
	ItemName string         `json:"item_name"`
	Quantity float64        `json:"quantity"`
	History  []HistoryEntry `json:"history"`
}

// BinWithItems is a bin with every item it currently holds.
type BinWithItems struct {
	BinLocation
	Items []ItemStock `json:"items"`
}

// BinStock is the quantity of one item in one bin.
type BinStock struct {
	BinLocationID id.ID          `json:"bin_location_id"`
	BinCode       string         `json:"bin_code"`
	Warehouse     string         `json:"warehouse"`
	Quantity      float64        `json:"quantity"`
	History       []HistoryEntry `json:"history"`
}

// ItemBalance compares the ledger net of an item with its stored stock.
type ItemBalance struct {
	ItemID       id.ID   `db:"item_id" json:"item_id"`
	ItemName     string  `db:"item_name" json:"item_name"`
	LedgerNet    float64 `db:"ledger_net" json:"ledger_net"`
	CurrentStock float64 `db:"current_stock" json:"current_stock"`
}

// Difference is CurrentStock minus LedgerNet.
func (b ItemBalance) Difference() float64 {
	return b.CurrentStock - b.LedgerNet
}
