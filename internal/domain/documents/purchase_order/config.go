package purchase_order

import (
	"bizerp/internal/core/numerator"
	"bizerp/internal/domain/documents"
)

// Definition describes purchase order storage and numbering.
var Definition = documents.Definition{
	Name:       "purchase order",
	Table:      "purchase_orders",
	LinesTable: "purchase_order_items",
	ForeignKey: "purchase_order_id",
	Numbering: numerator.Config{
		Prefix:   "PO-",
		PadWidth: 5,
		Table:    "purchase_orders",
		Column:   "number",
	},
	NumberKey:    "purchase_order_number",
	RequireLines: true,
	Required:     []string{"vendor_name", "date"},
	Statuses: []string{
		StatusDraft, StatusIssued, StatusPartiallyReceived,
		StatusReceived, StatusBilled, StatusCancelled,
	},
	DefaultStatus:     StatusDraft,
	CounterpartColumn: "vendor_id",
	SearchColumns:     []string{"number", "vendor_name"},
}
