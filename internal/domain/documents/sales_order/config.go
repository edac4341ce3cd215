package sales_order

import (
	"bizerp/internal/core/numerator"
	"bizerp/internal/domain/documents"
)

// Definition describes sales order storage and numbering.
var Definition = documents.Definition{
	Name:       "sales order",
	Table:      "sales_orders",
	LinesTable: "sales_order_items",
	ForeignKey: "sales_order_id",
	Numbering: numerator.Config{
		Prefix:   "SO-",
		PadWidth: 5,
		Table:    "sales_orders",
		Column:   "number",
	},
	NumberKey:    "sales_order_number",
	RequireLines: true,
	Required:     []string{"customer_name", "date"},
	Statuses: []string{
		StatusDraft, StatusConfirmed, StatusPartiallyShipped,
		StatusShipped, StatusInvoiced, StatusCancelled,
	},
	DefaultStatus:     StatusDraft,
	CounterpartColumn: "customer_id",
	SearchColumns:     []string{"number", "customer_name"},
}
