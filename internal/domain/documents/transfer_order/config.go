package transfer_order

import (
	"bizerp/internal/core/numerator"
	"bizerp/internal/domain/documents"
)

// Definition describes transfer order storage and numbering.
var Definition = documents.Definition{
	Name:       "transfer order",
	Table:      "transfer_orders",
	LinesTable: "transfer_order_items",
	ForeignKey: "transfer_order_id",
	Numbering: numerator.Config{
		Prefix:   "TO-",
		PadWidth: 4,
		Table:    "transfer_orders",
		Column:   "number",
	},
	NumberKey:     "transfer_order_number",
	RequireLines:  true,
	Required:      []string{"from_warehouse", "to_warehouse", "date"},
	Statuses:      []string{StatusDraft, StatusInTransit, StatusReceived, StatusCancelled},
	DefaultStatus: StatusDraft,
	SearchColumns: []string{"number", "from_warehouse", "to_warehouse"},
}
