package delivery_challan

import (
	"bizerp/internal/core/numerator"
	"bizerp/internal/domain/documents"
)

// Definition describes delivery challan storage and numbering.
var Definition = documents.Definition{
	Name:       "delivery challan",
	Table:      "delivery_challans",
	LinesTable: "delivery_challan_items",
	ForeignKey: "delivery_challan_id",
	Numbering: numerator.Config{
		Prefix:   "DC-",
		PadWidth: 5,
		Table:    "delivery_challans",
		Column:   "number",
	},
	NumberKey:    "challan_number",
	RequireLines: true,
	Required:     []string{"customer_name", "date"},
	Statuses: []string{
		StatusDraft, StatusDispatched, StatusDelivered,
		StatusReturned, StatusCancelled,
	},
	DefaultStatus:     StatusDraft,
	CounterpartColumn: "customer_id",
	SearchColumns:     []string{"number", "customer_name"},
}
