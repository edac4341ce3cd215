package bill

import (
	"bizerp/internal/core/numerator"
	"bizerp/internal/domain/documents"
)

// Definition describes bill storage and numbering.
var Definition = documents.Definition{
	Name:       "bill",
	Table:      "bills",
	LinesTable: "bill_items",
	ForeignKey: "bill_id",
	Numbering: numerator.Config{
		Prefix:   "BILL-",
		PadWidth: 4,
		Table:    "bills",
		Column:   "number",
	},
	NumberKey:    "bill_number",
	RequireLines: true,
	Required:     []string{"vendor_name", "date"},
	Statuses: []string{
		StatusDraft, StatusOpen, StatusPartiallyPaid,
		StatusPaid, StatusOverdue, StatusVoid,
	},
	DefaultStatus:     StatusOpen,
	CounterpartColumn: "vendor_id",
	SearchColumns:     []string{"number", "vendor_name"},
}
