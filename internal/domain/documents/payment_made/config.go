package payment_made

import (
	"bizerp/internal/core/numerator"
	"bizerp/internal/domain/documents"
)

// Definition describes payment storage and numbering.
var Definition = documents.Definition{
	Name:       "payment made",
	Table:      "payments_made",
	LinesTable: "payment_made_allocations",
	ForeignKey: "payment_made_id",
	Numbering: numerator.Config{
		Prefix:   "PAY-",
		PadWidth: 5,
		Table:    "payments_made",
		Column:   "number",
	},
	NumberKey:         "payment_number",
	Required:          []string{"vendor_name", "date", "payment_mode"},
	Statuses:          []string{StatusDraft, StatusCompleted, StatusVoid},
	DefaultStatus:     StatusCompleted,
	VoidStatuses:      []string{StatusVoid},
	CounterpartColumn: "vendor_id",
	SearchColumns:     []string{"number", "vendor_name", "reference"},
}
