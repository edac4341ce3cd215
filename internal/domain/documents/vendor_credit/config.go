package vendor_credit

import (
	"bizerp/internal/core/numerator"
	"bizerp/internal/domain/documents"
)

// Definition describes vendor credit storage and numbering.
var Definition = documents.Definition{
	Name:       "vendor credit",
	Table:      "vendor_credits",
	LinesTable: "vendor_credit_items",
	ForeignKey: "vendor_credit_id",
	Numbering: numerator.Config{
		Prefix:   "VC-",
		PadWidth: 5,
		Table:    "vendor_credits",
		Column:   "number",
	},
	NumberKey:         "vendor_credit_number",
	Required:          []string{"vendor_name", "date"},
	Statuses:          []string{StatusDraft, StatusOpen, StatusApplied, StatusVoid},
	DefaultStatus:     StatusOpen,
	CounterpartColumn: "vendor_id",
	SearchColumns:     []string{"number", "vendor_name"},
}
