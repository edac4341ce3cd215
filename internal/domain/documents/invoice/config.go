package invoice

import (
	"bizerp/internal/core/numerator"
	"bizerp/internal/domain/documents"
)

// Definition describes invoice storage and numbering.
var Definition = documents.Definition{
	Name:       "invoice",
	Table:      "invoices",
	LinesTable: "invoice_items",
	ForeignKey: "invoice_id",
	Numbering: numerator.Config{
		Prefix:   "INV-",
		PadWidth: 5,
		Table:    "invoices",
		Column:   "number",
	},
	NumberKey:    "invoice_number",
	RequireLines: true,
	Required:     []string{"customer_name", "date"},
	Statuses: []string{
		StatusDraft, StatusSent, StatusPartiallyPaid,
		StatusPaid, StatusOverdue, StatusVoid,
	},
	DefaultStatus:     StatusSent,
	CounterpartColumn: "customer_id",
	SearchColumns:     []string{"number", "customer_name"},
}
