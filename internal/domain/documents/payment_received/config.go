package payment_received

import (
	"bizerp/internal/core/numerator"
	"bizerp/internal/domain/documents"
)

// Definition describes received payment storage and numbering.
var Definition = documents.Definition{
	Name:       "payment received",
	Table:      "payments_received",
	LinesTable: "payment_received_allocations",
	ForeignKey: "payment_received_id",
	Numbering: numerator.Config{
		Prefix:   "PR-",
		PadWidth: 5,
		Table:    "payments_received",
		Column:   "number",
	},
	NumberKey:         "payment_number",
	Required:          []string{"customer_name", "date", "payment_mode"},
	Statuses:          []string{StatusDraft, StatusCompleted, StatusVoid},
	DefaultStatus:     StatusCompleted,
	VoidStatuses:      []string{StatusVoid},
	CounterpartColumn: "customer_id",
	SearchColumns:     []string{"number", "customer_name", "reference"},
}
