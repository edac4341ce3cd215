// Package documents implements the transactional writer shared by every
// numbered document type: header and lines are stored together, numbers are
// allocated on demand and side effects run either inside the transaction or
// after commit.
package documents

import (
	"context"
	"slices"

	"bizerp/internal/core/entity"
	"bizerp/internal/core/id"
	"bizerp/internal/core/numerator"
)

// Definition describes one document type.
type Definition struct {
	// Name is used in error messages, e.g. "bill".
	Name string

	Table      string
	LinesTable string

	// ForeignKey is the line column referencing the header, e.g. "bill_id".
	ForeignKey string

	Numbering numerator.Config

	// NumberKey is the response key of the generate endpoint, e.g. "bill_number".
	NumberKey string

	// RequireLines rejects headers without line items on create.
	RequireLines bool

	// Required columns cannot be blanked by an update.
	Required []string

	Statuses      []string
	DefaultStatus string

	// VoidStatuses withdraw the document's in-transaction effects, so a
	// voided payment no longer settles its bills.
	VoidStatuses []string

	// CounterpartColumn is vendor_id or customer_id; empty when the type has none.
	CounterpartColumn string

	// SearchColumns are matched by the list search term.
	SearchColumns []string

	// OrganizationID is stamped on every new header.
	OrganizationID id.ID
}

// HasStatus reports whether status belongs to the type's status set.
func (d Definition) HasStatus(status string) bool {
	return slices.Contains(d.Statuses, status)
}

// IsVoid reports whether status withdraws the document's effects.
func (d Definition) IsVoid(status string) bool {
	return slices.Contains(d.VoidStatuses, status)
}

// WithOrganization returns a copy bound to an organization.
func (d Definition) WithOrganization(orgID id.ID) Definition {
	d.OrganizationID = orgID
	return d
}

// WithStrategy returns a copy numbering with strategy.
func (d Definition) WithStrategy(strategy numerator.Strategy) Definition {
	d.Numbering.Strategy = strategy
	return d
}

// Header is the constraint of document header types (pointer types).
type Header[L Line] interface {
	entity.Validatable
	Doc() *entity.Document
	GetLines() []L
	SetLines(lines []L)
}

// Line is the constraint of document line types (pointer types).
type Line interface {
	ValidateLine(index int) error
	PrepareLine()
	GetLineID() id.ID
	SetDocumentID(docID id.ID)
}

// Normalizer is implemented by headers that derive fields before insert,
// such as the balance of payable documents.
type Normalizer interface {
	Normalize()
}

// Effect is a side effect that runs inside the document transaction.
// Apply runs after lines are written; Revert runs before they are removed
// and receives the document with its previous lines.
type Effect[D any] interface {
	Apply(ctx context.Context, doc D) error
	Revert(ctx context.Context, doc D) error
}

// Options binds a definition to deployment settings.
type Options struct {
	OrganizationID id.ID
	Strategy       numerator.Strategy
}

// Bind returns a copy of d configured with opts.
func (d Definition) Bind(opts Options) Definition {
	return d.WithOrganization(opts.OrganizationID).WithStrategy(opts.Strategy)
}
