// Package insights stores generated observations about the business, such
// as low stock or overdue bills, for users to acknowledge.
package insights

import (
	"context"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/entity"
)

// Insight severities.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Insight statuses.
const (
	StatusNew          = "new"
	StatusAcknowledged = "acknowledged"
	StatusDismissed    = "dismissed"
)

// Statuses is the insight status set.
var Statuses = []string{StatusNew, StatusAcknowledged, StatusDismissed}

// Insight is a single generated observation.
type Insight struct {
	entity.BaseEntity
	entity.OrgScoped

	Type     string `db:"type" json:"type"`
	Severity string `db:"severity" json:"severity"`
	Module   string `db:"module" json:"module"`
	Title    string `db:"title" json:"title"`
	Message  string `db:"message" json:"message"`
	Status   string `db:"status" json:"status"`
}

// Validate implements entity.Validatable.
func (i *Insight) Validate(ctx context.Context) error {
	if i.Title == "" {
		return apperror.NewValidation("title is required").WithDetail("field", "title")
	}
	if i.Type == "" {
		return apperror.NewValidation("type is required").WithDetail("field", "type")
	}
	if i.Severity == "" {
		i.Severity = SeverityInfo
	}
	switch i.Severity {
	case SeverityInfo, SeverityWarning, SeverityCritical:
	default:
		return apperror.NewValidation("unknown severity").WithDetail("field", "severity")
	}
	if i.Module == "" {
		i.Module = "general"
	}
	if i.Status == "" {
		i.Status = StatusNew
	}
	return nil
}
