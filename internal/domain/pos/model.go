// Package pos manages point-of-sale cash sessions.
package pos

import (
	"context"
	"time"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/entity"
	"bizerp/internal/core/id"
	"bizerp/internal/core/numerator"
	"bizerp/internal/core/types"
)

// Session statuses.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Numbering is the session numbering configuration. Peek and Sync always
// scan the recent window; Next follows the configured strategy.
var Numbering = numerator.Config{
	Prefix:   "SE1-",
	PadWidth: 3,
	Table:    "pos_sessions",
	Column:   "session_number",
	Strategy: numerator.StrategyStrict,
}

// Session is one cash drawer shift.
type Session struct {
	entity.BaseEntity
	entity.OrgScoped

	SessionNumber string       `db:"session_number" json:"session_number"`
	OpenedBy      id.ID        `db:"opened_by" json:"opened_by"`
	OpeningCash   types.Money  `db:"opening_cash" json:"opening_cash"`
	ClosingCash   *types.Money `db:"closing_cash" json:"closing_cash"`
	TotalSales    types.Money  `db:"total_sales" json:"total_sales"`
	OrderCount    int          `db:"order_count" json:"order_count"`
	Status        string       `db:"status" json:"status"`
	OpenedAt      time.Time    `db:"opened_at" json:"opened_at"`
	ClosedAt      *time.Time   `db:"closed_at" json:"closed_at"`
	Notes         *string      `db:"notes" json:"notes"`
}

// Validate implements entity.Validatable.
func (s *Session) Validate(ctx context.Context) error {
	if id.IsNil(s.OpenedBy) {
		return apperror.NewValidation("opened_by is required").WithDetail("field", "opened_by")
	}
	if s.OpeningCash.IsNegative() {
		return apperror.NewValidation("opening cash cannot be negative").WithDetail("field", "opening_cash")
	}
	return nil
}

// IsOpen reports whether the session still accepts sales.
func (s *Session) IsOpen() bool {
	return s.Status == StatusOpen
}

// CloseInput carries the totals recorded when a session closes.
type CloseInput struct {
	ClosingCash types.Money `json:"closing_cash"`
	TotalSales  types.Money `json:"total_sales"`
	OrderCount  int         `json:"order_count" binding:"gte=0"`
	Notes       *string     `json:"notes"`
}

// Close moves the session to closed at now.
func (s *Session) Close(in CloseInput, now time.Time) error {
	if !s.IsOpen() {
		return apperror.NewBusinessRule(apperror.CodeSessionClosed, "session is already closed").
			WithDetail("session_number", s.SessionNumber)
	}
	if in.ClosingCash.IsNegative() || in.TotalSales.IsNegative() {
		return apperror.NewValidation("closing amounts cannot be negative")
	}
	closing := in.ClosingCash
	s.ClosingCash = &closing
	s.TotalSales = in.TotalSales
	s.OrderCount = in.OrderCount
	if in.Notes != nil {
		s.Notes = in.Notes
	}
	s.Status = StatusClosed
	s.ClosedAt = &now
	s.Touch()
	return nil
}
