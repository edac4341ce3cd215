// Package pos_repo provides the PostgreSQL POS session store.
package pos_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/id"
	"bizerp/internal/domain"
	"bizerp/internal/domain/pos"
	"bizerp/internal/infrastructure/storage/postgres"
)

const sessionsTable = "pos_sessions"

var sessionColumns = postgres.ExtractDBColumns[pos.Session]()

// SessionRepo implements pos.Repository.
type SessionRepo struct {
	q       postgres.Querier
	allowed postgres.Columns
}

var _ pos.Repository = (*SessionRepo)(nil)

// NewSessionRepo creates a POS session repository.
func NewSessionRepo(q postgres.Querier) *SessionRepo {
	return &SessionRepo{q: q, allowed: postgres.NewColumns(sessionColumns)}
}

// Insert implements pos.Repository. A second open session for the same user
// violates pos_sessions_one_open_per_user and maps to a conflict.
func (r *SessionRepo) Insert(ctx context.Context, s *pos.Session) error {
	data := postgres.Pick(postgres.StructToMap(s), sessionColumns)
	_, err := postgres.Exec(ctx, r.q, postgres.Builder().Insert(sessionsTable).SetMap(data),
		"pos session", "insert pos session")
	return err
}

// Get implements pos.Repository.
func (r *SessionRepo) Get(ctx context.Context, sessionID id.ID) (*pos.Session, error) {
	return r.one(ctx, squirrel.Eq{"id": sessionID})
}

// OpenFor implements pos.Repository.
func (r *SessionRepo) OpenFor(ctx context.Context, userID id.ID) (*pos.Session, error) {
	return r.one(ctx, squirrel.Eq{"opened_by": userID, "status": pos.StatusOpen})
}

func (r *SessionRepo) one(ctx context.Context, where squirrel.Eq) (*pos.Session, error) {
	var s pos.Session
	q := postgres.Builder().Select(sessionColumns...).From(sessionsTable).Where(where).Limit(1)
	if err := postgres.Get(ctx, r.q, &s, q, "pos session", "get pos session"); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save implements pos.Repository.
func (r *SessionRepo) Save(ctx context.Context, s *pos.Session) error {
	n, err := postgres.Exec(ctx, r.q, saveQuery(s), "pos session", "close pos session")
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NewNotFound("pos session", s.ID.String())
	}
	return nil
}

func saveQuery(s *pos.Session) squirrel.UpdateBuilder {
	return postgres.Builder().
		Update(sessionsTable).
		SetMap(map[string]any{
			"closing_cash": s.ClosingCash,
			"total_sales":  s.TotalSales,
			"order_count":  s.OrderCount,
			"status":       s.Status,
			"closed_at":    s.ClosedAt,
			"notes":        s.Notes,
			"updated_at":   s.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": s.ID})
}

// List implements pos.Repository.
func (r *SessionRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*pos.Session], error) {
	return postgres.List[*pos.Session](ctx, r.q, postgres.ListQuery{
		Table:         sessionsTable,
		Select:        sessionColumns,
		SearchColumns: []string{"session_number"},
		Allowed:       r.allowed,
		DefaultOrder:  "opened_at DESC",
		Entity:        "pos session",
	}, filter)
}
