// Package numerator implements core/numerator.Generator on PostgreSQL.
package numerator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	corenumerator "bizerp/internal/core/numerator"
)

// Querier is the subset of pgx used by the service.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Service allocates document numbers.
//
// The querier should resolve the connection from the context (see
// postgres.ContextQuerier) so a strict allocation made inside a document
// transaction is rolled back together with the document.
type Service struct {
	q Querier
}

var _ corenumerator.Generator = (*Service)(nil)

// New creates a numerator service.
func New(q Querier) *Service {
	return &Service{q: q}
}

// Next implements corenumerator.Generator.
func (s *Service) Next(ctx context.Context, cfg corenumerator.Config) (string, error) {
	switch cfg.Strategy {
	case corenumerator.StrategyScanLatest:
		latest, err := s.latest(ctx, cfg)
		if err != nil {
			return "", err
		}
		return corenumerator.NextAfterLatest(cfg, latest), nil
	case corenumerator.StrategyScanMax:
		values, err := s.recent(ctx, cfg, cfg.Window())
		if err != nil {
			return "", err
		}
		return corenumerator.NextAfterMax(cfg, values), nil
	default:
		n, err := s.increment(ctx, cfg)
		if err != nil {
			return "", err
		}
		return corenumerator.Format(cfg, n), nil
	}
}

// Peek implements corenumerator.Generator.
func (s *Service) Peek(ctx context.Context, cfg corenumerator.Config) (string, error) {
	if cfg.Strategy != corenumerator.StrategyStrict {
		return s.Next(ctx, cfg)
	}

	var current int64
	err := s.q.QueryRow(ctx,
		`SELECT current_val FROM sys_sequences WHERE key = $1`,
		cfg.SequenceKey(),
	).Scan(&current)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("peek %s: %w", cfg.SequenceKey(), err)
	}
	return corenumerator.Format(cfg, current+1), nil
}

// Sync implements corenumerator.Generator.
// The counter never moves backwards.
func (s *Service) Sync(ctx context.Context, cfg corenumerator.Config) (int64, error) {
	rows, err := s.q.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE %s LIKE $1`, ident(cfg.Column), ident(cfg.Table), ident(cfg.Column)),
		likePrefix(cfg.Prefix),
	)
	if err != nil {
		return 0, fmt.Errorf("sync %s: %w", cfg.Table, err)
	}
	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return 0, fmt.Errorf("sync %s: %w", cfg.Table, err)
	}

	var current int64
	err = s.q.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = GREATEST(sys_sequences.current_val, EXCLUDED.current_val)
		RETURNING current_val
	`, cfg.SequenceKey(), corenumerator.MaxSuffix(cfg, values)).Scan(&current)
	if err != nil {
		return 0, fmt.Errorf("sync %s: %w", cfg.SequenceKey(), err)
	}
	return current, nil
}

func (s *Service) increment(ctx context.Context, cfg corenumerator.Config) (int64, error) {
	var n int64
	err := s.q.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
		RETURNING current_val
	`, cfg.SequenceKey()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next %s: %w", cfg.SequenceKey(), err)
	}
	return n, nil
}

func (s *Service) latest(ctx context.Context, cfg corenumerator.Config) (*string, error) {
	values, err := s.recent(ctx, cfg, 1)
	if err != nil || len(values) == 0 {
		return nil, err
	}
	return &values[0], nil
}

func (s *Service) recent(ctx context.Context, cfg corenumerator.Config, limit int) ([]string, error) {
	rows, err := s.q.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE %s IS NOT NULL ORDER BY created_at DESC LIMIT $1`,
			ident(cfg.Column), ident(cfg.Table), ident(cfg.Column)),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", cfg.Table, err)
	}
	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", cfg.Table, err)
	}
	return values, nil
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func likePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix) + "%"
}
