package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"bizerp/internal/core/apperror"
	"bizerp/internal/domain"
	"bizerp/internal/domain/filter"
)

// Builder returns a squirrel builder with PostgreSQL placeholders.
func Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Columns is a column whitelist used for filters and ordering.
type Columns map[string]struct{}

// NewColumns builds a whitelist from column lists.
func NewColumns(lists ...[]string) Columns {
	c := make(Columns)
	for _, list := range lists {
		for _, col := range list {
			c[col] = struct{}{}
		}
	}
	return c
}

// Has reports whether col is whitelisted.
func (c Columns) Has(col string) bool {
	_, ok := c[col]
	return ok
}

// ApplyFilters adds every condition of items to q. Columns outside allowed
// are rejected with a validation error.
func ApplyFilters(q squirrel.SelectBuilder, items []filter.Item, allowed Columns) (squirrel.SelectBuilder, error) {
	for _, item := range items {
		if !allowed.Has(item.Field) {
			return q, apperror.NewValidation("invalid filter column").WithDetail("field", item.Field)
		}

		switch item.Operator {
		case filter.Equal, filter.InList:
			q = q.Where(squirrel.Eq{item.Field: item.Value})
		case filter.NotEqual:
			q = q.Where(squirrel.NotEq{item.Field: item.Value})
		case filter.LessOrEqual:
			q = q.Where(squirrel.LtOrEq{item.Field: item.Value})
		case filter.GreaterOrEqual:
			q = q.Where(squirrel.GtOrEq{item.Field: item.Value})
		case filter.Less:
			q = q.Where(squirrel.Lt{item.Field: item.Value})
		case filter.Greater:
			q = q.Where(squirrel.Gt{item.Field: item.Value})
		case filter.IsNull:
			q = q.Where(squirrel.Eq{item.Field: nil})
		case filter.IsNotNull:
			q = q.Where(squirrel.NotEq{item.Field: nil})
		case filter.Contains:
			q = q.Where(squirrel.ILike{item.Field: fmt.Sprintf("%%%v%%", item.Value)})
		default:
			return q, apperror.NewValidation("invalid filter operator").WithDetail("operator", string(item.Operator))
		}
	}
	return q, nil
}

// ApplySearch matches term case-insensitively against any of cols.
func ApplySearch(q squirrel.SelectBuilder, term string, cols []string) squirrel.SelectBuilder {
	term = strings.TrimSpace(term)
	if term == "" || len(cols) == 0 {
		return q
	}
	pattern := "%" + term + "%"
	or := make(squirrel.Or, 0, len(cols))
	for _, col := range cols {
		or = append(or, squirrel.ILike{col: pattern})
	}
	return q.Where(or)
}

// ParseOrderBy turns "-field" or "field" into an ORDER BY clause.
// An empty value gives def.
func ParseOrderBy(orderBy string, allowed Columns, def string) (string, error) {
	if strings.TrimSpace(orderBy) == "" {
		return def, nil
	}

	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else if strings.HasPrefix(orderBy, "+") {
		field = strings.TrimPrefix(orderBy, "+")
	}

	field = strings.TrimSpace(field)
	if field == "" || !allowed.Has(field) {
		return "", apperror.NewValidation("invalid order_by").WithDetail("order_by", orderBy)
	}
	return field + " " + direction, nil
}

// ListQuery describes one paged list request.
type ListQuery struct {
	Table         string
	Select        []string
	SearchColumns []string
	Allowed       Columns
	DefaultOrder  string
	Entity        string
}

// List counts and selects the rows of lq matching f into a ListResult.
func List[T any](ctx context.Context, q Querier, lq ListQuery, f domain.ListFilter) (domain.ListResult[T], error) {
	result := domain.ListResult[T]{Limit: f.Limit, Offset: f.Offset, Items: []T{}}

	sel := Builder().Select(lq.Select...).From(lq.Table)
	sel = ApplySearch(sel, f.Search, lq.SearchColumns)
	sel, err := ApplyFilters(sel, f.Filters, lq.Allowed)
	if err != nil {
		return result, err
	}

	countSQL, countArgs, err := Builder().Select("COUNT(*)").FromSelect(sel, "sub").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, MapError(err, lq.Entity, "count "+lq.Table)
	}

	orderBy, err := ParseOrderBy(f.OrderBy, lq.Allowed, lq.DefaultOrder)
	if err != nil {
		return result, err
	}
	sel = sel.OrderBy(orderBy)
	if f.Limit > 0 {
		sel = sel.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		sel = sel.Offset(uint64(f.Offset))
	}

	sql, args, err := sel.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, q, &result.Items, sql, args...); err != nil {
		return result, MapError(err, lq.Entity, "list "+lq.Table)
	}
	return result, nil
}

// Exec builds and runs a statement, returning the affected row count.
func Exec(ctx context.Context, q Querier, b squirrel.Sqlizer, entity, op string) (int64, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build %s: %w", op, err)
	}
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, MapError(err, entity, op)
	}
	return tag.RowsAffected(), nil
}

// Get builds a query and scans one row into dst.
func Get(ctx context.Context, q Querier, dst any, b squirrel.Sqlizer, entity, op string) error {
	sql, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build %s: %w", op, err)
	}
	if err := pgxscan.Get(ctx, q, dst, sql, args...); err != nil {
		return MapError(err, entity, op)
	}
	return nil
}

// Select builds a query and scans every row into dst.
func Select(ctx context.Context, q Querier, dst any, b squirrel.Sqlizer, entity, op string) error {
	sql, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build %s: %w", op, err)
	}
	if err := pgxscan.Select(ctx, q, dst, sql, args...); err != nil {
		return MapError(err, entity, op)
	}
	return nil
}

// Pick keeps the entries of data whose keys are in cols.
func Pick(data map[string]any, cols []string) map[string]any {
	out := make(map[string]any, len(cols))
	for _, col := range cols {
		if v, ok := data[col]; ok {
			out[col] = v
		}
	}
	return out
}
