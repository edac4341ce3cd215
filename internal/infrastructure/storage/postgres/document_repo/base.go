// Package document_repo provides the PostgreSQL implementation of
// documents.Repository, shared by every document type.
package document_repo

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/Masterminds/squirrel"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/entity"
	"bizerp/internal/core/id"
	"bizerp/internal/domain"
	"bizerp/internal/domain/documents"
	"bizerp/internal/infrastructure/storage/postgres"
)

// Repo stores headers in def.Table and lines in def.LinesTable.
// Columns come from the db tags of D and L.
type Repo[D documents.Header[L], L documents.Line] struct {
	def        documents.Definition
	q          postgres.Querier
	headerCols []string
	lineCols   []string
	allowed    postgres.Columns
}

// New creates a document repository. q should resolve the connection from
// the context, e.g. postgres.ContextQuerier.
func New[D documents.Header[L], L documents.Line](q postgres.Querier, def documents.Definition) *Repo[D, L] {
	headerCols := postgres.ExtractDBColumns[D]()
	return &Repo[D, L]{
		def:        def,
		q:          q,
		headerCols: headerCols,
		lineCols:   postgres.ExtractDBColumns[L](),
		allowed:    postgres.NewColumns(headerCols),
	}
}

// Insert implements documents.Repository.
func (r *Repo[D, L]) Insert(ctx context.Context, doc D) error {
	data := postgres.Pick(postgres.StructToMap(doc), r.headerCols)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found on %s header", r.def.Name)
	}
	_, err := postgres.Exec(ctx, r.q, postgres.Builder().Insert(r.def.Table).SetMap(data),
		r.def.Name, "insert "+r.def.Name)
	return err
}

// Get implements documents.Repository.
func (r *Repo[D, L]) Get(ctx context.Context, docID id.ID) (D, error) {
	doc := newOf[D]()
	q := postgres.Builder().
		Select(r.headerCols...).
		From(r.def.Table).
		Where(squirrel.Eq{"id": docID}).
		Limit(1)
	if err := postgres.Get(ctx, r.q, doc, q, r.def.Name, "get "+r.def.Name); err != nil {
		var zero D
		if apperror.IsNotFound(err) {
			return zero, apperror.NewNotFound(r.def.Name, docID.String())
		}
		return zero, err
	}
	return doc, nil
}

// Patch implements documents.Repository. Unknown columns are ignored.
func (r *Repo[D, L]) Patch(ctx context.Context, docID id.ID, patch entity.Patch) error {
	set := make(map[string]any, len(patch))
	for col, v := range patch {
		if r.allowed.Has(col) && col != "updated_at" {
			set[col] = v
		}
	}
	q := postgres.Builder().
		Update(r.def.Table).
		SetMap(set).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": docID})

	n, err := postgres.Exec(ctx, r.q, q, r.def.Name, "update "+r.def.Name)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NewNotFound(r.def.Name, docID.String())
	}
	return nil
}

// Delete implements documents.Repository.
func (r *Repo[D, L]) Delete(ctx context.Context, docID id.ID) (bool, error) {
	n, err := postgres.Exec(ctx, r.q,
		postgres.Builder().Delete(r.def.Table).Where(squirrel.Eq{"id": docID}),
		r.def.Name, "delete "+r.def.Name)
	return n > 0, err
}

// Lines implements documents.Repository.
func (r *Repo[D, L]) Lines(ctx context.Context, docID id.ID) ([]L, error) {
	lines := []L{}
	q := postgres.Builder().
		Select(r.lineCols...).
		From(r.def.LinesTable).
		Where(squirrel.Eq{r.def.ForeignKey: docID}).
		OrderBy("id")
	if err := postgres.Select(ctx, r.q, &lines, q, r.def.Name+" line", "list "+r.def.LinesTable); err != nil {
		return nil, err
	}
	return lines, nil
}

// InsertLines implements documents.Repository with one multi-row INSERT.
func (r *Repo[D, L]) InsertLines(ctx context.Context, lines []L) error {
	if len(lines) == 0 {
		return nil
	}
	q := postgres.Builder().Insert(r.def.LinesTable).Columns(r.lineCols...)
	for _, l := range lines {
		q = q.Values(postgres.StructValues(l, r.lineCols)...)
	}
	_, err := postgres.Exec(ctx, r.q, q, r.def.Name+" line", "insert "+r.def.LinesTable)
	return err
}

// DeleteLines implements documents.Repository.
func (r *Repo[D, L]) DeleteLines(ctx context.Context, docID id.ID) error {
	_, err := postgres.Exec(ctx, r.q,
		postgres.Builder().Delete(r.def.LinesTable).Where(squirrel.Eq{r.def.ForeignKey: docID}),
		r.def.Name+" line", "delete "+r.def.LinesTable)
	return err
}

// List implements documents.Repository.
func (r *Repo[D, L]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[D], error) {
	return postgres.List[D](ctx, r.q, postgres.ListQuery{
		Table:         r.def.Table,
		Select:        r.headerCols,
		SearchColumns: r.def.SearchColumns,
		Allowed:       r.allowed,
		DefaultOrder:  "date DESC, created_at DESC",
		Entity:        r.def.Name,
	}, filter)
}

// Orphans implements documents.Repository.
func (r *Repo[D, L]) Orphans(ctx context.Context, cutoff time.Time) ([]id.ID, error) {
	var ids []id.ID
	sub := fmt.Sprintf("NOT EXISTS (SELECT 1 FROM %s l WHERE l.%s = h.id)", r.def.LinesTable, r.def.ForeignKey)
	q := postgres.Builder().
		Select("h.id").
		From(r.def.Table + " h").
		Where(squirrel.Lt{"h.created_at": cutoff}).
		Where(sub).
		OrderBy("h.created_at")
	if err := postgres.Select(ctx, r.q, &ids, q, r.def.Name, "find orphan "+r.def.Table); err != nil {
		return nil, err
	}
	return ids, nil
}

func newOf[T any]() T {
	var zero T
	t := reflect.TypeOf(zero)
	if t != nil && t.Kind() == reflect.Ptr {
		return reflect.New(t.Elem()).Interface().(T)
	}
	return zero
}
