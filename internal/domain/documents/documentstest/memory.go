// Package documentstest provides an in-memory document repository for tests.
package documentstest

import (
	"context"
	"reflect"
	"sort"
	"sync"
	"time"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/entity"
	"bizerp/internal/core/id"
	"bizerp/internal/domain"
	"bizerp/internal/domain/documents"
)

// MemoryRepo is a documents.Repository backed by maps.
// Columns are resolved through db struct tags, like the SQL repository.
type MemoryRepo[D documents.Header[L], L documents.Line] struct {
	def documents.Definition

	mu      sync.Mutex
	headers map[id.ID]D
	order   []id.ID
	lines   map[id.ID][]L

	// FailInsertLines makes InsertLines fail with the given error.
	FailInsertLines error
}

// NewMemoryRepo creates an empty repository for def.
func NewMemoryRepo[D documents.Header[L], L documents.Line](def documents.Definition) *MemoryRepo[D, L] {
	return &MemoryRepo[D, L]{
		def:     def,
		headers: make(map[id.ID]D),
		lines:   make(map[id.ID][]L),
	}
}

// Insert implements documents.Repository.
func (r *MemoryRepo[D, L]) Insert(ctx context.Context, doc D) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range r.headers {
		if h.Doc().Number == doc.Doc().Number {
			return apperror.NewDuplicate(r.def.Name, r.def.Numbering.Column, doc.Doc().Number)
		}
	}
	stored := clone(doc)
	stored.SetLines(nil)
	r.headers[doc.Doc().ID] = stored
	r.order = append(r.order, doc.Doc().ID)
	return nil
}

// Get implements documents.Repository.
func (r *MemoryRepo[D, L]) Get(ctx context.Context, docID id.ID) (D, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.headers[docID]
	if !ok {
		var zero D
		return zero, apperror.NewNotFound(r.def.Name, docID)
	}
	return clone(h), nil
}

// Patch implements documents.Repository.
func (r *MemoryRepo[D, L]) Patch(ctx context.Context, docID id.ID, patch entity.Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.headers[docID]
	if !ok {
		return apperror.NewNotFound(r.def.Name, docID)
	}
	if err := entity.ApplyPatch(h, patch); err != nil {
		return err
	}
	h.Doc().Touch()
	return nil
}

// Delete implements documents.Repository.
func (r *MemoryRepo[D, L]) Delete(ctx context.Context, docID id.ID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.headers[docID]
	delete(r.headers, docID)
	return ok, nil
}

// Lines implements documents.Repository.
func (r *MemoryRepo[D, L]) Lines(ctx context.Context, docID id.ID) ([]L, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]L, 0, len(r.lines[docID]))
	for _, l := range r.lines[docID] {
		out = append(out, clone(l))
	}
	return out, nil
}

// InsertLines implements documents.Repository.
func (r *MemoryRepo[D, L]) InsertLines(ctx context.Context, lines []L) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailInsertLines != nil {
		return r.FailInsertLines
	}
	for _, l := range lines {
		docID := r.lineDocumentID(l)
		r.lines[docID] = append(r.lines[docID], clone(l))
	}
	return nil
}

// DeleteLines implements documents.Repository.
func (r *MemoryRepo[D, L]) DeleteLines(ctx context.Context, docID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lines, docID)
	return nil
}

// List implements documents.Repository. Only paging is honoured.
func (r *MemoryRepo[D, L]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[D], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]D, 0, len(r.headers))
	for _, docID := range r.order {
		if h, ok := r.headers[docID]; ok {
			items = append(items, clone(h))
		}
	}
	total := int64(len(items))
	if filter.Offset < len(items) {
		items = items[filter.Offset:]
	} else {
		items = items[:0]
	}
	if filter.Limit > 0 && filter.Limit < len(items) {
		items = items[:filter.Limit]
	}
	return domain.ListResult[D]{Items: items, TotalCount: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

// Orphans implements documents.Repository.
func (r *MemoryRepo[D, L]) Orphans(ctx context.Context, cutoff time.Time) ([]id.ID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []id.ID
	for docID, h := range r.headers {
		if len(r.lines[docID]) == 0 && h.Doc().CreatedAt.Before(cutoff) {
			out = append(out, docID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}

// Headers returns the number of stored headers.
func (r *MemoryRepo[D, L]) Headers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.headers)
}

// LineCount returns the number of stored lines of docID.
func (r *MemoryRepo[D, L]) LineCount(docID id.ID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lines[docID])
}

func (r *MemoryRepo[D, L]) lineDocumentID(l L) id.ID {
	f := entity.FieldByColumn(reflect.ValueOf(l).Elem(), r.def.ForeignKey)
	if !f.IsValid() {
		return id.Nil()
	}
	return f.Interface().(id.ID)
}

func clone[T any](v T) T {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return v
	}
	c := reflect.New(rv.Elem().Type())
	c.Elem().Set(rv.Elem())
	return c.Interface().(T)
}
