package documents

import (
	"context"
	"time"

	"bizerp/internal/core/entity"
	"bizerp/internal/core/id"
	"bizerp/internal/domain"
)

// Repository stores document headers and their lines.
type Repository[D Header[L], L Line] interface {
	// Insert writes the header only.
	Insert(ctx context.Context, doc D) error

	// Get returns the header without lines, or a not-found AppError.
	Get(ctx context.Context, docID id.ID) (D, error)

	// Patch writes the columns in patch and touches updated_at.
	// It returns a not-found AppError when no row matched.
	Patch(ctx context.Context, docID id.ID, patch entity.Patch) error

	// Delete removes the header and reports whether it existed.
	Delete(ctx context.Context, docID id.ID) (bool, error)

	Lines(ctx context.Context, docID id.ID) ([]L, error)
	InsertLines(ctx context.Context, lines []L) error
	DeleteLines(ctx context.Context, docID id.ID) error

	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[D], error)

	// Orphans returns ids of headers without lines created before cutoff.
	Orphans(ctx context.Context, cutoff time.Time) ([]id.ID, error)
}
