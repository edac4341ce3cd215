package numerator

import (
	"context"
)

// Generator generates sequential document numbers.
// Implementations live in the infrastructure layer.
type Generator interface {
	// Next allocates the next number for cfg.
	Next(ctx context.Context, cfg Config) (string, error)

	// Peek returns the number Next would allocate, without consuming it.
	Peek(ctx context.Context, cfg Config) (string, error)

	// Sync raises the strict counter to the highest suffix already stored in
	// cfg.Table and returns the resulting counter value.
	Sync(ctx context.Context, cfg Config) (int64, error)
}
