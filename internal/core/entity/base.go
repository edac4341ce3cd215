// Package entity holds the building blocks shared by domain models:
// base fields, document headers, counterpart traits and partial updates.
package entity

import (
	"context"
	"time"

	"bizerp/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants without database access.
type Validatable interface {
	// Validate returns nil if valid, an AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Identifiable is implemented by every persisted entity.
type Identifiable interface {
	GetID() id.ID
	Base() *BaseEntity
}

// BaseEntity contains the fields every row carries.
type BaseEntity struct {
	ID        id.ID     `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Prepare assigns an ID and timestamps to a new entity, keeping any already set.
func (b *BaseEntity) Prepare() {
	now := time.Now().UTC()
	if id.IsNil(b.ID) {
		b.ID = id.New()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

// Touch updates the UpdatedAt timestamp.
func (b *BaseEntity) Touch() {
	b.UpdatedAt = time.Now().UTC()
}

// GetID returns the entity ID.
func (b *BaseEntity) GetID() id.ID {
	return b.ID
}

// Base returns the embedded BaseEntity.
func (b *BaseEntity) Base() *BaseEntity {
	return b
}
