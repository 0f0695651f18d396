package resume

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound covers both a missing resume and one owned by someone else
var ErrNotFound = errors.New("resume not found")

// Repository persists resumes. Every method is scoped by owner.
type Repository interface {
	// List returns the owner's resumes, most recently updated first
	List(ctx context.Context, owner uuid.UUID) ([]Resume, error)
	Get(ctx context.Context, owner, id uuid.UUID) (*Resume, error)
	Create(ctx context.Context, owner uuid.UUID, content Content) (*Resume, error)
	// Update replaces the content and bumps updatedAt. createdAt is kept.
	Update(ctx context.Context, owner, id uuid.UUID, content Content) (*Resume, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
	DeleteByOwner(ctx context.Context, owner uuid.UUID) (int64, error)
}
