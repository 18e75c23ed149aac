package store

import (
	"context"
	"errors"

	"constructora/internal/domain"
)

var ErrNotFound = errors.New("project not found")

// Store is the project repository contract: a key-value collection of
// projects keyed by ID, durably persisted on every mutating call.
type Store interface {
	// Put inserts or overwrites a project by ID and persists the collection.
	Put(ctx context.Context, p *domain.Project) error
	// Delete removes a project if present and persists.
	Delete(ctx context.Context, id string) error
	// Get returns the project or ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Project, error)
	// List returns every project; order is not guaranteed.
	List(ctx context.Context) ([]*domain.Project, error)
}
