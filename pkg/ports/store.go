package ports

import (
	"context"
)

// WorldStore persists encoded worlds under a name.
type WorldStore interface {
	// Save stores text under name, replacing any previous world.
	Save(ctx context.Context, name string, text string) error

	// Load retrieves the world stored under name.
	// Returns domain.ErrWorldNotFound if there is none.
	Load(ctx context.Context, name string) (string, error)

	// Delete removes a world. Deleting a missing world is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the stored world names.
	List(ctx context.Context) ([]string, error)
}
