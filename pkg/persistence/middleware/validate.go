package middleware

import (
	"context"
	"fmt"

	"github.com/aretw0/walker/pkg/codec"
	"github.com/aretw0/walker/pkg/ports"
)

type validatingStore struct {
	ports.WorldStore
}

// NewValidationMiddleware rejects text that does not decode as a world,
// both when saving and when loading.
func NewValidationMiddleware() Middleware {
	return func(next ports.WorldStore) ports.WorldStore {
		return &validatingStore{WorldStore: next}
	}
}

func (s *validatingStore) Save(ctx context.Context, name, text string) error {
	if _, err := codec.Decode(text); err != nil {
		return fmt.Errorf("world %q: %w", name, err)
	}
	return s.WorldStore.Save(ctx, name, text)
}

func (s *validatingStore) Load(ctx context.Context, name string) (string, error) {
	text, err := s.WorldStore.Load(ctx, name)
	if err != nil {
		return "", err
	}
	if _, err := codec.Decode(text); err != nil {
		return "", fmt.Errorf("stored world %q is corrupt: %w", name, err)
	}
	return text, nil
}
