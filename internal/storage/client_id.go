package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const ClientIDKey = "clientId"

// ClientID returns the id of this client install, creating it on first use.
// It keys the cart's event partition.
func ClientID(ctx context.Context, s Store) (string, error) {
	b, err := s.Get(ctx, ClientIDKey)
	if err == nil && len(b) > 0 {
		return string(b), nil
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("read client id: %w", err)
	}

	id := uuid.NewString()
	if err := s.Set(ctx, ClientIDKey, []byte(id)); err != nil {
		return "", fmt.Errorf("write client id: %w", err)
	}
	return id, nil
}
