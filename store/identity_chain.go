package store

import (
	"context"
	"errors"
	"fmt"

	"civicsync/models"
)

// IdentityChain asks each source in turn and moves on only when a source
// answers ErrNotFound. Any other failure is returned as is.
type IdentityChain []IdentitySource

func (c IdentityChain) GetIdentity(ctx context.Context, id int64) (models.Identity, error) {
	for _, src := range c {
		identity, err := src.GetIdentity(ctx, id)
		if err == nil {
			return identity, nil
		}
		if !errors.Is(err, models.ErrNotFound) {
			return models.Identity{}, err
		}
	}
	return models.Identity{}, fmt.Errorf("identity %d: %w", id, models.ErrNotFound)
}
