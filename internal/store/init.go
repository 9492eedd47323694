package store

import (
	"context"
	"fmt"

	"github.com/roach88/artisha/internal/model"
)

// Seed is the initial data written by Init.
type Seed struct {
	Users    []model.User
	Products []model.Product
}

// Init populates each collection with seed data only if its key is
// absent. Existing data, including deliberately empty collections, is
// never overwritten, so Init is safe to call on every start.
func (s *Store) Init(ctx context.Context, seed Seed) error {
	steps := []struct {
		key  string
		seed func() (bool, error)
	}{
		{KeyUsers, func() (bool, error) { return s.Users().c.seedIfAbsent(ctx, seed.Users) }},
		{KeyProducts, func() (bool, error) { return s.Products().c.seedIfAbsent(ctx, seed.Products) }},
		{KeyOrders, func() (bool, error) { return s.Orders().c.seedIfAbsent(ctx, nil) }},
		{KeyReviews, func() (bool, error) { return s.Reviews().c.seedIfAbsent(ctx, nil) }},
		{KeyMessages, func() (bool, error) { return s.Messages().c.seedIfAbsent(ctx, nil) }},
		{KeyWishlist, func() (bool, error) { return s.Wishlist().c.seedIfAbsent(ctx, nil) }},
	}

	for _, step := range steps {
		seeded, err := step.seed()
		if err != nil {
			return fmt.Errorf("init %s: %w", step.key, err)
		}
		if seeded {
			s.logger.Debug("seeded collection", "key", step.key)
		}
	}
	return nil
}
