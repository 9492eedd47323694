package store

import (
	"context"
	"time"

	"github.com/samber/lo"

	"github.com/roach88/artisha/internal/model"
)

// Wishlist is the (user, product) wishlist collection.
type Wishlist struct {
	c   collection[model.WishlistItem]
	now func() time.Time
}

// Wishlist returns the wishlist collection.
func (s *Store) Wishlist() Wishlist {
	return Wishlist{
		c:   collection[model.WishlistItem]{kv: s.local, key: KeyWishlist},
		now: s.now,
	}
}

// GetAll returns every wishlist entry.
func (w Wishlist) GetAll(ctx context.Context) []model.WishlistItem {
	return w.c.load(ctx)
}

// GetUserWishlist returns the product IDs on userID's wishlist.
func (w Wishlist) GetUserWishlist(ctx context.Context, userID string) []string {
	return lo.FilterMap(w.c.load(ctx), func(item model.WishlistItem, _ int) (string, bool) {
		return item.ProductID, item.UserID == userID
	})
}

// Toggle removes the (userID, productID) entry if present, otherwise
// appends it with the current time. Returns true when the entry is now
// present and false when it is now absent.
func (w Wishlist) Toggle(ctx context.Context, userID, productID string) (bool, error) {
	items := w.c.load(ctx)
	matches := func(item model.WishlistItem, _ int) bool {
		return item.UserID == userID && item.ProductID == productID
	}

	exists := lo.ContainsBy(items, func(item model.WishlistItem) bool {
		return matches(item, 0)
	})
	if exists {
		items = lo.Reject(items, matches)
	} else {
		items = append(items, model.WishlistItem{
			UserID:    userID,
			ProductID: productID,
			Date:      w.now().UTC().Format(time.RFC3339),
		})
	}

	if err := w.c.save(ctx, items); err != nil {
		return false, err
	}
	return !exists, nil
}
