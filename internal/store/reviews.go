package store

import (
	"context"

	"github.com/samber/lo"

	"github.com/roach88/artisha/internal/model"
)

// Reviews is the product-review collection.
type Reviews struct {
	c collection[model.Review]
}

// Reviews returns the product-review collection.
func (s *Store) Reviews() Reviews {
	return Reviews{c: collection[model.Review]{kv: s.local, key: KeyReviews}}
}

// GetAll returns every review in submission order.
func (r Reviews) GetAll(ctx context.Context) []model.Review {
	return r.c.load(ctx)
}

// GetByProductID returns the reviews for one product.
func (r Reviews) GetByProductID(ctx context.Context, productID string) []model.Review {
	return lo.Filter(r.c.load(ctx), func(review model.Review, _ int) bool {
		return review.ProductID == productID
	})
}

// Add appends a review.
func (r Reviews) Add(ctx context.Context, review model.Review) error {
	return r.c.save(ctx, append(r.c.load(ctx), review))
}

// Delete removes the review with the given ID.
func (r Reviews) Delete(ctx context.Context, id string) error {
	reviews := lo.Reject(r.c.load(ctx), func(review model.Review, _ int) bool {
		return review.ID == id
	})
	return r.c.save(ctx, reviews)
}
