package store

import (
	"context"

	"github.com/samber/lo"

	"github.com/roach88/artisha/internal/model"
)

// Orders is the order collection, stored newest first. Orders are never
// deleted.
type Orders struct {
	c collection[model.Order]
}

// Orders returns the order collection.
func (s *Store) Orders() Orders {
	return Orders{c: collection[model.Order]{kv: s.local, key: KeyOrders}}
}

// GetAll returns every order, newest first.
func (o Orders) GetAll(ctx context.Context) []model.Order {
	return o.c.load(ctx)
}

// GetByUserID returns the orders owned by userID, newest first.
func (o Orders) GetByUserID(ctx context.Context, userID string) []model.Order {
	return lo.Filter(o.c.load(ctx), func(order model.Order, _ int) bool {
		return order.UserID == userID
	})
}

// Add prepends an order.
func (o Orders) Add(ctx context.Context, order model.Order) error {
	orders := append([]model.Order{order}, o.c.load(ctx)...)
	return o.c.save(ctx, orders)
}

// Update replaces the stored order with the same ID wholesale.
// Unknown IDs are ignored.
func (o Orders) Update(ctx context.Context, order model.Order) error {
	orders := o.c.load(ctx)
	_, idx, ok := lo.FindIndexOf(orders, func(existing model.Order) bool {
		return existing.ID == order.ID
	})
	if !ok {
		return nil
	}
	orders[idx] = order
	return o.c.save(ctx, orders)
}
