package appstate

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/roach88/artisha/internal/model"
)

// AddToCart adds one unit of p to the session's cart, incrementing the
// existing line when p is already present.
func (s *Store) AddToCart(sess *Session, p model.Product) {
	sess.addToCart(p)
	s.notifier.Notify(model.NotifySuccess, fmt.Sprintf("%s added to cart!", p.Title))
}

// RemoveFromCart drops the line for productID.
func (s *Store) RemoveFromCart(sess *Session, productID string) {
	sess.removeFromCart(productID)
	s.notifier.Notify(model.NotifyInfo, "Item removed from cart.")
}

// ClearCart empties the session's cart.
func (s *Store) ClearCart(sess *Session) {
	sess.clearCart()
}

// PlaceOrder snapshots the cart into a pending order owned by the active
// user, persists it, bumps the new-order counter, and clears the cart.
func (s *Store) PlaceOrder(ctx context.Context, sess *Session) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := Authorize(OpPlaceOrder, sess); err != nil {
		if IsCode(err, ErrCodeNotLoggedIn) {
			return model.Order{}, s.fail(model.NotifyInfo, ErrCodeNotLoggedIn, "Please login to place an order.")
		}
		return model.Order{}, s.deny(err)
	}

	items := sess.Cart()
	if len(items) == 0 {
		return model.Order{}, s.fail(model.NotifyError, ErrCodeEmptyCart, "Your cart is empty.")
	}

	order := model.Order{
		ID:     s.ids.NewID("ord"),
		UserID: sess.UserID(),
		Items:  items,
		Total:  cartTotal(items),
		Status: model.StatusPending,
		Date:   s.timestamp(),
	}

	if err := s.db.Orders().Add(ctx, order); err != nil {
		return model.Order{}, s.persistFailed("place order", err)
	}
	s.orders = s.db.Orders().GetAll(ctx)
	s.newOrderCount++
	sess.clearCart()

	s.notifier.Notify(model.NotifySuccess, "Order placed successfully! We will notify you when it ships.")
	s.logger.Info("order placed", "order", order.ID, "user", order.UserID, "total", order.Total)
	return order, nil
}

// UserOrders returns the orders owned by the session's user, newest first.
// An anonymous session has none.
func (s *Store) UserOrders(sess *Session) []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userOrdersLocked(sess)
}

func (s *Store) userOrdersLocked(sess *Session) []model.Order {
	userID := sess.UserID()
	if userID == "" {
		return []model.Order{}
	}
	return lo.Filter(s.orders, func(o model.Order, _ int) bool { return o.UserID == userID })
}

// UpdateOrderStatus moves order id to status. Unknown statuses and backward
// transitions are rejected. On success a general notification is pushed
// along with a standing alert addressed to the order's owner. Admin only.
func (s *Store) UpdateOrderStatus(ctx context.Context, sess *Session, id string, status model.OrderStatus) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := Authorize(OpManageOrders, sess); err != nil {
		return model.Order{}, s.deny(err)
	}

	order, found := lo.Find(s.orders, func(o model.Order) bool { return o.ID == id })
	if !found {
		return model.Order{}, s.fail(model.NotifyError, ErrCodeNotFound, fmt.Sprintf("Order #%s not found.", id))
	}
	if !status.Valid() {
		return model.Order{}, s.fail(model.NotifyError, ErrCodeInvalidStatus, fmt.Sprintf("Unknown order status %q.", status))
	}
	if !order.Status.CanTransition(status) {
		return model.Order{}, s.fail(model.NotifyError, ErrCodeInvalidTransition,
			fmt.Sprintf("Order #%s cannot move from %s back to %s.", id, order.Status, status))
	}

	order.Status = status
	if err := s.db.Orders().Update(ctx, order); err != nil {
		return model.Order{}, s.persistFailed("update order status", err)
	}
	s.orders = s.db.Orders().GetAll(ctx)

	s.notifier.Notify(model.NotifySuccess, fmt.Sprintf("Order #%s updated to %s.", id, status))
	s.notifier.Alert(model.NotifyInfo,
		fmt.Sprintf("Update for Order #%s: Your order status is now %s.", id, status),
		order.UserID)
	return order, nil
}

// ClearNewOrderCount resets the admin badge counter.
func (s *Store) ClearNewOrderCount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newOrderCount = 0
}
