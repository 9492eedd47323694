package appstate

import (
	"slices"
	"sync"

	"github.com/samber/lo"

	"github.com/roach88/artisha/internal/model"
)

// Session is the identity context threaded through every operation that
// needs to know who is acting. Its lifecycle is none → active(user) → none.
//
// A Session also owns the transient cart and the active user's wishlist.
// Neither the cart nor the session itself is a persisted collection; the
// Store keeps the device-local session marker in step with it.
//
// Session fields are mutated only by Store operations. The accessors are
// safe for concurrent use.
type Session struct {
	mu       sync.RWMutex
	user     *model.User
	wishlist []string
	cart     []model.CartItem
}

// NewSession returns an anonymous session with an empty cart.
func NewSession() *Session {
	return &Session{}
}

// Active reports whether a user is logged in.
func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// User returns the active user. The boolean is false for an anonymous session.
func (s *Session) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// UserID returns the active user's id, or "".
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

// Role returns the active user's role, or "" for an anonymous session.
func (s *Session) Role() model.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Role
}

// Wishlist returns the product ids on the active user's wishlist.
func (s *Session) Wishlist() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.wishlist)
}

// InWishlist reports whether productID is on the active user's wishlist.
func (s *Session) InWishlist(productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.wishlist, productID)
}

// Cart returns a copy of the cart lines in insertion order.
func (s *Session) Cart() []model.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCart(s.cart)
}

// CartCount returns the number of units in the cart.
func (s *Session) CartCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.SumBy(s.cart, func(item model.CartItem) int { return item.Quantity })
}

// CartTotal returns Σ(price × quantity) over the cart.
func (s *Session) CartTotal() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cartTotal(s.cart)
}

func (s *Session) activate(user model.User, wishlist []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	s.wishlist = wishlist
}

func (s *Session) deactivate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.wishlist = nil
}

func (s *Session) setUser(user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
}

func (s *Session) setWishlist(wishlist []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wishlist = wishlist
}

// addToCart increments the line for product.ID or appends a new line.
func (s *Session) addToCart(product model.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, idx, found := lo.FindIndexOf(s.cart, func(item model.CartItem) bool {
		return item.ID == product.ID
	})
	if found {
		s.cart[idx].Quantity++
		return
	}
	s.cart = append(s.cart, model.CartItem{Product: product, Quantity: 1})
}

func (s *Session) removeFromCart(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = lo.Reject(s.cart, func(item model.CartItem, _ int) bool {
		return item.ID == productID
	})
}

func (s *Session) clearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = nil
}

func cartTotal(cart []model.CartItem) int64 {
	return lo.SumBy(cart, func(item model.CartItem) int64 { return item.LineTotal() })
}

func cloneCart(cart []model.CartItem) []model.CartItem {
	out := make([]model.CartItem, len(cart))
	for i, item := range cart {
		out[i] = item
		out[i].Tags = slices.Clone(item.Tags)
	}
	return out
}
