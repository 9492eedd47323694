package appstate

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/roach88/artisha/internal/model"
)

// AddReview records a review by the active user. Id, author, and date are
// filled from the session when empty.
func (s *Store) AddReview(ctx context.Context, sess *Session, review model.Review) (model.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := Authorize(OpWriteReview, sess); err != nil {
		return model.Review{}, s.deny(err)
	}
	if review.Rating < 1 || review.Rating > 5 {
		return model.Review{}, s.fail(model.NotifyError, ErrCodeInvalidInput, "Rating must be between 1 and 5.")
	}
	if !lo.ContainsBy(s.products, func(p model.Product) bool { return p.ID == review.ProductID }) {
		return model.Review{}, s.fail(model.NotifyError, ErrCodeNotFound, "Product not found.")
	}

	user, _ := sess.User()
	review.ID = lo.CoalesceOrEmpty(review.ID, s.ids.NewID("r"))
	review.UserID = user.ID
	review.UserName = lo.CoalesceOrEmpty(review.UserName, user.Name)
	review.Date = lo.CoalesceOrEmpty(review.Date, s.timestamp())

	if err := s.db.Reviews().Add(ctx, review); err != nil {
		return model.Review{}, s.persistFailed("add review", err)
	}
	s.reviews = s.db.Reviews().GetAll(ctx)

	s.notifier.Notify(model.NotifySuccess, "Review submitted successfully.")
	return review, nil
}

// SendMessage stores a contact-form submission. No session is required.
func (s *Store) SendMessage(ctx context.Context, msg model.Message) (model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !validEmail(msg.Email) {
		return model.Message{}, s.fail(model.NotifyError, ErrCodeInvalidEmail, "Please enter a valid email address.")
	}
	if strings.TrimSpace(msg.Message) == "" {
		return model.Message{}, s.fail(model.NotifyError, ErrCodeInvalidInput, "Message cannot be empty.")
	}

	msg.ID = lo.CoalesceOrEmpty(msg.ID, s.ids.NewID("m"))
	msg.Date = lo.CoalesceOrEmpty(msg.Date, s.timestamp())
	msg.Read = false

	if err := s.db.Messages().Add(ctx, msg); err != nil {
		return model.Message{}, s.persistFailed("send message", err)
	}
	s.messages = s.db.Messages().GetAll(ctx)

	s.notifier.Notify(model.NotifySuccess, "Message sent successfully. We will get back to you soon.")
	return msg, nil
}

// DeleteMessage removes a message from the inbox. Admin only.
func (s *Store) DeleteMessage(ctx context.Context, sess *Session, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := Authorize(OpManageMessages, sess); err != nil {
		return s.deny(err)
	}
	if err := s.db.Messages().Delete(ctx, id); err != nil {
		return s.persistFailed("delete message", err)
	}
	s.messages = s.db.Messages().GetAll(ctx)

	s.notifier.Notify(model.NotifyInfo, "Message deleted.")
	return nil
}

// MarkMessageRead sets the read flag on a message. Admin only.
func (s *Store) MarkMessageRead(ctx context.Context, sess *Session, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := Authorize(OpManageMessages, sess); err != nil {
		return s.deny(err)
	}
	if !lo.ContainsBy(s.messages, func(m model.Message) bool { return m.ID == id }) {
		return s.fail(model.NotifyError, ErrCodeNotFound, "Message not found.")
	}
	if err := s.db.Messages().MarkRead(ctx, id); err != nil {
		return s.persistFailed("mark message read", err)
	}
	s.messages = s.db.Messages().GetAll(ctx)
	return nil
}

// ToggleWishlist adds or removes productID on the active user's wishlist.
// Returns true when the product is now on the wishlist.
func (s *Store) ToggleWishlist(ctx context.Context, sess *Session, productID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := Authorize(OpUseWishlist, sess); err != nil {
		if IsCode(err, ErrCodeNotLoggedIn) {
			return false, s.fail(model.NotifyInfo, ErrCodeNotLoggedIn, "Please login to use Wishlist.")
		}
		return false, s.deny(err)
	}

	userID := sess.UserID()
	added, err := s.db.Wishlist().Toggle(ctx, userID, productID)
	if err != nil {
		return false, s.persistFailed("toggle wishlist", err)
	}
	sess.setWishlist(s.db.Wishlist().GetUserWishlist(ctx, userID))

	if added {
		s.notifier.Notify(model.NotifySuccess, "Added to wishlist.")
	} else {
		s.notifier.Notify(model.NotifyInfo, "Removed from wishlist.")
	}
	return added, nil
}
