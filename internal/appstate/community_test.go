package appstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/artisha/internal/model"
)

func TestAddReview(t *testing.T) {
	f := newFixture(t)

	_, err := f.state.AddReview(f.ctx, f.sess, model.Review{ProductID: "p1", Rating: 5})
	assert.True(t, IsCode(err, ErrCodeNotLoggedIn))

	f.loginCustomer(t)
	review, err := f.state.AddReview(f.ctx, f.sess, model.Review{ProductID: "p1", Rating: 4, Comment: "Lovely blues."})
	require.NoError(t, err)

	assert.NotEmpty(t, review.ID)
	assert.Equal(t, "cust1", review.UserID)
	assert.Equal(t, "John Doe", review.UserName)
	assert.NotEmpty(t, review.Date)
	assert.Equal(t, []model.Review{review}, f.state.ProductReviews("p1"))
	assert.Equal(t, f.db.Reviews().GetAll(f.ctx), f.state.Reviews())
	assert.Equal(t, "Review submitted successfully.", f.lastNotification(t).Message)
}

func TestAddReview_Rejections(t *testing.T) {
	f := newFixture(t)
	f.loginCustomer(t)

	_, err := f.state.AddReview(f.ctx, f.sess, model.Review{ProductID: "p1", Rating: 6})
	assert.True(t, IsCode(err, ErrCodeInvalidInput))

	_, err = f.state.AddReview(f.ctx, f.sess, model.Review{ProductID: "ghost", Rating: 3})
	assert.True(t, IsCode(err, ErrCodeNotFound))

	assert.Empty(t, f.state.Reviews())
}

func TestMessages(t *testing.T) {
	f := newFixture(t)

	_, err := f.state.SendMessage(f.ctx, model.Message{Name: "Kim", Email: "bad", Message: "hi"})
	assert.True(t, IsCode(err, ErrCodeInvalidEmail))

	first, err := f.state.SendMessage(f.ctx, model.Message{Name: "Kim", Email: "kim@x.com", Subject: "Hello", Message: "First"})
	require.NoError(t, err)
	second, err := f.state.SendMessage(f.ctx, model.Message{Name: "Kim", Email: "kim@x.com", Subject: "Again", Message: "Second"})
	require.NoError(t, err)
	assert.Equal(t, "Message sent successfully. We will get back to you soon.", f.lastNotification(t).Message)

	msgs := f.state.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, second.ID, msgs[0].ID, "newest first")

	assert.True(t, IsCode(f.state.MarkMessageRead(f.ctx, f.sess, first.ID), ErrCodeNotLoggedIn))

	f.loginAdmin(t)
	require.NoError(t, f.state.MarkMessageRead(f.ctx, f.sess, first.ID))
	assert.True(t, f.state.Messages()[1].Read)
	assert.True(t, IsCode(f.state.MarkMessageRead(f.ctx, f.sess, "ghost"), ErrCodeNotFound))

	require.NoError(t, f.state.DeleteMessage(f.ctx, f.sess, second.ID))
	assert.Equal(t, "Message deleted.", f.lastNotification(t).Message)
	assert.Len(t, f.db.Messages().GetAll(f.ctx), 1)
}

func TestDeleteMessage_Forbidden(t *testing.T) {
	f := newFixture(t)
	msg, err := f.state.SendMessage(f.ctx, model.Message{Name: "Kim", Email: "kim@x.com", Message: "hi"})
	require.NoError(t, err)

	f.loginCustomer(t)
	assert.True(t, IsCode(f.state.DeleteMessage(f.ctx, f.sess, msg.ID), ErrCodeForbidden))
	assert.Len(t, f.state.Messages(), 1)
}

func TestToggleWishlist(t *testing.T) {
	f := newFixture(t)

	_, err := f.state.ToggleWishlist(f.ctx, f.sess, "p1")
	assert.True(t, IsCode(err, ErrCodeNotLoggedIn))
	note := f.lastNotification(t)
	assert.Equal(t, model.NotifyInfo, note.Type)
	assert.Equal(t, "Please login to use Wishlist.", note.Message)
	assert.Empty(t, f.db.Wishlist().GetAll(f.ctx))

	f.loginCustomer(t)

	added, err := f.state.ToggleWishlist(f.ctx, f.sess, "p1")
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, f.sess.InWishlist("p1"))
	assert.Equal(t, "Added to wishlist.", f.lastNotification(t).Message)

	added, err = f.state.ToggleWishlist(f.ctx, f.sess, "p1")
	require.NoError(t, err)
	assert.False(t, added)
	assert.False(t, f.sess.InWishlist("p1"))
	assert.Equal(t, "Removed from wishlist.", f.lastNotification(t).Message)
	assert.Empty(t, f.db.Wishlist().GetUserWishlist(f.ctx, "cust1"))
}
