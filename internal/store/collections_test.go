package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/artisha/internal/model"
)

func TestCollection_MissingKeyReadsEmpty(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	users := s.Users().GetAll(ctx)
	assert.NotNil(t, users)
	assert.Empty(t, users)
	assert.Empty(t, s.Products().GetAll(ctx))
	assert.Empty(t, s.Orders().GetAll(ctx))
	assert.Empty(t, s.Analytics().GetRecent(ctx))
}

func TestCollection_CorruptValueDegradesToEmpty(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Local().Set(ctx, KeyProducts, "{not json"))
	assert.Empty(t, s.Products().GetAll(ctx))

	// Wrong shape also degrades
	require.NoError(t, s.Local().Set(ctx, KeyOrders, `{"id":"o1"}`))
	assert.Empty(t, s.Orders().GetAll(ctx))

	// A write after corruption recovers the key
	require.NoError(t, s.Products().Add(ctx, testProduct("p1", 100)))
	assert.Len(t, s.Products().GetAll(ctx), 1)
}

func TestProducts_AddThenRemoveKeepsOthers(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, s.Products().Add(ctx, testProduct(fmt.Sprintf("p%d", i), int64(i*100))))
	}
	before := s.Products().GetAll(ctx)

	require.NoError(t, s.Products().Delete(ctx, "p3"))

	after := s.Products().GetAll(ctx)
	require.Len(t, after, 4)
	for _, p := range after {
		assert.NotEqual(t, "p3", p.ID)
	}
	for _, p := range before {
		if p.ID == "p3" {
			continue
		}
		got, ok := s.Products().Find(ctx, p.ID)
		require.True(t, ok)
		assert.Equal(t, p, got)
	}
}

func TestProducts_UpdateMergesFields(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Products().Add(ctx, testProduct("p1", 100)))
	require.NoError(t, s.Products().Update(ctx, "p1", ProductPatch{Price: mo.Some(int64(250))}))

	got, ok := s.Products().Find(ctx, "p1")
	require.True(t, ok)
	assert.Equal(t, int64(250), got.Price)
	assert.Equal(t, "Product p1", got.Title)
	assert.Equal(t, []string{"test"}, got.Tags)
	assert.Equal(t, 1, got.Stock)

	// Unknown ID is a no-op
	require.NoError(t, s.Products().Update(ctx, "missing", ProductPatch{Price: mo.Some(int64(1))}))
	assert.Len(t, s.Products().GetAll(ctx), 1)
}

func TestProducts_UpdateWritesZeroValues(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	p := testProduct("p1", 100)
	p.Stock = 5
	require.NoError(t, s.Products().Add(ctx, p))

	require.NoError(t, s.Products().Update(ctx, "p1", ProductPatch{
		Price: mo.Some(int64(0)),
		Stock: mo.Some(0),
		Tags:  mo.Some([]string{}),
	}))

	got, ok := s.Products().Find(ctx, "p1")
	require.True(t, ok)
	assert.Equal(t, int64(0), got.Price)
	assert.Equal(t, 0, got.Stock, "sold out")
	assert.Empty(t, got.Tags)
	assert.Equal(t, "Product p1", got.Title)
}

func TestUsers_UpdateMergesAndFindByEmail(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Users().Add(ctx, model.User{
		ID: "u1", Name: "Jane", Email: "jane@x.com", Role: model.RoleCustomer, Password: "pw1", Bio: "hi",
		Avatar: "https://example.com/a.png",
	}))
	require.NoError(t, s.Users().Update(ctx, "u1", UserPatch{Bio: mo.Some("painter")}))

	u, ok := s.Users().FindByEmail(ctx, "jane@x.com")
	require.True(t, ok)
	assert.Equal(t, "painter", u.Bio)
	assert.Equal(t, "pw1", u.Password)
	assert.Equal(t, "Jane", u.Name)

	require.NoError(t, s.Users().Update(ctx, "u1", UserPatch{Bio: mo.Some(""), Avatar: mo.Some("")}))
	u, ok = s.Users().FindByEmail(ctx, "jane@x.com")
	require.True(t, ok)
	assert.Empty(t, u.Bio)
	assert.Empty(t, u.Avatar)

	_, ok = s.Users().FindByEmail(ctx, "JANE@x.com")
	assert.False(t, ok, "email match is exact")

	require.NoError(t, s.Users().Delete(ctx, "u1"))
	assert.Empty(t, s.Users().GetAll(ctx))
}

func TestOrders_AddPrependsAndUpdateReplaces(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	o1 := model.Order{ID: "o1", UserID: "u1", Total: 100, Status: model.StatusPending}
	o2 := model.Order{ID: "o2", UserID: "u2", Total: 200, Status: model.StatusPending}
	require.NoError(t, s.Orders().Add(ctx, o1))
	require.NoError(t, s.Orders().Add(ctx, o2))

	all := s.Orders().GetAll(ctx)
	require.Len(t, all, 2)
	assert.Equal(t, "o2", all[0].ID)

	// Replace drops fields that are not in the new record
	require.NoError(t, s.Orders().Update(ctx, model.Order{ID: "o1", Status: model.StatusShipped}))
	mine := s.Orders().GetByUserID(ctx, "u1")
	assert.Empty(t, mine, "wholesale replace cleared the user id")

	got := s.Orders().GetAll(ctx)[1]
	assert.Equal(t, model.StatusShipped, got.Status)
	assert.Equal(t, int64(0), got.Total)
}

func TestMessages_PrependMarkReadDelete(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Messages().Add(ctx, model.Message{ID: "m1", Subject: "first"}))
	require.NoError(t, s.Messages().Add(ctx, model.Message{ID: "m2", Subject: "second"}))

	msgs := s.Messages().GetAll(ctx)
	require.Len(t, msgs, 2)
	assert.Equal(t, "m2", msgs[0].ID)

	require.NoError(t, s.Messages().MarkRead(ctx, "m1"))
	msgs = s.Messages().GetAll(ctx)
	assert.True(t, msgs[1].Read)
	assert.False(t, msgs[0].Read)

	require.NoError(t, s.Messages().Delete(ctx, "m2"))
	msgs = s.Messages().GetAll(ctx)
	require.Len(t, msgs, 1)
	assert.Equal(t, "m1", msgs[0].ID)
}

func TestReviews_GetByProductID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Reviews().Add(ctx, model.Review{ID: "r1", ProductID: "p1", Rating: 5}))
	require.NoError(t, s.Reviews().Add(ctx, model.Review{ID: "r2", ProductID: "p2", Rating: 3}))
	require.NoError(t, s.Reviews().Add(ctx, model.Review{ID: "r3", ProductID: "p1", Rating: 4}))

	got := s.Reviews().GetByProductID(ctx, "p1")
	require.Len(t, got, 2)
	assert.Equal(t, "r1", got[0].ID)
	assert.Equal(t, "r3", got[1].ID)
}

func TestWishlist_ToggleTwice(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	added, err := s.Wishlist().Toggle(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, []string{"p1"}, s.Wishlist().GetUserWishlist(ctx, "u1"))

	entry := s.Wishlist().GetAll(ctx)[0]
	assert.Equal(t, "2025-03-14T09:30:00Z", entry.Date)

	added, err = s.Wishlist().Toggle(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Empty(t, s.Wishlist().GetUserWishlist(ctx, "u1"))
}

func TestWishlist_CompositeIdentity(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.Wishlist().Toggle(ctx, "u1", "p1")
	require.NoError(t, err)
	_, err = s.Wishlist().Toggle(ctx, "u2", "p1")
	require.NoError(t, err)
	_, err = s.Wishlist().Toggle(ctx, "u1", "p2")
	require.NoError(t, err)

	// Removing (u1, p1) leaves (u2, p1) and (u1, p2)
	added, err := s.Wishlist().Toggle(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.False(t, added)

	assert.Equal(t, []string{"p2"}, s.Wishlist().GetUserWishlist(ctx, "u1"))
	assert.Equal(t, []string{"p1"}, s.Wishlist().GetUserWishlist(ctx, "u2"))
}

func TestAnalytics_NeverExceedsRetain(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for i := 0; i < 55; i++ {
		require.NoError(t, s.Analytics().Log(ctx, model.AnalyticsMetric{Timestamp: int64(i), PageViews: i % 5}))
		assert.LessOrEqual(t, len(s.Analytics().GetRecent(ctx)), AnalyticsRetain)
	}

	recent := s.Analytics().GetRecent(ctx)
	require.Len(t, recent, AnalyticsRetain)
	assert.Equal(t, int64(35), recent[0].Timestamp)
	assert.Equal(t, int64(54), recent[AnalyticsRetain-1].Timestamp)
}

func TestAnalytics_GetRecentTrimsOversizedValue(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	var metrics []model.AnalyticsMetric
	for i := 0; i < 30; i++ {
		metrics = append(metrics, model.AnalyticsMetric{Timestamp: int64(i)})
	}
	data, err := encodeJSON(metrics)
	require.NoError(t, err)
	require.NoError(t, s.Local().Set(ctx, KeyAnalytics, data))

	recent := s.Analytics().GetRecent(ctx)
	require.Len(t, recent, AnalyticsRetain)
	assert.Equal(t, int64(10), recent[0].Timestamp)
}

func TestSessionMarker_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, ok := s.ActiveSession(ctx)
	assert.False(t, ok)

	user := model.User{ID: "u1", Name: "Jane & Co", Email: "jane@x.com", Role: model.RoleCustomer}
	require.NoError(t, s.SetActiveSession(ctx, user))

	raw, _, err := s.Local().Get(ctx, KeyActiveSession)
	require.NoError(t, err)
	assert.Contains(t, raw, "Jane & Co", "HTML escaping is disabled")

	got, ok := s.ActiveSession(ctx)
	require.True(t, ok)
	assert.Equal(t, user, got)

	require.NoError(t, s.ClearActiveSession(ctx))
	_, ok = s.ActiveSession(ctx)
	assert.False(t, ok)
}

func TestSessionMarker_CorruptReadsAsLoggedOut(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Local().Set(ctx, KeyActiveSession, "nope"))
	_, ok := s.ActiveSession(ctx)
	assert.False(t, ok)
}

func TestStudioTranscript_SessionScoped(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, ok := s.StudioTranscript(ctx)
	assert.False(t, ok)

	msgs := []model.ChatMessage{{ID: "init", Role: model.ChatModel, Text: "Welcome"}}
	require.NoError(t, s.SaveStudioTranscript(ctx, msgs))

	got, ok := s.StudioTranscript(ctx)
	require.True(t, ok)
	assert.Equal(t, msgs, got)

	require.NoError(t, s.ClearSession(ctx))
	_, ok = s.StudioTranscript(ctx)
	assert.False(t, ok)
}
