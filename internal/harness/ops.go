package harness

import (
	"context"
	"fmt"

	"github.com/samber/mo"

	"github.com/roach88/artisha/internal/appstate"
	"github.com/roach88/artisha/internal/model"
	"github.com/roach88/artisha/internal/store"
)

// opFunc runs one operation and returns its trace result.
type opFunc func(ctx context.Context, h *Harness, a *argReader) (map[string]any, error)

var operations map[string]opFunc

func init() {
	operations = map[string]opFunc{
		"login":                 opLogin,
		"logout":                opLogout,
		"register":              opRegister,
		"update_profile":        opUpdateProfile,
		"change_password":       opChangePassword,
		"reset_password":        opResetPassword,
		"delete_user":           opDeleteUser,
		"add_product":           opAddProduct,
		"update_product":        opUpdateProduct,
		"remove_product":        opRemoveProduct,
		"add_to_cart":           opAddToCart,
		"remove_from_cart":      opRemoveFromCart,
		"clear_cart":            opClearCart,
		"place_order":           opPlaceOrder,
		"update_order_status":   opUpdateOrderStatus,
		"clear_new_order_count": opClearNewOrderCount,
		"add_review":            opAddReview,
		"send_message":          opSendMessage,
		"delete_message":        opDeleteMessage,
		"mark_message_read":     opMarkMessageRead,
		"toggle_wishlist":       opToggleWishlist,
		"tick_analytics":        opTickAnalytics,
		"notify":                opNotify,
		"clear_alerts":          opClearAlerts,
	}
}

// lastRef is the id placeholder for "the most recent record".
const lastRef = "$last"

// argReader reads typed values out of YAML-decoded args, keeping the first
// type error.
type argReader struct {
	args map[string]any
	err  error
}

func (r *argReader) fail(key string, want string, got any) {
	if r.err == nil {
		r.err = fmt.Errorf("arg %q: expected %s, got %T", key, want, got)
	}
}

func (r *argReader) str(key string) string {
	v, ok := r.args[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.fail(key, "string", v)
	}
	return s
}

func (r *argReader) int(key string) int64 {
	v, ok := r.args[key]
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	case float64:
		if n == float64(int64(n)) {
			return int64(n)
		}
	}
	r.fail(key, "integer", v)
	return 0
}

func (r *argReader) strings(key string) []string {
	v, ok := r.args[key]
	if !ok || v == nil {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		r.fail(key, "list", v)
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			r.fail(key, "list of strings", item)
			return nil
		}
		out = append(out, s)
	}
	return out
}

// optional returns the string at key only when the key is present.
func (r *argReader) optional(key string) mo.Option[string] {
	if _, ok := r.args[key]; !ok {
		return mo.None[string]()
	}
	return mo.Some(r.str(key))
}

func (r *argReader) product() model.Product {
	return model.Product{
		ID:          r.str("id"),
		Title:       r.str("title"),
		Description: r.str("description"),
		Price:       r.int("price"),
		Category:    r.str("category"),
		ImageURL:    r.str("image_url"),
		Stock:       int(r.int("stock")),
		Tags:        r.strings("tags"),
	}
}

func opLogin(ctx context.Context, h *Harness, a *argReader) (map[string]any, error) {
	err := h.state.Login(ctx, h.sess, a.str("email"), model.Role(a.str("role")), a.optional("password"))
	if err != nil {
		return nil, err
	}
	return map[string]any{"user": h.sess.UserID()}, nil
}

func opLogout(ctx context.Context, h *Harness, _ *argReader) (map[string]any, error) {
	return nil, h.state.Logout(ctx, h.sess)
}

func opRegister(ctx context.Context, h *Harness, a *argReader) (map[string]any, error) {
	user, err := h.state.Register(ctx, h.sess, a.str("name"), a.str("email"), model.Role(a.str("role")), a.optional("password"))
	if err != nil {
		return nil, err
	}
	return map[string]any{"user": user.ID}, nil
}

func opUpdateProfile(ctx context.Context, h *Harness, a *argReader) (map[string]any, error) {
	_, err := h.state.UpdateProfile(ctx, h.sess, store.UserPatch{
		Name:   a.optional("name"),
		Email:  a.optional("email"),
		Avatar: a.optional("avatar"),
		Bio:    a.optional("bio"),
	})
	return nil, err
}

func opChangePassword(ctx context.Context, h *Harness, a *argReader) (map[string]any, error) {
	return nil, h.state.ChangePassword(ctx, h.sess, a.str("current"), a.str("next"))
}

func opResetPassword(ctx context.Context, h *Harness, a *argReader) (map[string]any, error) {
	h.state.ResetPassword(ctx, a.str("email"))
	return nil, nil
}

func opDeleteUser(ctx context.Context, h *Harness, a *argReader) (map[string]any, error) {
	return nil, h.state.DeleteUser(ctx, h.sess, a.str("id"))
}

func opAddProduct(ctx context.Context, h *Harness, a *argReader) (map[string]any, error) {
	p, err := h.state.AddProduct(ctx, h.sess, a.product())
	if err != nil {
		return nil, err
	}
	return map[string]any{"id": p.ID}, nil
}

func opUpdateProduct(ctx context.Context, h *Harness, a *argReader) (map[string]any, error) {
	return nil, h.state.UpdateProduct(ctx, h.sess, a.product())
}

func opRemoveProduct(ctx context.Context, h *Harness, a *argReader) (map[string]any, error) {
	return nil, h.state.RemoveProduct(ctx, h.sess, a.str("id"))
}

func cartResult(sess *appstate.Session) map[string]any {
	return map[string]any{"lines": len(sess.Cart()), "count": sess.CartCount()}
}

func opAddToCart(_ context.Context, h *Harness, a *argReader) (map[string]any, error) {
	id := a.str("product_id")
	p, ok := h.state.Product(id)
	if !ok {
		return nil, fmt.Errorf("add_to_cart: no product %q in catalog", id)
	}
	for range max(1, a.int("quantity")) {
		h.state.AddToCart(h.sess, p)
	}
	return cartResult(h.sess), nil
}

func opRemoveFromCart(_ context.Context, h *Harness, a *argReader) (map[string]any, error) {
	h.state.RemoveFromCart(h.sess, a.str("product_id"))
	return cartResult(h.sess), nil
}

func opClearCart(_ context.Context, h *Harness, _ *argReader) (map[string]any, error) {
	h.state.ClearCart(h.sess)
	return cartResult(h.sess), nil
}

func opPlaceOrder(ctx context.Context, h *Harness, _ *argReader) (map[string]any, error) {
	order, err := h.state.PlaceOrder(ctx, h.sess)
	if err != nil {
		return nil, err
	}
	return map[string]any{"id": order.ID, "total": order.Total, "items": len(order.Items)}, nil
}

func (h *Harness) resolveOrderID(id string) string {
	if id != lastRef {
		return id
	}
	if orders := h.state.Orders(); len(orders) > 0 {
		return orders[0].ID
	}
	return ""
}

func (h *Harness) resolveMessageID(id string) string {
	if id != lastRef {
		return id
	}
	if msgs := h.state.Messages(); len(msgs) > 0 {
		return msgs[0].ID
	}
	return ""
}

func opUpdateOrderStatus(ctx context.Context, h *Harness, a *argReader) (map[string]any, error) {
	order, err := h.state.UpdateOrderStatus(ctx, h.sess, h.resolveOrderID(a.str("id")), model.OrderStatus(a.str("status")))
	if err != nil {
		return nil, err
	}
	return map[string]any{"id": order.ID, "status": string(order.Status)}, nil
}

func opClearNewOrderCount(_ context.Context, h *Harness, _ *argReader) (map[string]any, error) {
	h.state.ClearNewOrderCount()
	return nil, nil
}

func opAddReview(ctx context.Context, h *Harness, a *argReader) (map[string]any, error) {
	_, err := h.state.AddReview(ctx, h.sess, model.Review{
		ProductID: a.str("product_id"),
		Rating:    int(a.int("rating")),
		Comment:   a.str("comment"),
	})
	return nil, err
}

func opSendMessage(ctx context.Context, h *Harness, a *argReader) (map[string]any, error) {
	msg, err := h.state.SendMessage(ctx, model.Message{
		Name:    a.str("name"),
		Email:   a.str("email"),
		Subject: a.str("subject"),
		Message: a.str("message"),
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"id": msg.ID}, nil
}

func opDeleteMessage(ctx context.Context, h *Harness, a *argReader) (map[string]any, error) {
	return nil, h.state.DeleteMessage(ctx, h.sess, h.resolveMessageID(a.str("id")))
}

func opMarkMessageRead(ctx context.Context, h *Harness, a *argReader) (map[string]any, error) {
	return nil, h.state.MarkMessageRead(ctx, h.sess, h.resolveMessageID(a.str("id")))
}

func opToggleWishlist(ctx context.Context, h *Harness, a *argReader) (map[string]any, error) {
	added, err := h.state.ToggleWishlist(ctx, h.sess, a.str("product_id"))
	if err != nil {
		return nil, err
	}
	return map[string]any{"added": added}, nil
}

func opTickAnalytics(ctx context.Context, h *Harness, a *argReader) (map[string]any, error) {
	for range max(1, a.int("times")) {
		if _, err := h.state.TickAnalytics(ctx); err != nil {
			return nil, err
		}
	}
	return map[string]any{"retained": len(h.state.Analytics())}, nil
}

func opNotify(_ context.Context, h *Harness, a *argReader) (map[string]any, error) {
	h.state.Notify(model.NotificationType(a.str("type")), a.str("message"))
	return nil, nil
}

func opClearAlerts(_ context.Context, h *Harness, _ *argReader) (map[string]any, error) {
	h.state.ClearAlerts()
	return nil, nil
}
