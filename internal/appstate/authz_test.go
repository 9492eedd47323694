package appstate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/artisha/internal/model"
)

func TestCan(t *testing.T) {
	tests := []struct {
		role model.Role
		op   Operation
		want bool
	}{
		{model.RoleAdmin, OpManageCatalog, true},
		{model.RoleAdmin, OpManageOrders, true},
		{model.RoleAdmin, OpManageUsers, true},
		{model.RoleAdmin, OpManageMessages, true},
		{model.RoleAdmin, OpPlaceOrder, true},
		{model.RoleCustomer, OpPlaceOrder, true},
		{model.RoleCustomer, OpWriteReview, true},
		{model.RoleCustomer, OpUseWishlist, true},
		{model.RoleCustomer, OpEditAccount, true},
		{model.RoleCustomer, OpManageCatalog, false},
		{model.RoleCustomer, OpManageUsers, false},
		{"", OpPlaceOrder, false},
		{"GUEST", OpPlaceOrder, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.op), func(t *testing.T) {
			assert.Equal(t, tt.want, Can(tt.role, tt.op))
		})
	}
}

func TestAuthorize(t *testing.T) {
	assert.True(t, IsCode(Authorize(OpPlaceOrder, nil), ErrCodeNotLoggedIn))
	assert.True(t, IsCode(Authorize(OpPlaceOrder, NewSession()), ErrCodeNotLoggedIn))

	customer := NewSession()
	customer.activate(model.User{ID: "c", Role: model.RoleCustomer}, nil)
	assert.NoError(t, Authorize(OpPlaceOrder, customer))
	assert.True(t, IsCode(Authorize(OpManageCatalog, customer), ErrCodeForbidden))

	admin := NewSession()
	admin.activate(model.User{ID: "a", Role: model.RoleAdmin}, nil)
	assert.NoError(t, Authorize(OpManageCatalog, admin))
}

func TestError(t *testing.T) {
	err := &Error{Code: ErrCodeEmptyCart, Message: "Your cart is empty."}
	assert.Equal(t, "EMPTY_CART: Your cart is empty.", err.Error())
	assert.Equal(t, ErrCodeEmptyCart, CodeOf(err))
	assert.Equal(t, ErrorCode(""), CodeOf(assert.AnError))
	assert.False(t, IsCode(nil, ErrCodeEmptyCart))
}
