package appstate

import "github.com/roach88/artisha/internal/model"

// Operation names a gated capability.
type Operation string

const (
	OpManageCatalog  Operation = "manage_catalog"
	OpManageOrders   Operation = "manage_orders"
	OpManageUsers    Operation = "manage_users"
	OpManageMessages Operation = "manage_messages"
	OpPlaceOrder     Operation = "place_order"
	OpWriteReview    Operation = "write_review"
	OpUseWishlist    Operation = "use_wishlist"
	OpEditAccount    Operation = "edit_account"
)

var customerCapabilities = []Operation{
	OpPlaceOrder,
	OpWriteReview,
	OpUseWishlist,
	OpEditAccount,
}

var capabilities = map[model.Role]map[Operation]bool{
	model.RoleCustomer: capabilitySet(customerCapabilities...),
	model.RoleAdmin: capabilitySet(append(customerCapabilities,
		OpManageCatalog,
		OpManageOrders,
		OpManageUsers,
		OpManageMessages,
	)...),
}

func capabilitySet(ops ...Operation) map[Operation]bool {
	set := make(map[Operation]bool, len(ops))
	for _, op := range ops {
		set[op] = true
	}
	return set
}

// Can reports whether role holds the capability for op.
func Can(role model.Role, op Operation) bool {
	return capabilities[role][op]
}

// Authorize checks op against the session's role.
// A nil or anonymous session fails with NOT_LOGGED_IN; a role without the
// capability fails with FORBIDDEN.
func Authorize(op Operation, sess *Session) error {
	if sess == nil || !sess.Active() {
		return &Error{Code: ErrCodeNotLoggedIn, Message: "Please login to continue."}
	}
	if !Can(sess.Role(), op) {
		return &Error{Code: ErrCodeForbidden, Message: "You do not have permission to do that."}
	}
	return nil
}
