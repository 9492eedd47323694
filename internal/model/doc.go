// Package model defines the storefront's record types.
//
// Records are plain structs with JSON tags matching the persisted layout.
// All identities are opaque strings; nothing in this package enforces
// referential integrity between records (an Order's UserID is not checked
// against the user collection, for example).
//
// CartItem is the one type that is never persisted on its own. It lives in
// session state and is copied into an Order when the order is placed.
package model
