// Package appstate is the storefront's application state store: the single
// source of truth the UI reads from and the single point through which every
// mutation flows.
//
// A Store loads all collections from the persistence layer at Bootstrap and
// mirrors every mutation back to it before the operation returns
// (write-through). Each operation then pushes a user-facing notification.
// No operation spans collections atomically; each write is independent.
//
// # Sessions
//
// Identity is explicit. Every operation that needs to know who is acting
// takes a *Session, whose lifecycle is none → active(user) → none. The
// session also carries the transient cart and the active user's wishlist.
// The device-local session marker in the persistence layer is kept in step
// with Login, Register, Logout, and profile changes.
//
// # Authorization
//
// Operations that change the catalog, order status, user accounts, or the
// message inbox pass through Authorize, which checks the session's role
// against a fixed capability set. Failures are reported as *Error with code
// NOT_LOGGED_IN or FORBIDDEN.
//
// # Errors
//
// Business-rule failures (wrong password, duplicate email, empty cart, ...)
// abort the operation with no partial mutation, emit an error notification,
// and return *Error. Storage read failures never reach this package; the
// persistence layer degrades them to empty collections.
//
// # Background Tasks
//
// The analytics ticker is an explicit Task owned by the Store. Close stops
// every task the Store started and waits for it to exit.
package appstate
