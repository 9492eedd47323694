// Package store provides SQLite-backed key-value persistence for the
// storefront.
//
// The store stands in for a browser's localStorage and sessionStorage.
// Every record collection lives under one fixed, namespaced key as a
// JSON array, and every mutation rewrites the whole collection:
//
//   - artisha_users_v1: user accounts
//   - artisha_products_v1: the catalog
//   - artisha_orders_v1: orders, newest first
//   - artisha_reviews_v1: product reviews
//   - artisha_messages_v1: contact messages, newest first
//   - artisha_wishlist_v1: (user, product) wishlist entries
//   - artisha_analytics_v1: the 20 most recent analytics samples
//
// # Scopes
//
// Keys live in one of two scopes. ScopeLocal survives process restarts
// and holds the collections plus the active-session marker. ScopeSession
// holds per-session data such as the creative-studio transcript. It is
// wiped by ClearSession, and ExpireSession drops keys that have sat idle
// past a timeout.
//
// # Error Policy
//
// Reads never fail. A missing key, a storage error, or a value that does
// not parse as the collection's type all degrade to the empty collection;
// the failure is logged and swallowed. Writes return their error to the
// caller. There is no version check: the last write wins.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
