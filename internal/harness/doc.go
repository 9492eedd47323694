// Package harness runs storefront scenarios against a fresh state store.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: checkout_two_units
//	description: "Two units of one product become one order line"
//	setup:
//	  - op: login
//	    args: { email: admin@artisha.com, password: password123 }
//	flow:
//	  - op: add_product
//	    args: { id: p9, title: Print, price: 1000 }
//	  - op: add_to_cart
//	    args: { product_id: p9, quantity: 2 }
//	  - op: place_order
//	    args: {}
//	    expect: ok
//	assertions:
//	  - type: order_total
//	    index: 0
//	    total: 2000
//	  - type: cart_lines
//	    count: 0
//
// Setup steps must succeed. Flow steps may carry an expect clause: "ok" or
// an error code such as EMPTY_CART or NOT_LOGGED_IN.
//
// # Assertion Types
//
//   - trace_contains: an op appears in the trace with matching args
//   - trace_order: ops appear in the given order
//   - trace_count: an op appears exactly N times
//   - notification_contains: some notification's message contains text
//   - cart_lines: the session's cart has N lines
//   - order_count: N orders exist
//   - order_total: the order at index (newest first) has the given total
//   - collection_count: a persisted collection holds N records
//
// # Deterministic Testing
//
// Every scenario runs in an in-memory SQLite database seeded with the
// default catalog, with a deterministic wall clock, sequential record ids,
// and a fixed random source. The same scenario always produces the same
// trace, so traces can be compared against golden files.
package harness
