package harness

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/samber/lo"

	"github.com/roach88/artisha/internal/model"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for i, event := range e.Trace {
			if event.Type == "completion" {
				fmt.Fprintf(&buf, "  [%d] %s -> %s\n", i+1, event.Op, event.Outcome)
			}
		}
	}

	return buf.String()
}

// AssertionContext gives assertions access to final state.
type AssertionContext struct {
	Ctx     context.Context
	Harness *Harness
}

// collectionCounters count the persisted records of each collection.
var collectionCounters = map[string]func(ctx context.Context, h *Harness) int{
	"users":     func(ctx context.Context, h *Harness) int { return len(h.db.Users().GetAll(ctx)) },
	"products":  func(ctx context.Context, h *Harness) int { return len(h.db.Products().GetAll(ctx)) },
	"orders":    func(ctx context.Context, h *Harness) int { return len(h.db.Orders().GetAll(ctx)) },
	"reviews":   func(ctx context.Context, h *Harness) int { return len(h.db.Reviews().GetAll(ctx)) },
	"messages":  func(ctx context.Context, h *Harness) int { return len(h.db.Messages().GetAll(ctx)) },
	"wishlist":  func(ctx context.Context, h *Harness) int { return len(h.db.Wishlist().GetAll(ctx)) },
	"analytics": func(ctx context.Context, h *Harness) int { return len(h.db.Analytics().GetRecent(ctx)) },
}

// assertTraceContains checks if the trace contains an invocation matching
// the specified op and args (subset match).
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	for _, event := range trace {
		if event.Type == "invocation" && event.Op == assertion.Op && matchArgs(event.Args, assertion.Args) {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("op %s with args %v", assertion.Op, assertion.Args),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks if ops appear in the specified order.
// Ops don't need to be consecutive (intervening ops are allowed).
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	positions := make(map[string]int)
	for i, event := range trace {
		if event.Type != "invocation" {
			continue
		}
		if lo.Contains(assertion.Ops, event.Op) && positions[event.Op] == 0 {
			positions[event.Op] = i + 1 // 1-indexed for readability
		}
	}

	for _, op := range assertion.Ops {
		if positions[op] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all ops present: %v", assertion.Ops),
				Actual:   fmt.Sprintf("missing op: %s", op),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(assertion.Ops); i++ {
		prev, curr := assertion.Ops[i-1], assertion.Ops[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("ops in order: %v", assertion.Ops),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}
	return nil
}

// assertTraceCount checks if the op was invoked exactly Count times.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := lo.CountBy(trace, func(e TraceEvent) bool {
		return e.Type == "invocation" && e.Op == assertion.Op
	})
	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%s invoked %d times", assertion.Op, assertion.Count),
			Actual:   fmt.Sprintf("invoked %d times", count),
			Trace:    trace,
		}
	}
	return nil
}

func assertNotificationContains(h *Harness, assertion Assertion) error {
	notes := append(h.state.Notifier().All(), h.state.Notifier().Alerts()...)
	if lo.ContainsBy(notes, func(n model.Notification) bool {
		return strings.Contains(n.Message, assertion.Message)
	}) {
		return nil
	}
	return &AssertionError{
		Type:     AssertNotificationContains,
		Expected: fmt.Sprintf("a notification containing %q", assertion.Message),
		Actual: fmt.Sprintf("%d notifications: %v", len(notes),
			lo.Map(notes, func(n model.Notification, _ int) string { return n.Message })),
	}
}

func assertCount(kind string, want, got int) error {
	if want == got {
		return nil
	}
	return &AssertionError{
		Type:     kind,
		Expected: fmt.Sprintf("%d", want),
		Actual:   fmt.Sprintf("%d", got),
	}
}

func assertOrderTotal(h *Harness, assertion Assertion) error {
	orders := h.state.Orders()
	if assertion.Index >= len(orders) {
		return &AssertionError{
			Type:     AssertOrderTotal,
			Expected: fmt.Sprintf("order at index %d", assertion.Index),
			Actual:   fmt.Sprintf("%d orders", len(orders)),
		}
	}
	order := orders[assertion.Index]
	if order.Total != assertion.Total {
		return &AssertionError{
			Type:     AssertOrderTotal,
			Expected: fmt.Sprintf("order %s total %d", order.ID, assertion.Total),
			Actual:   fmt.Sprintf("total %d", order.Total),
		}
	}
	return nil
}

// matchArgs checks if actual args contain all expected args (subset match).
// Extra keys in actual are ignored.
func matchArgs(actual, expected map[string]any) bool {
	for key, expectedVal := range expected {
		actualVal, exists := actual[key]
		if !exists || !reflect.DeepEqual(actualVal, expectedVal) {
			return false
		}
	}
	return true
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		default:
			if actx == nil || actx.Harness == nil {
				err = fmt.Errorf("assertion[%d]: %s requires state context", i, assertion.Type)
				break
			}
			err = evaluateStateAssertion(actx, assertion)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

func evaluateStateAssertion(actx *AssertionContext, assertion Assertion) error {
	h := actx.Harness
	switch assertion.Type {
	case AssertNotificationContains:
		return assertNotificationContains(h, assertion)
	case AssertCartLines:
		return assertCount(AssertCartLines, assertion.Count, len(h.sess.Cart()))
	case AssertOrderCount:
		return assertCount(AssertOrderCount, assertion.Count, len(h.state.Orders()))
	case AssertOrderTotal:
		return assertOrderTotal(h, assertion)
	case AssertCollectionCount:
		counter, ok := collectionCounters[assertion.Collection]
		if !ok {
			return fmt.Errorf("unknown collection %q", assertion.Collection)
		}
		return assertCount(AssertCollectionCount+"("+assertion.Collection+")", assertion.Count, counter(actx.Ctx, h))
	}
	return fmt.Errorf("unknown assertion type %q", assertion.Type)
}
