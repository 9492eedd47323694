package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/roach88/artisha/internal/appstate"
	"github.com/roach88/artisha/internal/seed"
	"github.com/roach88/artisha/internal/store"
	"github.com/roach88/artisha/internal/testutil"
)

// Harness is the scenario execution engine. It owns one state store and one
// session for the lifetime of a scenario.
type Harness struct {
	db     *store.Store
	state  *appstate.Store
	sess   *appstate.Session
	clock  *testutil.DeterministicClock
	seq    int64
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation, seeded
// with the default catalog. Deterministic helpers ensure reproducible traces.
//
// Execution flow:
// 1. Create fresh in-memory database and bootstrap the state store
// 2. Execute setup steps (each must succeed)
// 3. Execute flow steps, checking expect clauses
// 4. Evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := testutil.NewDeterministicClock()

	db, err := store.Open(":memory:", store.WithClock(clock.Now), store.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer db.Close()

	sd, err := seed.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load seed: %w", err)
	}

	state := appstate.New(db, sd,
		appstate.WithClock(clock),
		appstate.WithIDGenerator(testutil.NewSequenceIDGenerator()),
		appstate.WithLogger(logger),
		appstate.WithRand(rand.New(rand.NewPCG(1, 2))),
	)
	defer state.Close()

	sess, err := state.Bootstrap(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to bootstrap state: %w", err)
	}

	h := &Harness{db: db, state: state, sess: sess, clock: clock, logger: logger}
	result := NewResult()

	for i, step := range scenario.Setup {
		outcome, err := h.execute(ctx, step, result)
		if err != nil {
			return nil, fmt.Errorf("setup step %d (%s): %w", i, step.Op, err)
		}
		if outcome != OutcomeOK {
			return nil, fmt.Errorf("setup step %d (%s): failed with %s", i, step.Op, outcome)
		}
	}

	for i, step := range scenario.Flow {
		outcome, err := h.execute(ctx, step, result)
		if err != nil {
			return nil, fmt.Errorf("flow step %d (%s): %w", i, step.Op, err)
		}
		if step.Expect != "" && outcome != step.Expect {
			result.AddError(fmt.Sprintf("flow[%d] %s: expected %s, got %s", i, step.Op, step.Expect, outcome))
		}
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions, &AssertionContext{Ctx: ctx, Harness: h}) {
		result.AddError(msg)
	}

	return result, nil
}

// execute runs one step and records it in the trace. Business-rule failures
// become the step's outcome; argument and harness failures are returned.
func (h *Harness) execute(ctx context.Context, step Step, result *Result) (string, error) {
	op, ok := operations[step.Op]
	if !ok {
		return "", fmt.Errorf("unknown op %q", step.Op)
	}

	result.AddInvocationTrace(step.Op, step.Args, h.nextSeq())

	args := &argReader{args: step.Args}
	out, err := op(ctx, h, args)
	if args.err != nil {
		return "", args.err
	}

	outcome := OutcomeOK
	if err != nil {
		code := appstate.CodeOf(err)
		if code == "" {
			return "", err
		}
		outcome = string(code)
		out = nil
	}

	result.AddCompletionTrace(step.Op, outcome, out, h.nextSeq())
	h.logger.Debug("step executed", "op", step.Op, "outcome", outcome)
	return outcome, nil
}

func (h *Harness) nextSeq() int64 {
	h.seq++
	return h.seq
}
