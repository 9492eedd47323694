package appstate

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/artisha/internal/model"
	"github.com/roach88/artisha/internal/seed"
	"github.com/roach88/artisha/internal/store"
	"github.com/roach88/artisha/internal/testutil"
)

const (
	adminEmail    = "admin@artisha.com"
	customerEmail = "john@example.com"
	seedPassword  = "password123"
)

type fixture struct {
	ctx   context.Context
	db    *store.Store
	state *Store
	sess  *Session
	clock *testutil.DeterministicClock
}

// newFixture bootstraps a state store over a fresh database seeded with
// the default catalog.
func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	ctx := context.Background()
	clock := testutil.NewDeterministicClock()

	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"),
		store.WithClock(clock.Now),
		store.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sd, err := seed.Default()
	require.NoError(t, err)

	base := []Option{
		WithClock(clock),
		WithIDGenerator(testutil.NewSequenceIDGenerator()),
		WithRand(rand.New(rand.NewPCG(1, 2))),
	}
	state := New(db, sd, append(base, opts...)...)
	t.Cleanup(state.Close)

	sess, err := state.Bootstrap(ctx)
	require.NoError(t, err)

	return &fixture{ctx: ctx, db: db, state: state, sess: sess, clock: clock}
}

func (f *fixture) loginAdmin(t *testing.T) {
	t.Helper()
	require.NoError(t, f.state.Login(f.ctx, f.sess, adminEmail, model.RoleAdmin, none()))
}

func (f *fixture) loginCustomer(t *testing.T) {
	t.Helper()
	require.NoError(t, f.state.Login(f.ctx, f.sess, customerEmail, model.RoleCustomer, none()))
}

func (f *fixture) lastNotification(t *testing.T) model.Notification {
	t.Helper()
	all := f.state.Notifier().All()
	require.NotEmpty(t, all, "expected at least one notification")
	return all[len(all)-1]
}

func testProduct(id string, price int64) model.Product {
	return model.Product{
		ID:       id,
		Title:    "Product " + id,
		Price:    price,
		Category: "Painting",
		Stock:    1,
		Tags:     []string{"test"},
	}
}
