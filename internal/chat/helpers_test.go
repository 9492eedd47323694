package chat

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/require"

	"github.com/roach88/artisha/internal/appstate"
	"github.com/roach88/artisha/internal/genai"
	"github.com/roach88/artisha/internal/model"
	"github.com/roach88/artisha/internal/seed"
	"github.com/roach88/artisha/internal/store"
	"github.com/roach88/artisha/internal/testutil"
)

// fakeAI is a scripted genai.Client.
type fakeAI struct {
	mu           sync.Mutex
	creative     []string
	image        mo.Option[string]
	support      string
	imagePrompts []string
	histories    [][]genai.Turn
	supportUser  mo.Option[model.User]
	supportOrder []model.Order
}

var _ genai.Client = (*fakeAI)(nil)

func (f *fakeAI) CreativeReply(_ context.Context, _ string, history []genai.Turn) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.histories = append(f.histories, history)
	if len(f.creative) == 0 {
		return genai.CreativeEmpty
	}
	reply := f.creative[0]
	f.creative = f.creative[1:]
	return reply
}

func (f *fakeAI) GenerateImage(_ context.Context, prompt string) mo.Option[string] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imagePrompts = append(f.imagePrompts, prompt)
	return f.image
}

func (f *fakeAI) ProductDescription(context.Context, string, string) string { return "" }

func (f *fakeAI) SupportReply(_ context.Context, _ string, user mo.Option[model.User], orders []model.Order) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.supportUser = user
	f.supportOrder = orders
	return f.support
}

type fixture struct {
	ctx   context.Context
	db    *store.Store
	state *appstate.Store
	sess  *appstate.Session
	opts  Options
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	clock := testutil.NewDeterministicClock()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := store.Open(filepath.Join(t.TempDir(), "chat.db"), store.WithClock(clock.Now), store.WithLogger(logger))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sd, err := seed.Default()
	require.NoError(t, err)

	ids := testutil.NewSequenceIDGenerator()
	state := appstate.New(db, sd, appstate.WithClock(clock), appstate.WithIDGenerator(ids), appstate.WithLogger(logger))
	t.Cleanup(state.Close)
	sess, err := state.Bootstrap(ctx)
	require.NoError(t, err)

	return &fixture{
		ctx:   ctx,
		db:    db,
		state: state,
		sess:  sess,
		opts:  Options{Clock: clock, IDs: ids, Logger: logger},
	}
}
