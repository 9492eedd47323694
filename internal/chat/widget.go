package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/roach88/artisha/internal/appstate"
	"github.com/roach88/artisha/internal/model"
)

var (
	// ErrBusy is returned by Send while a previous reply is still in flight.
	ErrBusy = errors.New("chat: a reply is still in progress")

	// ErrEmpty is returned by Send for blank input.
	ErrEmpty = errors.New("chat: message is empty")
)

// Responder produces the model's reply to text given the transcript that
// preceded it.
type Responder func(ctx context.Context, history []model.ChatMessage, text string) model.ChatMessage

// Options configures a Widget.
type Options struct {
	Delay  time.Duration
	Clock  appstate.Clock
	IDs    appstate.IDGenerator
	Logger *slog.Logger

	// OnFrame observes typewriter playback.
	OnFrame func(partial string)

	// OnChange is called with the full transcript after every commit.
	OnChange func(ctx context.Context, transcript []model.ChatMessage) error
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = appstate.SystemClock{}
	}
	if o.IDs == nil {
		o.IDs = appstate.UUIDv7Generator{}
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// Widget is a single-flight chat transcript.
type Widget struct {
	mu         sync.Mutex
	busy       bool
	transcript []model.ChatMessage
	typewriter Typewriter
	opts       Options
}

// NewWidget creates a widget seeded with transcript.
func NewWidget(transcript []model.ChatMessage, opts Options) *Widget {
	opts = opts.withDefaults()
	return &Widget{
		transcript: slices.Clone(transcript),
		typewriter: Typewriter{Delay: opts.Delay},
		opts:       opts,
	}
}

// Transcript returns a copy of the committed messages.
func (w *Widget) Transcript() []model.ChatMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.transcript)
}

// Busy reports whether a reply is in flight.
func (w *Widget) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busy
}

// Message builds a transcript entry stamped with the widget's clock and ids.
func (w *Widget) Message(role model.ChatRole, text string) model.ChatMessage {
	return model.ChatMessage{
		ID:        w.opts.IDs.NewID("msg"),
		Role:      role,
		Text:      text,
		Timestamp: w.opts.Clock.Now().UnixMilli(),
	}
}

// Send commits the user's text, asks respond for a reply, plays it, and
// commits it. Returns ErrBusy if another Send is in flight.
func (w *Widget) Send(ctx context.Context, text string, respond Responder) (model.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return model.ChatMessage{}, ErrEmpty
	}

	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return model.ChatMessage{}, ErrBusy
	}
	w.busy = true
	history := slices.Clone(w.transcript)
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.busy = false
		w.mu.Unlock()
	}()

	if err := w.commit(ctx, w.Message(model.ChatUser, text)); err != nil {
		return model.ChatMessage{}, err
	}

	reply := respond(ctx, history, text)
	if err := w.typewriter.Play(ctx, reply.Text, w.opts.OnFrame); err != nil {
		w.opts.Logger.Debug("reply playback abandoned", "id", reply.ID, "error", err)
		return model.ChatMessage{}, err
	}

	if err := w.commit(ctx, reply); err != nil {
		return model.ChatMessage{}, err
	}
	return reply, nil
}

// Reset replaces the transcript. It fails with ErrBusy during a reply.
func (w *Widget) Reset(ctx context.Context, transcript []model.ChatMessage) error {
	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return ErrBusy
	}
	w.transcript = slices.Clone(transcript)
	snapshot := slices.Clone(w.transcript)
	w.mu.Unlock()

	return w.notifyChange(ctx, snapshot)
}

func (w *Widget) commit(ctx context.Context, msg model.ChatMessage) error {
	w.mu.Lock()
	w.transcript = append(w.transcript, msg)
	snapshot := slices.Clone(w.transcript)
	w.mu.Unlock()

	return w.notifyChange(ctx, snapshot)
}

func (w *Widget) notifyChange(ctx context.Context, transcript []model.ChatMessage) error {
	if w.opts.OnChange == nil {
		return nil
	}
	return w.opts.OnChange(ctx, transcript)
}
