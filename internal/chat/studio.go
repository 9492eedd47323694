package chat

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/roach88/artisha/internal/appstate"
	"github.com/roach88/artisha/internal/genai"
	"github.com/roach88/artisha/internal/model"
	"github.com/roach88/artisha/internal/store"
)

// DefaultStudioDelay is the creative studio's typing speed.
const DefaultStudioDelay = 15 * time.Millisecond

// StudioWelcome opens every fresh studio conversation.
const StudioWelcome = "Welcome to the Creative Studio! I am your AI Art Consultant. Describe the artwork " +
	"you imagine (style, colors, mood) and I will help you visualize it before we commission an artisan."

// ErrNoVisualization is returned by Commission before any image exists.
var ErrNoVisualization = errors.New("chat: no visualization has been generated yet")

// Medium is a commission medium with its base price.
type Medium struct {
	Name string
	Base int64
}

// Size is a commission size with its price multiplier.
type Size struct {
	Name       string
	Multiplier float64
}

// Mediums lists the commission media, cheapest first.
var Mediums = []Medium{
	{"Canvas Print", 8500},
	{"Hand-embellished Print", 12000},
	{"Acrylic on Canvas", 18000},
	{"Oil Painting", 25000},
}

// Sizes lists the commission sizes in inches, smallest first.
var Sizes = []Size{
	{"12x16", 1},
	{"18x24", 1.4},
	{"24x36", 2.0},
	{"30x40", 2.5},
}

// CommissionConfig is the medium and size a commission is priced at.
type CommissionConfig struct {
	Medium string
	Size   string
}

// DefaultCommission is the studio's initial configuration.
var DefaultCommission = CommissionConfig{Medium: "Canvas Print", Size: "12x16"}

// EstimatePrice returns round(base(medium) × multiplier(size)). Unknown
// media price as Canvas Print; unknown sizes as 12x16.
func EstimatePrice(cfg CommissionConfig) int64 {
	base := Mediums[0].Base
	if m, ok := lo.Find(Mediums, func(m Medium) bool { return m.Name == cfg.Medium }); ok {
		base = m.Base
	}
	mult := Sizes[0].Multiplier
	if s, ok := lo.Find(Sizes, func(s Size) bool { return s.Name == cfg.Size }); ok {
		mult = s.Multiplier
	}
	return int64(math.Round(float64(base) * mult))
}

// Studio is the creative studio conversation. The transcript is kept in
// session-scoped storage so a reload resumes the conversation.
type Studio struct {
	widget *Widget
	ai     genai.Client
	db     *store.Store
	state  *appstate.Store

	mu     sync.Mutex
	image  mo.Option[string]
	config CommissionConfig
}

// OpenStudio restores the saved conversation, or starts a new one with the
// welcome message. The latest image in a restored transcript becomes the
// current visualization.
func OpenStudio(ctx context.Context, ai genai.Client, db *store.Store, state *appstate.Store, opts Options) *Studio {
	s := &Studio{ai: ai, db: db, state: state, config: DefaultCommission, image: mo.None[string]()}
	opts.OnChange = s.persist
	s.widget = NewWidget(nil, opts)

	if saved, ok := db.StudioTranscript(ctx); ok {
		s.widget.transcript = saved
		s.image = latestImage(saved)
	} else {
		s.widget.transcript = []model.ChatMessage{s.welcome()}
	}
	return s
}

func (s *Studio) welcome() model.ChatMessage {
	msg := s.widget.Message(model.ChatModel, StudioWelcome)
	msg.ID = "init"
	return msg
}

func (s *Studio) persist(ctx context.Context, transcript []model.ChatMessage) error {
	if err := s.db.SaveStudioTranscript(ctx, transcript); err != nil {
		return fmt.Errorf("save studio transcript: %w", err)
	}
	return nil
}

func latestImage(msgs []model.ChatMessage) mo.Option[string] {
	for _, m := range slices.Backward(msgs) {
		if m.Image != "" {
			return mo.Some(m.Image)
		}
	}
	return mo.None[string]()
}

// Send continues the design conversation. An image is requested when the
// reply carries a final visualization or the conversation already had more
// than two messages before this one.
func (s *Studio) Send(ctx context.Context, text string) (model.ChatMessage, error) {
	reply, err := s.widget.Send(ctx, text, s.respond)
	if err != nil {
		return model.ChatMessage{}, err
	}
	if reply.Image != "" {
		s.mu.Lock()
		s.image = mo.Some(reply.Image)
		s.mu.Unlock()
	}
	return reply, nil
}

func (s *Studio) respond(ctx context.Context, history []model.ChatMessage, text string) model.ChatMessage {
	answer := s.ai.CreativeReply(ctx, text, genai.TurnsFromTranscript(history))
	msg := s.widget.Message(model.ChatModel, answer)

	if strings.Contains(answer, genai.FinalVisualMarker) || len(history) > 2 {
		if img, ok := s.ai.GenerateImage(ctx, ImagePrompt(answer, text)).Get(); ok {
			msg.Image = img
		}
	}
	return msg
}

// ImagePrompt is the text after the final-visualization marker in reply,
// or input when the marker is absent.
func ImagePrompt(reply, input string) string {
	parts := strings.Split(reply, genai.FinalVisualMarker)
	if len(parts) < 2 {
		return input
	}
	return strings.TrimSpace(parts[1])
}

// Transcript returns the conversation so far.
func (s *Studio) Transcript() []model.ChatMessage {
	return s.widget.Transcript()
}

// Busy reports whether a reply is in flight.
func (s *Studio) Busy() bool {
	return s.widget.Busy()
}

// Visualization returns the latest generated image.
func (s *Studio) Visualization() mo.Option[string] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.image
}

// Configure selects the commission medium and size.
func (s *Studio) Configure(cfg CommissionConfig) error {
	if !lo.ContainsBy(Mediums, func(m Medium) bool { return m.Name == cfg.Medium }) {
		return fmt.Errorf("unknown medium %q", cfg.Medium)
	}
	if !lo.ContainsBy(Sizes, func(sz Size) bool { return sz.Name == cfg.Size }) {
		return fmt.Errorf("unknown size %q", cfg.Size)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
	return nil
}

// Config returns the current commission configuration.
func (s *Studio) Config() CommissionConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// EstimatedPrice prices the current configuration.
func (s *Studio) EstimatedPrice() int64 {
	return EstimatePrice(s.Config())
}

// Reset drops the saved conversation and starts over.
func (s *Studio) Reset(ctx context.Context) error {
	if s.widget.Busy() {
		return ErrBusy
	}
	if err := s.db.ClearStudioTranscript(ctx); err != nil {
		return fmt.Errorf("clear studio transcript: %w", err)
	}

	s.mu.Lock()
	s.image = mo.None[string]()
	s.config = DefaultCommission
	s.mu.Unlock()

	s.widget.mu.Lock()
	s.widget.transcript = []model.ChatMessage{s.welcome()}
	s.widget.mu.Unlock()
	return nil
}

// Commission turns the current visualization into a one-off product and
// adds it to sess's cart.
func (s *Studio) Commission(sess *appstate.Session) (model.Product, error) {
	img, ok := s.Visualization().Get()
	if !ok {
		return model.Product{}, ErrNoVisualization
	}
	cfg := s.Config()

	product := model.Product{
		ID:          s.widget.opts.IDs.NewID("custom"),
		Title:       fmt.Sprintf("Custom Commission (%s)", cfg.Medium),
		Description: fmt.Sprintf("Custom artwork based on AI visualization. Size: %s. Medium: %s.", cfg.Size, cfg.Medium),
		Price:       EstimatePrice(cfg),
		Category:    "Commission",
		ImageURL:    img,
		Stock:       1,
		Tags:        []string{"custom", "commission", "ai-design"},
	}

	s.state.AddToCart(sess, product)
	s.state.Notify(model.NotifySuccess, "Custom commission added to cart!")
	return product, nil
}
