package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/mo"

	"github.com/roach88/artisha/internal/appstate"
	"github.com/roach88/artisha/internal/genai"
	"github.com/roach88/artisha/internal/model"
)

// DefaultSupportDelay is the support bot's typing speed.
const DefaultSupportDelay = 20 * time.Millisecond

// QuickActions are the canned questions offered by the support bot.
var QuickActions = []string{
	"Where is my order?",
	"Shipping Policy",
	"Return Policy",
}

// Support is the customer support bot. Its transcript lives only as long as
// the value.
type Support struct {
	widget *Widget
	ai     genai.Client
	state  *appstate.Store
	sess   *appstate.Session
}

// NewSupport opens a support conversation for sess, greeting the user by
// first name.
func NewSupport(ai genai.Client, state *appstate.Store, sess *appstate.Session, opts Options) *Support {
	s := &Support{ai: ai, state: state, sess: sess}
	s.widget = NewWidget(nil, opts)
	s.widget.transcript = []model.ChatMessage{s.widget.Message(model.ChatModel, Greeting(sess))}
	return s
}

// Greeting is the bot's opening line.
func Greeting(sess *appstate.Session) string {
	name := "there"
	if user, ok := sess.User(); ok {
		if first, _, _ := strings.Cut(strings.TrimSpace(user.Name), " "); first != "" {
			name = first
		}
	}
	return fmt.Sprintf("Hi %s! 👋 I am the Artisha Support Bot. How can I help you today?", name)
}

// Send asks the bot a question. The reply is built from the session's user
// and their orders at the time of asking.
func (s *Support) Send(ctx context.Context, text string) (model.ChatMessage, error) {
	return s.widget.Send(ctx, text, func(ctx context.Context, _ []model.ChatMessage, text string) model.ChatMessage {
		user := mo.None[model.User]()
		if u, ok := s.sess.User(); ok {
			user = mo.Some(u)
		}
		reply := s.ai.SupportReply(ctx, text, user, s.state.UserOrders(s.sess))
		return s.widget.Message(model.ChatModel, reply)
	})
}

// Transcript returns the conversation so far.
func (s *Support) Transcript() []model.ChatMessage {
	return s.widget.Transcript()
}

// Busy reports whether a reply is in flight.
func (s *Support) Busy() bool {
	return s.widget.Busy()
}
