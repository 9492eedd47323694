package genai

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/roach88/artisha/internal/model"
)

// Fallback replies.
const (
	CreativeOffline   = "AI services are unavailable (API Key missing)."
	CreativeEmpty     = "I'm having trouble visualizing that right now."
	CreativeFailed    = "Sorry, I encountered an error connecting to the creative mind."
	SupportOffline    = "I'm offline right now (API Key missing)."
	SupportEmpty      = "I didn't catch that."
	SupportFailed     = "I am currently experiencing technical difficulties."
	FinalVisualMarker = "FINAL VISUALIZATION:"
)

const creativeInstruction = "You are Artisha's AI Creative Consultant. Your goal is to help customers " +
	"articulate their vision for a custom art piece. Ask clarifying questions about style, medium " +
	"(oil, watercolor, digital), color palette, and mood. Be concise, friendly, and artistic. If the " +
	"user seems satisfied with the description, summarize it clearly starting with '" + FinalVisualMarker + "'."

const supportInstruction = "You are the support bot for Artisha, a Sri Lankan art marketplace. Answer " +
	"questions about shipping (island-wide delivery), payments (PayHere, Stripe), and custom orders. " +
	"Be polite and helpful."

// Turn is one prior message of a conversation.
type Turn struct {
	Role model.ChatRole
	Text string
}

// Client is the generative-content collaborator.
type Client interface {
	// CreativeReply continues a creative-studio conversation.
	CreativeReply(ctx context.Context, prompt string, history []Turn) string

	// GenerateImage renders prompt, returning a data URI or none.
	GenerateImage(ctx context.Context, prompt string) mo.Option[string]

	// ProductDescription writes a short description, or "" when unavailable.
	ProductDescription(ctx context.Context, title, category string) string

	// SupportReply answers a support question with the user's context.
	SupportReply(ctx context.Context, message string, user mo.Option[model.User], orders []model.Order) string
}

// TurnsFromTranscript converts a chat transcript into request history.
func TurnsFromTranscript(msgs []model.ChatMessage) []Turn {
	return lo.Map(msgs, func(m model.ChatMessage, _ int) Turn {
		return Turn{Role: m.Role, Text: m.Text}
	})
}

// SupportContext builds the support bot's system instruction. At most the
// first three orders are summarized.
func SupportContext(user mo.Option[model.User], orders []model.Order) string {
	var b strings.Builder
	b.WriteString(supportInstruction)

	if u, ok := user.Get(); ok {
		fmt.Fprintf(&b, " The user's name is %s.", u.Name)
	}

	if len(orders) == 0 {
		b.WriteString(" The user has no recent orders.")
		return b.String()
	}

	recent := orders[:min(3, len(orders))]
	summary := lo.Map(recent, func(o model.Order, _ int) string {
		return fmt.Sprintf("Order #%s (%s, Total: %d)", o.ID, o.Status, o.Total)
	})
	fmt.Fprintf(&b, " The user has the following recent orders: %s. If they ask about order status, refer to this data.",
		strings.Join(summary, ", "))
	return b.String()
}

func descriptionPrompt(title, category string) string {
	return fmt.Sprintf("Write a compelling, artistic, and concise product description (max 2 sentences) "+
		"for a %s art piece titled %q. Focus on craftsmanship, visual appeal, and emotional impact.", category, title)
}

// Offline answers every call with the missing-credential fallback.
type Offline struct{}

var _ Client = Offline{}

func (Offline) CreativeReply(context.Context, string, []Turn) string { return CreativeOffline }

func (Offline) GenerateImage(context.Context, string) mo.Option[string] { return mo.None[string]() }

func (Offline) ProductDescription(context.Context, string, string) string { return "" }

func (Offline) SupportReply(context.Context, string, mo.Option[model.User], []model.Order) string {
	return SupportOffline
}
