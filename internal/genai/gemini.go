package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/tidwall/gjson"

	"github.com/roach88/artisha/internal/model"
)

// Defaults for the Generative Language API.
const (
	DefaultEndpoint   = "https://generativelanguage.googleapis.com/v1beta"
	DefaultChatModel  = "gemini-2.5-flash"
	DefaultImageModel = "gemini-2.5-flash-image"
)

// Config configures a Gemini client. An empty APIKey makes every call
// return its offline fallback without touching the network.
type Config struct {
	Endpoint   string
	ChatModel  string
	ImageModel string
	APIKey     string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Gemini calls the generateContent REST endpoint.
type Gemini struct {
	endpoint   string
	chatModel  string
	imageModel string
	apiKey     string
	http       *http.Client
	logger     *slog.Logger
}

var _ Client = (*Gemini)(nil)

// NewGemini creates a client, filling unset fields with defaults.
func NewGemini(cfg Config) *Gemini {
	return &Gemini{
		endpoint:   strings.TrimRight(lo.CoalesceOrEmpty(cfg.Endpoint, DefaultEndpoint), "/"),
		chatModel:  lo.CoalesceOrEmpty(cfg.ChatModel, DefaultChatModel),
		imageModel: lo.CoalesceOrEmpty(cfg.ImageModel, DefaultImageModel),
		apiKey:     cfg.APIKey,
		http:       lo.CoalesceOrEmpty(cfg.HTTPClient, &http.Client{Timeout: 60 * time.Second}),
		logger:     lo.CoalesceOrEmpty(cfg.Logger, slog.Default()),
	}
}

// Available reports whether a credential is configured.
func (g *Gemini) Available() bool {
	return g.apiKey != ""
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type request struct {
	Contents          []content `json:"contents"`
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
}

func userContent(text string) content {
	return content{Role: string(model.ChatUser), Parts: []part{{Text: text}}}
}

func systemContent(text string) *content {
	return &content{Parts: []part{{Text: text}}}
}

// CreativeReply implements Client.
func (g *Gemini) CreativeReply(ctx context.Context, prompt string, history []Turn) string {
	if !g.Available() {
		return CreativeOffline
	}

	contents := lo.Map(history, func(t Turn, _ int) content {
		return content{Role: string(t.Role), Parts: []part{{Text: t.Text}}}
	})
	contents = append(contents, userContent(prompt))

	res := g.generate(ctx, g.chatModel, request{
		Contents:          contents,
		SystemInstruction: systemContent(creativeInstruction),
	})
	if res.IsError() {
		g.logger.Error("creative chat request failed", "error", res.Error())
		return CreativeFailed
	}
	return lo.CoalesceOrEmpty(responseText(res.MustGet()), CreativeEmpty)
}

// GenerateImage implements Client.
func (g *Gemini) GenerateImage(ctx context.Context, prompt string) mo.Option[string] {
	if !g.Available() {
		return mo.None[string]()
	}

	res := g.generate(ctx, g.imageModel, request{Contents: []content{{Parts: []part{{Text: prompt}}}}})
	if res.IsError() {
		g.logger.Error("image generation request failed", "error", res.Error())
		return mo.None[string]()
	}
	return responseImage(res.MustGet())
}

// ProductDescription implements Client.
func (g *Gemini) ProductDescription(ctx context.Context, title, category string) string {
	if !g.Available() {
		return ""
	}

	res := g.generate(ctx, g.chatModel, request{Contents: []content{userContent(descriptionPrompt(title, category))}})
	if res.IsError() {
		g.logger.Error("description request failed", "error", res.Error())
		return ""
	}
	return responseText(res.MustGet())
}

// SupportReply implements Client.
func (g *Gemini) SupportReply(ctx context.Context, message string, user mo.Option[model.User], orders []model.Order) string {
	if !g.Available() {
		return SupportOffline
	}

	res := g.generate(ctx, g.chatModel, request{
		Contents:          []content{userContent(message)},
		SystemInstruction: systemContent(SupportContext(user, orders)),
	})
	if res.IsError() {
		g.logger.Error("support request failed", "error", res.Error())
		return SupportFailed
	}
	return lo.CoalesceOrEmpty(responseText(res.MustGet()), SupportEmpty)
}

// generate posts req to modelName and returns the validated response body.
func (g *Gemini) generate(ctx context.Context, modelName string, req request) mo.Result[[]byte] {
	body, err := json.Marshal(req)
	if err != nil {
		return mo.Err[[]byte](fmt.Errorf("marshal request: %w", err))
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.endpoint, modelName)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return mo.Err[[]byte](fmt.Errorf("build request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	start := time.Now()
	resp, err := g.http.Do(httpReq)
	if err != nil {
		return mo.Err[[]byte](fmt.Errorf("post %s: %w", modelName, err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return mo.Err[[]byte](fmt.Errorf("read response: %w", err))
	}
	g.logger.Debug("generateContent", "model", modelName, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(data, "error.message").String()
		return mo.Err[[]byte](fmt.Errorf("%s: status %d: %s", modelName, resp.StatusCode, msg))
	}
	if !gjson.ValidBytes(data) {
		return mo.Err[[]byte](fmt.Errorf("%s: response is not valid JSON", modelName))
	}
	return mo.Ok(data)
}

// responseText concatenates the text parts of the first candidate.
func responseText(data []byte) string {
	var b strings.Builder
	gjson.GetBytes(data, "candidates.0.content.parts").ForEach(func(_, p gjson.Result) bool {
		b.WriteString(p.Get("text").String())
		return true
	})
	return b.String()
}

// responseImage returns the first inline image of the first candidate as a
// PNG data URI.
func responseImage(data []byte) mo.Option[string] {
	img := mo.None[string]()
	gjson.GetBytes(data, "candidates.0.content.parts").ForEach(func(_, p gjson.Result) bool {
		inline := p.Get("inlineData.data")
		if !inline.Exists() {
			return true
		}
		img = mo.Some("data:image/png;base64," + inline.String())
		return false
	})
	return img
}
