package gemini

import (
	"context"
	"fmt"

	"github.com/fwojciec/brief"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ brief.Provider = (*Client)(nil)

// Client implements [brief.Provider] for the Google Gemini API.
type Client struct {
	client    *genai.Client
	model     string
	maxTokens int
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the model ID. Default is gemini-2.5-flash.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithMaxTokens caps the length of an answer.
func WithMaxTokens(n int) Option {
	return func(c *Client) { c.maxTokens = n }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	c := &Client{
		client:    gc,
		model:     defaultModel,
		maxTokens: defaultMaxTokens,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Stream sends q as a single user turn and returns a [brief.Stream] of its
// answer fragments. It waits for the first response, so a refused request
// is returned as an error.
func (c *Client) Stream(ctx context.Context, q brief.Query) (brief.Stream, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	iter := c.client.Models.GenerateContentStream(ctx, c.model, Contents(q), c.config())
	s, err := openStream(ctx, iter)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (c *Client) config() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		MaxOutputTokens: int32(c.maxTokens),
	}
}

// Contents converts a query to the single-turn genai conversation.
// Exported for testing.
func Contents(q brief.Query) []*genai.Content {
	return []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: q.Text}},
	}}
}
