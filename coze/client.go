package coze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/fwojciec/brief"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Interface compliance check.
var _ brief.Provider = (*Client)(nil)

// Client implements [brief.Provider] for the Coze chat API.
type Client struct {
	token      string
	botID      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for payloads that could not be decoded.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a new Coze [Client] that authenticates with token and talks to
// the bot botID.
func New(token, botID string, opts ...Option) *Client {
	c := &Client{
		token:   token,
		botID:   botID,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport,
				otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
					return operation + " " + r.URL.Path
				}),
			),
		},
		logger: logger,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Stream sends q to the chat endpoint and returns a [brief.Stream] over the
// event stream in the response body.
func (c *Client) Stream(ctx context.Context, q brief.Query) (brief.Stream, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("coze: %w", err)
	}

	body, err := json.Marshal(apiRequest{
		BotID:  c.botID,
		UserID: q.SubjectID,
		Stream: true,
		AdditionalMessages: []apiMessage{{
			Role:        roleUser,
			Content:     q.Text,
			ContentType: contentTypeText,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("coze: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("coze: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("coze: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, parseHTTPError(resp)
	}
	if resp.Body == nil || resp.Body == http.NoBody || resp.ContentLength == 0 {
		if resp.Body != nil {
			resp.Body.Close()
		}
		return nil, fmt.Errorf("coze: HTTP %d: empty response body", resp.StatusCode)
	}
	// Request errors such as an unknown bot come back as a JSON document
	// with a success status.
	if isJSON(resp.Header.Get("Content-Type")) {
		defer resp.Body.Close()
		return nil, parseHTTPError(resp)
	}

	return newStream(ctx, resp.Body, c.logger), nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

// parseHTTPError builds an APIError from a refused response. The message is
// taken from a JSON error body if there is one, else from the raw body text,
// else a generic one.
func parseHTTPError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: "unknown server error"}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		apiErr.Message = fmt.Sprintf("failed to read body: %v", err)
		return apiErr
	}

	var payload apiErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Code = payload.Code
		if msg := payload.text(); msg != "" {
			apiErr.Message = msg
		}
		return apiErr
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		apiErr.Message = text
	}
	return apiErr
}
