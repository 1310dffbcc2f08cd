package coze

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/fwojciec/brief"
	"github.com/fwojciec/brief/sse"
)

// stream implements [brief.Stream] by decoding SSE frames from an HTTP
// response body.
type stream struct {
	ctx    context.Context
	body   io.ReadCloser
	dec    *sse.Decoder
	logger *slog.Logger
	closed bool
	err    error // terminal error, io.EOF on normal completion
}

// Interface compliance check.
var _ brief.Stream = (*stream)(nil)

func newStream(ctx context.Context, body io.ReadCloser, logger *slog.Logger) *stream {
	return &stream{
		ctx:    ctx,
		body:   body,
		dec:    sse.NewDecoder(ctxReader{ctx: ctx, r: body}),
		logger: logger,
	}
}

// Next reads the next semantic event. Returns io.EOF when the body ends.
// The done event does not end the stream; the body closing does.
func (s *stream) Next() (brief.Event, error) {
	if s.closed {
		return nil, fmt.Errorf("coze: %w", brief.ErrStreamClosed)
	}
	if s.err != nil {
		return nil, s.err
	}

	evt, err := s.dec.Next()
	if err != nil {
		return nil, s.terminate(err)
	}
	if err := s.ctx.Err(); err != nil {
		return nil, s.terminate(err)
	}
	return classify(evt, s.logger), nil
}

// Close closes the underlying HTTP response body.
func (s *stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}

// terminate records the terminal error. A read that failed because the
// context ended is reported as the context error.
func (s *stream) terminate(err error) error {
	switch {
	case errors.Is(err, io.EOF):
		s.err = io.EOF
	case s.ctx.Err() != nil:
		s.err = fmt.Errorf("coze: %w", s.ctx.Err())
	default:
		s.err = fmt.Errorf("coze: %w", err)
	}
	return s.err
}

// classify maps a parsed frame to a semantic event. A delta whose payload is
// not a JSON object with a string content and the answer type is
// unrecognized, never an error.
func classify(evt sse.Event, logger *slog.Logger) brief.Event {
	switch evt.Name {
	case eventMessageDelta:
		var delta apiMessageDelta
		if err := json.Unmarshal([]byte(evt.Data), &delta); err != nil {
			logger.Warn("malformed delta payload", "event", evt.Name, "data", evt.Data, "error", err)
			return brief.EventUnrecognized{Name: evt.Name}
		}
		if delta.Type != typeAnswer || delta.Content == nil {
			logger.Debug("delta is not an answer fragment", "type", delta.Type)
			return brief.EventUnrecognized{Name: evt.Name}
		}
		return brief.EventMessageDelta{Text: *delta.Content}
	case eventDone:
		return brief.EventDone{}
	default:
		return brief.EventUnrecognized{Name: evt.Name}
	}
}

// ctxReader fails reads once ctx is done, so no chunk is read after
// cancellation even if the transport still has data buffered.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r ctxReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
