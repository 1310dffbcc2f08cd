package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/fwojciec/brief"
	"google.golang.org/genai"
)

// stream implements [brief.Stream] by wrapping the genai SDK's streaming
// iterator. One response chunk may carry several text parts, so decoded
// events are queued and handed out one per Next call.
type stream struct {
	ctx     context.Context
	pull    func() (*genai.GenerateContentResponse, error, bool)
	stop    func()
	pending []brief.Event
	closed  bool
	err     error
}

// Interface compliance check.
var _ brief.Stream = (*stream)(nil)

func newStream(ctx context.Context, iterFn iter.Seq2[*genai.GenerateContentResponse, error]) *stream {
	next, stop := iter.Pull2(iterFn)
	return &stream{
		ctx:  ctx,
		pull: next,
		stop: stop,
	}
}

// openStream starts the iterator and waits for its first response, so a
// request the API refuses is reported before any event is read.
func openStream(ctx context.Context, iterFn iter.Seq2[*genai.GenerateContentResponse, error]) (*stream, error) {
	s := newStream(ctx, iterFn)
	if err := s.fill(); err != nil && !errors.Is(err, io.EOF) {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Next returns the next event. Thought parts are dropped. A candidate with a
// finish reason yields [brief.EventDone]; exhaustion of the iterator yields
// io.EOF.
func (s *stream) Next() (brief.Event, error) {
	if s.closed {
		return nil, fmt.Errorf("gemini: %w", brief.ErrStreamClosed)
	}
	for len(s.pending) == 0 {
		if err := s.fill(); err != nil {
			return nil, err
		}
	}
	evt := s.pending[0]
	s.pending = s.pending[1:]
	return evt, nil
}

// fill pulls one response into pending. Errors are sticky.
func (s *stream) fill() error {
	if s.err != nil {
		return s.err
	}
	if err := s.ctx.Err(); err != nil {
		s.err = fmt.Errorf("gemini: %w", err)
		return s.err
	}
	resp, err, ok := s.pull()
	if !ok {
		s.err = io.EOF
		return s.err
	}
	if err != nil {
		s.err = fmt.Errorf("gemini: %w", err)
		return s.err
	}
	s.pending = append(s.pending, events(resp)...)
	return nil
}

// Close stops the underlying iterator. It is safe to call more than once.
func (s *stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.stop()
	return nil
}

func events(resp *genai.GenerateContentResponse) []brief.Event {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	cand := resp.Candidates[0]
	var out []brief.Event
	if cand.Content != nil {
		for _, p := range cand.Content.Parts {
			if p == nil || p.Thought || p.Text == "" {
				continue
			}
			out = append(out, brief.EventMessageDelta{Text: p.Text})
		}
	}
	if cand.FinishReason != "" {
		out = append(out, brief.EventDone{})
	}
	return out
}
