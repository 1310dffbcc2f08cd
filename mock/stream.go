package mock

import "github.com/fwojciec/brief"

// Interface compliance check.
var _ brief.Stream = (*Stream)(nil)

// Stream is a test double for brief.Stream.
// NextFn panics when nil to catch missing setup. CloseFn is nil-safe
// because callers always defer Close and it rarely needs custom behavior.
type Stream struct {
	NextFn  func() (brief.Event, error)
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (brief.Event, error) {
	return s.NextFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}
