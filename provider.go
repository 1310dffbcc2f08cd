package brief

import "context"

// Provider is a strategy pattern interface for conversational backends.
//
// Stream issues the request for q and returns once the response headers
// have been accepted. A non-success response is reported as an error here,
// never as a Stream.
type Provider interface {
	Stream(ctx context.Context, q Query) (Stream, error)
}
