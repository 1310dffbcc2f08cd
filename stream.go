package brief

// Stream uses a pull-based iterator pattern. Cancellation flows through the
// context passed to Provider.Stream().
//
// Next returns events in the order the transport delivered them. It returns
// io.EOF once the transport has closed and every buffered frame has been
// handed out; any other error is a transport failure and is terminal.
//
// Close releases the underlying connection. It is safe to call at any point,
// including mid-stream and after Next has returned an error.
type Stream interface {
	Next() (Event, error)
	Close() error
}
