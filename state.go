package brief

// State is the lifecycle state of the current session.
type State int

const (
	StateIdle       State = iota // No session has been started.
	StateConnecting              // Request issued, waiting for the response.
	StateStreaming               // Response accepted, receiving deltas.
	StateDone                    // Transport reached end of stream.
	StateFailed                  // Request or transport failed; see Snapshot.Err.
	StateCancelled               // Cancelled by the caller.
)

// String returns the lower-case name of s.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateStreaming:
		return "streaming"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether s ends a session. The answer text is frozen in
// every terminal state.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed || s == StateCancelled
}

// Running reports whether a session is in flight.
func (s State) Running() bool {
	return s == StateConnecting || s == StateStreaming
}
