package brief

// Event is a sealed interface representing one semantic streaming event.
// Events are purely semantic. Transport/protocol errors come from
// Next()'s error return, not from events.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventMessageDelta carries one incremental fragment of the answer text.
type EventMessageDelta struct {
	Text string
}

func (EventMessageDelta) event() {}

// EventDone signals that the remote side considers the turn complete.
// It is informational; the end of the answer is the end of the stream.
type EventDone struct{}

func (EventDone) event() {}

// EventUnrecognized is any event that carries nothing for the answer:
// unknown event names, and delta events whose payload could not be decoded.
type EventUnrecognized struct {
	Name string
}

func (EventUnrecognized) event() {}

// Interface compliance checks.
var (
	_ Event = EventMessageDelta{}
	_ Event = EventDone{}
	_ Event = EventUnrecognized{}
)
