// Package sse decodes Server-Sent-Events framing from a chunked byte stream.
//
// A Reassembler turns arbitrarily split chunks into complete frames, Parse
// turns one frame into an Event, and a Decoder ties both to an io.Reader
// behind a pull-based Next.
package sse

import "strings"

const (
	eventPrefix = "event:"
	dataPrefix  = "data:"

	// defaultEventName is the name of a frame without an event field.
	defaultEventName = "message"

	// delimiter ends every frame.
	delimiter = "\n\n"
)

// Event is one parsed frame.
type Event struct {
	Name string // from the "event:" line, "message" if absent
	Data string // "data:" lines joined with "\n"
}

// Parse parses the text of one frame. It never fails: lines it does not
// recognize are ignored, and a frame without data lines yields empty Data.
func Parse(frame string) Event {
	var name string
	var data []string
	for _, line := range strings.Split(frame, "\n") {
		line = strings.TrimSuffix(line, "\r")
		switch {
		case strings.HasPrefix(line, eventPrefix):
			name = strings.TrimSpace(line[len(eventPrefix):])
		case strings.HasPrefix(line, dataPrefix):
			value := line[len(dataPrefix):]
			// Strip a single leading space if present.
			value = strings.TrimPrefix(value, " ")
			data = append(data, value)
		}
		// Comments (":"), id, retry and unknown fields are ignored.
	}
	if name == "" {
		name = defaultEventName
	}
	return Event{Name: name, Data: strings.Join(data, "\n")}
}
