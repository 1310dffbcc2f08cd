package sse_test

import (
	"testing"

	"github.com/fwojciec/brief/sse"
	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		frame string
		want  sse.Event
	}{
		{
			name:  "event and data",
			frame: "event: conversation.message.delta\ndata: {\"content\":\"He\"}",
			want:  sse.Event{Name: "conversation.message.delta", Data: `{"content":"He"}`},
		},
		{
			name:  "missing event name defaults to message",
			frame: "data: hello",
			want:  sse.Event{Name: "message", Data: "hello"},
		},
		{
			name:  "multi-line data joined with newline",
			frame: "event: done\ndata: {\ndata:   \"a\": 1\ndata: }",
			want:  sse.Event{Name: "done", Data: "{\n  \"a\": 1\n}"},
		},
		{
			name:  "only one leading space stripped",
			frame: "data:  two spaces",
			want:  sse.Event{Name: "message", Data: " two spaces"},
		},
		{
			name:  "no space after colon",
			frame: "event:done\ndata:{}",
			want:  sse.Event{Name: "done", Data: "{}"},
		},
		{
			name:  "last event name wins",
			frame: "event: first\nevent: second\ndata: x",
			want:  sse.Event{Name: "second", Data: "x"},
		},
		{
			name:  "comments and unknown fields ignored",
			frame: ": keep-alive\nid: 7\nretry: 100\nevent: ping\ndata: {}",
			want:  sse.Event{Name: "ping", Data: "{}"},
		},
		{
			name:  "carriage returns dropped",
			frame: "event: done\r\ndata: {}\r",
			want:  sse.Event{Name: "done", Data: "{}"},
		},
		{
			name:  "no data lines yields empty data",
			frame: "event: conversation.chat.created",
			want:  sse.Event{Name: "conversation.chat.created", Data: ""},
		},
		{
			name:  "garbage frame",
			frame: "not a field at all",
			want:  sse.Event{Name: "message", Data: ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sse.Parse(tt.frame))
		})
	}
}
