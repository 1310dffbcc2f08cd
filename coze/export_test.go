package coze

import (
	"log/slog"

	"github.com/fwojciec/brief"
	"github.com/fwojciec/brief/sse"
)

// Classify exposes classify for testing, with logging discarded.
func Classify(evt sse.Event) brief.Event {
	return classify(evt, slog.New(slog.DiscardHandler))
}
