package brief_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/brief"
	"github.com/stretchr/testify/assert"
)

func TestSnapshot_Display(t *testing.T) {
	t.Parallel()

	t.Run("done shows text unchanged", func(t *testing.T) {
		t.Parallel()
		s := brief.Snapshot{State: brief.StateDone, Text: "Hello"}
		assert.Equal(t, "Hello", s.Display())
	})

	t.Run("failed appends reason after partial text", func(t *testing.T) {
		t.Parallel()
		s := brief.Snapshot{State: brief.StateFailed, Text: "Hel", Err: errors.New("connection reset")}
		assert.Equal(t, "Hel\nSorry, the service ran into a problem: connection reset", s.Display())
	})

	t.Run("failed without text shows only reason", func(t *testing.T) {
		t.Parallel()
		s := brief.Snapshot{State: brief.StateFailed, Err: errors.New("HTTP 500")}
		assert.Equal(t, "Sorry, the service ran into a problem: HTTP 500", s.Display())
	})

	t.Run("cancelled keeps partial text", func(t *testing.T) {
		t.Parallel()
		s := brief.Snapshot{State: brief.StateCancelled, Text: "He"}
		assert.Equal(t, "He", s.Display())
	})
}

func TestSnapshot_Failure(t *testing.T) {
	t.Parallel()

	assert.Empty(t, brief.Snapshot{State: brief.StateDone}.Failure())
	assert.Empty(t, brief.Snapshot{State: brief.StateFailed}.Failure(), "no error, no explanation")
	assert.Equal(t,
		"Sorry, the service ran into a problem: boom",
		brief.Snapshot{State: brief.StateFailed, Err: errors.New("boom")}.Failure(),
	)
}
