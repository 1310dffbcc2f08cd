// Package bubbletea provides a Bubble Tea TUI for asking questions and
// watching the answer stream in.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/brief"
)

// Controller is the part of [brief.Controller] the TUI drives.
type Controller interface {
	Start(text, subjectID string) bool
	Cancel()
	Snapshot() brief.Snapshot
}

// Interface compliance check.
var _ Controller = (*brief.Controller)(nil)

// Run creates and runs the Bubble Tea TUI program. It blocks until the program
// exits. The context is used for graceful shutdown: when cancelled, the
// program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// SnapshotMsg delivers a controller snapshot to the model.
type SnapshotMsg struct {
	Snapshot brief.Snapshot
}

// SavedMsg reports the outcome of persisting a finished session.
type SavedMsg struct {
	SessionID string
	Err       error
}

// Mailbox hands snapshots from the controller to the program. It holds at
// most one snapshot; a newer one replaces an unread older one, so the
// controller never waits on the UI.
type Mailbox struct {
	ch chan brief.Snapshot
}

// NewMailbox creates an empty Mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{ch: make(chan brief.Snapshot, 1)}
}

// Observe stores s, replacing any unread snapshot. It never blocks and is
// meant to be passed to [brief.WithObserver].
func (m *Mailbox) Observe(s brief.Snapshot) {
	select {
	case <-m.ch:
	default:
	}
	select {
	case m.ch <- s:
	default:
	}
}

// listen waits for the next snapshot.
func (m *Mailbox) listen() tea.Cmd {
	return func() tea.Msg {
		return SnapshotMsg{Snapshot: <-m.ch}
	}
}
