package bubbletea

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/brief"
)

// Styles maps a Theme to lipgloss styles for TUI rendering.
type Styles struct {
	Query   lipgloss.Style
	Accent  lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t brief.Theme) Styles {
	return Styles{
		Query:   lipgloss.NewStyle().Foreground(ansiColor(t.Query)).Bold(true),
		Accent:  lipgloss.NewStyle().Foreground(ansiColor(t.Accent)),
		Muted:   lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		Error:   lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Success: lipgloss.NewStyle().Foreground(ansiColor(t.Success)),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
