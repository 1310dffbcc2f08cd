package bubbletea

import tea "github.com/charmbracelet/bubbletea"

// Listen exports the mailbox listen command for testing.
func Listen(m *Mailbox) tea.Cmd {
	return m.listen()
}

// RenderContent exports renderContent for testing.
func RenderContent(m Model) string {
	return m.renderContent()
}

// StatusLine exports statusLine for testing.
func StatusLine(m Model) string {
	return m.statusLine()
}
