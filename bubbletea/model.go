package bubbletea

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/brief"
	"github.com/fwojciec/brief/markdown"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

var _ tea.Model = Model{}

const (
	queryMarker   = "› "
	anonymousHint = "Sign in to ask questions."
	minQueryWidth = 12
)

// Model is the Bubble Tea model for the brief TUI.
type Model struct {
	// Input is the question input. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable answer area. Exported for test access.
	Viewport viewport.Model
	// Spinner animates while an answer is loading. Exported for test access.
	Spinner spinner.Model

	ctl     Controller
	mailbox *Mailbox
	subject string
	theme   brief.Theme
	styles  Styles

	initial string
	save    func(brief.Snapshot) error

	snap   brief.Snapshot
	saved  string // session ID of the last snapshot handed to save
	notice string
	err    error
	width  int
	ready  bool
}

// Option configures a [Model].
type Option func(*Model)

// WithInitialQuery asks text as soon as the program starts.
func WithInitialQuery(text string) Option {
	return func(m *Model) { m.initial = text }
}

// WithSaver sets a function that persists each session once it reaches a
// terminal state. It runs outside the update loop.
func WithSaver(fn func(brief.Snapshot) error) Option {
	return func(m *Model) { m.save = fn }
}

// New creates a TUI Model. Snapshots published by ctl must be delivered
// through mailbox, and questions are asked on behalf of subjectID.
func New(ctl Controller, mailbox *Mailbox, subjectID string, theme brief.Theme, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask a question..."
	ti.Prompt = queryMarker
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	styles := NewStyles(theme)
	sp.Style = styles.Accent

	m := Model{
		Input:   ti,
		Spinner: sp,
		ctl:     ctl,
		mailbox: mailbox,
		subject: subjectID,
		theme:   theme,
		styles:  styles,
		snap:    ctl.Snapshot(),
	}
	for _, o := range opts {
		o(&m)
	}
	return m
}

// Snapshot returns the last snapshot the model rendered.
func (m Model) Snapshot() brief.Snapshot { return m.snap }

// Err returns the last error, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.mailbox.listen()}
	if m.initial != "" {
		text := m.initial
		cmds = append(cmds, func() tea.Msg { return askMsg{text: text} })
	}
	return tea.Batch(cmds...)
}

// askMsg asks a question without going through the input.
type askMsg struct {
	text string
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case askMsg:
		return m.ask(msg.text)

	case SnapshotMsg:
		return m.handleSnapshot(msg.Snapshot)

	case SavedMsg:
		if msg.Err != nil {
			m.err = fmt.Errorf("save transcript: %w", msg.Err)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.snap.State.Running() {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		m = m.refresh()
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputHeight := 1
	statusHeight := 1
	borderHeight := 2 // newlines between sections
	vpHeight := max(msg.Height-inputHeight-statusHeight-borderHeight, 1)

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.width = msg.Width
	m.Input.Width = msg.Width - runewidth.StringWidth(queryMarker) - 1
	return m.refresh()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.snap.State.Running() {
			m.ctl.Cancel()
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEsc:
		if m.snap.State.Running() {
			m.ctl.Cancel()
		}
		return m, nil

	case tea.KeyEnter:
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		m.Input.SetValue("")
		return m.ask(text)
	}

	// Scroll keys go to the viewport, typing goes to the input. 'j'/'k'
	// are both text and scroll keys, so runes only reach the input.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if msg.Type != tea.KeyRunes {
		m.Viewport, cmd = m.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// ask starts a session for text. A session in flight is superseded.
func (m Model) ask(text string) (tea.Model, tea.Cmd) {
	m.notice = ""
	m.err = nil
	if !m.ctl.Start(text, m.subject) {
		m.notice = anonymousHint
		return m, nil
	}
	m.snap = m.ctl.Snapshot()
	m = m.refresh()
	return m, m.Spinner.Tick
}

func (m Model) handleSnapshot(s brief.Snapshot) (tea.Model, tea.Cmd) {
	m.snap = s
	m = m.refresh()
	m.Viewport.GotoBottom()

	cmds := []tea.Cmd{m.mailbox.listen()}
	if s.State.Terminal() && m.save != nil && s.SessionID != m.saved {
		m.saved = s.SessionID
		save := m.save
		cmds = append(cmds, func() tea.Msg {
			return SavedMsg{SessionID: s.SessionID, Err: save(s)}
		})
	}
	return m, tea.Batch(cmds...)
}

// refresh re-renders the answer into the viewport.
func (m Model) refresh() Model {
	if m.ready {
		m.Viewport.SetContent(m.renderContent())
	}
	return m
}

func (m Model) renderContent() string {
	s := m.snap
	if s.Query.Text == "" {
		return ""
	}
	width := m.Viewport.Width

	var b strings.Builder
	b.WriteString(m.styles.Query.Width(width).Render(queryMarker + s.Query.Text))
	b.WriteString("\n\n")
	if s.State.Running() && s.Text == "" {
		b.WriteString(m.Spinner.View() + " " + m.styles.Muted.Render("Thinking..."))
	} else {
		b.WriteString(markdown.Render(s.Text, width, m.theme))
	}
	if f := s.Failure(); f != "" {
		if s.Text != "" {
			b.WriteString("\n\n")
		}
		b.WriteString(m.styles.Error.Width(width).Render(f))
	}
	return b.String()
}

func (m Model) statusLine() string {
	if m.err != nil {
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.notice != "" {
		return m.styles.Error.Render(m.notice)
	}

	s := m.snap
	query := runewidth.Truncate(s.Query.Text, max(m.width/3, minQueryWidth), "…")
	switch s.State {
	case brief.StateConnecting:
		return m.Spinner.View() + " " + m.styles.Muted.Render("Connecting... Esc to cancel")
	case brief.StateStreaming:
		return m.Spinner.View() + " " + m.styles.Muted.Render(fmt.Sprintf("Answering %q... Esc to cancel", query))
	case brief.StateDone:
		chars := uniseg.GraphemeClusterCount(s.Text)
		return m.styles.Success.Render(fmt.Sprintf("Done: %d characters", chars)) +
			m.styles.Muted.Render(" · Enter to ask, Ctrl+C to quit")
	case brief.StateFailed:
		return m.styles.Error.Render("Failed") + m.styles.Muted.Render(" · Enter to ask, Ctrl+C to quit")
	case brief.StateCancelled:
		return m.styles.Muted.Render(fmt.Sprintf("Cancelled %q · Enter to ask, Ctrl+C to quit", query))
	default:
		return m.styles.Muted.Render("Enter to ask, Ctrl+C to quit")
	}
}
