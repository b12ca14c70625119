package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/colonyops/noticeq/internal/core/history"
	"github.com/colonyops/noticeq/internal/core/styles"
	"github.com/colonyops/noticeq/internal/scheduler"
)

// Target is the part of the scheduler the keyboard drives.
type Target interface {
	Dismiss(h scheduler.Handle)
	ClearAll()
	Enable()
	Disable()
}

// Poster runs fn on the scheduler's goroutine without waiting for it.
type Poster interface {
	Post(fn func()) error
}

// Options configures a [Model].
type Options struct {
	// Port feeds scheduler output into the model.
	Port    *Port
	Target  Target
	Poster  Poster
	History *history.Log
	Plain   bool
	Log     zerolog.Logger
}

// Model is the bubbletea model for the watch overlay.
type Model struct {
	toasts *ToastController
	view   *ToastView
	keys   KeyMap
	help   help.Model

	port    *Port
	target  Target
	poster  Poster
	history *history.Log
	log     zerolog.Logger

	status   scheduler.Status
	width    int
	height   int
	quitting bool
}

// New creates the model. The scheduler starts enabled.
func New(opts Options) Model {
	toasts := NewToastController()
	return Model{
		toasts:  toasts,
		view:    NewToastView(toasts, opts.Plain),
		keys:    DefaultKeyMap(),
		help:    help.New(),
		port:    opts.Port,
		target:  opts.Target,
		poster:  opts.Poster,
		history: opts.History,
		log:     opts.Log,
		status:  scheduler.Status{Enabled: true},
		width:   80,
		height:  24,
	}
}

func (m Model) Init() tea.Cmd {
	if m.port == nil {
		return nil
	}
	return m.port.WaitForSignal()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	case drainMsg:
		if m.port == nil {
			return m, nil
		}
		for _, queued := range m.port.Drain() {
			m.apply(queued)
		}
		return m, m.port.WaitForSignal()
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		m.apply(msg)
	}
	return m, nil
}

// apply handles messages produced by the port.
func (m *Model) apply(msg tea.Msg) {
	switch msg := msg.(type) {
	case showMsg:
		m.toasts.Push(msg.req)
	case enteredMsg:
		m.toasts.Enter(msg.id)
	case removeMsg:
		m.toasts.Remove(msg.id)
	case StatusMsg:
		m.status = scheduler.Status(msg)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Dismiss):
		req, ok := m.toasts.Newest()
		if !ok {
			return m, nil
		}
		target := m.target
		m.post(func() { target.Dismiss(scheduler.Handle(req.ID)) })
	case key.Matches(msg, m.keys.Clear):
		target := m.target
		m.post(target.ClearAll)
	case key.Matches(msg, m.keys.Toggle):
		target := m.target
		if m.status.Enabled {
			m.post(target.Disable)
		} else {
			m.post(target.Enable)
		}
		m.status.Enabled = !m.status.Enabled
	}
	return m, nil
}

func (m Model) post(fn func()) {
	if m.target == nil || m.poster == nil {
		return
	}
	if err := m.poster.Post(fn); err != nil {
		m.log.Warn().Err(err).Msg("scheduler unavailable")
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := styles.TitleStyle.Render("noticeq") + "  " + styles.StatusStyle.Render(m.statusLine())
	footer := styles.HelpStyle.Render(m.help.View(m.keys))

	bodyH := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)
	body := m.view.Overlay(m.renderHistory(bodyH), m.width, bodyH)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) statusLine() string {
	s := fmt.Sprintf("%d visible · %d pinned · %d queued", m.status.Transient, m.status.Persistent, m.status.Queued)
	if !m.status.Enabled {
		s += " · paused"
	}
	return s
}

func (m Model) renderHistory(rows int) string {
	if m.history == nil {
		return ""
	}

	entries := m.history.Recent(rows)
	if len(entries) == 0 {
		return styles.StatusStyle.Render("no notices yet")
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		line := fmt.Sprintf("%s %s %s", e.At.Format("15:04:05"), styles.NoticeIcon(e.Kind, m.view.plain), e.Message)
		if !e.Shown() {
			line = styles.StatusStyle.Render(fmt.Sprintf("%s (%s)", line, e.Outcome))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
