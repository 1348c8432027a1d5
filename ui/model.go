// Package ui is the interactive terminal front end for an insight session.
package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/theimaginaryfoundation/insight-snapshot/insight"
)

const defaultWidth = 80

// settledMsg is delivered when an in-flight submission resolves.
type settledMsg struct {
	snap insight.Snapshot
}

// Options configures the model.
type Options struct {
	// WordWrap is the markdown wrap width (defaults to 80).
	WordWrap int

	// PlainText disables glamour rendering of the snapshot.
	PlainText bool
}

// Model renders an *insight.Session and forwards key presses to it.
type Model struct {
	ctx     context.Context
	session *insight.Session

	textarea textarea.Model
	spinner  spinner.Model
	viewport viewport.Model
	renderer *glamour.TermRenderer

	width      int
	height     int
	wordWrap   int
	plain      bool
	quickStart int

	// rendered is the snapshot shown in the viewport; it is rebuilt on entering success.
	rendered string
}

// New builds a model bound to session. ctx bounds submissions started from the UI.
func New(ctx context.Context, session *insight.Session, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	ta := textarea.New()
	ta.Placeholder = "Describe a workplace situation you're processing..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(defaultWidth - 4)
	ta.SetHeight(6)
	ta.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle))

	wrap := opts.WordWrap
	if wrap <= 0 {
		wrap = defaultWidth
	}

	m := Model{
		ctx:        ctx,
		session:    session,
		textarea:   ta,
		spinner:    sp,
		viewport:   viewport.New(defaultWidth, 20),
		width:      defaultWidth,
		wordWrap:   wrap,
		plain:      opts.PlainText,
		quickStart: -1,
	}
	m.renderer = newRenderer(wrap, opts.PlainText)
	return m
}

func newRenderer(wrap int, plain bool) *glamour.TermRenderer {
	if plain {
		return nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return nil
	}
	return r
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.textarea.SetWidth(max(20, msg.Width-4))
		m.viewport.Width = msg.Width
		m.viewport.Height = max(5, msg.Height-4)
		if !m.plain && msg.Width-8 > 20 && msg.Width-8 < m.wordWrap {
			m.renderer = newRenderer(msg.Width-8, false)
		}
		m.refreshResult()
		return m, nil

	case settledMsg:
		m.refreshResult()
		return m, nil

	case spinner.TickMsg:
		if m.session.Snapshot().State != insight.StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}

	if m.session.Snapshot().State == insight.StateIdle {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.session.Snapshot().State {
	case insight.StateIdle:
		return m.handleIdleKey(msg)
	case insight.StateLoading:
		return m, nil
	case insight.StateSuccess:
		switch msg.String() {
		case "esc", "r":
			m.session.Reset()
			m.rendered = ""
			m.textarea.Focus()
			return m, textarea.Blink
		case "q":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case insight.StateError:
		switch msg.String() {
		case "esc", "r":
			m.session.Reset()
			m.textarea.Focus()
			return m, textarea.Blink
		case "d":
			m.session.SelectDemo(insight.DemoConflict)
			m.refreshResult()
			return m, nil
		case "q":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) handleIdleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		text := m.textarea.Value()
		if !insight.ValidReflection(text) {
			return m, nil
		}
		m.session.Submit(m.ctx, text)
		if m.session.Snapshot().State != insight.StateLoading {
			return m, nil
		}
		m.textarea.Blur()
		return m, tea.Batch(m.spinner.Tick, awaitSession(m.ctx, m.session))

	case "ctrl+e":
		qs := insight.QuickStarts()
		m.quickStart = (m.quickStart + 1) % len(qs)
		m.textarea.SetValue(qs[m.quickStart].Text)
		return m, nil

	case "f1", "f2", "f3":
		keys := insight.DemoKeys()
		idx := int(msg.String()[1] - '1')
		if idx < len(keys) {
			m.session.SelectDemo(keys[idx])
			m.textarea.Blur()
			m.refreshResult()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// awaitSession blocks off the UI goroutine until the submission settles.
func awaitSession(ctx context.Context, s *insight.Session) tea.Cmd {
	return func() tea.Msg {
		return settledMsg{snap: s.Await(ctx)}
	}
}

func (m *Model) refreshResult() {
	snap := m.session.Snapshot()
	if snap.State != insight.StateSuccess || snap.Result == nil {
		m.rendered = ""
		return
	}
	m.rendered = m.renderResult(*snap.Result)
	m.viewport.SetContent(m.rendered)
	m.viewport.GotoTop()
}

func (m Model) renderResult(r insight.Result) string {
	md := insight.Markdown(r)
	if m.renderer == nil {
		return md
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// Session exposes the underlying session for callers that need its final state.
func (m Model) Session() *insight.Session {
	return m.session
}
