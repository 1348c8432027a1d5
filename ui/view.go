package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/theimaginaryfoundation/insight-snapshot/insight"
)

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	labelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorBox    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("160")).
			Padding(1, 2)
	errorTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("160"))
)

func (m Model) View() string {
	snap := m.session.Snapshot()
	var b strings.Builder
	b.WriteString(titleStyle.Render("Insight Snapshot"))
	b.WriteString("\n\n")

	switch snap.State {
	case insight.StateIdle:
		b.WriteString(m.idleView())
	case insight.StateLoading:
		fmt.Fprintf(&b, "%s Analyzing your reflection...\n", m.spinner.View())
	case insight.StateSuccess:
		if m.rendered != "" {
			b.WriteString(m.viewport.View())
		} else if snap.Result != nil {
			b.WriteString(m.renderResult(*snap.Result))
		}
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("esc/r: new reflection • ↑/↓: scroll • q: quit"))
	case insight.StateError:
		body := errorTitle.Render("Analysis Failed") + "\n\n" + snap.Err
		b.WriteString(errorBox.Render(body))
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("esc/r: back to input • d: see example snapshot • q: quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) idleView() string {
	var b strings.Builder
	b.WriteString(mutedStyle.Render("Analyzes a work experience to surface patterns and clarify your perspective."))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("LIVE REFLECTION"))
	b.WriteString("\n")
	b.WriteString(m.textarea.View())
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(characterHint(m.textarea.Value())))
	b.WriteString("\n\n")

	labels := make([]string, 0, 3)
	for _, q := range insight.QuickStarts() {
		labels = append(labels, q.Label)
	}
	b.WriteString(mutedStyle.Render("ctrl+s: analyze • ctrl+e: quick start (" + strings.Join(labels, " / ") + ")"))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("OR VIEW A DEMO (NO API KEY REQUIRED)"))
	b.WriteString("\n")
	for i, key := range insight.DemoKeys() {
		fmt.Fprintf(&b, "%s %s  ", accentStyle.Render(fmt.Sprintf("f%d", i+1)), key)
	}
	b.WriteString("\n")
	return b.String()
}

func characterHint(text string) string {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return fmt.Sprintf("Min %d characters required", insight.MinReflectionLength)
	}
	return fmt.Sprintf("%d characters", n)
}
