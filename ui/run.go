package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theimaginaryfoundation/insight-snapshot/insight"
)

// Run starts the full-screen program and blocks until the user quits or ctx ends.
func Run(ctx context.Context, session *insight.Session, opts Options) error {
	if session == nil {
		return errors.New("ui.Run: session is nil")
	}
	p := tea.NewProgram(New(ctx, session, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
