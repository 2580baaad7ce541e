package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the card until the reader quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	s := New(opts)
	defer s.Close()

	p := tea.NewProgram(s,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
