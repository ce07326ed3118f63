package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/patcharin/innflow/internal/desk"
	"github.com/patcharin/innflow/internal/model"
)

// RunDesk runs the front-desk watch screen. It hosts the expiry sweeper for
// the duration of the program and stops it on exit, so locks expire on
// screen while the operator watches.
func RunDesk(ctx context.Context, store *desk.Store) error {
	updates := make(chan []model.Booking, 8)
	store.Subscribe(func() {
		// Drop the update if the screen is behind; it will pick up the
		// state on the next one.
		select {
		case updates <- store.List():
		default:
		}
	})

	store.StartSweeper(ctx)
	defer store.StopSweeper()

	m := newDeskModel(store, time.Now, updates)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("desk screen failed: %w", err)
	}
	return nil
}
