// Package tui implements the live front-desk watch screen: every booking in
// a table, with locked rows counting down to expiry in real time.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/patcharin/innflow/internal/cli"
	"github.com/patcharin/innflow/internal/desk"
	"github.com/patcharin/innflow/internal/model"
)

type tickMsg time.Time

type bookingsMsg []model.Booking

// deskModel holds the watch screen state.
type deskModel struct {
	store    *desk.Store
	now      func() time.Time
	updates  <-chan []model.Booking
	table    table.Model
	bookings []model.Booking
	width    int
	height   int
	quitting bool
}

var (
	deskTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cli.PrimaryColor).
			Padding(0, 1)

	deskHelpStyle = lipgloss.NewStyle().
			Foreground(cli.SubtleColor).
			Padding(0, 1)
)

func newDeskModel(store *desk.Store, now func() time.Time, updates <-chan []model.Booking) deskModel {
	columns := []table.Column{
		{Title: "Room", Width: 6},
		{Title: "Guest", Width: 22},
		{Title: "Status", Width: 12},
		{Title: "Check-in", Width: 11},
		{Title: "Check-out", Width: 11},
		{Title: "Total", Width: 10},
		{Title: "Lock", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(cli.SubtleColor).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#000000")).
		Background(cli.PrimaryColor)
	t.SetStyles(s)

	m := deskModel{
		store:   store,
		now:     now,
		updates: updates,
		table:   t,
	}
	m.setBookings(store.List())
	return m
}

func (m deskModel) Init() tea.Cmd {
	return tea.Batch(tick(), m.waitForUpdate())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m deskModel) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		bookings, ok := <-m.updates
		if !ok {
			return nil
		}
		return bookingsMsg(bookings)
	}
}

func (m deskModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(5, msg.Height-6))

	case tickMsg:
		// Re-render countdowns each second.
		m.refreshRows()
		return m, tick()

	case bookingsMsg:
		m.setBookings(msg)
		return m, m.waitForUpdate()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *deskModel) setBookings(bookings []model.Booking) {
	m.bookings = bookings
	m.refreshRows()
}

func (m *deskModel) refreshRows() {
	now := m.now()
	rows := make([]table.Row, 0, len(m.bookings))
	for _, b := range m.bookings {
		rows = append(rows, table.Row{
			b.RoomNumber,
			b.GuestName,
			string(b.Status),
			model.FormatDate(b.CheckIn),
			model.FormatDate(b.CheckOut),
			fmt.Sprintf("%.0f", b.TotalAmount),
			lockCountdown(b, now),
		})
	}
	m.table.SetRows(rows)
}

// lockCountdown renders the time left on a booking lock as mm:ss.
func lockCountdown(b model.Booking, now time.Time) string {
	if b.Status != model.StatusLocked || b.LockedUntil == nil {
		return ""
	}
	remaining := b.LockedUntil.Sub(now)
	if remaining <= 0 {
		return "expired"
	}
	remaining = remaining.Round(time.Second)
	return fmt.Sprintf("%02d:%02d", int(remaining.Minutes()), int(remaining.Seconds())%60)
}

func (m deskModel) View() string {
	if m.quitting {
		return ""
	}

	title := deskTitleStyle.Render("Front Desk")
	help := deskHelpStyle.Render("↑/↓ move · q quit")
	return title + "\n" + m.table.View() + "\n" + help + "\n"
}
