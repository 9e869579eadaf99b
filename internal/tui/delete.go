package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// confirmModel holds the snapshot queued for deletion while the user
// decides.
type confirmModel struct {
	name string
}

func (app *App) openConfirmDelete(name string) {
	app.confirm = confirmModel{name: name}
	app.screen = screenConfirmDelete
}

func (app *App) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		name := app.confirm.name
		app.screen = screenSnapshots
		return app, app.deleteCmd(name)
	case "n", "N", "esc":
		app.screen = screenSnapshots
	}
	return app, nil
}

func (app *App) viewConfirm() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Delete snapshot"),
		"",
		warnBannerStyle.Render("  WARNING: this permanently removes the snapshot file"),
		"",
		"  "+app.confirm.name,
		"",
		dimStyle.Render("  y to delete, n to cancel"),
	)
}
