package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type menuItem struct {
	title  string
	detail string
}

var menuItems = []menuItem{
	{"Take snapshot", "capture operational state into a timestamped file"},
	{"Run health check", "live pass/fail review against thresholds"},
	{"Compare latest two", "diff the two most recent snapshots"},
	{"Browse snapshots", "list, mark two to compare, delete"},
	{"Back up device configs", "pull configs over SSH for the CSV inventory"},
	{"Quit", ""},
}

func (app *App) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return app, tea.Quit
	case key.Matches(msg, keys.Up):
		if app.menuCursor > 0 {
			app.menuCursor--
		}
	case key.Matches(msg, keys.Down):
		if app.menuCursor < len(menuItems)-1 {
			app.menuCursor++
		}
	case key.Matches(msg, keys.Settings):
		app.openSettings()
	case key.Matches(msg, keys.Enter):
		return app.runMenuItem()
	}
	return app, nil
}

func (app *App) runMenuItem() (tea.Model, tea.Cmd) {
	switch app.menuCursor {
	case 0:
		return app.startBusy("taking snapshot", app.takeSnapshotCmd())
	case 1:
		return app.startBusy("running health check", app.healthCmd())
	case 2:
		return app.startBusy("comparing latest snapshots", app.latestDiffCmd())
	case 3:
		app.screen = screenSnapshots
		return app, app.listCmd()
	case 4:
		return app.startBusy("backing up device configs", app.backupCmd())
	case 5:
		return app, tea.Quit
	}
	return app, nil
}

func (app *App) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n")
	for i, item := range menuItems {
		if i == app.menuCursor {
			b.WriteString("  " + menuCursorStyle.Render("▸ "+item.title))
		} else {
			b.WriteString("    " + menuItemStyle.Render(item.title))
		}
		if item.detail != "" {
			b.WriteString(dimStyle.Render("  " + item.detail))
		}
		b.WriteString("\n")
	}
	return b.String()
}
