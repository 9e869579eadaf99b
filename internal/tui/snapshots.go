package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/fabricsnap/fabricsnap/internal/format"
	"github.com/fabricsnap/fabricsnap/internal/snapstore"
)

var snapshotHeaders = []string{"", "NAME", "HOST", "CAPTURED", "AGE"}

func (app *App) updateSnapshots(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if app.table.searching {
		switch msg.String() {
		case "enter":
			app.table.searching = false
			app.table.search.Blur()
		case "esc":
			app.table.searching = false
			app.table.search.SetValue("")
			app.table.search.Blur()
			app.table.applyFilter()
		default:
			var cmd tea.Cmd
			app.table.search, cmd = app.table.search.Update(msg)
			app.table.applyFilter()
			return app, cmd
		}
		return app, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return app, tea.Quit
	case key.Matches(msg, keys.Back):
		app.screen = screenMenu
	case key.Matches(msg, keys.Up):
		app.table.moveUp()
	case key.Matches(msg, keys.Down):
		app.table.moveDown()
	case key.Matches(msg, keys.PageUp):
		app.table.prevPage()
	case key.Matches(msg, keys.PageDown):
		app.table.nextPage()
	case key.Matches(msg, keys.Search):
		app.table.searching = true
		app.table.search.Focus()
	case key.Matches(msg, keys.Mark):
		app.table.toggleMark()
	case key.Matches(msg, keys.Refresh):
		return app, app.listCmd()
	case key.Matches(msg, keys.Settings):
		app.openSettings()
	case key.Matches(msg, keys.Delete):
		if e, ok := app.table.selected(); ok {
			app.openConfirmDelete(e.Name)
		}
	case key.Matches(msg, keys.Enter):
		if before, after, ok := app.table.markedPair(); ok {
			return app.startBusy("comparing snapshots", app.diffCmd(before, after))
		}
		if len(app.table.marked) == 0 {
			return app.startBusy("comparing latest snapshots", app.latestDiffCmd())
		}
	}
	return app, nil
}

// viewSnapshots renders the browser: a hint bar, the paged table and a
// mark status line.
func (app *App) viewSnapshots() string {
	hdr := app.snapshotHint()

	start, end := app.table.currentPageIndices()
	if end == start {
		empty := "  (no snapshots)"
		if strings.TrimSpace(app.table.search.Value()) != "" {
			empty = "  (no matches)"
		}
		return lipgloss.JoinVertical(lipgloss.Left, hdr, dimStyle.Render(empty))
	}

	cursorRow := app.table.cursor - start
	markedRows := make(map[int]bool, 2)
	for i := start; i < end; i++ {
		e := app.table.rows[app.table.filtered[i]]
		if app.table.marked[e.Name] {
			markedRows[i-start] = true
		}
	}

	t := ltable.New().
		Headers(snapshotHeaders...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(colorGray)
			}
			base := lipgloss.NewStyle()
			if row%2 == 0 {
				base = base.Background(colorDarkAlt)
			}
			switch {
			case row == cursorRow:
				return base.Bold(true).Foreground(colorCyan)
			case markedRows[row]:
				return base.Foreground(colorYellow)
			default:
				return base
			}
		}).
		BorderStyle(lipgloss.NewStyle().Foreground(colorGray)).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(true).
		BorderColumn(false)

	if app.width > 0 {
		t = t.Width(app.width)
	}

	for i := start; i < end; i++ {
		e := app.table.rows[app.table.filtered[i]]
		t = t.Row(snapshotCells(e, app.table.marked[e.Name])...)
	}

	return lipgloss.JoinVertical(lipgloss.Left, hdr, t.String(), app.markStatus())
}

func snapshotCells(e snapstore.Entry, marked bool) []string {
	mark := " "
	if marked {
		mark = "●"
	}
	return []string{
		mark,
		e.Name,
		e.Host,
		e.CapturedAt.Format("2006-01-02 15:04"),
		format.FormatAge(time.Since(e.CapturedAt)),
	}
}

// snapshotHint renders the title bar with filter and page hints. While
// searching, the live textinput view is shown instead.
func (app *App) snapshotHint() string {
	pageInfo := fmt.Sprintf("Page %d/%d", app.table.page+1, app.table.pageCount())

	var right string
	term := strings.TrimSpace(app.table.search.Value())
	switch {
	case app.table.searching:
		right = "Search: " + app.table.search.View()
	case term != "":
		right = fmt.Sprintf("filter=%q  %s", term, pageInfo)
	default:
		right = fmt.Sprintf("[/: filter]  [space: mark]  [enter: compare]  [d: delete]  %s", pageInfo)
	}

	return dimStyle.Render("Snapshots  " + right)
}

func (app *App) markStatus() string {
	switch len(app.table.marked) {
	case 0:
		return dimStyle.Render("  mark two snapshots to compare, or press enter for the latest pair")
	case 1:
		return dimStyle.Render("  1 marked, mark one more to compare")
	default:
		before, after, _ := app.table.markedPair()
		return dimStyle.Render(fmt.Sprintf("  enter compares %s vs %s", before, after))
	}
}
