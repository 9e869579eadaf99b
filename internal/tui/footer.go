package tui

import "strings"

// viewFooter renders the bottom bar: the last status or a hint for the
// current screen, plus the help toggle.
func (app *App) viewFooter() string {
	if app.showHelp {
		return footerStyle.Render(helpText())
	}

	var left string
	switch {
	case app.statusErr:
		left = errorStyle.Render(app.status)
	case app.status != "":
		left = app.status
	default:
		left = dimStyle.Render(app.hintForScreen())
	}

	return footerStyle.Render(left + "  " + dimStyle.Render("? for help"))
}

func helpText() string {
	return strings.Join([]string{
		"↑/↓ move",
		"enter select",
		"space mark",
		"d delete",
		"x export xlsx",
		"/ filter",
		"r refresh",
		"s settings",
		"esc back",
		"q quit",
	}, "  ")
}

func (app *App) hintForScreen() string {
	switch app.screen {
	case screenMenu:
		return "enter runs the selected action, s settings, q quits"
	case screenSnapshots:
		return "space marks two to compare, enter compares, d deletes"
	case screenPager:
		return "↑/↓ scroll, x exports xlsx, esc back"
	case screenSettings:
		return "tab moves between fields, enter applies, esc cancels"
	case screenConfirmDelete:
		return "y deletes, n cancels"
	}
	return ""
}
