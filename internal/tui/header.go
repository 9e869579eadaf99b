package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// viewHeader renders the top bar: program name on the left, the fabric
// host centered and the latest health score or busy state on the right.
func (app *App) viewHeader() string {
	width := app.width
	if width <= 0 {
		width = 80
	}

	left := titleStyle.Render("fabricsnap")
	center := dimStyle.Render(app.cfg.Fabric.Host)

	var right string
	switch {
	case app.busy:
		right = app.spinner.View() + " " + dimStyle.Render(app.busyText)
	case app.haveScore:
		sev := scoreSeverity(app.lastScore, app.thresholds.Health)
		right = dimStyle.Render("health ") + sev.style().Render(strconv.Itoa(app.lastScore))
	default:
		right = dimStyle.Render("no checks yet")
	}

	lw := lipgloss.Width(left)
	cw := lipgloss.Width(center)
	rw := lipgloss.Width(right)

	leftGap := (width-cw)/2 - lw
	if leftGap < 1 {
		leftGap = 1
	}
	rightGap := width - lw - leftGap - cw - rw
	if rightGap < 1 {
		rightGap = 1
	}

	return headerStyle.Render(left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right)
}
