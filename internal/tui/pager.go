package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fabricsnap/fabricsnap/internal/backup"
	"github.com/fabricsnap/fabricsnap/internal/model"
	"github.com/fabricsnap/fabricsnap/internal/report"
)

type pagerKind int

const (
	pagerDiff pagerKind = iota
	pagerHealth
	pagerBackup
)

// trendWidth is how many health scores the pager sparkline shows.
const trendWidth = 30

// pagerModel is the shared scrollable view for comparison, health and
// backup results.
type pagerModel struct {
	kind   pagerKind
	title  string
	lines  []string
	offset int
}

func (p *pagerModel) maxOffset(height int) int {
	m := len(p.lines) - height
	if m < 0 {
		m = 0
	}
	return m
}

func (app *App) openPager(kind pagerKind, title, body string) {
	app.pager = pagerModel{kind: kind, title: title, lines: strings.Split(body, "\n")}
	app.screen = screenPager
}

func (app *App) openDiffPager(msg diffDoneMsg) {
	body := report.RenderDiff(&msg.report, msg.beforeName, msg.afterName)
	app.openPager(pagerDiff, "Comparison", body)
}

func (app *App) openHealthPager(rep *model.HealthReport) {
	body := report.RenderHealth(rep)
	if app.trend.Len() > 1 {
		sev := scoreSeverity(rep.FabricHealth, app.thresholds.Health)
		line := "Trend: " + sev.style().Render(RenderSparkline(app.trend.Scores(), trendWidth))
		body = line + "\n\n" + body
	}
	app.openPager(pagerHealth, "Health Check", body)
}

func (app *App) openBackupPager(results []backup.DeviceResult) {
	var b strings.Builder
	ok := 0
	for _, r := range results {
		if r.Err == nil {
			ok++
		}
	}
	fmt.Fprintf(&b, "%d of %d devices backed up\n\n", ok, len(results))
	for _, r := range results {
		if r.Err != nil {
			b.WriteString(statusBadStyle.Render("✗ ") + r.Host + dimStyle.Render("  "+r.Err.Error()) + "\n")
			continue
		}
		b.WriteString(statusOKStyle.Render("✓ ") + fmt.Sprintf("%s (%s)", r.Host, r.Platform) + "\n")
		for _, f := range r.Files {
			b.WriteString(dimStyle.Render("    "+f) + "\n")
		}
	}
	app.openPager(pagerBackup, "Config Backup", strings.TrimRight(b.String(), "\n"))
}

func (app *App) updatePager(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	height := app.pagerHeight()
	switch {
	case key.Matches(msg, keys.Quit):
		return app, tea.Quit
	case key.Matches(msg, keys.Back):
		app.screen = screenMenu
	case key.Matches(msg, keys.Up):
		if app.pager.offset > 0 {
			app.pager.offset--
		}
	case key.Matches(msg, keys.Down):
		if app.pager.offset < app.pager.maxOffset(height) {
			app.pager.offset++
		}
	case key.Matches(msg, keys.PageUp):
		app.pager.offset -= height
		if app.pager.offset < 0 {
			app.pager.offset = 0
		}
	case key.Matches(msg, keys.PageDown):
		app.pager.offset += height
		if max := app.pager.maxOffset(height); app.pager.offset > max {
			app.pager.offset = max
		}
	case key.Matches(msg, keys.Export):
		if app.pager.kind != pagerBackup {
			return app.startBusy("writing workbook", app.exportCmd())
		}
	}
	return app, nil
}

// pagerHeight is the number of lines left for pager content after the
// header, title and footer rows.
func (app *App) pagerHeight() int {
	h := app.height
	if h <= 0 {
		h = 24
	}
	h -= 6
	if h < 5 {
		h = 5
	}
	return h
}

func (app *App) viewPager() string {
	height := app.pagerHeight()
	if max := app.pager.maxOffset(height); app.pager.offset > max {
		app.pager.offset = max
	}
	off := app.pager.offset
	end := off + height
	if end > len(app.pager.lines) {
		end = len(app.pager.lines)
	}

	title := titleStyle.Render(app.pager.title)
	pos := dimStyle.Render(fmt.Sprintf("lines %d-%d of %d", off+1, end, len(app.pager.lines)))
	body := strings.Join(app.pager.lines[off:end], "\n")
	return lipgloss.JoinVertical(lipgloss.Left, title+"  "+pos, body)
}

// exportCmd writes the report behind the open pager to an XLSX file in
// the configured report directory.
func (app *App) exportCmd() tea.Cmd {
	dir := app.cfg.ReportDir
	kind := app.pager.kind
	health := app.lastHealth
	diff := app.lastDiff
	return func() tea.Msg {
		var path string
		var err error
		switch kind {
		case pagerHealth:
			if health == nil {
				return errMsg{fmt.Errorf("no health report to export")}
			}
			path, err = report.WriteHealthWorkbook(dir, health)
		case pagerDiff:
			if diff == nil {
				return errMsg{fmt.Errorf("no comparison to export")}
			}
			path, err = report.WriteDiffWorkbook(dir, &diff.report)
		default:
			return errMsg{fmt.Errorf("nothing to export")}
		}
		if err != nil {
			return errMsg{err}
		}
		return exportDoneMsg{path: path}
	}
}
