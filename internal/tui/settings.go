package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fabricsnap/fabricsnap/internal/model"
)

// settingsForm edits the check thresholds and the fault lookback for
// the rest of the session. Nothing is written back to the config file.
type settingsForm struct {
	labels  []string
	inputs  []textinput.Model
	focused int
	errText string
}

func newSettingsForm(t model.Thresholds, lookback time.Duration) settingsForm {
	labels := []string{
		"Minimum health score",
		"CPU / memory ceiling %",
		"Interface error floor",
		"Fault lookback hours",
	}
	values := []string{
		strconv.Itoa(t.Health),
		strconv.FormatFloat(t.CPUMem, 'f', -1, 64),
		strconv.Itoa(t.InterfaceErrors),
		strconv.Itoa(int(lookback / time.Hour)),
	}

	inputs := make([]textinput.Model, len(labels))
	for i := range inputs {
		ti := textinput.New()
		ti.SetValue(values[i])
		ti.CharLimit = 8
		ti.Width = 10
		inputs[i] = ti
	}
	inputs[0].Focus()

	return settingsForm{labels: labels, inputs: inputs}
}

func (f *settingsForm) focusField(i int) {
	for j := range f.inputs {
		if j == i {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	f.focused = i
}

// parse validates the form and returns the new settings.
func (f *settingsForm) parse() (model.Thresholds, time.Duration, error) {
	health, err := strconv.Atoi(strings.TrimSpace(f.inputs[0].Value()))
	if err != nil || health < 0 || health > 100 {
		return model.Thresholds{}, 0, fmt.Errorf("minimum health score must be 0..100")
	}
	cpuMem, err := strconv.ParseFloat(strings.TrimSpace(f.inputs[1].Value()), 64)
	if err != nil || cpuMem <= 0 || cpuMem > 100 {
		return model.Thresholds{}, 0, fmt.Errorf("cpu / memory ceiling must be within 0..100")
	}
	floor, err := strconv.Atoi(strings.TrimSpace(f.inputs[2].Value()))
	if err != nil || floor < 0 {
		return model.Thresholds{}, 0, fmt.Errorf("interface error floor must be 0 or more")
	}
	hours, err := strconv.Atoi(strings.TrimSpace(f.inputs[3].Value()))
	if err != nil || hours < 0 {
		return model.Thresholds{}, 0, fmt.Errorf("fault lookback hours must be 0 or more")
	}

	t := model.Thresholds{Health: health, CPUMem: cpuMem, InterfaceErrors: floor}
	return t, time.Duration(hours) * time.Hour, nil
}

func (app *App) openSettings() {
	app.form = newSettingsForm(app.thresholds, app.lookback)
	app.screen = screenSettings
}

func (app *App) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		app.screen = screenMenu
		return app, nil
	case "enter", "ctrl+s":
		t, lookback, err := app.form.parse()
		if err != nil {
			app.form.errText = err.Error()
			return app, nil
		}
		app.thresholds = t
		app.lookback = lookback
		app.screen = screenMenu
		app.setStatus("settings applied for this session", false)
		return app, nil
	case "up", "shift+tab":
		app.form.focusField((app.form.focused + len(app.form.inputs) - 1) % len(app.form.inputs))
		return app, nil
	case "down", "tab":
		app.form.focusField((app.form.focused + 1) % len(app.form.inputs))
		return app, nil
	}

	var cmd tea.Cmd
	app.form.inputs[app.form.focused], cmd = app.form.inputs[app.form.focused].Update(msg)
	return app, cmd
}

func (app *App) viewSettings() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Session Settings"))
	b.WriteString("\n\n")
	for i := range app.form.inputs {
		label := formLabelStyle
		if i == app.form.focused {
			label = formFocusStyle
		}
		b.WriteString("  " + label.Render(app.form.labels[i]) + app.form.inputs[i].View() + "\n")
	}
	b.WriteString("\n")
	if app.form.errText != "" {
		b.WriteString("  " + errorStyle.Render(app.form.errText) + "\n")
	}
	b.WriteString(dimStyle.Render("  enter applies for this session, esc cancels"))
	return b.String()
}
