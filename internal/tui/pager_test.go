package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabricsnap/fabricsnap/internal/backup"
	"github.com/fabricsnap/fabricsnap/internal/model"
)

func pagerApp(t *testing.T, lines int) *App {
	t.Helper()
	app := testApp(t)
	parts := make([]string, lines)
	for i := range parts {
		parts[i] = fmt.Sprintf("line %d", i+1)
	}
	app.openPager(pagerDiff, "Comparison", strings.Join(parts, "\n"))
	return app
}

func TestPager_OpenResetsScroll(t *testing.T) {
	app := pagerApp(t, 100)

	assert.Equal(t, screenPager, app.screen)
	assert.Equal(t, 0, app.pager.offset)
	assert.Len(t, app.pager.lines, 100)
}

func TestPager_ScrollAndClamp(t *testing.T) {
	app := pagerApp(t, 100)
	app.height = 30

	newModel, _ := app.Update(tea.KeyMsg{Type: tea.KeyDown})
	app = newModel.(*App)
	assert.Equal(t, 1, app.pager.offset)

	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyUp})
	app = newModel.(*App)
	assert.Equal(t, 0, app.pager.offset)

	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyUp})
	app = newModel.(*App)
	assert.Equal(t, 0, app.pager.offset)

	for i := 0; i < 500; i++ {
		newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyDown})
		app = newModel.(*App)
	}
	assert.Equal(t, app.pager.maxOffset(app.pagerHeight()), app.pager.offset)
}

func TestPager_PageJumps(t *testing.T) {
	app := pagerApp(t, 100)
	app.height = 30
	height := app.pagerHeight()

	newModel, _ := app.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	app = newModel.(*App)
	assert.Equal(t, height, app.pager.offset)

	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	app = newModel.(*App)
	assert.Equal(t, 0, app.pager.offset)
}

func TestPager_ViewShowsWindow(t *testing.T) {
	app := pagerApp(t, 100)
	app.height = 30

	out := app.viewPager()
	assert.Contains(t, out, "Comparison")
	assert.Contains(t, out, "line 1")
	assert.Contains(t, out, fmt.Sprintf("lines 1-%d of 100", app.pagerHeight()))
	assert.NotContains(t, out, "line 99")
}

func TestPager_EscReturnsToMenu(t *testing.T) {
	app := pagerApp(t, 10)

	newModel, _ := app.Update(tea.KeyMsg{Type: tea.KeyEscape})
	app = newModel.(*App)
	assert.Equal(t, screenMenu, app.screen)
}

func TestPager_ExportHealthWritesWorkbook(t *testing.T) {
	app := testApp(t)
	rep := makeFixtureHealth(97)
	app.lastHealth = rep
	app.openHealthPager(rep)

	newModel, cmd := app.Update(keyRunes('x'))
	app = newModel.(*App)
	require.True(t, app.busy)
	require.NotNil(t, cmd)

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)

	var done exportDoneMsg
	found := false
	for _, c := range batch {
		if c == nil {
			continue
		}
		if m, ok := c().(exportDoneMsg); ok {
			done = m
			found = true
		}
	}
	require.True(t, found, "expected an exportDoneMsg from the batch")
	assert.True(t, strings.HasPrefix(filepath.Base(done.path), "healthcheck_"))
	_, err := os.Stat(done.path)
	require.NoError(t, err)
}

func TestPager_ExportDiffWritesWorkbook(t *testing.T) {
	app := testApp(t)
	diff := diffDoneMsg{
		beforeName: "a.json",
		afterName:  "b.json",
		report:     model.DiffReport{NewFaults: []string{"fault-dn"}},
	}
	app.lastDiff = &diff
	app.openDiffPager(diff)

	msg := app.exportCmd()()
	done, ok := msg.(exportDoneMsg)
	require.True(t, ok, "expected exportDoneMsg, got %T", msg)
	assert.True(t, strings.HasPrefix(filepath.Base(done.path), "comparison_"))
	_, err := os.Stat(done.path)
	require.NoError(t, err)
}

func TestPager_BackupViewHasNoExport(t *testing.T) {
	app := testApp(t)
	app.openBackupPager([]backup.DeviceResult{
		{Host: "sw1", Platform: "ios", Files: []string{"backups/sw1/sw1_show-running-config_20240510-093000.cfg"}},
		{Host: "sw2", Err: errors.New("no route to host")},
	})

	out := app.viewPager()
	assert.Contains(t, out, "1 of 2 devices backed up")
	assert.Contains(t, out, "sw1 (ios)")
	assert.Contains(t, out, "no route to host")

	newModel, cmd := app.Update(keyRunes('x'))
	app = newModel.(*App)
	assert.False(t, app.busy)
	assert.Nil(t, cmd)
}

func TestPager_HealthViewIncludesTrendAfterTwoChecks(t *testing.T) {
	app := testApp(t)
	now := time.Now()
	app.pushScore(now.Add(-time.Hour), 99)
	app.pushScore(now, 95)

	app.openHealthPager(makeFixtureHealth(95))

	joined := strings.Join(app.pager.lines, "\n")
	assert.Contains(t, joined, "Trend:")
}

func TestPager_HealthViewOmitsTrendOnFirstCheck(t *testing.T) {
	app := testApp(t)
	app.pushScore(time.Now(), 95)

	app.openHealthPager(makeFixtureHealth(95))

	joined := strings.Join(app.pager.lines, "\n")
	assert.NotContains(t, joined, "Trend:")
}
