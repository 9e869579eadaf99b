package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fabricsnap/fabricsnap/internal/backup"
	"github.com/fabricsnap/fabricsnap/internal/client"
	"github.com/fabricsnap/fabricsnap/internal/config"
	"github.com/fabricsnap/fabricsnap/internal/engine"
	"github.com/fabricsnap/fabricsnap/internal/model"
	"github.com/fabricsnap/fabricsnap/internal/snapstore"
)

type screen int

const (
	screenMenu screen = iota
	screenSnapshots
	screenPager
	screenSettings
	screenConfirmDelete
)

// opTimeout bounds one collection pass against the controller.
const opTimeout = 5 * time.Minute

// App is the root Bubble Tea model for fabricsnap.
type App struct {
	cfg   *config.Config
	store *snapstore.Store
	log   *slog.Logger

	// newClient builds a fresh controller client per operation so each
	// run logs in with a fresh session.
	newClient func() (client.APICClient, error)
	runBackup func(ctx context.Context) ([]backup.DeviceResult, error)

	// Live settings, initialized from the config and editable in the
	// settings form for the rest of the session.
	thresholds model.Thresholds
	lookback   time.Duration

	screen screen
	width  int
	height int

	menuCursor int
	table      tableModel
	pager      pagerModel
	form       settingsForm
	confirm    confirmModel

	trend      *model.HealthTrend
	lastHealth *model.HealthReport
	lastDiff   *diffDoneMsg
	lastScore  int
	haveScore  bool

	spinner  spinner.Model
	busy     bool
	busyText string

	status    string
	statusErr bool

	showHelp bool

	changes chan struct{}
}

// Deps wires the App to its collaborators.
type Deps struct {
	Config *config.Config
	Store  *snapstore.Store
	Logger *slog.Logger
}

// NewApp creates the root model. A nil logger discards log output.
func NewApp(d Deps) *App {
	if d.Logger == nil {
		d.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	app := &App{
		cfg:        d.Config,
		store:      d.Store,
		log:        d.Logger,
		thresholds: d.Config.Thresholds,
		lookback:   d.Config.FaultLookback(),
		table:      newTableModel(),
		trend:      model.NewHealthTrend(0),
		spinner:    sp,
		changes:    make(chan struct{}, 1),
	}
	app.newClient = func() (client.APICClient, error) {
		return client.NewDefaultClient(client.ClientConfig{
			Host:               d.Config.Fabric.Host,
			Username:           d.Config.Fabric.Username,
			Password:           d.Config.Fabric.Password(),
			InsecureSkipVerify: d.Config.Fabric.Insecure,
			RequestTimeout:     d.Config.Fabric.Timeout,
		})
	}
	app.runBackup = func(ctx context.Context) ([]backup.DeviceResult, error) {
		r := backup.NewRunner(
			d.Config.Backup.Inventory,
			d.Config.Backup.OutputDir,
			d.Config.Backup.Username,
			d.Config.Backup.Password(),
			d.Config.Backup.Timeout,
			d.Logger,
		)
		return r.Run(ctx)
	}
	return app
}

// Run starts the TUI and blocks until the user quits.
func Run(d Deps) error {
	p := tea.NewProgram(NewApp(d), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model. Loads the snapshot listing and starts the
// directory watcher.
func (app *App) Init() tea.Cmd {
	return tea.Batch(app.listCmd(), app.startWatch(), app.waitChange())
}

// Update implements tea.Model, the single state-mutation entry point.
func (app *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		app.width = msg.Width
		app.height = msg.Height

	case spinner.TickMsg:
		if !app.busy {
			return app, nil
		}
		var cmd tea.Cmd
		app.spinner, cmd = app.spinner.Update(msg)
		return app, cmd

	case snapshotListMsg:
		app.table.setRows(msg.entries)

	case storeChangedMsg:
		return app, tea.Batch(app.listCmd(), app.waitChange())

	case snapshotTakenMsg:
		app.busy = false
		app.setStatus("snapshot saved as "+msg.name, false)
		if score, ok := msg.snap.FabricHealthValue(); ok {
			app.pushScore(msg.snap.CapturedAt, score)
		}
		return app, app.listCmd()

	case healthDoneMsg:
		app.busy = false
		app.lastHealth = msg.report
		app.pushScore(msg.report.CheckedAt, msg.report.FabricHealth)
		app.setStatus("", false)
		app.openHealthPager(msg.report)

	case diffDoneMsg:
		app.busy = false
		app.lastDiff = &msg
		app.setStatus("", false)
		app.table.clearMarks()
		app.openDiffPager(msg)

	case backupDoneMsg:
		app.busy = false
		app.setStatus("", false)
		app.openBackupPager(msg.results)

	case exportDoneMsg:
		app.busy = false
		app.setStatus("wrote "+msg.path, false)

	case deleteDoneMsg:
		app.setStatus("deleted "+msg.name, false)
		return app, app.listCmd()

	case errMsg:
		app.busy = false
		if errors.Is(msg.err, snapstore.ErrNotEnoughSnapshots) {
			app.setStatus("need at least two snapshots to compare", true)
		} else {
			app.setStatus(msg.err.Error(), true)
		}

	case tea.KeyMsg:
		return app.handleKey(msg)
	}

	return app, nil
}

// View implements tea.Model.
func (app *App) View() string {
	var parts []string
	parts = append(parts, app.viewHeader())

	switch app.screen {
	case screenMenu:
		parts = append(parts, app.viewMenu())
	case screenSnapshots:
		parts = append(parts, app.viewSnapshots())
	case screenPager:
		parts = append(parts, app.viewPager())
	case screenSettings:
		parts = append(parts, app.viewSettings())
	case screenConfirmDelete:
		parts = append(parts, app.viewConfirm())
	}

	parts = append(parts, app.viewFooter())
	return strings.Join(parts, "\n")
}

func (app *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return app, tea.Quit
	}
	if app.busy {
		return app, nil
	}
	if key.Matches(msg, keys.Help) && !app.typing() {
		app.showHelp = !app.showHelp
		return app, nil
	}

	switch app.screen {
	case screenMenu:
		return app.updateMenu(msg)
	case screenSnapshots:
		return app.updateSnapshots(msg)
	case screenPager:
		return app.updatePager(msg)
	case screenSettings:
		return app.updateSettings(msg)
	case screenConfirmDelete:
		return app.updateConfirm(msg)
	}
	return app, nil
}

// typing reports whether a text input currently owns the keyboard.
func (app *App) typing() bool {
	return app.screen == screenSettings ||
		(app.screen == screenSnapshots && app.table.searching)
}

func (app *App) setStatus(text string, isErr bool) {
	app.status = text
	app.statusErr = isErr
}

func (app *App) pushScore(at time.Time, score int) {
	app.trend.Push(model.TrendPoint{Timestamp: at, Score: score})
	app.lastScore = score
	app.haveScore = true
}

// startBusy flips the spinner on and runs cmd in the background.
func (app *App) startBusy(text string, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	app.busy = true
	app.busyText = text
	app.setStatus("", false)
	return app, tea.Batch(app.spinner.Tick, cmd)
}

func (app *App) collectorOptions() engine.CollectorOptions {
	return engine.CollectorOptions{
		Host:          app.cfg.Fabric.Host,
		Thresholds:    app.thresholds,
		FaultLookback: app.lookback,
	}
}

// takeSnapshotCmd logs in, captures every category and saves the
// snapshot document.
func (app *App) takeSnapshotCmd() tea.Cmd {
	build := app.newClient
	opts := app.collectorOptions()
	log := app.log
	store := app.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		api, err := build()
		if err != nil {
			return errMsg{err}
		}
		if err := api.Login(ctx); err != nil {
			return errMsg{err}
		}
		snap, err := engine.NewCollector(api, log, opts).TakeSnapshot(ctx)
		if err != nil {
			return errMsg{err}
		}
		name, err := store.Save(snap)
		if err != nil {
			return errMsg{err}
		}
		return snapshotTakenMsg{name: name, snap: snap}
	}
}

// healthCmd logs in and runs a live health check.
func (app *App) healthCmd() tea.Cmd {
	build := app.newClient
	opts := app.collectorOptions()
	log := app.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		api, err := build()
		if err != nil {
			return errMsg{err}
		}
		if err := api.Login(ctx); err != nil {
			return errMsg{err}
		}
		rep, err := engine.NewCollector(api, log, opts).CollectHealth(ctx)
		if err != nil {
			return errMsg{err}
		}
		return healthDoneMsg{report: rep}
	}
}

// diffCmd loads and compares two stored snapshots by name.
func (app *App) diffCmd(beforeName, afterName string) tea.Cmd {
	store := app.store
	return func() tea.Msg {
		return loadAndCompare(store, beforeName, afterName)
	}
}

// latestDiffCmd compares the two most recent snapshots.
func (app *App) latestDiffCmd() tea.Cmd {
	store := app.store
	return func() tea.Msg {
		before, after, err := store.LatestPair()
		if err != nil {
			return errMsg{err}
		}
		return loadAndCompare(store, before.Name, after.Name)
	}
}

func loadAndCompare(store *snapstore.Store, beforeName, afterName string) tea.Msg {
	before, err := store.Load(beforeName)
	if err != nil {
		return errMsg{err}
	}
	after, err := store.Load(afterName)
	if err != nil {
		return errMsg{err}
	}
	return diffDoneMsg{
		beforeName: beforeName,
		afterName:  afterName,
		report:     engine.Compare(before, after),
	}
}

// backupCmd runs the device config backup for the configured inventory.
func (app *App) backupCmd() tea.Cmd {
	run := app.runBackup
	return func() tea.Msg {
		results, err := run(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return backupDoneMsg{results: results}
	}
}

func (app *App) deleteCmd(name string) tea.Cmd {
	store := app.store
	return func() tea.Msg {
		if err := store.Delete(name); err != nil {
			return errMsg{err}
		}
		return deleteDoneMsg{name: name}
	}
}

func (app *App) listCmd() tea.Cmd {
	store := app.store
	return func() tea.Msg {
		entries, err := store.List()
		if err != nil {
			return errMsg{err}
		}
		return snapshotListMsg{entries: entries}
	}
}

// startWatch runs the directory watcher for the life of the program.
// The command itself never produces a message; changes are delivered
// through app.changes and picked up by waitChange.
func (app *App) startWatch() tea.Cmd {
	dir := app.store.Dir()
	log := app.log
	changes := app.changes
	return func() tea.Msg {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errMsg{fmt.Errorf("watch %s: %w", dir, err)}
		}
		err := snapstore.Watch(context.Background(), dir, log, func() {
			select {
			case changes <- struct{}{}:
			default:
			}
		})
		if err != nil {
			log.Warn("snapshot watcher stopped", "error", err)
		}
		return nil
	}
}

// waitChange blocks until the watcher reports a snapshot dir change.
func (app *App) waitChange() tea.Cmd {
	changes := app.changes
	return func() tea.Msg {
		<-changes
		return storeChangedMsg{}
	}
}
