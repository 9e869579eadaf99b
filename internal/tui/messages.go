package tui

import (
	"github.com/fabricsnap/fabricsnap/internal/backup"
	"github.com/fabricsnap/fabricsnap/internal/model"
	"github.com/fabricsnap/fabricsnap/internal/snapstore"
)

// snapshotTakenMsg reports a completed capture and its stored file name.
type snapshotTakenMsg struct {
	name string
	snap *model.Snapshot
}

// healthDoneMsg carries a finished health check.
type healthDoneMsg struct {
	report *model.HealthReport
}

// diffDoneMsg carries a finished comparison of two stored snapshots.
type diffDoneMsg struct {
	beforeName string
	afterName  string
	report     model.DiffReport
}

// backupDoneMsg reports the outcome of a device config backup run.
type backupDoneMsg struct {
	results []backup.DeviceResult
}

// snapshotListMsg refreshes the snapshot browser contents.
type snapshotListMsg struct {
	entries []snapstore.Entry
}

// storeChangedMsg fires when the snapshot directory changes on disk.
type storeChangedMsg struct{}

// exportDoneMsg reports a written workbook path.
type exportDoneMsg struct {
	path string
}

// deleteDoneMsg reports a removed snapshot file.
type deleteDoneMsg struct {
	name string
}

// errMsg wraps a failed background operation.
type errMsg struct {
	err error
}
