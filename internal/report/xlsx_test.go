package report

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/fabricsnap/fabricsnap/internal/model"
)

// openWorkbook reads back a written workbook for assertions.
func openWorkbook(t *testing.T, path string) *excelize.File {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

// hasRow reports whether any row starts with the given cells.
func hasRow(rows [][]string, prefix ...string) bool {
	for _, row := range rows {
		if len(row) < len(prefix) {
			continue
		}
		match := true
		for i, want := range prefix {
			if row[i] != want {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func TestWriteDiffWorkbook(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteDiffWorkbook(dir, sampleDiff())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "comparison_"))
	assert.True(t, strings.HasSuffix(path, ".xlsx"))

	f := openWorkbook(t, path)
	assert.Equal(t, []string{"Comparison Results"}, f.GetSheetList())

	rows, err := f.GetRows("Comparison Results")
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, []string{"Category", "Item", "Details"}, rows[0])

	assert.True(t, hasRow(rows, "Fabric Health", "Before", "98"))
	assert.True(t, hasRow(rows, "Fabric Health", "After", "91"))
	assert.True(t, hasRow(rows, "New Faults", "topology/pod-1/node-101/fault-F0103"))
	assert.True(t, hasRow(rows, "Moved Endpoints", "00:50:56:aa:bb:02", "10.0.0.3➜10.0.0.30"))
	assert.True(t, hasRow(rows, "Interface Status Changed", "topology/pod-1/node-101/sys/phys-[eth1/1]", "up➜down"))
	assert.True(t, hasRow(rows, "Interface Error Changes", "node-101 eth1/1", "5➜12"))
	assert.True(t, hasRow(rows, "Drop Error Changes", "eth1/7", "0➜3"))
	assert.True(t, hasRow(rows, "URIB Routes New", "sys/uribv4/dom-default/db-rt/rt-[10.9.0.0/24]"))
	assert.False(t, hasRow(rows, "Cleared Faults"), "empty categories write no rows")
}

func TestWriteDiffWorkbook_AbsentHealthSides(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteDiffWorkbook(dir, &model.DiffReport{})
	require.NoError(t, err)

	f := openWorkbook(t, path)
	rows, err := f.GetRows("Comparison Results")
	require.NoError(t, err)
	assert.True(t, hasRow(rows, "Fabric Health", "Before", "n/a"))
	assert.True(t, hasRow(rows, "Fabric Health", "After", "n/a"))
}

func TestWriteHealthWorkbook_SheetsOnlyWhenPopulated(t *testing.T) {
	dir := t.TempDir()
	rep := &model.HealthReport{
		Host: "apic.example.net",
		Controllers: []model.ControllerNode{
			{Name: "apic1", Serial: "FCH1", IP: "10.0.0.1", Mode: "active", OperStatus: "available", Health: 100, HealthText: "fully-fit"},
		},
		Faults: []model.Fault{
			{DN: "fault-F0103", Severity: "critical", Code: "F0103", Description: "port down", LastChange: "2024-05-10T09:00:00.000+00:00"},
		},
		Summary: model.HealthSummary{
			OverallStatus: model.StatusPass,
			Controllers:   model.ControllerCheck{Status: model.StatusPass, Total: 1},
		},
	}

	path, err := WriteHealthWorkbook(dir, rep)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "healthcheck_"))

	f := openWorkbook(t, path)
	assert.Equal(t, []string{"summary", "apic_controllers", "faults"}, f.GetSheetList())
}

func TestWriteHealthWorkbook_RowContents(t *testing.T) {
	dir := t.TempDir()
	rep := &model.HealthReport{
		Host: "apic.example.net",
		Controllers: []model.ControllerNode{
			{Name: "apic1", Serial: "FCH1", IP: "10.0.0.1", Mode: "active", OperStatus: "available", Health: 100, HealthText: "fully-fit"},
		},
		FabricNodes: []model.FabricNode{
			{Name: "leaf-101", Role: "leaf", Serial: "SN101", IP: "10.0.0.101", Version: "n9000-15.2(2e)", Uptime: "04:10:22:15", Health: 98, CPUPct: 20.5, MemPct: 40},
		},
		CRCErrors: []model.ErrorCounter{
			{DN: "topology/pod-1/node-101/sys/phys-[eth1/1]/dbgEtherStats", NodeID: "node-101", InterfaceName: "eth1/1", Count: 6},
		},
		Summary: model.HealthSummary{
			OverallStatus: model.StatusFail,
			Fabric:        model.FabricCheck{Status: model.StatusFail, Score: 89},
			CRCErrors:     model.CounterCheck{Status: model.StatusFail, Count: 1},
			Thresholds:    model.Thresholds{Health: 90, CPUMem: 75, InterfaceErrors: 0},
		},
	}

	path, err := WriteHealthWorkbook(dir, rep)
	require.NoError(t, err)
	f := openWorkbook(t, path)

	summary, err := f.GetRows("summary")
	require.NoError(t, err)
	assert.Equal(t, []string{"Check", "Status", "Details"}, summary[0])
	assert.True(t, hasRow(summary, "Overall", "FAIL", "apic.example.net"))
	assert.True(t, hasRow(summary, "Fabric Health", "FAIL", "score 89%"))
	assert.True(t, hasRow(summary, "CRC Errors", "FAIL", "1 interfaces"))

	controllers, err := f.GetRows("apic_controllers")
	require.NoError(t, err)
	assert.Equal(t, []string{"Hostname", "Serial", "IP", "Mode", "Status", "Health"}, controllers[0])
	assert.True(t, hasRow(controllers, "apic1", "FCH1", "10.0.0.1", "active", "available", "fully-fit"))

	nodes, err := f.GetRows("leaf_spine_nodes")
	require.NoError(t, err)
	assert.True(t, hasRow(nodes, "leaf-101", "leaf", "SN101", "10.0.0.101", "n9000-15.2(2e)", "04:10:22:15", "98", "20.5%", "40.0%"))

	crc, err := f.GetRows("crc_errors")
	require.NoError(t, err)
	assert.Equal(t, []string{"Node", "Interface", "CRC Errors", "DN"}, crc[0])
	assert.True(t, hasRow(crc, "node-101", "eth1/1", "6"))
}

func TestWriteHealthWorkbook_EmptyReportStillHasSummary(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteHealthWorkbook(dir, &model.HealthReport{})
	require.NoError(t, err)

	f := openWorkbook(t, path)
	assert.Equal(t, []string{"summary"}, f.GetSheetList())
}

func TestWriteWorkbooks_CreateDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")

	_, err := WriteDiffWorkbook(dir, &model.DiffReport{})
	require.NoError(t, err)
	_, err = WriteHealthWorkbook(dir, &model.HealthReport{})
	require.NoError(t, err)
}
