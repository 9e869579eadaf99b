package tui

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabricsnap/fabricsnap/internal/snapstore"
)

// makeEntries builds n listing entries in capture order, one minute
// apart.
func makeEntries(n int) []snapstore.Entry {
	base := time.Date(2024, 5, 10, 9, 0, 0, 0, time.Local)
	entries := make([]snapstore.Entry, n)
	for i := range entries {
		at := base.Add(time.Duration(i) * time.Minute)
		entries[i] = snapstore.Entry{
			Name:       fmt.Sprintf("snapshot_apic_%s.json", at.Format("2006-01-02T15-04")),
			Host:       "apic",
			CapturedAt: at,
		}
	}
	return entries
}

func TestTable_SetRows(t *testing.T) {
	tbl := newTableModel()
	tbl.setRows(makeEntries(3))

	assert.Len(t, tbl.filtered, 3)
	assert.Equal(t, 1, tbl.pageCount())
	start, end := tbl.currentPageIndices()
	assert.Equal(t, 0, start)
	assert.Equal(t, 3, end)
}

func TestTable_Filter(t *testing.T) {
	tbl := newTableModel()
	entries := makeEntries(3)
	entries[2].Name = "snapshot_lab-apic_2024-05-10T09-02.json"
	entries[2].Host = "lab-apic"
	tbl.setRows(entries)

	tbl.search.SetValue("lab-")
	tbl.applyFilter()
	require.Len(t, tbl.filtered, 1)
	e, ok := tbl.selected()
	require.True(t, ok)
	assert.Equal(t, "lab-apic", e.Host)

	tbl.search.SetValue("")
	tbl.applyFilter()
	assert.Len(t, tbl.filtered, 3)
}

func TestTable_CursorFollowsPages(t *testing.T) {
	tbl := newTableModel()
	tbl.setRows(makeEntries(25))

	assert.Equal(t, 3, tbl.pageCount())

	for i := 0; i < 12; i++ {
		tbl.moveDown()
	}
	assert.Equal(t, 12, tbl.cursor)
	assert.Equal(t, 1, tbl.page)

	start, end := tbl.currentPageIndices()
	assert.Equal(t, 10, start)
	assert.Equal(t, 20, end)

	for i := 0; i < 30; i++ {
		tbl.moveDown()
	}
	assert.Equal(t, 24, tbl.cursor)
	assert.Equal(t, 2, tbl.page)
}

func TestTable_PageJumps(t *testing.T) {
	tbl := newTableModel()
	tbl.setRows(makeEntries(25))

	tbl.nextPage()
	assert.Equal(t, 1, tbl.page)
	assert.Equal(t, 10, tbl.cursor)

	tbl.nextPage()
	tbl.nextPage()
	assert.Equal(t, 2, tbl.page)

	tbl.prevPage()
	assert.Equal(t, 1, tbl.page)
	assert.Equal(t, 10, tbl.cursor)
}

func TestTable_MarkLimitIsTwo(t *testing.T) {
	tbl := newTableModel()
	tbl.setRows(makeEntries(5))

	tbl.toggleMark()
	tbl.moveDown()
	tbl.toggleMark()
	tbl.moveDown()
	tbl.toggleMark()

	assert.Len(t, tbl.marked, 2)

	// Unmarking still works once the limit is reached.
	tbl.moveUp()
	tbl.toggleMark()
	assert.Len(t, tbl.marked, 1)
}

func TestTable_MarkedPairIsInCaptureOrder(t *testing.T) {
	tbl := newTableModel()
	tbl.setRows(makeEntries(5))

	// Mark the newer snapshot first.
	tbl.cursor = 4
	tbl.toggleMark()
	tbl.cursor = 1
	tbl.toggleMark()

	before, after, ok := tbl.markedPair()
	require.True(t, ok)
	assert.Equal(t, "snapshot_apic_2024-05-10T09-01.json", before)
	assert.Equal(t, "snapshot_apic_2024-05-10T09-04.json", after)
}

func TestTable_MarkedPairNeedsExactlyTwo(t *testing.T) {
	tbl := newTableModel()
	tbl.setRows(makeEntries(5))

	_, _, ok := tbl.markedPair()
	assert.False(t, ok)

	tbl.toggleMark()
	_, _, ok = tbl.markedPair()
	assert.False(t, ok)
}

func TestTable_SetRowsDropsStaleMarks(t *testing.T) {
	tbl := newTableModel()
	entries := makeEntries(3)
	tbl.setRows(entries)
	tbl.toggleMark()
	require.Len(t, tbl.marked, 1)

	tbl.setRows(entries[1:])
	assert.Empty(t, tbl.marked)
}

func TestTable_FilterClampsCursor(t *testing.T) {
	tbl := newTableModel()
	tbl.setRows(makeEntries(25))
	tbl.cursor = 20
	tbl.followCursor()

	tbl.search.SetValue("09-01.json")
	tbl.applyFilter()

	require.Len(t, tbl.filtered, 1)
	assert.Equal(t, 0, tbl.cursor)
	assert.Equal(t, 0, tbl.page)
}
