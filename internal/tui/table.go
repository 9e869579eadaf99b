package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/fabricsnap/fabricsnap/internal/snapstore"
)

const tablePageSize = 10

// tableModel holds the paged, filterable snapshot listing behind the
// browser screen. The filter matches file name and host.
type tableModel struct {
	rows     []snapstore.Entry
	filtered []int
	cursor   int
	page     int
	pageSize int

	search    textinput.Model
	searching bool

	marked map[string]bool
}

func newTableModel() tableModel {
	ti := textinput.New()
	ti.Placeholder = "filter snapshots"
	ti.Prompt = "/ "
	ti.CharLimit = 64
	return tableModel{
		pageSize: tablePageSize,
		search:   ti,
		marked:   make(map[string]bool),
	}
}

// setRows replaces the listing and drops marks for files that no
// longer exist.
func (t *tableModel) setRows(entries []snapstore.Entry) {
	t.rows = entries
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		seen[e.Name] = true
	}
	for name := range t.marked {
		if !seen[name] {
			delete(t.marked, name)
		}
	}
	t.applyFilter()
}

func (t *tableModel) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(t.search.Value()))
	t.filtered = t.filtered[:0]
	for i, e := range t.rows {
		if q == "" || strings.Contains(strings.ToLower(e.Name), q) || strings.Contains(strings.ToLower(e.Host), q) {
			t.filtered = append(t.filtered, i)
		}
	}
	if t.cursor >= len(t.filtered) {
		t.cursor = len(t.filtered) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.clampPage()
}

func (t *tableModel) pageCount() int {
	if len(t.filtered) == 0 {
		return 1
	}
	return (len(t.filtered) + t.pageSize - 1) / t.pageSize
}

// currentPageIndices returns the half open range of filtered rows on
// the current page.
func (t *tableModel) currentPageIndices() (int, int) {
	start := t.page * t.pageSize
	end := start + t.pageSize
	if end > len(t.filtered) {
		end = len(t.filtered)
	}
	if start > end {
		start = end
	}
	return start, end
}

func (t *tableModel) clampPage() {
	if max := t.pageCount() - 1; t.page > max {
		t.page = max
	}
	if t.page < 0 {
		t.page = 0
	}
	t.followCursor()
}

func (t *tableModel) followCursor() {
	if len(t.filtered) == 0 {
		return
	}
	t.page = t.cursor / t.pageSize
}

func (t *tableModel) moveUp() {
	if t.cursor > 0 {
		t.cursor--
	}
	t.followCursor()
}

func (t *tableModel) moveDown() {
	if t.cursor < len(t.filtered)-1 {
		t.cursor++
	}
	t.followCursor()
}

func (t *tableModel) nextPage() {
	if t.page < t.pageCount()-1 {
		t.page++
		t.cursor = t.page * t.pageSize
	}
}

func (t *tableModel) prevPage() {
	if t.page > 0 {
		t.page--
		t.cursor = t.page * t.pageSize
	}
}

// selected returns the entry under the cursor.
func (t *tableModel) selected() (snapstore.Entry, bool) {
	if t.cursor < 0 || t.cursor >= len(t.filtered) {
		return snapstore.Entry{}, false
	}
	return t.rows[t.filtered[t.cursor]], true
}

// toggleMark flips the mark under the cursor. At most two snapshots
// can be marked at once; further marks are ignored.
func (t *tableModel) toggleMark() {
	e, ok := t.selected()
	if !ok {
		return
	}
	if t.marked[e.Name] {
		delete(t.marked, e.Name)
		return
	}
	if len(t.marked) >= 2 {
		return
	}
	t.marked[e.Name] = true
}

// markedPair returns the two marked names in capture order. Snapshot
// names sort lexically in capture order, so a plain sort suffices.
func (t *tableModel) markedPair() (string, string, bool) {
	if len(t.marked) != 2 {
		return "", "", false
	}
	names := make([]string, 0, 2)
	for name := range t.marked {
		names = append(names, name)
	}
	sort.Strings(names)
	return names[0], names[1], true
}

func (t *tableModel) clearMarks() {
	t.marked = make(map[string]bool)
}
