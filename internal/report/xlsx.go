package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fabricsnap/fabricsnap/internal/format"
	"github.com/fabricsnap/fabricsnap/internal/model"
)

const (
	diffSheet         = "Comparison Results"
	headerFillColor   = "366092"
	categoryFillColor = "D9E1F2"
	xlsxTimeLayout    = "20060102_150405"
)

// xlsxRow is one Category/Item/Details line of the diff workbook.
type xlsxRow struct {
	category string
	item     string
	details  string
}

// WriteDiffWorkbook exports a comparison result as a single-sheet workbook
// in dir (created on demand) and returns the written path. Rows follow the
// same category order as the console rendering.
func WriteDiffWorkbook(dir string, r *model.DiffReport) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", diffSheet); err != nil {
		return "", fmt.Errorf("WriteDiffWorkbook: %w", err)
	}

	headerStyle, categoryStyle, err := workbookStyles(f)
	if err != nil {
		return "", fmt.Errorf("WriteDiffWorkbook: %w", err)
	}

	header := []interface{}{"Category", "Item", "Details"}
	if err := f.SetSheetRow(diffSheet, "A1", &header); err != nil {
		return "", fmt.Errorf("WriteDiffWorkbook: %w", err)
	}
	if err := f.SetCellStyle(diffSheet, "A1", "C1", headerStyle); err != nil {
		return "", fmt.Errorf("WriteDiffWorkbook: %w", err)
	}

	widths := []int{len("Category"), len("Item"), len("Details")}
	for i, row := range diffRows(r) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", fmt.Errorf("WriteDiffWorkbook: %w", err)
		}
		values := []interface{}{row.category, row.item, row.details}
		if err := f.SetSheetRow(diffSheet, cell, &values); err != nil {
			return "", fmt.Errorf("WriteDiffWorkbook: %w", err)
		}
		if err := f.SetCellStyle(diffSheet, cell, cell, categoryStyle); err != nil {
			return "", fmt.Errorf("WriteDiffWorkbook: %w", err)
		}
		for col, s := range []string{row.category, row.item, row.details} {
			if len(s) > widths[col] {
				widths[col] = len(s)
			}
		}
	}
	if err := fitColumns(f, diffSheet, widths); err != nil {
		return "", fmt.Errorf("WriteDiffWorkbook: %w", err)
	}

	return saveWorkbook(f, dir, "comparison_"+time.Now().Format(xlsxTimeLayout)+".xlsx")
}

// diffRows flattens a DiffReport into workbook rows, category by category.
func diffRows(r *model.DiffReport) []xlsxRow {
	side := func(v *int) string {
		if v == nil {
			return "n/a"
		}
		return fmt.Sprintf("%d", *v)
	}
	rows := []xlsxRow{
		{"Fabric Health", "Before", side(r.FabricHealth.Before)},
		{"Fabric Health", "After", side(r.FabricHealth.After)},
	}

	appendStrings := func(category string, items []string) {
		for _, it := range items {
			rows = append(rows, xlsxRow{category, it, ""})
		}
	}
	appendValues := func(category string, changes []model.ValueChange) {
		for _, c := range changes {
			rows = append(rows, xlsxRow{category, c.DN, c.Change})
		}
	}
	appendCounters := func(category string, changes []model.CounterChange) {
		for _, c := range changes {
			rows = append(rows, xlsxRow{category, counterLabel(c), c.Change})
		}
	}

	appendStrings("New Faults", r.NewFaults)
	appendStrings("Cleared Faults", r.ClearedFaults)
	appendStrings("New Endpoints", r.NewEndpoints)
	appendStrings("Missing Endpoints", r.MissingEndpoints)
	appendValues("Moved Endpoints", r.MovedEndpoints)
	appendValues("Interface Status Changed", r.InterfaceChanges.StatusChanged)
	appendStrings("Interface Missing", r.InterfaceChanges.Missing)
	appendStrings("Interface New", r.InterfaceChanges.New)
	appendCounters("Interface Error Changes", r.InterfaceErrorChanges)
	appendCounters("CRC Error Changes", r.CRCErrorChanges)
	appendCounters("Drop Error Changes", r.DropErrorChanges)
	appendCounters("Output Error Changes", r.OutputErrorChanges)
	appendStrings("URIB Routes Missing", r.RouteChanges.Missing)
	appendStrings("URIB Routes New", r.RouteChanges.New)
	return rows
}

// healthSheet describes one section of the health workbook.
type healthSheet struct {
	name   string
	header []string
	rows   [][]interface{}
}

// WriteHealthWorkbook exports a health check as a multi-sheet workbook in
// dir and returns the written path. The summary sheet is always present;
// section sheets are written only when the section has rows.
func WriteHealthWorkbook(dir string, rep *model.HealthReport) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _, err := workbookStyles(f)
	if err != nil {
		return "", fmt.Errorf("WriteHealthWorkbook: %w", err)
	}

	sheets := []healthSheet{summarySheet(rep)}
	for _, s := range sectionSheets(rep) {
		if len(s.rows) > 0 {
			sheets = append(sheets, s)
		}
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.name); err != nil {
				return "", fmt.Errorf("WriteHealthWorkbook: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.name); err != nil {
			return "", fmt.Errorf("WriteHealthWorkbook: %w", err)
		}
		if err := writeSheet(f, sheet, headerStyle); err != nil {
			return "", fmt.Errorf("WriteHealthWorkbook %s: %w", sheet.name, err)
		}
	}
	f.SetActiveSheet(0)

	return saveWorkbook(f, dir, "healthcheck_"+time.Now().Format(xlsxTimeLayout)+".xlsx")
}

// summarySheet renders the classifier's judgment as Check/Status/Details
// rows so the workbook is self-contained even when every section is clean.
func summarySheet(rep *model.HealthReport) healthSheet {
	s := rep.Summary
	return healthSheet{
		name:   "summary",
		header: []string{"Check", "Status", "Details"},
		rows: [][]interface{}{
			{"Overall", string(s.OverallStatus), rep.Host},
			{"APIC Controllers", string(s.Controllers.Status), fmt.Sprintf("%d of %d with issues", s.Controllers.Problems, s.Controllers.Total)},
			{"Leaf/Spine Nodes", string(s.FabricNodes.Status), fmt.Sprintf("%d health, %d CPU, %d memory issues", s.FabricNodes.HealthProblems, s.FabricNodes.CPUProblems, s.FabricNodes.MemProblems)},
			{"Fabric Health", string(s.Fabric.Status), fmt.Sprintf("score %d%%", s.Fabric.Score)},
			{"Faults", faultStatus(s.Faults), fmt.Sprintf("%d critical, %d major", s.Faults.Critical, s.Faults.Major)},
			{"FCS Errors", string(s.FCSErrors.Status), fmt.Sprintf("%d interfaces", s.FCSErrors.Count)},
			{"CRC Errors", string(s.CRCErrors.Status), fmt.Sprintf("%d interfaces", s.CRCErrors.Count)},
			{"Drop Errors", string(s.DropErrors.Status), fmt.Sprintf("%d interfaces", s.DropErrors.Count)},
			{"Output Errors", string(s.OutputErrors.Status), fmt.Sprintf("%d interfaces", s.OutputErrors.Count)},
			{"Thresholds", "", fmt.Sprintf("health %d%%, cpu/mem %s, interface %d errors", s.Thresholds.Health, format.FormatPercent(s.Thresholds.CPUMem), s.Thresholds.InterfaceErrors)},
		},
	}
}

func faultStatus(c model.FaultCheck) string {
	if c.Critical == 0 && c.Major == 0 {
		return string(model.StatusPass)
	}
	return string(model.StatusFail)
}

// sectionSheets builds the per-collection sheets in their fixed order.
func sectionSheets(rep *model.HealthReport) []healthSheet {
	controllers := healthSheet{
		name:   "apic_controllers",
		header: []string{"Hostname", "Serial", "IP", "Mode", "Status", "Health"},
	}
	for _, c := range rep.Controllers {
		controllers.rows = append(controllers.rows, []interface{}{c.Name, c.Serial, c.IP, c.Mode, c.OperStatus, c.HealthText})
	}

	nodes := healthSheet{
		name:   "leaf_spine_nodes",
		header: []string{"Hostname", "Role", "Serial", "IP", "Version", "Uptime", "Health", "CPU", "Memory"},
	}
	for _, n := range rep.FabricNodes {
		nodes.rows = append(nodes.rows, []interface{}{
			n.Name, n.Role, n.Serial, n.IP, n.Version, n.Uptime,
			n.Health, format.FormatPercent(n.CPUPct), format.FormatPercent(n.MemPct),
		})
	}

	faults := healthSheet{
		name:   "faults",
		header: []string{"Severity", "Code", "Description", "Last Change", "DN"},
	}
	for _, fa := range rep.Faults {
		faults.rows = append(faults.rows, []interface{}{fa.Severity, fa.Code, fa.Description, fa.LastChange, fa.DN})
	}

	counterSheet := func(name, label string, counters []model.ErrorCounter) healthSheet {
		s := healthSheet{name: name, header: []string{"Node", "Interface", label, "DN"}}
		for _, c := range counters {
			s.rows = append(s.rows, []interface{}{c.NodeID, c.InterfaceName, c.Count, c.DN})
		}
		return s
	}

	return []healthSheet{
		controllers,
		nodes,
		faults,
		counterSheet("fcs_errors", "FCS Errors", rep.FCSErrors),
		counterSheet("crc_errors", "CRC Errors", rep.CRCErrors),
		counterSheet("drop_errors", "Drop Errors", rep.DropErrors),
		counterSheet("output_errors", "Output Errors", rep.OutputErrors),
	}
}

// writeSheet fills one sheet: styled header row, data rows, fitted columns.
func writeSheet(f *excelize.File, sheet healthSheet, headerStyle int) error {
	header := make([]interface{}, len(sheet.header))
	widths := make([]int, len(sheet.header))
	for i, h := range sheet.header {
		header[i] = h
		widths[i] = len(h)
	}
	if err := f.SetSheetRow(sheet.name, "A1", &header); err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(len(sheet.header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet.name, "A1", end, headerStyle); err != nil {
		return err
	}

	for i, row := range sheet.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet.name, cell, &values); err != nil {
			return err
		}
		for col, v := range row {
			if n := len(fmt.Sprintf("%v", v)); col < len(widths) && n > widths[col] {
				widths[col] = n
			}
		}
	}
	return fitColumns(f, sheet.name, widths)
}

// workbookStyles registers the shared header and category styles.
func workbookStyles(f *excelize.File) (headerStyle, categoryStyle int, err error) {
	headerStyle, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFillColor}},
	})
	if err != nil {
		return 0, 0, err
	}
	categoryStyle, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{categoryFillColor}},
	})
	if err != nil {
		return 0, 0, err
	}
	return headerStyle, categoryStyle, nil
}

// fitColumns sizes each column to its longest cell plus padding.
func fitColumns(f *excelize.File, sheet string, widths []int) error {
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, float64(w+2)); err != nil {
			return err
		}
	}
	return nil
}

func saveWorkbook(f *excelize.File, dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}
