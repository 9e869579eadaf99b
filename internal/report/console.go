// Package report renders comparison and health-check results for terminals
// and exports them as XLSX workbooks.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fabricsnap/fabricsnap/internal/engine"
	"github.com/fabricsnap/fabricsnap/internal/format"
	"github.com/fabricsnap/fabricsnap/internal/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06b6d4"))
	countStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f59e0b"))
	passStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10b981"))
	failStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ef4444"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// statusStyle picks the PASS/FAIL color.
func statusStyle(s model.Status) lipgloss.Style {
	if s == model.StatusPass {
		return passStyle
	}
	return failStyle
}

// counterLabel names the logical port of a counter change. NodeID already
// carries its "node-" prefix; a counter whose DN had no node marker reads as
// just the interface.
func counterLabel(c model.CounterChange) string {
	if c.NodeID == engine.UnknownDNPart {
		return c.InterfaceName
	}
	return c.NodeID + " " + c.InterfaceName
}

// RenderDiff renders a comparison result as styled text: a count summary
// followed by one section per category in a fixed order, so two identical
// comparisons read identically. beforeName and afterName label the compared
// snapshots and may be empty.
func RenderDiff(r *model.DiffReport, beforeName, afterName string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("COMPARISON RESULT") + "\n")
	if beforeName != "" || afterName != "" {
		b.WriteString(dimStyle.Render(beforeName+" vs "+afterName) + "\n")
	}
	b.WriteString("\n")

	counts := []struct {
		name  string
		count int
	}{
		{"new_faults", len(r.NewFaults)},
		{"cleared_faults", len(r.ClearedFaults)},
		{"new_endpoints", len(r.NewEndpoints)},
		{"missing_endpoints", len(r.MissingEndpoints)},
		{"moved_endpoints", len(r.MovedEndpoints)},
		{"interface_changes", len(r.InterfaceChanges.StatusChanged) + len(r.InterfaceChanges.Missing) + len(r.InterfaceChanges.New)},
		{"interface_error_changes", len(r.InterfaceErrorChanges)},
		{"crc_error_changes", len(r.CRCErrorChanges)},
		{"drop_error_changes", len(r.DropErrorChanges)},
		{"output_error_changes", len(r.OutputErrorChanges)},
		{"urib_route_changes", len(r.RouteChanges.Missing) + len(r.RouteChanges.New)},
	}
	b.WriteString(titleStyle.Render("Summary:") + "\n")
	for _, c := range counts {
		b.WriteString("  " + sectionStyle.Render(c.name) + ": " + countStyle.Render(format.FormatCount(c.count)) + "\n")
	}
	b.WriteString("\n")

	writeSection(&b, "Fabric Health", []string{healthTransitionLine(r.FabricHealth)})
	writeSection(&b, "New Faults", r.NewFaults)
	writeSection(&b, "Cleared Faults", r.ClearedFaults)
	writeSection(&b, "New Endpoints", r.NewEndpoints)
	writeSection(&b, "Missing Endpoints", r.MissingEndpoints)
	writeSection(&b, "Moved Endpoints", valueChangeLines(r.MovedEndpoints))
	writeSection(&b, "Interface Status Changed", valueChangeLines(r.InterfaceChanges.StatusChanged))
	writeSection(&b, "Interfaces Missing", r.InterfaceChanges.Missing)
	writeSection(&b, "Interfaces New", r.InterfaceChanges.New)
	writeSection(&b, "Interface Error Changes", counterChangeLines(r.InterfaceErrorChanges))
	writeSection(&b, "CRC Error Changes", counterChangeLines(r.CRCErrorChanges))
	writeSection(&b, "Drop Error Changes", counterChangeLines(r.DropErrorChanges))
	writeSection(&b, "Output Error Changes", counterChangeLines(r.OutputErrorChanges))
	writeSection(&b, "Routes Missing", r.RouteChanges.Missing)
	writeSection(&b, "Routes New", r.RouteChanges.New)

	if r.Empty() {
		b.WriteString(passStyle.Render("No changes between snapshots") + "\n")
	}
	return b.String()
}

// healthTransitionLine renders "before ➜ after", with "n/a" for a side the
// snapshot did not capture.
func healthTransitionLine(t model.HealthTransition) string {
	side := func(v *int) string {
		if v == nil {
			return "n/a"
		}
		return fmt.Sprintf("%d", *v)
	}
	return side(t.Before) + "➜" + side(t.After)
}

func valueChangeLines(changes []model.ValueChange) []string {
	lines := make([]string, 0, len(changes))
	for _, c := range changes {
		lines = append(lines, c.DN+": "+c.Change)
	}
	return lines
}

func counterChangeLines(changes []model.CounterChange) []string {
	lines := make([]string, 0, len(changes))
	for _, c := range changes {
		lines = append(lines, counterLabel(c)+": "+c.Change)
	}
	return lines
}

func writeSection(b *strings.Builder, title string, lines []string) {
	b.WriteString(sectionStyle.Render(title) + ":\n")
	if len(lines) == 0 {
		b.WriteString(dimStyle.Render("  (none)") + "\n\n")
		return
	}
	for _, l := range lines {
		b.WriteString("  " + l + "\n")
	}
	b.WriteString("\n")
}

// RenderHealth renders a health check's summary panel. Every sub-check line
// carries its PASS/FAIL verdict and the figures behind it, closed by the
// thresholds the judgment used and an overall banner.
func RenderHealth(rep *model.HealthReport) string {
	s := rep.Summary
	var body strings.Builder

	body.WriteString(titleStyle.Render("OVERALL STATUS: ") + statusStyle(s.OverallStatus).Render(string(s.OverallStatus)) + "\n\n")

	body.WriteString(titleStyle.Render("APIC Controllers: ") + statusStyle(s.Controllers.Status).Render(string(s.Controllers.Status)))
	body.WriteString(fmt.Sprintf(" (%d of %d with issues)\n", s.Controllers.Problems, s.Controllers.Total))

	body.WriteString(titleStyle.Render("Leaf/Spine Nodes: ") + statusStyle(s.FabricNodes.Status).Render(string(s.FabricNodes.Status)))
	body.WriteString(fmt.Sprintf(" (%d health, %d CPU, %d memory issues)\n", s.FabricNodes.HealthProblems, s.FabricNodes.CPUProblems, s.FabricNodes.MemProblems))

	body.WriteString(titleStyle.Render("Fabric Health: ") + statusStyle(s.Fabric.Status).Render(string(s.Fabric.Status)))
	body.WriteString(fmt.Sprintf(" (Score: %d%%)\n", s.Fabric.Score))

	faultsTotal := s.Faults.Critical + s.Faults.Major
	faultsStyle := passStyle
	if faultsTotal > 0 {
		faultsStyle = failStyle
	}
	body.WriteString(titleStyle.Render("Critical/Major Faults: ") + faultsStyle.Render(format.FormatCount(faultsTotal)))
	body.WriteString(fmt.Sprintf(" (%d critical, %d major)\n", s.Faults.Critical, s.Faults.Major))

	counterLine := func(name string, c model.CounterCheck) {
		body.WriteString(titleStyle.Render(name+": ") + statusStyle(c.Status).Render(string(c.Status)))
		body.WriteString(fmt.Sprintf(" (%d interfaces)\n", c.Count))
	}
	counterLine("FCS Errors", s.FCSErrors)
	counterLine("CRC Errors", s.CRCErrors)
	counterLine("Drop Errors", s.DropErrors)
	counterLine("Output Errors", s.OutputErrors)

	body.WriteString("\n" + titleStyle.Render("Thresholds: "))
	body.WriteString(fmt.Sprintf("Health: %d%%, CPU/Memory: %s, Interface: %d errors",
		s.Thresholds.Health, format.FormatPercent(s.Thresholds.CPUMem), s.Thresholds.InterfaceErrors))

	var out strings.Builder
	out.WriteString(titleStyle.Render("HEALTH CHECK SUMMARY") + "\n")
	if rep.Host != "" {
		out.WriteString(dimStyle.Render(rep.Host+"  "+rep.CheckedAt.Format("2006-01-02 15:04:05")) + "\n")
	}
	out.WriteString(panelStyle.Render(body.String()) + "\n")

	if s.OverallStatus == model.StatusPass {
		out.WriteString(passStyle.Render("✓ ALL CHECKS PASSED") + "\n")
	} else {
		out.WriteString(failStyle.Render("✗ ISSUES DETECTED") + "\n")
	}
	return out.String()
}
