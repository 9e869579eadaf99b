package tui

import "github.com/charmbracelet/lipgloss"

type severity int

const (
	severityOK severity = iota
	severityWarn
	severityBad
)

// scoreSeverity grades a health score against the configured minimum.
// Scores within five points above the minimum count as warnings.
func scoreSeverity(score, minimum int) severity {
	switch {
	case score < minimum:
		return severityBad
	case score < minimum+5:
		return severityWarn
	default:
		return severityOK
	}
}

func (s severity) style() lipgloss.Style {
	switch s {
	case severityBad:
		return statusBadStyle
	case severityWarn:
		return statusWarnStyle
	default:
		return statusOKStyle
	}
}
