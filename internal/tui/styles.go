package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorGreen   = lipgloss.Color("#10b981")
	colorYellow  = lipgloss.Color("#f59e0b")
	colorRed     = lipgloss.Color("#ef4444")
	colorGray    = lipgloss.Color("#6b7280")
	colorBlue    = lipgloss.Color("#3b82f6")
	colorCyan    = lipgloss.Color("#06b6d4")
	colorDark    = lipgloss.Color("#1e293b")
	colorDarkAlt = lipgloss.Color("#0f172a")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	headerStyle = lipgloss.NewStyle().
			Background(colorDark).
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Padding(0, 1)

	menuItemStyle = lipgloss.NewStyle()

	menuCursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorCyan)

	markedRowStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	statusOKStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGreen)

	statusWarnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorYellow)

	statusBadStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorRed)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	accentStyle = lipgloss.NewStyle().
			Foreground(colorBlue)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorRed)

	warnBannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorYellow)

	formLabelStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Width(26)

	formFocusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan).
			Width(26)
)
