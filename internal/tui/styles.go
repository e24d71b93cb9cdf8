package tui

import "github.com/charmbracelet/lipgloss"

// Score grades share their hues with the seeded categories.
var (
	colorSuccess = lipgloss.Color("#22c55e") // >= 75
	colorWarning = lipgloss.Color("#eab308") // >= 50
	colorError   = lipgloss.Color("#ef4444")

	colorPrimary   = lipgloss.Color("#6C63FF")
	colorAccent    = lipgloss.Color("#f97316")
	colorMuted     = lipgloss.Color("#6b7280")
	colorFg        = lipgloss.Color("#e5e7eb")
	colorSubtle    = lipgloss.Color("#374151")
	colorHighlight = lipgloss.Color("#3b82f6")
)

// Styles
var (
	// Tabs
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(1, 2)

	// Score percentage; callers set the grade color
	scoreStyle = lipgloss.NewStyle().
			Bold(true)

	// Text
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	accentStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	// Interval and list rows
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	// The interval containing the current time
	currentItemStyle = lipgloss.NewStyle().
				Foreground(colorHighlight).
				Bold(true)
)
