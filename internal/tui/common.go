package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewReview
	viewHistory
	viewAnalytics
	viewSettings
)

var viewNames = []string{"Today", "Review", "History", "Analytics", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
	days int
}

// errStatus formats err into an error status, e.g. errStatus("Close failed: %v", err).
func errStatus(format string, err error) tea.Msg {
	return statusMsg{text: fmt.Sprintf(format, err), isError: true}
}

// --- Helpers ---

// formatMinutes renders a duration in minutes as "Xh Ym".
func formatMinutes(m int) string {
	return fmt.Sprintf("%dh %02dm", m/60, m%60)
}

// scoreColor grades a productivity percentage.
func scoreColor(score float64) lipgloss.Color {
	switch {
	case score >= 75:
		return colorSuccess
	case score >= 50:
		return colorWarning
	default:
		return colorError
	}
}

func colorDot(hex string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("●")
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}
