package tui

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/sadopc/daygrid/internal/analytics"
	"github.com/sadopc/daygrid/internal/export"
	"github.com/sadopc/daygrid/internal/store"
)

// tickInterval paces current-interval highlighting and the midnight rollover.
const tickInterval = 15 * time.Second

// exportDays is the period written by the export picker.
const exportDays = 30

var exportFormats = []string{"CSV", "Markdown", "JSON"}

// Options configures the App. Zero values fall back to defaults.
type Options struct {
	ExportDir      string
	RangeDays      int
	StreakCoverage int
	Log            *zap.SugaredLogger
	Now            func() time.Time
}

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	log    *zap.SugaredLogger
	now    func() time.Time
	width  int
	height int

	exportDir string

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	today     todayModel
	review    reviewModel
	history   historyModel
	analytics analyticsModel
	settings  settingsModel

	help   help.Model
	status string
}

func NewApp(s *store.Store, opts Options) App {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop().Sugar()
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	if opts.RangeDays <= 0 {
		opts.RangeDays = analyticsRanges[0]
	}

	h := help.New()
	h.ShowAll = false

	return App{
		store:      s,
		log:        opts.Log,
		now:        opts.Now,
		exportDir:  opts.ExportDir,
		activeView: viewToday,
		today:      newTodayModel(s, opts.Now),
		review:     newReviewModel(s, opts.Now),
		history:    newHistoryModel(s, opts.Now),
		analytics:  newAnalyticsModel(s, opts.Now, opts.RangeDays, analytics.Options{StreakCoverage: opts.StreakCoverage}),
		settings:   newSettingsModel(s, opts.Now),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.today.refresh(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.today.setSize(a.width, contentHeight)
		a.review.setSize(a.width, contentHeight)
		a.history.setSize(a.width, contentHeight)
		a.analytics.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		// Charts are drawn at load time for the current width.
		return a, a.refreshCurrentView()

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (form or picker), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchTo(viewToday)
		case key.Matches(msg, keys.Tab2):
			return a.switchTo(viewReview)
		case key.Matches(msg, keys.Tab3):
			return a.switchTo(viewHistory)
		case key.Matches(msg, keys.Tab4):
			return a.switchTo(viewAnalytics)
		case key.Matches(msg, keys.Tab5):
			return a.switchTo(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchTo((a.activeView + 1) % viewState(len(viewNames)))
		}

	case tickMsg:
		// Today follows the clock whichever view is active.
		var cmd tea.Cmd
		a.today, cmd = a.today.update(msg)
		return a, tea.Batch(tickCmd(), cmd)

	case todayDataMsg:
		var cmd tea.Cmd
		a.today, cmd = a.today.update(msg)
		return a, cmd

	case statusMsg:
		a.status = msg.text
		if msg.isError {
			a.log.Warnw("tui error", "status", msg.text)
		}
		return a, nil

	case exportDoneMsg:
		a.status = fmt.Sprintf("Exported %d day(s) to %s", msg.days, msg.path)
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) switchTo(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewToday:
		a.today, cmd = a.today.update(msg)
	case viewReview:
		a.review, cmd = a.review.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewAnalytics:
		a.analytics, cmd = a.analytics.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewToday:
		return a.today.capturing()
	case viewReview:
		return a.review.capturing()
	case viewSettings:
		return a.settings.capturing()
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewToday:
		return a.today.refresh()
	case viewReview:
		return a.review.refresh()
	case viewHistory:
		return a.history.refresh()
	case viewAnalytics:
		return a.analytics.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewToday:
		content = a.today.view()
	case viewReview:
		content = a.review.view()
	case viewHistory:
		content = a.history.view()
	case viewAnalytics:
		content = a.analytics.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(1, a.height-headerHeight-footerHeight)

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("daygrid")
	gap := max(1, a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Today's score, whichever view is active
	scoreInfo := ""
	if a.today.day != nil {
		pct := a.today.day.Score().ProductivityPercentage
		scoreInfo = lipgloss.NewStyle().Foreground(scoreColor(pct)).Render(fmt.Sprintf(" ● %.1f%%", pct))
	}

	left := footerStyle.Render(helpView)
	right := scoreInfo + status

	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("Last %d days into %s", exportDays, a.exportDir)))
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	now := a.now()
	return func() tea.Msg {
		logs, err := a.store.RecentLogs(exportDays, now)
		if err != nil {
			return errStatus("Export error: %v", err)
		}

		base := filepath.Join(a.exportDir, "daygrid-export-"+now.Format("2006-01-02"))
		var path string
		switch format {
		case 0:
			path = base + ".csv"
			err = export.ToCSV(logs, path)
		case 1:
			path = base + ".md"
			to := store.DayOf(now)
			err = export.ToMarkdown(logs, to.AddDate(0, 0, 1-exportDays), to, path)
		default:
			path = base + ".json"
			err = export.ToJSON(logs, path)
		}
		if err != nil {
			return errStatus("Export error: %v", err)
		}

		a.log.Infow("exported", "format", exportFormats[format], "days", len(logs), "path", path)
		return exportDoneMsg{path: path, days: len(logs)}
	}
}
