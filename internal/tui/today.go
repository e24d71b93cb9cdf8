package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/daygrid/internal/scoring"
	"github.com/sadopc/daygrid/internal/store"
)

type todayModel struct {
	store  *store.Store
	now    func() time.Time
	width  int
	height int

	day        *store.DailyLog
	categories []store.Category // active only
	cursor     int

	// Category picker state
	picking      bool
	pickerCursor int

	formActive bool
	form       *huh.Form
	formType   string // "activity", "summary"
	formText   *string
}

func newTodayModel(s *store.Store, now func() time.Time) todayModel {
	text := ""
	return todayModel{
		store:    s,
		now:      now,
		formText: &text,
	}
}

func (m *todayModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m todayModel) capturing() bool {
	return m.formActive || m.picking
}

type todayDataMsg struct {
	day        *store.DailyLog
	categories []store.Category
	status     string
	err        error
}

func (m todayModel) refresh() tea.Cmd {
	return m.mutate("", nil)
}

// mutate runs fn and reloads today's log. When fn fails nothing is reloaded
// and the error becomes the status line.
func (m todayModel) mutate(status string, fn func() error) tea.Cmd {
	date := store.DayOf(m.now())
	return func() tea.Msg {
		if fn != nil {
			if err := fn(); err != nil {
				return errStatus("Error: %v", err)
			}
		}
		day, err := m.store.GetOrCreateDailyLog(date, nil)
		if err != nil {
			return todayDataMsg{err: err}
		}
		categories, err := m.store.ListCategories(false)
		return todayDataMsg{day: day, categories: categories, status: status, err: err}
	}
}

// stale reports whether the loaded log is no longer today's.
func (m todayModel) stale() bool {
	return m.day != nil && store.DateKey(m.day.Date) != store.DateKey(m.now())
}

// currentIndex is the interval containing now, or the nearest end of the day.
func (m todayModel) currentIndex() int {
	if m.day == nil || len(m.day.Intervals) == 0 {
		return 0
	}
	now := m.now()
	for i, iv := range m.day.Intervals {
		if scoring.IsCurrentInterval(iv.StartTime, iv.EndTime, now) {
			return i
		}
	}
	if last := m.day.Intervals[len(m.day.Intervals)-1]; !now.Before(last.EndTime) {
		return len(m.day.Intervals) - 1
	}
	return 0
}

func (m todayModel) selected() *store.TimeInterval {
	if m.day == nil || m.cursor >= len(m.day.Intervals) {
		return nil
	}
	return &m.day.Intervals[m.cursor]
}

func (m todayModel) update(msg tea.Msg) (todayModel, tea.Cmd) {
	// Data and the clock are handled even while a form is open.
	switch msg := msg.(type) {
	case todayDataMsg:
		return m.applyData(msg)
	case tickMsg:
		if m.stale() {
			return m, m.refresh()
		}
		return m, nil
	}

	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.day == nil {
			return m, nil
		}
		if m.picking {
			return m.updatePicker(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m todayModel) applyData(msg todayDataMsg) (todayModel, tea.Cmd) {
	if msg.err != nil {
		return m, func() tea.Msg { return errStatus("Could not load today: %v", msg.err) }
	}
	newDay := m.day == nil || store.DateKey(m.day.Date) != store.DateKey(msg.day.Date)
	m.day = msg.day
	m.categories = msg.categories
	if newDay {
		// A form or picker opened on yesterday's interval has nothing to save into.
		m.formActive = false
		m.form = nil
		m.picking = false
		m.cursor = m.currentIndex()
	}
	m.cursor = clamp(m.cursor, 0, max(0, len(m.day.Intervals)-1))
	if msg.status != "" {
		return m, statusCmd(msg.status)
	}
	return m, nil
}

func (m todayModel) updateList(msg tea.KeyMsg) (todayModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.day.Intervals)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Now):
		m.cursor = m.currentIndex()

	case key.Matches(msg, keys.Edit):
		if cmd := m.requireEditable(); cmd != nil {
			return m, cmd
		}
		return m.showActivityForm()

	case key.Matches(msg, keys.Category):
		if cmd := m.requireEditable(); cmd != nil {
			return m, cmd
		}
		if len(m.categories) == 0 {
			return m, statusCmd("No active categories. Add one in Settings.")
		}
		m.picking = true
		m.pickerCursor = 0
		if iv := m.selected(); iv != nil && iv.CategoryID != nil {
			for i, c := range m.categories {
				if c.ID == *iv.CategoryID {
					m.pickerCursor = i
				}
			}
		}

	case key.Matches(msg, keys.Clear):
		if cmd := m.requireEditable(); cmd != nil {
			return m, cmd
		}
		iv := m.selected()
		if iv == nil || iv.CategoryID == nil {
			return m, nil
		}
		id := iv.ID
		return m, m.mutate("Category cleared", func() error {
			_, err := m.store.UpdateInterval(id, store.IntervalPatch{ClearCategory: true})
			return err
		})

	case key.Matches(msg, keys.Summary):
		return m.showSummaryForm()

	case key.Matches(msg, keys.Partial):
		id, partial := m.day.ID, !m.day.Partial
		status := "Day marked complete"
		if partial {
			status = "Day marked partial"
		}
		return m, m.mutate(status, func() error {
			_, err := m.store.MarkDayPartial(id, partial)
			return err
		})

	case key.Matches(msg, keys.CloseDay):
		id := m.day.ID
		if m.day.Status == store.DayClosed {
			return m, m.mutate("Day reopened", func() error {
				_, err := m.store.ReopenDay(id)
				return err
			})
		}
		status := fmt.Sprintf("Day closed at %.1f%%", m.day.Score().ProductivityPercentage)
		return m, m.mutate(status, func() error {
			_, err := m.store.CloseDay(id)
			return err
		})
	}
	return m, nil
}

func (m todayModel) requireEditable() tea.Cmd {
	if m.day.Status.Editable() {
		return nil
	}
	return statusCmd("Day is closed. Press C to reopen it.")
}

func (m todayModel) updatePicker(msg tea.KeyMsg) (todayModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.pickerCursor > 0 {
			m.pickerCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.pickerCursor < len(m.categories)-1 {
			m.pickerCursor++
		}
	case key.Matches(msg, keys.Enter):
		m.picking = false
		iv := m.selected()
		if iv == nil {
			return m, nil
		}
		c := m.categories[m.pickerCursor]
		id, categoryID := iv.ID, c.ID
		status := fmt.Sprintf("%s set to %s", scoring.FormatTimeRange(iv.StartTime, iv.EndTime), c.Label)
		return m, m.mutate(status, func() error {
			_, err := m.store.UpdateInterval(id, store.IntervalPatch{CategoryID: &categoryID})
			return err
		})
	case key.Matches(msg, keys.Back):
		m.picking = false
	}
	return m, nil
}

func (m todayModel) showActivityForm() (todayModel, tea.Cmd) {
	iv := m.selected()
	if iv == nil {
		return m, nil
	}
	*m.formText = iv.ActivityText
	m.formType = "activity"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(scoring.FormatTimeRange(iv.StartTime, iv.EndTime)).
				Description("What did you do?").
				CharLimit(store.MaxActivityChars).
				Value(m.formText),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m todayModel) showSummaryForm() (todayModel, tea.Cmd) {
	*m.formText = m.day.DaySummary
	m.formType = "summary"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().Title("Day summary").Lines(4).Value(m.formText),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m todayModel) updateForm(msg tea.Msg) (todayModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		return m, m.saveForm()
	}
	return m, cmd
}

func (m todayModel) saveForm() tea.Cmd {
	text := *m.formText
	switch m.formType {
	case "activity":
		iv := m.selected()
		if iv == nil {
			return nil
		}
		id := iv.ID
		return m.mutate("Activity saved", func() error {
			_, err := m.store.UpdateInterval(id, store.IntervalPatch{ActivityText: &text})
			return err
		})
	case "summary":
		id := m.day.ID
		return m.mutate("Summary saved", func() error {
			_, err := m.store.UpdateDailyLogSummary(id, text)
			return err
		})
	}
	return nil
}

func (m todayModel) view() string {
	w := m.width - 4
	if m.day == nil {
		return panelStyle.Width(w).Render(mutedStyle.Render("Loading today..."))
	}

	header := m.renderHeader(w)

	var body string
	switch {
	case m.formActive && m.form != nil:
		title := titleStyle.Render("Activity")
		if m.formType == "summary" {
			title = titleStyle.Render("Summary")
		}
		body = activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	case m.picking:
		body = m.renderPicker(w)
	default:
		body = m.renderIntervals(w)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func (m todayModel) renderHeader(w int) string {
	score := m.day.Score()

	title := titleStyle.Render(m.day.Date.Format("Monday, January 2, 2006"))
	rows := []string{title + "  " + dayBadge(m.day)}

	pct := scoreStyle.Foreground(scoreColor(score.ProductivityPercentage)).
		Render(fmt.Sprintf("%.1f%%", score.ProductivityPercentage))
	line := fmt.Sprintf("Score %s   Logged %d/%d   Coverage %d%%",
		pct, score.LoggedIntervals, score.TotalIntervals,
		scoring.LoggingCoverage(score.LoggedIntervals, score.TotalIntervals))
	if n := len(m.day.Uncategorized()); n > 0 {
		line += warningStyle.Render(fmt.Sprintf("   %d to review", n))
	}
	rows = append(rows, line)

	if len(score.CategoryBreakdown) > 0 {
		var parts []string
		for _, b := range scoring.SortBreakdownByMinutes(score.CategoryBreakdown) {
			parts = append(parts, fmt.Sprintf("%s %s %s", colorDot(b.Color), b.Label, mutedStyle.Render(formatMinutes(b.TotalMinutes))))
		}
		rows = append(rows, strings.Join(parts, "   "))
	}
	if m.day.DaySummary != "" {
		rows = append(rows, mutedStyle.Render("“"+m.day.DaySummary+"”"))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// dayBadge renders a day's status and partial flag.
func dayBadge(l *store.DailyLog) string {
	var badge string
	switch l.Status {
	case store.DayClosed:
		badge = errorStyle.Render("■ CLOSED")
	case store.DayReopened:
		badge = warningStyle.Render("● REOPENED")
	default:
		badge = successStyle.Render("● ACTIVE")
	}
	if l.Partial {
		badge += mutedStyle.Render(" (partial)")
	}
	return badge
}

func (m todayModel) renderIntervals(w int) string {
	intervals := m.day.Intervals
	if len(intervals) == 0 {
		return panelStyle.Width(w).Render(mutedStyle.Render("No intervals today"))
	}

	listHeight := max(3, m.height-14)
	start := clamp(m.cursor-listHeight/2, 0, max(0, len(intervals)-listHeight))
	end := min(len(intervals), start+listHeight)

	now := m.now()
	labelCol := lipgloss.NewStyle().Width(20)

	var rows []string
	for i := start; i < end; i++ {
		iv := intervals[i]
		current := scoring.IsCurrentInterval(iv.StartTime, iv.EndTime, now)

		cursor := "  "
		style := normalItemStyle
		switch {
		case i == m.cursor:
			cursor = "> "
			style = selectedItemStyle
		case current:
			style = currentItemStyle
		case !iv.Logged():
			style = mutedStyle
		}
		marker := " "
		if current {
			marker = "●"
		}

		var category string
		switch iv.State() {
		case scoring.Categorized:
			category = colorDot(iv.Category.Color) + " " + labelCol.Render(iv.Category.Label)
		case scoring.LoggedUncategorized:
			category = warningStyle.Render("? " + labelCol.Render("uncategorized"))
		default:
			category = mutedStyle.Render("· " + labelCol.Render(""))
		}

		rows = append(rows, fmt.Sprintf("%s %s %s",
			style.Render(cursor+scoring.FormatTimeRange(iv.StartTime, iv.EndTime)+" "+marker),
			category,
			style.Render(iv.ActivityText),
		))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: activity  c: category  x: clear  s: summary  p: partial  C: close/reopen  g: now"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m todayModel) renderPicker(w int) string {
	title := titleStyle.Render("Select Category")
	if iv := m.selected(); iv != nil {
		title += mutedStyle.Render("  " + scoring.FormatTimeRange(iv.StartTime, iv.EndTime))
	}

	var rows []string
	rows = append(rows, title)
	for i, c := range m.categories {
		cursor := "  "
		style := normalItemStyle
		if i == m.pickerCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %-20s %3d", cursor, colorDot(c.Color), c.Label, c.Value)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: select  esc: cancel"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
