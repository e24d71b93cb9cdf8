package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/sadopc/daygrid/internal/scoring"
	"github.com/sadopc/daygrid/internal/store"
)

const historyPageDays = 7

type historyModel struct {
	store  *store.Store
	now    func() time.Time
	width  int
	height int

	offset int // pages of historyPageDays back from today
	logs   map[string]store.DailyLog

	chart barchart.Model
}

func newHistoryModel(s *store.Store, now func() time.Time) historyModel {
	return historyModel{
		store: s,
		now:   now,
		chart: barchart.New(60, 10),
	}
}

func (h *historyModel) setSize(w, hh int) {
	h.width = w
	h.height = hh
}

type historyDataMsg struct {
	logs []store.DailyLog
	err  error
}

// dateRange is the inclusive span of the current page.
func (h historyModel) dateRange() (time.Time, time.Time) {
	to := store.DayOf(h.now()).AddDate(0, 0, -historyPageDays*h.offset)
	return to.AddDate(0, 0, 1-historyPageDays), to
}

func (h historyModel) refresh() tea.Cmd {
	from, to := h.dateRange()
	return func() tea.Msg {
		logs, err := h.store.ListDailyLogs(from, to)
		return historyDataMsg{logs: logs, err: err}
	}
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		if msg.err != nil {
			return h, func() tea.Msg { return errStatus("Could not load history: %v", msg.err) }
		}
		h.logs = make(map[string]store.DailyLog, len(msg.logs))
		for _, l := range msg.logs {
			h.logs[store.DateKey(l.Date)] = l
		}
		h.buildChart()
		return h, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			h.offset++
			return h, h.refresh()
		case key.Matches(msg, keys.Right):
			if h.offset > 0 {
				h.offset--
			}
			return h, h.refresh()
		}
	}
	return h, nil
}

func (h *historyModel) buildChart() {
	chartWidth := max(20, h.width-8)
	chartHeight := 10
	if h.height > 30 {
		chartHeight = 14
	}
	h.chart = barchart.New(chartWidth, chartHeight)

	from, to := h.dateRange()
	var bars []barchart.BarData
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		value := barchart.BarValue{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}
		if l, ok := h.logs[store.DateKey(d)]; ok {
			score := l.Score().ProductivityPercentage
			value = barchart.BarValue{
				Name:  "score",
				Value: score,
				Style: lipgloss.NewStyle().Foreground(scoreColor(score)),
			}
		}
		bars = append(bars, barchart.BarData{
			Label:  d.Format("Mon 02"),
			Values: []barchart.BarValue{value},
		})
	}

	h.chart.PushAll(bars)
	h.chart.Draw()
}

func (h historyModel) view() string {
	w := h.width - 4

	from, to := h.dateRange()
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("History"), "  ",
		mutedStyle.Render(fmt.Sprintf("%s - %s", from.Format("Jan 02"), to.Format("Jan 02, 2006"))),
	)

	nav := mutedStyle.Render("  ←/→: previous/next week")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", h.chart.View(), "", h.renderDays(w), "", nav,
		),
	)
}

func (h historyModel) renderDays(w int) string {
	if len(h.logs) == 0 {
		return mutedStyle.Render("  No days logged in this period")
	}

	now := h.now()
	rows := []string{
		mutedStyle.Render(fmt.Sprintf("  %-16s %-10s %7s %9s %9s  %s", "Date", "Status", "Score", "Logged", "Coverage", "")),
		mutedStyle.Render("  " + strings.Repeat("─", min(w-6, 72))),
	}

	from, to := h.dateRange()
	for d := to; !d.Before(from); d = d.AddDate(0, 0, -1) {
		l, ok := h.logs[store.DateKey(d)]
		if !ok {
			rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-16s %s", d.Format("Mon Jan 02"), "not logged")))
			continue
		}
		score := l.Score()
		pct := lipgloss.NewStyle().Foreground(scoreColor(score.ProductivityPercentage)).
			Render(fmt.Sprintf("%6.1f%%", score.ProductivityPercentage))

		status := string(l.Status)
		if l.Partial {
			status += "*"
		}
		rows = append(rows, fmt.Sprintf("  %-16s %-10s %s %9s %8d%%  %s",
			d.Format("Mon Jan 02"),
			status,
			pct,
			fmt.Sprintf("%d/%d", score.LoggedIntervals, score.TotalIntervals),
			scoring.LoggingCoverage(score.LoggedIntervals, score.TotalIntervals),
			mutedStyle.Render(h.lastChange(l, now)),
		))
	}
	return strings.Join(rows, "\n")
}

// lastChange describes when a day was closed or last edited.
func (h historyModel) lastChange(l store.DailyLog, now time.Time) string {
	if l.ClosedAt != nil {
		return "closed " + humanize.RelTime(*l.ClosedAt, now, "ago", "from now")
	}
	if l.UpdatedAt.IsZero() {
		return ""
	}
	return "edited " + humanize.RelTime(l.UpdatedAt, now, "ago", "from now")
}
