package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/daygrid/internal/analytics"
	"github.com/sadopc/daygrid/internal/store"
)

var analyticsRanges = []int{7, 14, 30}

type analyticsModel struct {
	store  *store.Store
	now    func() time.Time
	opts   analytics.Options
	width  int
	height int

	ranges   []int
	rangeIdx int
	report   analytics.Report
	loaded   bool

	chart barchart.Model
}

// newAnalyticsModel opens on defaultDays, which joins the selectable ranges
// when it isn't one of them.
func newAnalyticsModel(s *store.Store, now func() time.Time, defaultDays int, opts analytics.Options) analyticsModel {
	ranges := slices.Clone(analyticsRanges)
	if defaultDays > 0 && !slices.Contains(ranges, defaultDays) {
		ranges = append(ranges, defaultDays)
		slices.Sort(ranges)
	}
	idx := slices.Index(ranges, defaultDays)
	if idx < 0 {
		idx = 0
	}
	return analyticsModel{
		store:    s,
		now:      now,
		opts:     opts,
		ranges:   ranges,
		rangeIdx: idx,
		chart:    barchart.New(60, 8),
	}
}

func (a *analyticsModel) setSize(w, h int) {
	a.width = w
	a.height = h
}

func (a analyticsModel) days() int {
	return a.ranges[a.rangeIdx]
}

type analyticsDataMsg struct {
	report analytics.Report
	err    error
}

func (a analyticsModel) refresh() tea.Cmd {
	days, now := a.days(), a.now()
	return func() tea.Msg {
		logs, err := a.store.RecentLogs(days, now)
		if err != nil {
			return analyticsDataMsg{err: err}
		}
		return analyticsDataMsg{report: analytics.Summarize(logs, a.opts)}
	}
}

func (a analyticsModel) update(msg tea.Msg) (analyticsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case analyticsDataMsg:
		if msg.err != nil {
			return a, func() tea.Msg { return errStatus("Could not load analytics: %v", msg.err) }
		}
		a.report = msg.report
		a.loaded = true
		a.buildChart()
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			if a.rangeIdx > 0 {
				a.rangeIdx--
				return a, a.refresh()
			}
		case key.Matches(msg, keys.Right):
			if a.rangeIdx < len(a.ranges)-1 {
				a.rangeIdx++
				return a, a.refresh()
			}
		}
	}
	return a, nil
}

// buildChart charts hours per category over the period.
func (a *analyticsModel) buildChart() {
	a.chart = barchart.New(max(20, a.width-8), 8)
	var bars []barchart.BarData
	for _, c := range a.report.CategoryTotals {
		bars = append(bars, barchart.BarData{
			Label: c.Label,
			Values: []barchart.BarValue{{
				Name:  c.Label,
				Value: float64(c.TotalMinutes) / 60,
				Style: lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)),
			}},
		})
	}
	if len(bars) == 0 {
		return
	}
	a.chart.PushAll(bars)
	a.chart.Draw()
}

func (a analyticsModel) view() string {
	w := a.width - 4

	var tabs []string
	for i, d := range a.ranges {
		label := fmt.Sprintf("%d days", d)
		if i == a.rangeIdx {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Analytics"), "  ", lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...),
	)
	nav := mutedStyle.Render("  ←/→: change range")

	r := a.report
	if !a.loaded || len(r.Days) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			header, "", mutedStyle.Render("  No days logged in this period"), "", nav,
		))
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		header, "",
		a.renderStats(),
		"", titleStyle.Render("Time by category"),
		a.chart.View(),
		a.renderLegend(),
		"", titleStyle.Render("By weekday"),
		a.renderWeekdays(),
		"", nav,
	))
}

func (a analyticsModel) renderStats() string {
	r := a.report
	label := lipgloss.NewStyle().Width(16)

	trend := mutedStyle.Render("→ steady")
	switch {
	case r.Trend > 0:
		trend = successStyle.Render(fmt.Sprintf("↑ %+.1f", r.Trend))
	case r.Trend < 0:
		trend = errorStyle.Render(fmt.Sprintf("↓ %+.1f", r.Trend))
	}

	rows := []string{
		"  " + label.Render("Average score") + scoreStyle.Foreground(scoreColor(r.AverageScore)).Render(fmt.Sprintf("%.1f%%", r.AverageScore)) + "  " + trend,
		"  " + label.Render("Coverage") + fmt.Sprintf("%d%%", r.AverageCoverage),
		"  " + label.Render("Time logged") + fmt.Sprintf("%dh  (%.1fh/day)", r.TotalHours(), r.HoursPerDay(a.days())),
		"  " + label.Render("Streak") + fmt.Sprintf("%d day(s)", r.StreakDays),
		"  " + label.Render("Best day") + fmt.Sprintf("%s  %.1f%%", r.BestDay.Date.Format("Mon Jan 02"), r.BestDay.Score),
		"  " + label.Render("Worst day") + fmt.Sprintf("%s  %.1f%%", r.WorstDay.Date.Format("Mon Jan 02"), r.WorstDay.Score),
	}
	return strings.Join(rows, "\n")
}

func (a analyticsModel) renderLegend() string {
	var items []string
	for _, c := range a.report.CategoryTotals {
		items = append(items, fmt.Sprintf("%s %s %s", colorDot(c.Color), c.Label, mutedStyle.Render(formatMinutes(c.TotalMinutes))))
	}
	if len(items) == 0 {
		return mutedStyle.Render("  No categorized intervals")
	}
	return "  " + strings.Join(items, "  ")
}

func (a analyticsModel) renderWeekdays() string {
	var cells []string
	// Monday first
	for i := 1; i <= 7; i++ {
		wd := a.report.Weekdays[i%7]
		value := mutedStyle.Render("  -")
		if wd.DayCount > 0 {
			value = lipgloss.NewStyle().Foreground(scoreColor(float64(wd.Average))).Render(fmt.Sprintf("%3d%%", wd.Average))
		}
		cells = append(cells, fmt.Sprintf("%s %s", wd.Day.String()[:3], value))
	}
	return "  " + strings.Join(cells, "   ")
}
