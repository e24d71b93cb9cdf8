package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/daygrid/internal/scoring"
	"github.com/sadopc/daygrid/internal/store"
)

// reviewModel walks the logged but uncategorized intervals of a day and
// queues a category for each. Queued assignments are applied together.
type reviewModel struct {
	store  *store.Store
	now    func() time.Time
	width  int
	height int

	offset     int // days before today
	day        *store.DailyLog
	queue      []store.TimeInterval
	categories []store.Category
	cursor     int
	pending    map[int64]string // interval ID -> category ID

	picking      bool
	pickerCursor int
}

func newReviewModel(s *store.Store, now func() time.Time) reviewModel {
	return reviewModel{
		store:   s,
		now:     now,
		pending: make(map[int64]string),
	}
}

func (r *reviewModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

func (r reviewModel) capturing() bool {
	return r.picking
}

type reviewDataMsg struct {
	day        *store.DailyLog
	queue      []store.TimeInterval
	categories []store.Category
	err        error
}

type reviewAppliedMsg struct {
	updated int
	failed  int
	err     error
}

func (r reviewModel) date() time.Time {
	return store.DayOf(r.now()).AddDate(0, 0, -r.offset)
}

func (r reviewModel) refresh() tea.Cmd {
	date := r.date()
	return func() tea.Msg {
		categories, err := r.store.ListCategories(false)
		if err != nil {
			return reviewDataMsg{err: err}
		}
		day, err := r.store.GetDailyLog(date)
		if err != nil || day == nil {
			return reviewDataMsg{categories: categories, err: err}
		}
		queue, err := r.store.ListUncategorized(day.ID)
		return reviewDataMsg{day: day, queue: queue, categories: categories, err: err}
	}
}

func (r reviewModel) apply() tea.Cmd {
	var updates []store.CategoryAssignment
	for _, iv := range r.queue {
		if categoryID, ok := r.pending[iv.ID]; ok {
			updates = append(updates, store.CategoryAssignment{IntervalID: iv.ID, CategoryID: categoryID})
		}
	}
	if len(updates) == 0 {
		return statusCmd("Nothing queued. Press enter to pick a category.")
	}
	return func() tea.Msg {
		updated, err := r.store.BulkUpdateCategories(updates)
		return reviewAppliedMsg{updated: len(updated), failed: len(updates) - len(updated), err: err}
	}
}

func (r reviewModel) update(msg tea.Msg) (reviewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reviewDataMsg:
		if msg.err != nil {
			return r, func() tea.Msg { return errStatus("Could not load review: %v", msg.err) }
		}
		r.day = msg.day
		r.queue = msg.queue
		r.categories = msg.categories
		r.cursor = clamp(r.cursor, 0, max(0, len(r.queue)-1))
		// Drop assignments for intervals no longer waiting.
		waiting := make(map[int64]bool, len(r.queue))
		for _, iv := range r.queue {
			waiting[iv.ID] = true
		}
		for id := range r.pending {
			if !waiting[id] {
				delete(r.pending, id)
			}
		}
		return r, nil

	case reviewAppliedMsg:
		status := fmt.Sprintf("Categorized %d interval(s)", msg.updated)
		if msg.err != nil {
			return r, tea.Batch(r.refresh(), func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("%s, %d failed: %s", status, msg.failed, strings.ReplaceAll(msg.err.Error(), "\n", "; ")), isError: true}
			})
		}
		return r, tea.Batch(r.refresh(), statusCmd(status))

	case tea.KeyMsg:
		if r.picking {
			return r.updatePicker(msg)
		}
		return r.updateQueue(msg)
	}
	return r, nil
}

func (r reviewModel) updateQueue(msg tea.KeyMsg) (reviewModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if r.cursor > 0 {
			r.cursor--
		}
	case key.Matches(msg, keys.Down):
		if r.cursor < len(r.queue)-1 {
			r.cursor++
		}
	case key.Matches(msg, keys.Left):
		r.offset++
		r.cursor = 0
		r.pending = make(map[int64]string)
		return r, r.refresh()
	case key.Matches(msg, keys.Right):
		if r.offset > 0 {
			r.offset--
			r.cursor = 0
			r.pending = make(map[int64]string)
			return r, r.refresh()
		}
	case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Category):
		if len(r.queue) == 0 || len(r.categories) == 0 {
			return r, nil
		}
		r.picking = true
		r.pickerCursor = 0
		if categoryID, ok := r.pending[r.queue[r.cursor].ID]; ok {
			for i, c := range r.categories {
				if c.ID == categoryID {
					r.pickerCursor = i
				}
			}
		}
	case key.Matches(msg, keys.Clear):
		if len(r.queue) > 0 {
			delete(r.pending, r.queue[r.cursor].ID)
		}
	case key.Matches(msg, keys.Apply):
		return r, r.apply()
	}
	return r, nil
}

func (r reviewModel) updatePicker(msg tea.KeyMsg) (reviewModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if r.pickerCursor > 0 {
			r.pickerCursor--
		}
	case key.Matches(msg, keys.Down):
		if r.pickerCursor < len(r.categories)-1 {
			r.pickerCursor++
		}
	case key.Matches(msg, keys.Enter):
		r.picking = false
		r.pending[r.queue[r.cursor].ID] = r.categories[r.pickerCursor].ID
		if r.cursor < len(r.queue)-1 {
			r.cursor++
		}
	case key.Matches(msg, keys.Back):
		r.picking = false
	}
	return r, nil
}

func (r reviewModel) categoryByID(id string) *store.Category {
	for i := range r.categories {
		if r.categories[i].ID == id {
			return &r.categories[i]
		}
	}
	return nil
}

func (r reviewModel) view() string {
	w := r.width - 4
	date := r.date()

	title := titleStyle.Render("Review") + "  " + mutedStyle.Render(date.Format("Monday, January 2, 2006"))
	rows := []string{title, ""}

	switch {
	case r.day == nil:
		rows = append(rows, mutedStyle.Render("  No log for this day"))
	case len(r.queue) == 0:
		rows = append(rows, successStyle.Render("  Every logged interval has a category"))
	default:
		if !r.day.Status.Editable() {
			rows = append(rows, warningStyle.Render("  Day is closed; reopen it before applying"), "")
		}
		labelCol := lipgloss.NewStyle().Width(20)
		for i, iv := range r.queue {
			cursor := "  "
			style := normalItemStyle
			if i == r.cursor {
				cursor = "> "
				style = selectedItemStyle
			}
			assigned := mutedStyle.Render("  " + labelCol.Render("-"))
			if c := r.categoryByID(r.pending[iv.ID]); c != nil {
				assigned = colorDot(c.Color) + " " + labelCol.Render(c.Label)
			}
			rows = append(rows, fmt.Sprintf("%s %s %s",
				style.Render(cursor+scoring.FormatTimeRange(iv.StartTime, iv.EndTime)),
				assigned,
				style.Render(iv.ActivityText),
			))
		}
		rows = append(rows, "", mutedStyle.Render(fmt.Sprintf("  %d of %d queued", len(r.pending), len(r.queue))))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: pick category  x: unqueue  a: apply  ←/→: day"))
	panel := panelStyle.Width(w).Render(strings.Join(rows, "\n"))

	if r.picking {
		return lipgloss.JoinVertical(lipgloss.Left, panel, r.renderPicker(w))
	}
	return panel
}

func (r reviewModel) renderPicker(w int) string {
	iv := r.queue[r.cursor]
	rows := []string{
		titleStyle.Render("Select Category") + mutedStyle.Render("  "+iv.ActivityText),
	}
	for i, c := range r.categories {
		cursor := "  "
		style := normalItemStyle
		if i == r.pickerCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %-20s %3d", cursor, colorDot(c.Color), c.Label, c.Value)))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: queue  esc: cancel"))
	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
