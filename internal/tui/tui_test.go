package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/daygrid/internal/analytics"
	"github.com/sadopc/daygrid/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// clockAt returns a clock stopped at h:m on Monday 2024-03-04.
func clockAt(h, m int) func() time.Time {
	return func() time.Time { return time.Date(2024, 3, 4, h, m, 0, 0, time.Local) }
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
)

// run executes cmd and every command it batches, returning the messages.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, run(c)...)
		}
		return msgs
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// drive feeds the messages produced by cmd back into the model until no
// commands remain. Status messages are collected instead of delivered.
func drive[M any](t *testing.T, m M, update func(M, tea.Msg) (M, tea.Cmd), cmd tea.Cmd) (M, []statusMsg) {
	t.Helper()
	var statuses []statusMsg
	pending := run(cmd)
	for i := 0; len(pending) > 0; i++ {
		if i > 50 {
			t.Fatal("model did not settle")
		}
		msg := pending[0]
		pending = pending[1:]
		if st, ok := msg.(statusMsg); ok {
			statuses = append(statuses, st)
			continue
		}
		var next tea.Cmd
		m, next = update(m, msg)
		pending = append(pending, run(next)...)
	}
	return m, statuses
}

func lastStatus(t *testing.T, statuses []statusMsg) statusMsg {
	t.Helper()
	if len(statuses) == 0 {
		t.Fatal("expected a status message")
	}
	return statuses[len(statuses)-1]
}

// ============================================================
// Helper functions
// ============================================================

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0h 00m"},
		{15, "0h 15m"},
		{75, "1h 15m"},
		{600, "10h 00m"},
	}
	for _, tt := range tests {
		if got := formatMinutes(tt.in); got != tt.want {
			t.Fatalf("formatMinutes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScoreColor(t *testing.T) {
	if scoreColor(100) != colorSuccess || scoreColor(75) != colorSuccess {
		t.Fatal("75 and above should be success")
	}
	if scoreColor(74.9) != colorWarning || scoreColor(50) != colorWarning {
		t.Fatal("50 to 75 should be warning")
	}
	if scoreColor(49.9) != colorError || scoreColor(0) != colorError {
		t.Fatal("below 50 should be error")
	}
}

func TestClamp(t *testing.T) {
	if clamp(-1, 0, 5) != 0 || clamp(9, 0, 5) != 5 || clamp(3, 0, 5) != 3 {
		t.Fatal("clamp failed")
	}
}

// ============================================================
// View state
// ============================================================

func TestViewNames(t *testing.T) {
	if len(viewNames) != 5 {
		t.Fatalf("expected 5 view names, got %d", len(viewNames))
	}
	if viewNames[viewToday] != "Today" || viewNames[viewSettings] != "Settings" {
		t.Fatalf("unexpected view names %v", viewNames)
	}
}

// ============================================================
// Today model
// ============================================================

func loadedToday(t *testing.T, s *store.Store, now func() time.Time) todayModel {
	t.Helper()
	m := newTodayModel(s, now)
	m.setSize(120, 40)
	m, _ = drive(t, m, todayModel.update, m.refresh())
	if m.day == nil {
		t.Fatal("today should be loaded")
	}
	return m
}

func TestTodayLoadCreatesDay(t *testing.T) {
	s := newTestStore(t)
	m := loadedToday(t, s, clockAt(10, 7))

	if store.DateKey(m.day.Date) != "2024-03-04" {
		t.Fatalf("expected 2024-03-04, got %s", store.DateKey(m.day.Date))
	}
	if len(m.day.Intervals) != 32 {
		t.Fatalf("expected 32 intervals, got %d", len(m.day.Intervals))
	}
	if len(m.categories) != 5 {
		t.Fatalf("expected 5 active categories, got %d", len(m.categories))
	}
	// 10:07 falls in 10:00-10:15
	if m.cursor != 4 {
		t.Fatalf("cursor should start on the current interval, got %d", m.cursor)
	}
}

func TestTodayCursorOutsideWindow(t *testing.T) {
	s := newTestStore(t)
	if m := loadedToday(t, s, clockAt(7, 0)); m.cursor != 0 {
		t.Fatalf("before the window the cursor should be first, got %d", m.cursor)
	}
	if m := loadedToday(t, s, clockAt(18, 0)); m.cursor != 31 {
		t.Fatalf("after the window the cursor should be last, got %d", m.cursor)
	}
}

func TestTodayMoveAndJumpToNow(t *testing.T) {
	s := newTestStore(t)
	m := loadedToday(t, s, clockAt(10, 7))

	m, _ = m.update(keyDown)
	m, _ = m.update(runes("j"))
	if m.cursor != 6 {
		t.Fatalf("expected cursor 6, got %d", m.cursor)
	}
	m, _ = m.update(runes("g"))
	if m.cursor != 4 {
		t.Fatalf("g should jump back to now, got %d", m.cursor)
	}

	m.cursor = 0
	m, _ = m.update(keyUp)
	if m.cursor != 0 {
		t.Fatal("cursor should not move above the first interval")
	}
	m.cursor = 31
	m, _ = m.update(keyDown)
	if m.cursor != 31 {
		t.Fatal("cursor should not move below the last interval")
	}
}

func TestTodayActivityForm(t *testing.T) {
	s := newTestStore(t)
	m := loadedToday(t, s, clockAt(10, 7))

	m, _ = m.update(keyEnter)
	if !m.formActive || m.formType != "activity" {
		t.Fatal("enter should open the activity form")
	}
	if !m.capturing() {
		t.Fatal("an open form captures input")
	}

	m, _ = m.update(keyEsc)
	if m.formActive || m.form != nil {
		t.Fatal("esc should cancel the form")
	}

	m, _ = m.update(keyEnter)
	*m.formText = "  coding  "
	m.formActive = false
	m, statuses := drive(t, m, todayModel.update, m.saveForm())

	if got := m.day.Intervals[4].ActivityText; got != "coding" {
		t.Fatalf("expected activity 'coding', got %q", got)
	}
	if m.day.Intervals[4].LoggedAt == nil {
		t.Fatal("logged_at should be stamped")
	}
	if lastStatus(t, statuses).text != "Activity saved" {
		t.Fatalf("unexpected status %+v", statuses)
	}
}

func TestTodayCategoryPicker(t *testing.T) {
	s := newTestStore(t)
	m := loadedToday(t, s, clockAt(10, 7))
	text := "coding"
	if _, err := s.UpdateInterval(m.day.Intervals[4].ID, store.IntervalPatch{ActivityText: &text}); err != nil {
		t.Fatal(err)
	}

	m, _ = m.update(runes("c"))
	if !m.picking || m.pickerCursor != 0 {
		t.Fatal("c should open the picker on the first category")
	}
	m, _ = m.update(keyDown)
	m, cmd := m.update(keyEnter)
	if m.picking {
		t.Fatal("picker should close after selecting")
	}
	m, statuses := drive(t, m, todayModel.update, cmd)

	iv := m.day.Intervals[4]
	if iv.Category == nil || iv.Category.ID != "productive" {
		t.Fatalf("expected productive, got %+v", iv.Category)
	}
	if score := m.day.Score().ProductivityPercentage; score != 75 {
		t.Fatalf("expected score 75, got %v", score)
	}
	if !strings.Contains(lastStatus(t, statuses).text, "set to Productive") {
		t.Fatalf("unexpected status %+v", statuses)
	}

	// Reopening the picker starts on the assigned category.
	m, _ = m.update(runes("c"))
	if m.pickerCursor != 1 {
		t.Fatalf("picker should start on the current category, got %d", m.pickerCursor)
	}
	m, _ = m.update(keyEsc)
	if m.picking {
		t.Fatal("esc should close the picker")
	}

	m, cmd = m.update(runes("x"))
	m, _ = drive(t, m, todayModel.update, cmd)
	if m.day.Intervals[4].Category != nil {
		t.Fatal("x should clear the category")
	}
	if len(m.day.Uncategorized()) != 1 {
		t.Fatal("cleared interval should need review")
	}
}

func TestTodayClearWithoutCategoryIsNoop(t *testing.T) {
	s := newTestStore(t)
	m := loadedToday(t, s, clockAt(10, 7))

	if _, cmd := m.update(runes("x")); cmd != nil {
		t.Fatal("clearing an empty interval should do nothing")
	}
}

func TestTodayCloseAndReopen(t *testing.T) {
	s := newTestStore(t)
	m := loadedToday(t, s, clockAt(10, 7))

	m, cmd := m.update(runes("C"))
	m, statuses := drive(t, m, todayModel.update, cmd)
	if m.day.Status != store.DayClosed {
		t.Fatalf("expected CLOSED, got %s", m.day.Status)
	}
	if lastStatus(t, statuses).text != "Day closed at 0.0%" {
		t.Fatalf("unexpected status %+v", statuses)
	}

	for _, k := range []tea.KeyMsg{keyEnter, runes("c"), runes("x")} {
		var cmd tea.Cmd
		m, cmd = m.update(k)
		if m.formActive || m.picking {
			t.Fatalf("%s should not edit a closed day", k)
		}
		msgs := run(cmd)
		if len(msgs) != 1 || !strings.Contains(msgs[0].(statusMsg).text, "Day is closed") {
			t.Fatalf("%s: expected closed-day status, got %+v", k, msgs)
		}
	}

	m, cmd = m.update(runes("C"))
	m, _ = drive(t, m, todayModel.update, cmd)
	if m.day.Status != store.DayReopened {
		t.Fatalf("expected REOPENED, got %s", m.day.Status)
	}
}

func TestTodayPartialToggle(t *testing.T) {
	s := newTestStore(t)
	m := loadedToday(t, s, clockAt(10, 7))

	m, cmd := m.update(runes("p"))
	m, statuses := drive(t, m, todayModel.update, cmd)
	if !m.day.Partial || lastStatus(t, statuses).text != "Day marked partial" {
		t.Fatal("p should mark the day partial")
	}

	m, cmd = m.update(runes("p"))
	m, _ = drive(t, m, todayModel.update, cmd)
	if m.day.Partial {
		t.Fatal("p again should clear the flag")
	}
}

func TestTodaySummary(t *testing.T) {
	s := newTestStore(t)
	m := loadedToday(t, s, clockAt(10, 7))

	m, _ = m.update(runes("s"))
	if !m.formActive || m.formType != "summary" {
		t.Fatal("s should open the summary form")
	}
	*m.formText = "Shipped the release"
	m.formActive = false
	m, _ = drive(t, m, todayModel.update, m.saveForm())

	if m.day.DaySummary != "Shipped the release" {
		t.Fatalf("summary not saved: %q", m.day.DaySummary)
	}
	if !strings.Contains(m.view(), "Shipped the release") {
		t.Fatal("view should show the summary")
	}
}

func TestTodayRollsOverAtMidnight(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2024, 3, 4, 23, 59, 0, 0, time.Local)
	m := loadedToday(t, s, func() time.Time { return now })

	if _, cmd := m.update(tickMsg(now)); cmd != nil {
		t.Fatal("tick on the same day should not reload")
	}

	now = now.Add(10 * time.Minute)
	m, cmd := m.update(tickMsg(now))
	if cmd == nil {
		t.Fatal("tick after midnight should reload")
	}
	m, _ = drive(t, m, todayModel.update, cmd)
	if store.DateKey(m.day.Date) != "2024-03-05" {
		t.Fatalf("expected 2024-03-05, got %s", store.DateKey(m.day.Date))
	}
	if m.cursor != 0 {
		t.Fatalf("new day should start on its first interval, got %d", m.cursor)
	}
}

func TestTodayRefreshWhileFormOpen(t *testing.T) {
	s := newTestStore(t)
	m := loadedToday(t, s, clockAt(10, 7))

	m, _ = m.update(keyEnter)
	if !m.formActive {
		t.Fatal("enter should open the activity form")
	}

	text := "written elsewhere"
	if _, err := s.UpdateInterval(m.day.Intervals[0].ID, store.IntervalPatch{ActivityText: &text}); err != nil {
		t.Fatal(err)
	}
	for _, msg := range run(m.refresh()) {
		m, _ = m.update(msg)
	}

	if got := m.day.Intervals[0].ActivityText; got != text {
		t.Fatalf("reload during the form was dropped, got %q", got)
	}
	if !m.formActive || m.cursor != 4 {
		t.Fatal("a same-day reload should keep the form and cursor")
	}
}

func TestTodayRolloverClosesForm(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2024, 3, 4, 23, 59, 0, 0, time.Local)
	m := loadedToday(t, s, func() time.Time { return now })

	m, _ = m.update(keyEnter)
	if !m.formActive {
		t.Fatal("enter should open the activity form")
	}

	now = now.Add(10 * time.Minute)
	m, cmd := m.update(tickMsg(now))
	if cmd == nil {
		t.Fatal("tick after midnight should reload even with a form open")
	}
	m, _ = drive(t, m, todayModel.update, cmd)
	if store.DateKey(m.day.Date) != "2024-03-05" {
		t.Fatalf("expected 2024-03-05, got %s", store.DateKey(m.day.Date))
	}
	if m.formActive || m.form != nil {
		t.Fatal("the form of the previous day should be closed")
	}
}

func TestTodayView(t *testing.T) {
	s := newTestStore(t)
	m := loadedToday(t, s, clockAt(10, 7))
	text := "reading"
	if _, err := s.UpdateInterval(m.day.Intervals[0].ID, store.IntervalPatch{ActivityText: &text}); err != nil {
		t.Fatal(err)
	}
	m, _ = drive(t, m, todayModel.update, m.refresh())

	out := m.view()
	for _, want := range []string{"Monday, March 4, 2024", "ACTIVE", "Score", "Coverage", "10:00 - 10:15", "reading", "uncategorized", "1 to review"} {
		if !strings.Contains(out, want) {
			t.Fatalf("today view missing %q", want)
		}
	}

	m, _ = m.update(runes("c"))
	out = m.view()
	if !strings.Contains(out, "Select Category") || !strings.Contains(out, "Highly Productive") {
		t.Fatal("picker view should list categories")
	}
}

func TestTodayViewBeforeLoad(t *testing.T) {
	s := newTestStore(t)
	m := newTodayModel(s, clockAt(10, 7))
	m.setSize(120, 40)
	if !strings.Contains(m.view(), "Loading") {
		t.Fatal("unloaded view should say loading")
	}
}

// ============================================================
// Review model
// ============================================================

// reviewDay logs three intervals of 2024-03-04; the first two lack a category.
func reviewDay(t *testing.T, s *store.Store) *store.DailyLog {
	t.Helper()
	l, err := s.GetOrCreateDailyLog(day(2024, 3, 4), nil)
	if err != nil {
		t.Fatal(err)
	}
	for i, text := range []string{"email", "standup", "coding"} {
		text := text
		p := store.IntervalPatch{ActivityText: &text}
		if i == 2 {
			cat := "productive"
			p.CategoryID = &cat
		}
		if _, err := s.UpdateInterval(l.Intervals[i].ID, p); err != nil {
			t.Fatal(err)
		}
	}
	return l
}

func loadedReview(t *testing.T, s *store.Store) reviewModel {
	t.Helper()
	r := newReviewModel(s, clockAt(10, 7))
	r.setSize(120, 40)
	r, _ = drive(t, r, reviewModel.update, r.refresh())
	return r
}

func TestReviewQueueAndApply(t *testing.T) {
	s := newTestStore(t)
	reviewDay(t, s)
	r := loadedReview(t, s)

	if len(r.queue) != 2 {
		t.Fatalf("expected 2 uncategorized intervals, got %d", len(r.queue))
	}

	r, _ = r.update(keyEnter)
	if !r.picking || !r.capturing() {
		t.Fatal("enter should open the picker")
	}
	r, _ = r.update(keyDown)
	r, _ = r.update(keyEnter)
	if r.pending[r.queue[0].ID] != "productive" {
		t.Fatal("first interval should be queued as productive")
	}
	if r.cursor != 1 {
		t.Fatal("cursor should advance after queueing")
	}

	r, _ = r.update(runes("c"))
	r, _ = r.update(keyEnter)
	if r.pending[r.queue[1].ID] != "highly-productive" {
		t.Fatal("second interval should be queued as highly-productive")
	}

	if !strings.Contains(r.view(), "2 of 2 queued") {
		t.Fatal("view should count queued assignments")
	}

	r, cmd := r.update(runes("a"))
	r, statuses := drive(t, r, reviewModel.update, cmd)
	if lastStatus(t, statuses).text != "Categorized 2 interval(s)" {
		t.Fatalf("unexpected status %+v", statuses)
	}
	if len(r.queue) != 0 || len(r.pending) != 0 {
		t.Fatal("queue should be empty after applying")
	}

	l, _ := s.GetDailyLog(day(2024, 3, 4))
	// 75 + 100 + 75 over three intervals
	if got := l.Score().ProductivityPercentage; got != 83.3 {
		t.Fatalf("expected score 83.3, got %v", got)
	}
	if !strings.Contains(r.view(), "Every logged interval has a category") {
		t.Fatal("view should report an empty queue")
	}
}

func TestReviewApplyPartialFailure(t *testing.T) {
	s := newTestStore(t)
	reviewDay(t, s)
	r := loadedReview(t, s)

	r.pending[r.queue[0].ID] = "neutral"
	r.pending[r.queue[1].ID] = "non-productive"
	if err := s.DeleteCategory("neutral"); err != nil {
		t.Fatal(err)
	}

	r, statuses := drive(t, r, reviewModel.update, r.apply())
	st := lastStatus(t, statuses)
	if !st.isError || !strings.Contains(st.text, "Categorized 1 interval(s), 1 failed") {
		t.Fatalf("unexpected status %+v", st)
	}
	if len(r.queue) != 1 {
		t.Fatalf("failed interval should stay queued, got %d", len(r.queue))
	}
}

func TestReviewNothingQueued(t *testing.T) {
	s := newTestStore(t)
	reviewDay(t, s)
	r := loadedReview(t, s)

	_, cmd := r.update(runes("a"))
	msgs := run(cmd)
	if len(msgs) != 1 || !strings.Contains(msgs[0].(statusMsg).text, "Nothing queued") {
		t.Fatalf("expected nothing-queued status, got %+v", msgs)
	}
}

func TestReviewUnqueue(t *testing.T) {
	s := newTestStore(t)
	reviewDay(t, s)
	r := loadedReview(t, s)

	r, _ = r.update(keyEnter)
	r, _ = r.update(keyEnter)
	r.cursor = 0
	r, _ = r.update(runes("x"))
	if len(r.pending) != 0 {
		t.Fatal("x should unqueue the interval")
	}
}

func TestReviewOtherDays(t *testing.T) {
	s := newTestStore(t)
	reviewDay(t, s)
	r := loadedReview(t, s)

	r, cmd := r.update(keyLeft)
	r, _ = drive(t, r, reviewModel.update, cmd)
	if r.offset != 1 || r.day != nil {
		t.Fatal("left should move to yesterday, which has no log")
	}
	if !strings.Contains(r.view(), "No log for this day") {
		t.Fatal("view should report the missing log")
	}

	r, cmd = r.update(keyRight)
	r, _ = drive(t, r, reviewModel.update, cmd)
	if r.offset != 0 || len(r.queue) != 2 {
		t.Fatal("right should come back to today")
	}
	if _, cmd := r.update(keyRight); cmd != nil {
		t.Fatal("cannot review the future")
	}
}

// ============================================================
// History model
// ============================================================

func TestHistoryDateRange(t *testing.T) {
	s := newTestStore(t)
	h := newHistoryModel(s, clockAt(10, 7))

	from, to := h.dateRange()
	if store.DateKey(from) != "2024-02-27" || store.DateKey(to) != "2024-03-04" {
		t.Fatalf("unexpected range %s..%s", store.DateKey(from), store.DateKey(to))
	}

	h, _ = h.update(keyLeft)
	from, to = h.dateRange()
	if store.DateKey(from) != "2024-02-20" || store.DateKey(to) != "2024-02-26" {
		t.Fatalf("unexpected previous range %s..%s", store.DateKey(from), store.DateKey(to))
	}

	h, _ = h.update(keyRight)
	h, _ = h.update(keyRight)
	if h.offset != 0 {
		t.Fatal("offset should not go below zero")
	}
}

func TestHistoryLoad(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetOrCreateDailyLog(day(2024, 3, 4), nil); err != nil {
		t.Fatal(err)
	}
	old, err := s.GetOrCreateDailyLog(day(2024, 3, 1), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.CloseDay(old.ID); err != nil {
		t.Fatal(err)
	}

	h := newHistoryModel(s, clockAt(10, 7))
	h.setSize(120, 40)
	h, _ = drive(t, h, historyModel.update, h.refresh())

	if len(h.logs) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(h.logs))
	}
	out := h.view()
	for _, want := range []string{"History", "ACTIVE", "CLOSED", "not logged", "closed "} {
		if !strings.Contains(out, want) {
			t.Fatalf("history view missing %q", want)
		}
	}
}

func TestHistoryEmpty(t *testing.T) {
	s := newTestStore(t)
	h := newHistoryModel(s, clockAt(10, 7))
	h.setSize(120, 40)
	h, _ = drive(t, h, historyModel.update, h.refresh())

	if !strings.Contains(h.view(), "No days logged") {
		t.Fatal("empty history should say so")
	}
}

// ============================================================
// Analytics model
// ============================================================

func TestAnalyticsRanges(t *testing.T) {
	s := newTestStore(t)
	clock := clockAt(10, 7)

	a := newAnalyticsModel(s, clock, 10, analytics.Options{})
	if len(a.ranges) != 4 || a.days() != 10 {
		t.Fatalf("a custom default should join the ranges, got %v at %d", a.ranges, a.rangeIdx)
	}
	if a := newAnalyticsModel(s, clock, 7, analytics.Options{}); a.days() != 7 || len(a.ranges) != 3 {
		t.Fatal("7 is a built-in range")
	}
	if a := newAnalyticsModel(s, clock, 0, analytics.Options{}); a.days() != 7 {
		t.Fatal("zero should fall back to the first range")
	}
}

func TestAnalyticsLoad(t *testing.T) {
	s := newTestStore(t)
	for d, cat := range map[int]string{4: "highly-productive", 3: "neutral"} {
		l, err := s.GetOrCreateDailyLog(day(2024, 3, d), nil)
		if err != nil {
			t.Fatal(err)
		}
		text, cat := "work", cat
		if _, err := s.UpdateInterval(l.Intervals[0].ID, store.IntervalPatch{ActivityText: &text, CategoryID: &cat}); err != nil {
			t.Fatal(err)
		}
	}

	a := newAnalyticsModel(s, clockAt(10, 7), 7, analytics.Options{})
	a.setSize(120, 40)
	if !strings.Contains(a.view(), "No days logged") {
		t.Fatal("unloaded analytics should be empty")
	}
	a, _ = drive(t, a, analyticsModel.update, a.refresh())

	if len(a.report.Days) != 2 || a.report.AverageScore != 75 {
		t.Fatalf("unexpected report %+v", a.report)
	}
	if store.DateKey(a.report.BestDay.Date) != "2024-03-04" {
		t.Fatal("best day should be 2024-03-04")
	}
	out := a.view()
	for _, want := range []string{"Average score", "75.0%", "Best day", "Highly Productive", "Mon"} {
		if !strings.Contains(out, want) {
			t.Fatalf("analytics view missing %q", want)
		}
	}

	if _, cmd := a.update(keyLeft); cmd != nil {
		t.Fatal("left at the shortest range should do nothing")
	}
	a, cmd := a.update(keyRight)
	if cmd == nil || a.days() != 14 {
		t.Fatal("right should widen the range")
	}
}

// ============================================================
// Settings model
// ============================================================

func loadedSettings(t *testing.T, s *store.Store) settingsModel {
	t.Helper()
	m := newSettingsModel(s, clockAt(10, 7))
	m.setSize(120, 40)
	m, _ = drive(t, m, settingsModel.update, m.refresh())
	return m
}

func TestSettingsLoad(t *testing.T) {
	s := newTestStore(t)
	m := loadedSettings(t, s)

	if m.settings == nil || m.settings.DefaultIntervalMinutes != 15 {
		t.Fatal("settings should load with defaults")
	}
	if len(m.categories.categories) != 5 {
		t.Fatalf("expected 5 categories, got %d", len(m.categories.categories))
	}
	if len(m.templates.templates) != 0 {
		t.Fatal("no templates expected")
	}
	if !strings.Contains(m.view(), "09:00") {
		t.Fatal("day section should show the start time")
	}
}

func TestSettingsSections(t *testing.T) {
	s := newTestStore(t)
	m := loadedSettings(t, s)

	m, _ = m.update(keyRight)
	if m.section != sectionCategories || !strings.Contains(m.view(), "Highly Productive") {
		t.Fatal("right should show categories")
	}
	m, _ = m.update(keyRight)
	m, _ = m.update(keyRight)
	if m.section != sectionTemplates || !strings.Contains(m.view(), "No templates") {
		t.Fatal("templates is the last section")
	}
	m, _ = m.update(keyLeft)
	m, _ = m.update(keyLeft)
	m, _ = m.update(keyLeft)
	if m.section != sectionDay {
		t.Fatal("day is the first section")
	}
}

func TestSettingsDayForm(t *testing.T) {
	s := newTestStore(t)
	m := loadedSettings(t, s)

	m, _ = m.update(keyEnter)
	if !m.formActive || !m.capturing() {
		t.Fatal("enter should open the day form")
	}
	if *m.formInterval != 15 || *m.formStart != "09:00" || *m.formEnd != "17:00" {
		t.Fatal("form should be prefilled")
	}

	*m.formInterval = 30
	*m.formStart = " 08:00 "
	m.formActive = false
	m, statuses := drive(t, m, settingsModel.update, m.saveSettings())
	if m.settings.DefaultIntervalMinutes != 30 || m.settings.DefaultStartTime != "08:00" {
		t.Fatalf("settings not saved: %+v", m.settings)
	}
	if !strings.Contains(lastStatus(t, statuses).text, "Defaults saved") {
		t.Fatalf("unexpected status %+v", statuses)
	}

	*m.formStart = "18:00"
	_, statuses = drive(t, m, settingsModel.update, m.saveSettings())
	if st := lastStatus(t, statuses); !st.isError || !strings.Contains(st.text, "Settings not saved") {
		t.Fatalf("invalid window should fail, got %+v", st)
	}
}

func TestSettingsFormCapturesKeys(t *testing.T) {
	s := newTestStore(t)
	m := loadedSettings(t, s)

	m, _ = m.update(keyRight)
	m, _ = m.update(runes("n"))
	if !m.categories.formActive || !m.capturing() {
		t.Fatal("n should open the category form")
	}
	m, _ = m.update(keyEsc)
	if m.capturing() {
		t.Fatal("esc should close the category form")
	}
}

// ============================================================
// Categories model
// ============================================================

func loadedCategories(t *testing.T, s *store.Store) categoriesModel {
	t.Helper()
	c := newCategoriesModel(s)
	c, _ = drive(t, c, categoriesModel.update, c.refresh())
	return c
}

func TestCategoriesCreate(t *testing.T) {
	s := newTestStore(t)
	c := loadedCategories(t, s)

	c, _ = c.showForm(nil)
	if *c.formValue != "50" || c.formType != "new" {
		t.Fatal("new form should default to value 50")
	}
	*c.formLabel = "Deep"
	*c.formValue = "90"
	c.formActive = false
	c, statuses := drive(t, c, categoriesModel.update, c.saveForm())

	if len(c.categories) != 6 {
		t.Fatalf("expected 6 categories, got %d", len(c.categories))
	}
	created := c.categories[5]
	if created.Label != "Deep" || created.Value != 90 || created.Color != categoryColors[0] {
		t.Fatalf("unexpected category %+v", created)
	}
	if lastStatus(t, statuses).text != "Created Deep" {
		t.Fatalf("unexpected status %+v", statuses)
	}
}

func TestCategoriesEditKeepsIcon(t *testing.T) {
	s := newTestStore(t)
	c := loadedCategories(t, s)

	c, _ = c.update(keyEnter)
	if c.formType != "edit" || *c.formLabel != "Highly Productive" || *c.formValue != "100" {
		t.Fatal("enter should open the prefilled edit form")
	}
	*c.formLabel = "Deep Work"
	c.formActive = false
	c, _ = drive(t, c, categoriesModel.update, c.saveForm())

	cat, err := s.GetCategory("highly-productive")
	if err != nil {
		t.Fatal(err)
	}
	if cat.Label != "Deep Work" || cat.Icon != "zap" || cat.Value != 100 {
		t.Fatalf("unexpected category %+v", cat)
	}
}

func TestCategoriesRetireAndRestore(t *testing.T) {
	s := newTestStore(t)
	c := loadedCategories(t, s)

	c, cmd := c.update(runes("d"))
	c, statuses := drive(t, c, categoriesModel.update, cmd)
	if c.categories[0].Active {
		t.Fatal("d should retire the category")
	}
	if lastStatus(t, statuses).text != "Retired Highly Productive" {
		t.Fatalf("unexpected status %+v", statuses)
	}
	if !strings.Contains(c.view(100), "retired") {
		t.Fatal("view should mark retired categories")
	}

	c, cmd = c.update(runes("r"))
	c, _ = drive(t, c, categoriesModel.update, cmd)
	if !c.categories[0].Active {
		t.Fatal("r should restore the category")
	}
}

func TestCategoriesRetireFloor(t *testing.T) {
	s := newTestStore(t)
	c := loadedCategories(t, s)

	for i := 0; i < 3; i++ {
		c.cursor = i
		var cmd tea.Cmd
		c, cmd = c.update(runes("d"))
		c, _ = drive(t, c, categoriesModel.update, cmd)
	}
	c.cursor = 3
	_, cmd := c.update(runes("d"))
	_, statuses := drive(t, c, categoriesModel.update, cmd)
	if st := lastStatus(t, statuses); !st.isError || !strings.Contains(st.text, "at least two") {
		t.Fatalf("expected the floor error, got %+v", st)
	}
}

func TestValidateCategoryValue(t *testing.T) {
	for _, ok := range []string{"0", "50", "100", " 75 "} {
		if err := validateCategoryValue(ok); err != nil {
			t.Fatalf("%q should be valid: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "-1", "101", "abc", "5.5"} {
		if err := validateCategoryValue(bad); err == nil {
			t.Fatalf("%q should be invalid", bad)
		}
	}
}

// ============================================================
// Templates model
// ============================================================

func TestTemplatesCreateApplyDelete(t *testing.T) {
	s := newTestStore(t)
	tm := newTemplatesModel(s, clockAt(10, 7))
	tm, _ = drive(t, tm, templatesModel.update, tm.refresh())

	tm, _ = tm.update(runes("n"))
	if !tm.formActive || tm.formType != "new" {
		t.Fatal("n should open the template form")
	}
	*tm.formName = "Half"
	*tm.formInterval = 30
	*tm.formStart = "08:00"
	*tm.formEnd = "12:00"
	tm.formActive = false
	tm, statuses := drive(t, tm, templatesModel.update, tm.saveForm())
	if len(tm.templates) != 1 || tm.templates[0].Name != "Half" {
		t.Fatalf("template not created: %+v", tm.templates)
	}
	if lastStatus(t, statuses).text != `Created template "Half"` {
		t.Fatalf("unexpected status %+v", statuses)
	}

	tm, _ = tm.update(runes("a"))
	if tm.formType != "apply" || *tm.formDate != "2024-03-05" {
		t.Fatalf("apply form should default to tomorrow, got %q", *tm.formDate)
	}
	tm.formActive = false
	tm, statuses = drive(t, tm, templatesModel.update, tm.saveForm())
	if lastStatus(t, statuses).text != `Created 2024-03-05 from "Half"` {
		t.Fatalf("unexpected status %+v", statuses)
	}
	l, err := s.GetDailyLog(day(2024, 3, 5))
	if err != nil || l == nil {
		t.Fatalf("day not created: %v", err)
	}
	if len(l.Intervals) != 8 || l.StartTime != "08:00" {
		t.Fatalf("day should follow the template, got %d intervals from %s", len(l.Intervals), l.StartTime)
	}

	_, statuses = drive(t, tm, templatesModel.update, tm.saveForm())
	if st := lastStatus(t, statuses); !st.isError || !strings.Contains(st.text, "already has a log") {
		t.Fatalf("applying twice should fail, got %+v", st)
	}

	tm, cmd := tm.update(runes("d"))
	tm, _ = drive(t, tm, templatesModel.update, cmd)
	if len(tm.templates) != 0 {
		t.Fatal("d should delete the template")
	}
}

func TestValidateClock(t *testing.T) {
	if validateClock("09:30") != nil {
		t.Fatal("09:30 should be valid")
	}
	if validateClock("9.30") == nil || validateClock("24:00") == nil {
		t.Fatal("malformed clocks should be rejected")
	}
}

// ============================================================
// App model
// ============================================================

func newTestApp(t *testing.T, s *store.Store) App {
	t.Helper()
	app := NewApp(s, Options{Now: clockAt(10, 7), ExportDir: t.TempDir()})
	model, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return model.(App)
}

func TestNewApp(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, Options{})

	if app.activeView != viewToday {
		t.Fatal("default view should be today")
	}
	if app.showHelp {
		t.Fatal("help should be hidden by default")
	}
	if app.exportPicking {
		t.Fatal("export picker should be hidden by default")
	}
	if app.exportDir != "." || app.now == nil || app.log == nil {
		t.Fatal("zero options should get defaults")
	}
	if app.analytics.days() != 7 {
		t.Fatalf("analytics should default to 7 days, got %d", app.analytics.days())
	}
}

func TestAppIsFormActiveDefault(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, Options{})

	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestAppViewStates(t *testing.T) {
	s := newTestStore(t)
	app := newTestApp(t, s)

	// Test all views render without panic
	views := []viewState{viewToday, viewReview, viewHistory, viewAnalytics, viewSettings}
	for _, v := range views {
		app.activeView = v
		output := app.View()
		if output == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	s := newTestStore(t)
	app := newTestApp(t, s)

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
	if !strings.Contains(header, "daygrid") {
		t.Fatal("header should carry the app name")
	}
}

func TestAppRenderFooter(t *testing.T) {
	s := newTestStore(t)
	app := newTestApp(t, s)

	if app.renderFooter() == "" {
		t.Fatal("footer should not be empty")
	}

	app.today = loadedToday(t, s, clockAt(10, 7))
	if !strings.Contains(app.renderFooter(), "0.0%") {
		t.Fatal("footer should show today's score")
	}
}

func TestAppLoadingState(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, Options{})
	// Width 0 means not yet sized
	output := app.View()
	if output != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", output)
	}
}

func TestAppStatusMessage(t *testing.T) {
	s := newTestStore(t)
	app := newTestApp(t, s)

	model, _ := app.Update(statusMsg{text: "test status", isError: true})
	app = model.(App)
	if !strings.Contains(app.renderFooter(), "test status") {
		t.Fatal("footer should contain status message")
	}
}

func TestAppTabSwitching(t *testing.T) {
	s := newTestStore(t)
	app := newTestApp(t, s)

	model, cmd := app.Update(runes("3"))
	app = model.(App)
	if app.activeView != viewHistory || cmd == nil {
		t.Fatal("3 should switch to history and load it")
	}

	model, _ = app.Update(keyTab)
	app = model.(App)
	if app.activeView != viewAnalytics {
		t.Fatal("tab should move to the next view")
	}

	model, _ = app.Update(keyTab)
	model, _ = model.(App).Update(keyTab)
	if model.(App).activeView != viewToday {
		t.Fatal("tab should wrap around")
	}
}

func TestAppPickerCapturesTabKeys(t *testing.T) {
	s := newTestStore(t)
	app := newTestApp(t, s)
	app.today = loadedToday(t, s, clockAt(10, 7))

	model, _ := app.Update(runes("c"))
	app = model.(App)
	if !app.isFormActive() {
		t.Fatal("picker should capture input")
	}

	model, _ = app.Update(runes("3"))
	if model.(App).activeView != viewToday {
		t.Fatal("tab keys should not switch views while picking")
	}
}

func TestAppTodayDataRoutedFromAnyView(t *testing.T) {
	s := newTestStore(t)
	app := newTestApp(t, s)
	app.activeView = viewSettings

	for _, msg := range run(app.today.refresh()) {
		model, _ := app.Update(msg)
		app = model.(App)
	}
	if app.today.day == nil {
		t.Fatal("today data should reach the today view")
	}
}

func TestAppExportPicker(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetOrCreateDailyLog(day(2024, 3, 4), nil); err != nil {
		t.Fatal(err)
	}
	app := newTestApp(t, s)

	model, _ := app.Update(runes("e"))
	app = model.(App)
	if !app.exportPicking {
		t.Fatal("e should open the export picker")
	}
	if !strings.Contains(app.View(), "Markdown") {
		t.Fatal("picker should list formats")
	}
	model, _ = app.Update(keyEsc)
	app = model.(App)
	if app.exportPicking {
		t.Fatal("esc should close the picker")
	}

	for i, ext := range []string{".csv", ".md", ".json"} {
		model, _ := app.Update(runes("e"))
		app = model.(App)
		for j := 0; j < i; j++ {
			model, _ = app.Update(keyDown)
			app = model.(App)
		}
		model, cmd := app.Update(keyEnter)
		app = model.(App)

		msgs := run(cmd)
		if len(msgs) != 1 {
			t.Fatalf("expected one message, got %+v", msgs)
		}
		done, ok := msgs[0].(exportDoneMsg)
		if !ok {
			t.Fatalf("expected exportDoneMsg, got %+v", msgs[0])
		}
		if done.days != 1 || filepath.Ext(done.path) != ext {
			t.Fatalf("unexpected export %+v", done)
		}
		if _, err := os.Stat(done.path); err != nil {
			t.Fatalf("export file missing: %v", err)
		}

		model, _ = app.Update(done)
		app = model.(App)
		if !strings.Contains(app.status, "Exported 1 day(s)") {
			t.Fatalf("unexpected status %q", app.status)
		}
	}
}

func TestAppExportError(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, Options{Now: clockAt(10, 7), ExportDir: filepath.Join(t.TempDir(), "missing", "dir")})

	msgs := run(app.doExport(0))
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %+v", msgs)
	}
	if st, ok := msgs[0].(statusMsg); !ok || !st.isError {
		t.Fatalf("expected an error status, got %+v", msgs[0])
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	bindings := keys.ShortHelp()
	if len(bindings) == 0 {
		t.Fatal("short help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles (smoke test, just verify they don't panic)
// ============================================================

func TestStylesRender(t *testing.T) {
	styles := []struct {
		name string
		fn   func() string
	}{
		{"activeTab", func() string { return activeTabStyle.Render("test") }},
		{"inactiveTab", func() string { return inactiveTabStyle.Render("test") }},
		{"panel", func() string { return panelStyle.Render("test") }},
		{"activePanel", func() string { return activePanelStyle.Render("test") }},
		{"score", func() string { return scoreStyle.Render("test") }},
		{"title", func() string { return titleStyle.Render("test") }},
		{"accent", func() string { return accentStyle.Render("test") }},
		{"success", func() string { return successStyle.Render("test") }},
		{"warning", func() string { return warningStyle.Render("test") }},
		{"error", func() string { return errorStyle.Render("test") }},
		{"muted", func() string { return mutedStyle.Render("test") }},
		{"highlight", func() string { return highlightStyle.Render("test") }},
		{"header", func() string { return headerStyle.Render("test") }},
		{"footer", func() string { return footerStyle.Render("test") }},
		{"selectedItem", func() string { return selectedItemStyle.Render("test") }},
		{"normalItem", func() string { return normalItemStyle.Render("test") }},
		{"currentItem", func() string { return currentItemStyle.Render("test") }},
	}

	for _, s := range styles {
		result := s.fn()
		if result == "" {
			t.Fatalf("style %q rendered empty", s.name)
		}
	}
}
