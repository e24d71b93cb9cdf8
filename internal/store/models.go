package store

import (
	"time"

	"github.com/sadopc/daygrid/internal/scoring"
)

// MaxActivityChars bounds an interval's activity text, counted in runes.
const MaxActivityChars = 100

// IntervalDurations are the interval lengths a day may be configured with.
var IntervalDurations = []int{5, 10, 15, 20, 30, 45, 60}

type Category struct {
	ID          string
	Label       string
	Value       int // 0-100
	Color       string
	Icon        string
	Description string
	SortOrder   int
	Active      bool
	Default     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CategoryInput is the user-editable part of a category.
type CategoryInput struct {
	Label       string
	Value       int
	Color       string
	Icon        string
	Description string
	SortOrder   *int // nil appends on create and keeps the current order on update
}

type DayStatus string

const (
	DayActive   DayStatus = "ACTIVE"
	DayClosed   DayStatus = "CLOSED"
	DayReopened DayStatus = "REOPENED"
)

func (s DayStatus) IsValid() bool {
	switch s {
	case DayActive, DayClosed, DayReopened:
		return true
	}
	return false
}

// Editable reports whether intervals of a day in this status accept changes.
func (s DayStatus) Editable() bool {
	return s != DayClosed
}

type DailyLog struct {
	ID              int64
	Date            time.Time // midnight, local
	IntervalMinutes int
	StartTime       string // HH:MM
	EndTime         string // HH:MM
	Status          DayStatus
	DaySummary      string
	ClosedAt        *time.Time
	Partial         bool
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Intervals []TimeInterval
}

type TimeInterval struct {
	ID           int64
	DailyLogID   int64
	StartTime    time.Time
	EndTime      time.Time
	ActivityText string
	CategoryID   *string
	Category     *Category // resolved regardless of the category's active flag
	LoggedAt     *time.Time
}

type UserSettings struct {
	DefaultIntervalMinutes int
	DefaultStartTime       string
	DefaultEndTime         string
	UpdatedAt              time.Time
}

type Template struct {
	ID              int64
	Name            string
	IntervalMinutes int
	StartTime       string
	EndTime         string
	CreatedAt       time.Time
}

// DayConfig is the shape shared by settings, templates and day creation.
// Zero fields mean "use the default" when passed to GetOrCreateDailyLog.
type DayConfig struct {
	IntervalMinutes int
	StartTime       string
	EndTime         string
}

// IntervalPatch is a partial update of an interval. ClearCategory wins over CategoryID.
type IntervalPatch struct {
	ActivityText  *string
	CategoryID    *string
	ClearCategory bool
}

// CategoryAssignment is one item of a bulk categorization.
type CategoryAssignment struct {
	IntervalID int64
	CategoryID string
}

func (s UserSettings) Config() DayConfig {
	return DayConfig{
		IntervalMinutes: s.DefaultIntervalMinutes,
		StartTime:       s.DefaultStartTime,
		EndTime:         s.DefaultEndTime,
	}
}

func (t Template) Config() DayConfig {
	return DayConfig{IntervalMinutes: t.IntervalMinutes, StartTime: t.StartTime, EndTime: t.EndTime}
}

func (iv TimeInterval) Logged() bool {
	return iv.State() != scoring.Empty
}

func (iv TimeInterval) Categorized() bool {
	return iv.State() == scoring.Categorized
}

func (iv TimeInterval) State() scoring.IntervalState {
	return scoring.StateOf(iv.ActivityText, iv.Category != nil)
}

// Scorable converts the interval into the scorer's input shape.
func (iv TimeInterval) Scorable() scoring.Interval {
	si := scoring.Interval{ActivityText: iv.ActivityText}
	if c := iv.Category; c != nil {
		si.Category = &scoring.Category{ID: c.ID, Label: c.Label, Color: c.Color, Value: c.Value}
	}
	return si
}

// Score runs the score calculator over the log's intervals.
func (l DailyLog) Score() scoring.DailyScore {
	intervals := make([]scoring.Interval, len(l.Intervals))
	for i, iv := range l.Intervals {
		intervals[i] = iv.Scorable()
	}
	return scoring.CalculateDailyScore(intervals, l.IntervalMinutes)
}

// Uncategorized returns intervals that have text but no category.
func (l DailyLog) Uncategorized() []TimeInterval {
	var out []TimeInterval
	for _, iv := range l.Intervals {
		if iv.State() == scoring.LoggedUncategorized {
			out = append(out, iv)
		}
	}
	return out
}

// LoggedCount counts intervals with activity text, categorized or not.
func (l DailyLog) LoggedCount() int {
	n := 0
	for _, iv := range l.Intervals {
		if iv.Logged() {
			n++
		}
	}
	return n
}
