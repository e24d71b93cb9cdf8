package scoring

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock is a 24-hour time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM" (24-hour). Single-digit hours are accepted.
func ParseClock(s string) (Clock, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Clock{}, fmt.Errorf("parse clock %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return Clock{}, fmt.Errorf("parse clock %q: invalid hour", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || len(mm) != 2 || m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("parse clock %q: invalid minute", s)
	}
	return Clock{Hour: h, Minute: m}, nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Minutes returns the number of minutes since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c Clock) Before(o Clock) bool {
	return c.Minutes() < o.Minutes()
}

// On returns the instant at this clock time on date's calendar day, in date's location.
func (c Clock) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, date.Location())
}

// Span is one generated interval, [Start, End).
type Span struct {
	Start time.Time
	End   time.Time
}

// GenerateIntervals partitions [start, end) on date into back-to-back spans of
// intervalMinutes each. A trailing period shorter than one interval is dropped.
// The result is empty when start is not before end or intervalMinutes is not positive.
func GenerateIntervals(date time.Time, start, end Clock, intervalMinutes int) []Span {
	if intervalMinutes <= 0 || !start.Before(end) {
		return nil
	}

	length := time.Duration(intervalMinutes) * time.Minute
	dayEnd := end.On(date)

	var spans []Span
	for cursor := start.On(date); ; {
		next := cursor.Add(length)
		if next.After(dayEnd) {
			break
		}
		spans = append(spans, Span{Start: cursor, End: next})
		cursor = next
	}
	return spans
}

// IsCurrentInterval reports whether now falls in [start, end).
func IsCurrentInterval(start, end, now time.Time) bool {
	return !now.Before(start) && now.Before(end)
}

// FormatTimeRange renders "HH:MM - HH:MM".
func FormatTimeRange(start, end time.Time) string {
	return start.Format("15:04") + " - " + end.Format("15:04")
}
