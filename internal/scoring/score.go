package scoring

import (
	"math"
	"sort"
)

// Category is the part of a productivity category the scorer needs.
type Category struct {
	ID    string
	Label string
	Color string
	Value int
}

// Interval is one scorable slice of a day.
type Interval struct {
	ActivityText string
	Category     *Category
}

// CategoryBreakdown is the time spent in one category.
type CategoryBreakdown struct {
	CategoryID    string
	Label         string
	Color         string
	Value         int
	IntervalCount int
	TotalMinutes  int
}

// DailyScore is the reduction of a set of intervals.
type DailyScore struct {
	ProductivityPercentage float64
	LoggedIntervals        int
	TotalIntervals         int
	CategoryBreakdown      []CategoryBreakdown
}

// CalculateDailyScore scores intervals of a uniform length. Only intervals
// with both activity text and a category count as logged. The breakdown keeps
// the order in which categories were first seen.
func CalculateDailyScore(intervals []Interval, intervalMinutes int) DailyScore {
	score := DailyScore{TotalIntervals: len(intervals)}

	index := make(map[string]int)
	total := 0
	for _, iv := range intervals {
		if StateOf(iv.ActivityText, iv.Category != nil) != Categorized {
			continue
		}
		score.LoggedIntervals++
		c := iv.Category
		value := clampValue(c.Value)
		total += value

		if i, ok := index[c.ID]; ok {
			score.CategoryBreakdown[i].IntervalCount++
			score.CategoryBreakdown[i].TotalMinutes += intervalMinutes
			continue
		}
		index[c.ID] = len(score.CategoryBreakdown)
		score.CategoryBreakdown = append(score.CategoryBreakdown, CategoryBreakdown{
			CategoryID:    c.ID,
			Label:         c.Label,
			Color:         c.Color,
			Value:         value,
			IntervalCount: 1,
			TotalMinutes:  intervalMinutes,
		})
	}

	if score.LoggedIntervals > 0 {
		pct := float64(total) / float64(100*score.LoggedIntervals) * 100
		score.ProductivityPercentage = roundTenth(pct)
	}
	return score
}

// SortBreakdownByMinutes returns a copy ordered by total minutes, largest first.
func SortBreakdownByMinutes(b []CategoryBreakdown) []CategoryBreakdown {
	out := make([]CategoryBreakdown, len(b))
	copy(out, b)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalMinutes > out[j].TotalMinutes
	})
	return out
}

// LoggingCoverage is the rounded percentage of intervals that are logged.
func LoggingCoverage(logged, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(logged) / float64(total) * 100))
}

func clampValue(v int) int {
	return max(0, min(100, v))
}

func roundTenth(f float64) float64 {
	return math.Round(f*10) / 10
}
