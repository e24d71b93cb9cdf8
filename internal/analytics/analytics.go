// Package analytics reduces a period of scored days into summary statistics.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/sadopc/daygrid/internal/scoring"
	"github.com/sadopc/daygrid/internal/store"
)

// DefaultStreakCoverage is the coverage a day must exceed to extend a streak.
const DefaultStreakCoverage = 50

type Options struct {
	// StreakCoverage is the coverage percentage a day must exceed to count
	// towards the streak. Zero means DefaultStreakCoverage.
	StreakCoverage int
}

// DayScore is one scored day of the period.
type DayScore struct {
	Date      time.Time
	Score     float64
	Logged    int
	Total     int
	Coverage  int
	Minutes   int // logged intervals × interval length
	Breakdown []scoring.CategoryBreakdown
}

// CategoryTotal is a category's share of the whole period.
type CategoryTotal struct {
	CategoryID    string
	Label         string
	Color         string
	IntervalCount int
	TotalMinutes  int
}

// Weekday is the average score of one day of the week.
type Weekday struct {
	Day      time.Weekday
	Average  int
	DayCount int
}

type Report struct {
	Days               []DayScore // oldest first
	AverageScore       float64
	Trend              float64
	BestDay            *DayScore
	WorstDay           *DayScore
	TotalLoggedMinutes int
	AverageCoverage    int
	StreakDays         int
	CategoryTotals     []CategoryTotal
	Weekdays           [7]Weekday // Sunday first
}

// TotalHours rounds the logged time to whole hours.
func (r Report) TotalHours() int {
	return int(math.Round(float64(r.TotalLoggedMinutes) / 60))
}

// HoursPerDay is the logged time per day of a period of days days, one decimal.
func (r Report) HoursPerDay(days int) float64 {
	if days <= 0 {
		return 0
	}
	return roundTenth(float64(r.TotalHours()) / float64(days))
}

// Summarize scores every log and reduces the period. The input order does not
// matter; days are reported oldest first.
func Summarize(logs []store.DailyLog, opts Options) Report {
	threshold := opts.StreakCoverage
	if threshold == 0 {
		threshold = DefaultStreakCoverage
	}

	var r Report
	for d := range r.Weekdays {
		r.Weekdays[d].Day = time.Weekday(d)
	}
	if len(logs) == 0 {
		return r
	}

	r.Days = make([]DayScore, 0, len(logs))
	for _, l := range logs {
		s := l.Score()
		r.Days = append(r.Days, DayScore{
			Date:      l.Date,
			Score:     s.ProductivityPercentage,
			Logged:    s.LoggedIntervals,
			Total:     s.TotalIntervals,
			Coverage:  scoring.LoggingCoverage(s.LoggedIntervals, s.TotalIntervals),
			Minutes:   s.LoggedIntervals * l.IntervalMinutes,
			Breakdown: s.CategoryBreakdown,
		})
	}
	sort.SliceStable(r.Days, func(i, j int) bool {
		return r.Days[i].Date.Before(r.Days[j].Date)
	})

	scores := make([]float64, len(r.Days))
	coverage := 0
	for i, d := range r.Days {
		scores[i] = d.Score
		coverage += d.Coverage
		r.TotalLoggedMinutes += d.Minutes
	}
	r.AverageScore = roundTenth(mean(scores))
	mid := len(scores) / 2
	r.Trend = roundTenth(mean(scores[mid:]) - mean(scores[:mid]))
	r.AverageCoverage = int(math.Round(float64(coverage) / float64(len(r.Days))))

	best, worst := 0, 0
	for i, d := range r.Days {
		if d.Score > r.Days[best].Score {
			best = i
		}
		if d.Score < r.Days[worst].Score {
			worst = i
		}
	}
	r.BestDay = &r.Days[best]
	r.WorstDay = &r.Days[worst]

	for i := len(r.Days) - 1; i >= 0 && r.Days[i].Coverage > threshold; i-- {
		r.StreakDays++
	}

	r.CategoryTotals = categoryTotals(r.Days)

	var sums [7]float64
	for _, d := range r.Days {
		wd := d.Date.Weekday()
		sums[wd] += d.Score
		r.Weekdays[wd].DayCount++
	}
	for d := range r.Weekdays {
		if n := r.Weekdays[d].DayCount; n > 0 {
			r.Weekdays[d].Average = int(math.Round(sums[d] / float64(n)))
		}
	}
	return r
}

func categoryTotals(days []DayScore) []CategoryTotal {
	var totals []CategoryTotal
	index := make(map[string]int)
	for _, d := range days {
		for _, b := range d.Breakdown {
			if i, ok := index[b.CategoryID]; ok {
				totals[i].IntervalCount += b.IntervalCount
				totals[i].TotalMinutes += b.TotalMinutes
				continue
			}
			index[b.CategoryID] = len(totals)
			totals = append(totals, CategoryTotal{
				CategoryID:    b.CategoryID,
				Label:         b.Label,
				Color:         b.Color,
				IntervalCount: b.IntervalCount,
				TotalMinutes:  b.TotalMinutes,
			})
		}
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].TotalMinutes > totals[j].TotalMinutes
	})
	return totals
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func roundTenth(f float64) float64 {
	return math.Round(f*10) / 10
}
