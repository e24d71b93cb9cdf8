package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sadopc/daygrid/internal/scoring"
	"github.com/sadopc/daygrid/internal/store"
)

// now is replaced in tests.
var now = time.Now

// parseDay accepts YYYY-MM-DD, "today", "yesterday" or an empty string (today).
func parseDay(s string) (time.Time, error) {
	today := store.DayOf(now())
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}
	d, err := store.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return d, nil
}

// existingDay loads a day that must already have been opened.
func existingDay(s *store.Store, date time.Time) (*store.DailyLog, error) {
	l, err := s.GetDailyLog(date)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, fmt.Errorf("no log for %s: %w", store.DateKey(date), store.ErrNotFound)
	}
	return l, nil
}

func printDay(out io.Writer, l *store.DailyLog, withIntervals bool) {
	score := l.Score()

	status := string(l.Status)
	if l.Partial {
		status += ", partial"
	}
	fmt.Fprintf(out, "%s  [%s]\n", l.Date.Format("Monday, January 2, 2006"), status)
	fmt.Fprintf(out, "Window:   %s-%s every %d min\n", l.StartTime, l.EndTime, l.IntervalMinutes)
	fmt.Fprintf(out, "Score:    %.1f%%\n", score.ProductivityPercentage)
	fmt.Fprintf(out, "Logged:   %d/%d intervals (coverage %d%%)\n",
		score.LoggedIntervals, score.TotalIntervals, scoring.LoggingCoverage(score.LoggedIntervals, score.TotalIntervals))
	if n := len(l.Uncategorized()); n > 0 {
		fmt.Fprintf(out, "Review:   %d logged interval(s) need a category\n", n)
	}
	if l.DaySummary != "" {
		fmt.Fprintf(out, "Summary:  %s\n", l.DaySummary)
	}

	if len(score.CategoryBreakdown) > 0 {
		fmt.Fprintln(out)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CATEGORY\tVALUE\tTIME\tINTERVALS")
		for _, b := range scoring.SortBreakdownByMinutes(score.CategoryBreakdown) {
			fmt.Fprintf(w, "%s\t%d\t%dh %dm\t%d\n", b.Label, b.Value, b.TotalMinutes/60, b.TotalMinutes%60, b.IntervalCount)
		}
		w.Flush()
	}

	if withIntervals {
		fmt.Fprintln(out)
		printIntervals(out, l.Intervals)
	}
}

func printIntervals(out io.Writer, intervals []store.TimeInterval) {
	t := now()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tSTATE\tCATEGORY\tACTIVITY\t")
	for _, iv := range intervals {
		category := "-"
		if iv.Category != nil {
			category = iv.Category.Label
		}
		marker := ""
		if scoring.IsCurrentInterval(iv.StartTime, iv.EndTime, t) {
			marker = "<- now"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			scoring.FormatTimeRange(iv.StartTime, iv.EndTime), iv.State(), category, iv.ActivityText, marker)
	}
	w.Flush()
}
