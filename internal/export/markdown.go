package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sadopc/daygrid/internal/scoring"
	"github.com/sadopc/daygrid/internal/store"
)

// maxReportActivities caps the activities listed per day in the report.
const maxReportActivities = 5

// ToMarkdown writes a productivity report for [from, to] to path.
func ToMarkdown(logs []store.DailyLog, from, to time.Time, path string) error {
	return toFile(path, "markdown", func(w io.Writer) error {
		return WriteMarkdown(w, logs, from, to, time.Now())
	})
}

// WriteMarkdown renders the report: a summary table over the whole period,
// then one section per day, newest first.
func WriteMarkdown(w io.Writer, logs []store.DailyLog, from, to, now time.Time) error {
	var b strings.Builder

	b.WriteString("# Productivity Report\n\n")
	fmt.Fprintf(&b, "**Period**: %s - %s\n\n", from.Format("January 2, 2006"), to.Format("January 2, 2006"))
	fmt.Fprintf(&b, "**Generated**: %s\n\n", now.Format("January 2, 2006 at 3:04 PM"))
	b.WriteString("---\n\n")

	logs = newestFirst(logs)
	scores := make([]scoring.DailyScore, len(logs))
	var totalScore float64
	var logged, total int
	for i, l := range logs {
		scores[i] = l.Score()
		totalScore += scores[i].ProductivityPercentage
		logged += scores[i].LoggedIntervals
		total += scores[i].TotalIntervals
	}
	avg := 0.0
	if len(logs) > 0 {
		avg = totalScore / float64(len(logs))
	}

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(&b, "| Days Tracked | %d |\n", len(logs))
	fmt.Fprintf(&b, "| Average Score | %.1f%% |\n", avg)
	fmt.Fprintf(&b, "| Total Intervals Logged | %d |\n", logged)
	fmt.Fprintf(&b, "| Coverage | %d%% |\n\n", scoring.LoggingCoverage(logged, total))

	b.WriteString("## Daily Breakdown\n\n")
	for i, l := range logs {
		writeDay(&b, l, scores[i])
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeDay(b *strings.Builder, l store.DailyLog, score scoring.DailyScore) {
	fmt.Fprintf(b, "### %s\n\n", l.Date.Format("Monday, January 2, 2006"))
	fmt.Fprintf(b, "**Score**: %.1f%% | **Logged**: %d/%d intervals\n\n",
		score.ProductivityPercentage, score.LoggedIntervals, score.TotalIntervals)

	if l.DaySummary != "" {
		fmt.Fprintf(b, "> %s\n\n", l.DaySummary)
	}

	if len(score.CategoryBreakdown) > 0 {
		b.WriteString("| Category | Time | Intervals |\n")
		b.WriteString("|----------|------|-----------|\n")
		for _, c := range score.CategoryBreakdown {
			fmt.Fprintf(b, "| %s | %s | %d |\n", c.Label, formatMinutes(c.TotalMinutes), c.IntervalCount)
		}
		b.WriteString("\n")
	}

	var activities []store.TimeInterval
	for _, iv := range l.Intervals {
		if iv.Logged() {
			activities = append(activities, iv)
		}
		if len(activities) == maxReportActivities {
			break
		}
	}
	if len(activities) > 0 {
		b.WriteString("**Activities**:\n")
		for _, iv := range activities {
			fmt.Fprintf(b, "- %s: %s\n", iv.StartTime.Format("15:04"), iv.ActivityText)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
}

// formatMinutes renders a duration as "Xh Ym".
func formatMinutes(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
