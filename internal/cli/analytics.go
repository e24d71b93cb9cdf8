package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sadopc/daygrid/internal/analytics"
	"github.com/sadopc/daygrid/internal/store"
)

func newAnalyticsCmd(app *appContext) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show statistics for recent days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("days") {
				days = cfg.Analytics.DefaultRangeDays
			}
			if days < 1 {
				return fmt.Errorf("--days must be at least 1")
			}

			s, err := app.Store()
			if err != nil {
				return err
			}
			logs, err := s.RecentLogs(days, now())
			if err != nil {
				return err
			}
			r := analytics.Summarize(logs, analytics.Options{StreakCoverage: cfg.Analytics.StreakCoverage})

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Last %d days\n\n", days)
			if len(r.Days) == 0 {
				fmt.Fprintln(out, "No days logged in this period.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Average score\t%.1f%%\n", r.AverageScore)
			fmt.Fprintf(w, "Trend\t%+.1f\n", r.Trend)
			fmt.Fprintf(w, "Coverage\t%d%%\n", r.AverageCoverage)
			fmt.Fprintf(w, "Logged\t%dh (%.1fh/day)\n", r.TotalHours(), r.HoursPerDay(days))
			fmt.Fprintf(w, "Streak\t%d day(s)\n", r.StreakDays)
			fmt.Fprintf(w, "Best day\t%s (%.1f%%)\n", store.DateKey(r.BestDay.Date), r.BestDay.Score)
			fmt.Fprintf(w, "Worst day\t%s (%.1f%%)\n", store.DateKey(r.WorstDay.Date), r.WorstDay.Score)
			w.Flush()

			if len(r.CategoryTotals) > 0 {
				fmt.Fprintln(out)
				w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "CATEGORY\tTIME\tINTERVALS")
				for _, c := range r.CategoryTotals {
					fmt.Fprintf(w, "%s\t%dh %dm\t%d\n", c.Label, c.TotalMinutes/60, c.TotalMinutes%60, c.IntervalCount)
				}
				w.Flush()
			}

			fmt.Fprintln(out)
			w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "WEEKDAY\tAVERAGE\tDAYS")
			for _, wd := range r.Weekdays {
				if wd.DayCount == 0 {
					continue
				}
				fmt.Fprintf(w, "%s\t%d%%\t%d\n", wd.Day, wd.Average, wd.DayCount)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "Number of days ending today (default: analytics.default_range_days)")
	return cmd
}
