package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/daygrid/internal/scoring"
	"github.com/sadopc/daygrid/internal/store"
)

func newTodayCmd(app *appContext) *cobra.Command {
	var (
		date          string
		templateName  string
		withIntervals bool
	)

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Open a day and show its score",
		Long: `Open a day, creating its intervals from the default settings (or a
template) the first time, and print its score and category breakdown.

Examples:
  daygrid today
  daygrid today --date 2024-03-01 --intervals
  daygrid today --template "Deep day"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			s, err := app.Store()
			if err != nil {
				return err
			}

			var cfg *store.DayConfig
			if templateName != "" {
				tpl, err := s.GetTemplateByName(templateName)
				if err != nil {
					return err
				}
				existing, err := s.GetDailyLog(day)
				if err != nil {
					return err
				}
				if existing != nil {
					return fmt.Errorf("%s already has a log; templates only shape new days", store.DateKey(day))
				}
				c := tpl.Config()
				cfg = &c
			}

			l, err := s.GetOrCreateDailyLog(day, cfg)
			if err != nil {
				return err
			}
			printDay(cmd.OutOrStdout(), l, withIntervals)
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Day to open: YYYY-MM-DD, today or yesterday")
	cmd.Flags().StringVarP(&templateName, "template", "t", "", "Template to create the day from")
	cmd.Flags().BoolVarP(&withIntervals, "intervals", "i", false, "List every interval")
	return cmd
}

func newLogCmd(app *appContext) *cobra.Command {
	var (
		date          string
		at            string
		text          string
		categoryID    string
		clearCategory bool
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record an activity in an interval",
		Long: `Set the activity text and/or category of the interval containing a time.

Examples:
  daygrid log --text "code review" --category productive
  daygrid log --at 09:15 --text "standup"
  daygrid log --date yesterday --at 14:00 --clear-category`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			when := now()
			if at != "" {
				c, err := scoring.ParseClock(at)
				if err != nil {
					return err
				}
				when = c.On(day)
			} else if store.DateKey(day) != store.DateKey(when) {
				return fmt.Errorf("--at is required for days other than today")
			}

			var patch store.IntervalPatch
			if cmd.Flags().Changed("text") {
				patch.ActivityText = &text
			}
			if cmd.Flags().Changed("category") {
				patch.CategoryID = &categoryID
			}
			patch.ClearCategory = clearCategory
			if patch.ActivityText == nil && patch.CategoryID == nil && !patch.ClearCategory {
				return fmt.Errorf("nothing to record: pass --text, --category or --clear-category")
			}

			s, err := app.Store()
			if err != nil {
				return err
			}
			l, err := s.GetOrCreateDailyLog(day, nil)
			if err != nil {
				return err
			}
			var target *store.TimeInterval
			for i := range l.Intervals {
				if scoring.IsCurrentInterval(l.Intervals[i].StartTime, l.Intervals[i].EndTime, when) {
					target = &l.Intervals[i]
					break
				}
			}
			if target == nil {
				return fmt.Errorf("%s is outside the day's %s-%s window", when.Format("15:04"), l.StartTime, l.EndTime)
			}

			iv, err := s.UpdateInterval(target.ID, patch)
			if err != nil {
				return err
			}
			category := "uncategorized"
			if iv.Category != nil {
				category = iv.Category.Label
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n",
				scoring.FormatTimeRange(iv.StartTime, iv.EndTime), category, iv.ActivityText)
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Day: YYYY-MM-DD, today or yesterday")
	cmd.Flags().StringVar(&at, "at", "", "Time inside the interval, HH:MM (default: now)")
	cmd.Flags().StringVar(&text, "text", "", "Activity text")
	cmd.Flags().StringVarP(&categoryID, "category", "c", "", "Category ID (see: daygrid categories)")
	cmd.Flags().BoolVar(&clearCategory, "clear-category", false, "Remove the interval's category")
	return cmd
}

func newCloseCmd(app *appContext) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "close",
		Short: "Close a day, locking its intervals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDay(app, date, func(s *store.Store, l *store.DailyLog) error {
				closed, err := s.CloseDay(l.ID)
				if err != nil {
					return err
				}
				score := closed.Score()
				fmt.Fprintf(cmd.OutOrStdout(), "Closed %s with a score of %.1f%%\n",
					store.DateKey(closed.Date), score.ProductivityPercentage)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "Day: YYYY-MM-DD, today or yesterday")
	return cmd
}

func newReopenCmd(app *appContext) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "reopen",
		Short: "Reopen a closed day for editing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDay(app, date, func(s *store.Store, l *store.DailyLog) error {
				if l.Status != store.DayClosed {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is not closed\n", store.DateKey(l.Date))
					return nil
				}
				reopened, err := s.ReopenDay(l.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reopened %s\n", store.DateKey(reopened.Date))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "Day: YYYY-MM-DD, today or yesterday")
	return cmd
}

func newSummaryCmd(app *appContext) *cobra.Command {
	var date, text string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Set a day's written summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDay(app, date, func(s *store.Store, l *store.DailyLog) error {
				if _, err := s.UpdateDailyLogSummary(l.ID, text); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Summary saved for %s\n", store.DateKey(l.Date))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "Day: YYYY-MM-DD, today or yesterday")
	cmd.Flags().StringVar(&text, "text", "", "Summary text (empty clears it)")
	return cmd
}

func newPartialCmd(app *appContext) *cobra.Command {
	var (
		date string
		off  bool
	)
	cmd := &cobra.Command{
		Use:   "partial",
		Short: "Mark a day as only partially tracked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDay(app, date, func(s *store.Store, l *store.DailyLog) error {
				updated, err := s.MarkDayPartial(l.ID, !off)
				if err != nil {
					return err
				}
				state := "complete"
				if updated.Partial {
					state = "partial"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s marked %s\n", store.DateKey(updated.Date), state)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "Day: YYYY-MM-DD, today or yesterday")
	cmd.Flags().BoolVar(&off, "off", false, "Clear the partial flag")
	return cmd
}

// withDay resolves the --date flag to an existing day and hands it to fn.
func withDay(app *appContext, date string, fn func(*store.Store, *store.DailyLog) error) error {
	day, err := parseDay(date)
	if err != nil {
		return err
	}
	s, err := app.Store()
	if err != nil {
		return err
	}
	l, err := existingDay(s, day)
	if err != nil {
		return err
	}
	return fn(s, l)
}
