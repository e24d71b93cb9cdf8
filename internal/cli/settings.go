package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/daygrid/internal/store"
)

func newSettingsCmd(app *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show the default day layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.Store()
			if err != nil {
				return err
			}
			us, err := s.GetUserSettings()
			if err != nil {
				return err
			}
			printSettings(cmd, us)
			return nil
		},
	}
	cmd.AddCommand(newSettingsSetCmd(app))
	return cmd
}

func newSettingsSetCmd(app *appContext) *cobra.Command {
	var cfg store.DayConfig

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change the default day layout",
		Long: `Change the layout used for days created without a template. Existing
days keep their intervals.

Example:
  daygrid settings set --start 08:30 --interval 30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.Store()
			if err != nil {
				return err
			}
			us, err := s.UpdateUserSettings(cfg)
			if err != nil {
				return err
			}
			printSettings(cmd, us)
			return nil
		},
	}
	cmd.Flags().StringVar(&cfg.StartTime, "start", "", "Day start, HH:MM")
	cmd.Flags().StringVar(&cfg.EndTime, "end", "", "Day end, HH:MM")
	cmd.Flags().IntVar(&cfg.IntervalMinutes, "interval", 0, fmt.Sprintf("Interval length in minutes, one of %v", store.IntervalDurations))
	return cmd
}

func printSettings(cmd *cobra.Command, us *store.UserSettings) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Start:    %s\n", us.DefaultStartTime)
	fmt.Fprintf(out, "End:      %s\n", us.DefaultEndTime)
	fmt.Fprintf(out, "Interval: %d min\n", us.DefaultIntervalMinutes)
}
