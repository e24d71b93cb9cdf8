package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree around a fresh app context. The caller
// closes the returned context once the command has run.
func NewRootCmd() (*cobra.Command, *appContext) {
	app := &appContext{}

	rootCmd := &cobra.Command{
		Use:   "daygrid",
		Short: "Interval-based time logging with self-scored productivity",
		Long: `daygrid divides each day into fixed-length intervals. Log what you did in
each one, rate it with a productivity category, and the day reduces to a
productivity percentage and a per-category breakdown.

Run without a subcommand to open the terminal UI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}

	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/daygrid/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&app.dbPath, "db", "", "Database file (overrides database.path)")

	rootCmd.AddCommand(
		newTUICmd(app),
		newTodayCmd(app),
		newLogCmd(app),
		newCloseCmd(app),
		newReopenCmd(app),
		newSummaryCmd(app),
		newPartialCmd(app),
		newExportCmd(app),
		newAnalyticsCmd(app),
		newCategoriesCmd(app),
		newTemplatesCmd(app),
		newSettingsCmd(app),
		newConfigCmd(app),
	)
	return rootCmd, app
}

func Execute() {
	rootCmd, app := NewRootCmd()
	err := rootCmd.Execute()
	if cerr := app.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
