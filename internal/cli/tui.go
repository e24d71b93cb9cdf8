package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/daygrid/internal/tui"
)

func newTUICmd(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}
}

func runTUI(cmd *cobra.Command, app *appContext) error {
	cfg, err := app.Config()
	if err != nil {
		return err
	}
	s, err := app.Store()
	if err != nil {
		return err
	}
	log := app.Logger()

	model := tui.NewApp(s, tui.Options{
		ExportDir:      cfg.Export.Dir,
		RangeDays:      cfg.Analytics.DefaultRangeDays,
		StreakCoverage: cfg.Analytics.StreakCoverage,
		Log:            log,
	})

	var opts []tea.ProgramOption
	if cfg.UI.AltScreenEnabled() {
		opts = append(opts, tea.WithAltScreen())
	}
	opts = append(opts, tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))

	log.Infow("tui started")
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		log.Errorw("tui exited with error", "error", err)
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
