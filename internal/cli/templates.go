package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sadopc/daygrid/internal/store"
)

func newTemplatesCmd(app *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List day templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.Store()
			if err != nil {
				return err
			}
			templates, err := s.ListTemplates()
			if err != nil {
				return err
			}
			if len(templates) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No templates. Create one with: daygrid templates add NAME")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tWINDOW\tINTERVAL")
			for _, t := range templates {
				fmt.Fprintf(w, "%d\t%s\t%s-%s\t%d min\n", t.ID, t.Name, t.StartTime, t.EndTime, t.IntervalMinutes)
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(newTemplateAddCmd(app), newTemplateDeleteCmd(app))
	return cmd
}

func newTemplateAddCmd(app *appContext) *cobra.Command {
	var cfg store.DayConfig

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a day template",
		Long: `Create a named day layout. Days created from it use its window and
interval length instead of the default settings.

Example:
  daygrid templates add "Half day" --start 08:00 --end 12:00 --interval 30`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.Store()
			if err != nil {
				return err
			}
			t, err := s.CreateTemplate(args[0], cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created template %q (%d)\n", t.Name, t.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&cfg.StartTime, "start", "09:00", "Day start, HH:MM")
	cmd.Flags().StringVar(&cfg.EndTime, "end", "17:00", "Day end, HH:MM")
	cmd.Flags().IntVar(&cfg.IntervalMinutes, "interval", 15, "Interval length in minutes")
	return cmd
}

func newTemplateDeleteCmd(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID|NAME",
		Short: "Delete a day template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.Store()
			if err != nil {
				return err
			}
			var t *store.Template
			if id, perr := strconv.ParseInt(args[0], 10, 64); perr == nil {
				t, err = s.GetTemplate(id)
			} else {
				t, err = s.GetTemplateByName(args[0])
			}
			if err != nil {
				return err
			}
			if err := s.DeleteTemplate(t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted template %q\n", t.Name)
			return nil
		},
	}
}
