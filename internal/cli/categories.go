package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sadopc/daygrid/internal/store"
)

func newCategoriesCmd(app *appContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "List productivity categories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.Store()
			if err != nil {
				return err
			}
			cats, err := s.ListCategories(all)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tLABEL\tVALUE\tCOLOR\tSTATUS")
			for _, c := range cats {
				status := "active"
				if !c.Active {
					status = "retired"
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", c.ID, c.Label, c.Value, c.Color, status)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include retired categories")

	cmd.AddCommand(newCategoryAddCmd(app), newCategoryRetireCmd(app), newCategoryRestoreCmd(app))
	return cmd
}

func newCategoryAddCmd(app *appContext) *cobra.Command {
	var in store.CategoryInput

	cmd := &cobra.Command{
		Use:   "add LABEL",
		Short: "Create a category",
		Long: `Create a category with a productivity value between 0 and 100.

Example:
  daygrid categories add "Deep work" --value 100 --color "#16a34a"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.Store()
			if err != nil {
				return err
			}
			in.Label = args[0]
			c, err := s.CreateCategory(in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s, value %d)\n", c.Label, c.ID, c.Value)
			return nil
		},
	}
	cmd.Flags().IntVar(&in.Value, "value", 50, "Productivity value, 0-100")
	cmd.Flags().StringVar(&in.Color, "color", "", "Hex color")
	cmd.Flags().StringVar(&in.Icon, "icon", "", "Icon name")
	cmd.Flags().StringVar(&in.Description, "description", "", "Description")
	return cmd
}

func newCategoryRetireCmd(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retire ID",
		Short: "Retire a category; past intervals keep it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.Store()
			if err != nil {
				return err
			}
			if err := s.DeleteCategory(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Retired %s\n", args[0])
			return nil
		},
	}
}

func newCategoryRestoreCmd(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "restore ID",
		Short: "Restore a retired category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.Store()
			if err != nil {
				return err
			}
			if err := s.RestoreCategory(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %s\n", args[0])
			return nil
		},
	}
}
