package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/daygrid/internal/export"
	"github.com/sadopc/daygrid/internal/store"
)

func newExportCmd(app *appContext) *cobra.Command {
	var (
		format string
		from   string
		to     string
		days   int
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export logged days as CSV, Markdown or JSON",
		Long: `Export a range of days. The range is either --from/--to or the last
--days days ending today. Output goes to stdout unless --output is set.

Examples:
  daygrid export --format csv --days 30 --output march.csv
  daygrid export --format md --from 2024-03-01 --to 2024-03-31`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			switch format {
			case "csv", "md", "markdown", "json":
			default:
				return fmt.Errorf("unknown format %q (want csv, md or json)", format)
			}

			start, end, err := exportRange(from, to, days)
			if err != nil {
				return err
			}
			s, err := app.Store()
			if err != nil {
				return err
			}
			logs, err := s.ListDailyLogs(start, end)
			if err != nil {
				return err
			}

			if output != "" {
				switch format {
				case "csv":
					err = export.ToCSV(logs, output)
				case "json":
					err = export.ToJSON(logs, output)
				default:
					err = export.ToMarkdown(logs, start, end, output)
				}
				if err != nil {
					return err
				}
				app.Logger().Infow("exported", "format", format, "days", len(logs), "path", output)
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d day(s) to %s\n", len(logs), output)
				return nil
			}
			return writeExport(cmd.OutOrStdout(), format, logs, start, end)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Output format: csv, md or json")
	cmd.Flags().StringVar(&from, "from", "", "First day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "Last day, YYYY-MM-DD (default: today)")
	cmd.Flags().IntVar(&days, "days", 7, "Number of days ending today, when --from is not set")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func exportRange(from, to string, days int) (time.Time, time.Time, error) {
	end, err := parseDay(to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if from == "" {
		if days < 1 {
			return time.Time{}, time.Time{}, fmt.Errorf("--days must be at least 1")
		}
		return end.AddDate(0, 0, 1-days), end, nil
	}
	start, err := parseDay(from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("--from %s is after --to %s", store.DateKey(start), store.DateKey(end))
	}
	return start, end, nil
}

func writeExport(w io.Writer, format string, logs []store.DailyLog, from, to time.Time) error {
	switch format {
	case "csv":
		return export.WriteCSV(w, logs)
	case "json":
		return export.WriteJSON(w, logs, now())
	default:
		return export.WriteMarkdown(w, logs, from, to, now())
	}
}
