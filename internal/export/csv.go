package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/sadopc/daygrid/internal/store"
)

var csvHeader = []string{"Date", "Interval Start", "Interval End", "Activity", "Category", "Category Value", "Logged At"}

// ToCSV writes one row per interval to path, oldest day first.
func ToCSV(logs []store.DailyLog, path string) error {
	return toFile(path, "csv", func(w io.Writer) error { return WriteCSV(w, logs) })
}

func WriteCSV(out io.Writer, logs []store.DailyLog) error {
	w := csv.NewWriter(out)

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, l := range oldestFirst(logs) {
		date := store.DateKey(l.Date)
		for _, iv := range l.Intervals {
			category, value := "", ""
			if iv.Category != nil {
				category = iv.Category.Label
				value = strconv.Itoa(iv.Category.Value)
			}
			loggedAt := ""
			if iv.LoggedAt != nil {
				loggedAt = iv.LoggedAt.Local().Format("2006-01-02 15:04:05")
			}

			row := []string{
				date,
				iv.StartTime.Format("15:04"),
				iv.EndTime.Format("15:04"),
				iv.ActivityText,
				category,
				value,
				loggedAt,
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

func oldestFirst(logs []store.DailyLog) []store.DailyLog {
	out := slices.Clone(logs)
	slices.SortStableFunc(out, func(a, b store.DailyLog) int { return a.Date.Compare(b.Date) })
	return out
}

func newestFirst(logs []store.DailyLog) []store.DailyLog {
	out := slices.Clone(logs)
	slices.SortStableFunc(out, func(a, b store.DailyLog) int { return b.Date.Compare(a.Date) })
	return out
}

// toFile creates path and hands it to write.
func toFile(path, kind string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s file: %w", kind, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s file: %w", kind, err)
	}
	return f.Close()
}
