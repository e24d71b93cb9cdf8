package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sadopc/daygrid/internal/scoring"
	"github.com/sadopc/daygrid/internal/store"
)

type jsonExport struct {
	ExportedAt string    `json:"exported_at"`
	Count      int       `json:"count"`
	Days       []jsonDay `json:"days"`
}

type jsonDay struct {
	Date            string          `json:"date"`
	Status          string          `json:"status"`
	Partial         bool            `json:"partial,omitempty"`
	Summary         string          `json:"summary,omitempty"`
	IntervalMinutes int             `json:"interval_minutes"`
	Score           float64         `json:"score"`
	Logged          int             `json:"logged_intervals"`
	Total           int             `json:"total_intervals"`
	Coverage        int             `json:"coverage"`
	Breakdown       []jsonBreakdown `json:"breakdown,omitempty"`
	Intervals       []jsonInterval  `json:"intervals"`
}

type jsonBreakdown struct {
	CategoryID string `json:"category_id"`
	Label      string `json:"label"`
	Intervals  int    `json:"intervals"`
	Minutes    int    `json:"minutes"`
}

type jsonInterval struct {
	Start         string `json:"start"`
	End           string `json:"end"`
	Activity      string `json:"activity,omitempty"`
	Category      string `json:"category,omitempty"`
	CategoryValue *int   `json:"category_value,omitempty"`
	LoggedAt      string `json:"logged_at,omitempty"`
}

// ToJSON writes the logs as a pretty-printed document to path, oldest day first.
func ToJSON(logs []store.DailyLog, path string) error {
	return toFile(path, "json", func(w io.Writer) error { return WriteJSON(w, logs, time.Now()) })
}

func WriteJSON(w io.Writer, logs []store.DailyLog, now time.Time) error {
	export := jsonExport{
		ExportedAt: now.UTC().Format(time.RFC3339),
		Count:      len(logs),
	}

	for _, l := range oldestFirst(logs) {
		score := l.Score()
		day := jsonDay{
			Date:            store.DateKey(l.Date),
			Status:          string(l.Status),
			Partial:         l.Partial,
			Summary:         l.DaySummary,
			IntervalMinutes: l.IntervalMinutes,
			Score:           score.ProductivityPercentage,
			Logged:          score.LoggedIntervals,
			Total:           score.TotalIntervals,
			Coverage:        scoring.LoggingCoverage(score.LoggedIntervals, score.TotalIntervals),
			Intervals:       make([]jsonInterval, 0, len(l.Intervals)),
		}
		for _, b := range score.CategoryBreakdown {
			day.Breakdown = append(day.Breakdown, jsonBreakdown{
				CategoryID: b.CategoryID,
				Label:      b.Label,
				Intervals:  b.IntervalCount,
				Minutes:    b.TotalMinutes,
			})
		}
		for _, iv := range l.Intervals {
			ji := jsonInterval{
				Start:    iv.StartTime.Format(time.RFC3339),
				End:      iv.EndTime.Format(time.RFC3339),
				Activity: iv.ActivityText,
			}
			if c := iv.Category; c != nil {
				v := c.Value
				ji.Category = c.Label
				ji.CategoryValue = &v
			}
			if iv.LoggedAt != nil {
				ji.LoggedAt = iv.LoggedAt.UTC().Format(time.RFC3339)
			}
			day.Intervals = append(day.Intervals, ji)
		}
		export.Days = append(export.Days, day)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	_, err = w.Write(data)
	return err
}
