package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sadopc/daygrid/internal/scoring"
)

const logColumns = `id, date, interval_minutes, start_time, end_time, status, day_summary, closed_at, is_partial, created_at, updated_at`

// GetDailyLog returns the log for date's calendar day with its intervals,
// or nil when the day has not been opened yet.
func (s *Store) GetDailyLog(date time.Time) (*DailyLog, error) {
	l, err := scanLog(s.db.QueryRow(`SELECT `+logColumns+` FROM daily_logs WHERE date = ?`, DateKey(date)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get daily log %s: %w", DateKey(date), err)
	}
	if l.Intervals, err = s.listIntervals(l.ID); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Store) GetDailyLogByID(id int64) (*DailyLog, error) {
	l, err := scanLog(s.db.QueryRow(`SELECT `+logColumns+` FROM daily_logs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get daily log %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get daily log %d: %w", id, err)
	}
	if l.Intervals, err = s.listIntervals(l.ID); err != nil {
		return nil, err
	}
	return l, nil
}

// GetOrCreateDailyLog returns the log for date, creating it and its intervals
// when absent. Fields left zero in cfg (or a nil cfg) fall back to the user's
// default settings. An existing day is never regenerated.
func (s *Store) GetOrCreateDailyLog(date time.Time, cfg *DayConfig) (*DailyLog, error) {
	existing, err := s.GetDailyLog(date)
	if err != nil || existing != nil {
		return existing, err
	}

	settings, err := s.GetUserSettings()
	if err != nil {
		return nil, err
	}
	var want DayConfig
	if cfg != nil {
		want = *cfg
	}
	want = want.merged(settings.Config())
	if err := want.Validate(); err != nil {
		return nil, err
	}
	start, end, _ := want.clocks()

	day := DayOf(date)
	spans := scoring.GenerateIntervals(day, start, end, want.IntervalMinutes)

	if err := s.createLog(day, want, spans); err != nil {
		return nil, err
	}
	return s.GetDailyLog(day)
}

func (s *Store) createLog(day time.Time, cfg DayConfig, spans []scoring.Span) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := nowStamp()
	res, err := tx.Exec(
		`INSERT INTO daily_logs (date, interval_minutes, start_time, end_time, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT(date) DO NOTHING`,
		DateKey(day), cfg.IntervalMinutes, cfg.StartTime, cfg.EndTime, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert daily log: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Another writer created the day first.
		return nil
	}
	logID, _ := res.LastInsertId()

	stmt, err := tx.Prepare(
		`INSERT INTO time_intervals (daily_log_id, start_time, end_time, updated_at) VALUES (?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare intervals: %w", err)
	}
	defer stmt.Close()

	for _, sp := range spans {
		if _, err := stmt.Exec(logID, sp.Start.Format(time.RFC3339), sp.End.Format(time.RFC3339), now); err != nil {
			return fmt.Errorf("insert interval: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit daily log: %w", err)
	}
	s.log.Infow("daily log created",
		"date", DateKey(day),
		"intervals", len(spans),
		"interval_minutes", cfg.IntervalMinutes,
		"window", cfg.StartTime+"-"+cfg.EndTime,
	)
	return nil
}

// ListDailyLogs returns logs whose date falls in [from, to] (calendar days,
// inclusive), newest first, each with its intervals.
func (s *Store) ListDailyLogs(from, to time.Time) ([]DailyLog, error) {
	rows, err := s.db.Query(
		`SELECT `+logColumns+` FROM daily_logs WHERE date >= ? AND date <= ? ORDER BY date DESC`,
		DateKey(from), DateKey(to),
	)
	if err != nil {
		return nil, fmt.Errorf("list daily logs: %w", err)
	}

	var logs []DailyLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		logs = append(logs, *l)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// Intervals are loaded after the cursor is closed; the pool has one connection.
	for i := range logs {
		if logs[i].Intervals, err = s.listIntervals(logs[i].ID); err != nil {
			return nil, err
		}
	}
	return logs, nil
}

// RecentLogs returns the logs of the days calendar days ending with now's, newest first.
func (s *Store) RecentLogs(days int, now time.Time) ([]DailyLog, error) {
	to := DayOf(now)
	return s.ListDailyLogs(to.AddDate(0, 0, 1-days), to)
}

func (s *Store) UpdateDailyLogSummary(id int64, summary string) (*DailyLog, error) {
	if err := s.execLog(id, `UPDATE daily_logs SET day_summary = ?, updated_at = ? WHERE id = ?`,
		summary, nowStamp(), id); err != nil {
		return nil, fmt.Errorf("update day summary: %w", err)
	}
	return s.GetDailyLogByID(id)
}

// CloseDay locks the day and stamps closed_at. Closing a closed day is a no-op.
func (s *Store) CloseDay(id int64) (*DailyLog, error) {
	now := nowStamp()
	_, err := s.db.Exec(
		`UPDATE daily_logs SET status = ?, closed_at = ?, updated_at = ? WHERE id = ? AND status != ?`,
		DayClosed, now, now, id, DayClosed,
	)
	if err != nil {
		return nil, fmt.Errorf("close day %d: %w", id, err)
	}
	l, err := s.GetDailyLogByID(id)
	if err == nil {
		s.log.Infow("day closed", "date", DateKey(l.Date), "score", l.Score().ProductivityPercentage)
	}
	return l, err
}

// ReopenDay unlocks a closed day without touching its data. Days that are
// not closed are returned unchanged.
func (s *Store) ReopenDay(id int64) (*DailyLog, error) {
	_, err := s.db.Exec(
		`UPDATE daily_logs SET status = ?, closed_at = NULL, updated_at = ? WHERE id = ? AND status = ?`,
		DayReopened, nowStamp(), id, DayClosed,
	)
	if err != nil {
		return nil, fmt.Errorf("reopen day %d: %w", id, err)
	}
	l, err := s.GetDailyLogByID(id)
	if err == nil {
		s.log.Infow("day reopened", "date", DateKey(l.Date))
	}
	return l, err
}

func (s *Store) MarkDayPartial(id int64, partial bool) (*DailyLog, error) {
	if err := s.execLog(id, `UPDATE daily_logs SET is_partial = ?, updated_at = ? WHERE id = ?`,
		boolInt(partial), nowStamp(), id); err != nil {
		return nil, fmt.Errorf("mark day partial: %w", err)
	}
	return s.GetDailyLogByID(id)
}

func (s *Store) execLog(id int64, query string, args ...any) error {
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("daily log %d: %w", id, ErrNotFound)
	}
	return nil
}

func scanLog(r rowScanner) (*DailyLog, error) {
	l := &DailyLog{}
	var date, status, createdAt, updatedAt string
	var closedAt sql.NullString
	var partial int
	err := r.Scan(&l.ID, &date, &l.IntervalMinutes, &l.StartTime, &l.EndTime, &status, &l.DaySummary,
		&closedAt, &partial, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	l.Date, _ = ParseDate(date)
	l.Status = DayStatus(status)
	l.ClosedAt = parseNullStamp(closedAt)
	l.Partial = partial == 1
	l.CreatedAt = parseStamp(createdAt)
	l.UpdatedAt = parseStamp(updatedAt)
	return l, nil
}
