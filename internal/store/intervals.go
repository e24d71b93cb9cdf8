package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const intervalSelect = `
	SELECT i.id, i.daily_log_id, i.start_time, i.end_time, i.activity_text, i.category_id, i.logged_at,
	       c.id, c.label, c.value, c.color, c.icon, c.description, c.sort_order, c.active, c.is_default, c.created_at, c.updated_at
	FROM time_intervals i
	LEFT JOIN categories c ON c.id = i.category_id`

func (s *Store) GetInterval(id int64) (*TimeInterval, error) {
	iv, err := scanInterval(s.db.QueryRow(intervalSelect+` WHERE i.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get interval %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get interval %d: %w", id, err)
	}
	return iv, nil
}

// listIntervals returns a log's intervals in start order. Rows are inserted
// in start order when the day is created, so id order is start order.
func (s *Store) listIntervals(logID int64) ([]TimeInterval, error) {
	return s.queryIntervals(intervalSelect+` WHERE i.daily_log_id = ? ORDER BY i.id`, logID)
}

// ListUncategorized returns a log's intervals that have activity text but no category.
func (s *Store) ListUncategorized(logID int64) ([]TimeInterval, error) {
	return s.queryIntervals(
		intervalSelect+` WHERE i.daily_log_id = ? AND TRIM(i.activity_text) != '' AND i.category_id IS NULL ORDER BY i.id`,
		logID,
	)
}

func (s *Store) queryIntervals(query string, args ...any) ([]TimeInterval, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list intervals: %w", err)
	}
	defer rows.Close()

	var intervals []TimeInterval
	for rows.Next() {
		iv, err := scanInterval(rows)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, *iv)
	}
	return intervals, rows.Err()
}

// UpdateInterval applies a partial patch. The first time the activity text
// becomes non-empty, logged_at is stamped; later edits keep that stamp.
// Intervals of a closed day are read-only, and only active categories can be
// assigned.
func (s *Store) UpdateInterval(id int64, p IntervalPatch) (*TimeInterval, error) {
	var status string
	err := s.db.QueryRow(
		`SELECT l.status FROM time_intervals i JOIN daily_logs l ON l.id = i.daily_log_id WHERE i.id = ?`, id,
	).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update interval %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update interval %d: %w", id, err)
	}
	if !DayStatus(status).Editable() {
		return nil, fmt.Errorf("update interval %d: %w", id, ErrDayClosed)
	}

	now := nowStamp()
	var sets []string
	var args []any

	if p.ActivityText != nil {
		text := strings.TrimSpace(*p.ActivityText)
		if utf8.RuneCountInString(text) > MaxActivityChars {
			return nil, fmt.Errorf("update interval %d: %w", id, ErrActivityTooLong)
		}
		sets = append(sets, `activity_text = ?`)
		args = append(args, text)
		if text != "" {
			sets = append(sets, `logged_at = COALESCE(logged_at, ?)`)
			args = append(args, now)
		}
	}

	switch {
	case p.ClearCategory:
		sets = append(sets, `category_id = NULL`)
	case p.CategoryID != nil:
		c, err := s.GetCategory(*p.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("update interval %d: %w", id, err)
		}
		if !c.Active {
			return nil, fmt.Errorf("update interval %d: %w", id, ErrCategoryInactive)
		}
		sets = append(sets, `category_id = ?`)
		args = append(args, c.ID)
	}

	if len(sets) > 0 {
		sets = append(sets, `updated_at = ?`)
		args = append(args, now, id)
		query := `UPDATE time_intervals SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
		if _, err := s.db.Exec(query, args...); err != nil {
			return nil, fmt.Errorf("update interval %d: %w", id, err)
		}
	}
	return s.GetInterval(id)
}

// BulkUpdateCategories assigns categories one interval at a time, in order.
// A failed item does not undo the ones before it; failures are joined into
// the returned error alongside the intervals that were updated.
func (s *Store) BulkUpdateCategories(updates []CategoryAssignment) ([]TimeInterval, error) {
	var updated []TimeInterval
	var errs []error
	for _, u := range updates {
		categoryID := u.CategoryID
		iv, err := s.UpdateInterval(u.IntervalID, IntervalPatch{CategoryID: &categoryID})
		if err != nil {
			s.log.Warnw("bulk categorize failed", "interval", u.IntervalID, "category", u.CategoryID, "error", err)
			errs = append(errs, err)
			continue
		}
		updated = append(updated, *iv)
	}
	return updated, errors.Join(errs...)
}

func scanInterval(r rowScanner) (*TimeInterval, error) {
	iv := &TimeInterval{}
	var start, end string
	var categoryID, loggedAt sql.NullString

	var cID, cLabel, cColor, cIcon, cDesc, cCreated, cUpdated sql.NullString
	var cValue, cSort, cActive, cDefault sql.NullInt64

	err := r.Scan(&iv.ID, &iv.DailyLogID, &start, &end, &iv.ActivityText, &categoryID, &loggedAt,
		&cID, &cLabel, &cValue, &cColor, &cIcon, &cDesc, &cSort, &cActive, &cDefault, &cCreated, &cUpdated)
	if err != nil {
		return nil, err
	}
	iv.StartTime, _ = time.Parse(time.RFC3339, start)
	iv.EndTime, _ = time.Parse(time.RFC3339, end)
	if categoryID.Valid {
		iv.CategoryID = &categoryID.String
	}
	iv.LoggedAt = parseNullStamp(loggedAt)

	if cID.Valid {
		iv.Category = &Category{
			ID:          cID.String,
			Label:       cLabel.String,
			Value:       int(cValue.Int64),
			Color:       cColor.String,
			Icon:        cIcon.String,
			Description: cDesc.String,
			SortOrder:   int(cSort.Int64),
			Active:      cActive.Int64 == 1,
			Default:     cDefault.Int64 == 1,
			CreatedAt:   parseStamp(cCreated.String),
			UpdatedAt:   parseStamp(cUpdated.String),
		}
	}
	return iv, nil
}
