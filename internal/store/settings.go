package store

import (
	"fmt"
	"slices"

	"github.com/sadopc/daygrid/internal/scoring"
)

// Validate checks the interval length against IntervalDurations and that the
// end time is after the start time.
func (c DayConfig) Validate() error {
	if !slices.Contains(IntervalDurations, c.IntervalMinutes) {
		return fmt.Errorf("%w: interval of %d minutes not in %v", ErrInvalidConfig, c.IntervalMinutes, IntervalDurations)
	}
	_, _, err := c.clocks()
	return err
}

func (c DayConfig) clocks() (scoring.Clock, scoring.Clock, error) {
	start, err := scoring.ParseClock(c.StartTime)
	if err != nil {
		return start, start, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	end, err := scoring.ParseClock(c.EndTime)
	if err != nil {
		return start, end, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if !start.Before(end) {
		return start, end, fmt.Errorf("%w: end %s is not after start %s", ErrInvalidConfig, end, start)
	}
	return start, end, nil
}

// merged fills zero fields of c from def.
func (c DayConfig) merged(def DayConfig) DayConfig {
	if c.IntervalMinutes == 0 {
		c.IntervalMinutes = def.IntervalMinutes
	}
	if c.StartTime == "" {
		c.StartTime = def.StartTime
	}
	if c.EndTime == "" {
		c.EndTime = def.EndTime
	}
	return c
}

// GetUserSettings returns the settings singleton, creating it on first access.
func (s *Store) GetUserSettings() (*UserSettings, error) {
	if _, err := s.db.Exec(`INSERT OR IGNORE INTO user_settings (id) VALUES (1)`); err != nil {
		return nil, fmt.Errorf("init settings: %w", err)
	}

	us := &UserSettings{}
	var updatedAt string
	err := s.db.QueryRow(
		`SELECT interval_minutes, start_time, end_time, updated_at FROM user_settings WHERE id = 1`,
	).Scan(&us.DefaultIntervalMinutes, &us.DefaultStartTime, &us.DefaultEndTime, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	us.UpdatedAt = parseStamp(updatedAt)
	return us, nil
}

// UpdateUserSettings replaces the default day configuration. Zero fields keep
// their current value.
func (s *Store) UpdateUserSettings(cfg DayConfig) (*UserSettings, error) {
	current, err := s.GetUserSettings()
	if err != nil {
		return nil, err
	}
	cfg = cfg.merged(current.Config())
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	_, err = s.db.Exec(
		`UPDATE user_settings SET interval_minutes = ?, start_time = ?, end_time = ?, updated_at = ? WHERE id = 1`,
		cfg.IntervalMinutes, cfg.StartTime, cfg.EndTime, nowStamp(),
	)
	if err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	return s.GetUserSettings()
}
