package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

func (s *Store) CreateTemplate(name string, cfg DayConfig) (*Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: template name is required", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res, err := s.db.Exec(
		`INSERT INTO templates (name, interval_minutes, start_time, end_time, created_at) VALUES (?, ?, ?, ?, ?)`,
		name, cfg.IntervalMinutes, cfg.StartTime, cfg.EndTime, nowStamp(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert template: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetTemplate(id)
}

func (s *Store) GetTemplate(id int64) (*Template, error) {
	t, err := scanTemplate(s.db.QueryRow(
		`SELECT id, name, interval_minutes, start_time, end_time, created_at FROM templates WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get template %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get template %d: %w", id, err)
	}
	return t, nil
}

func (s *Store) GetTemplateByName(name string) (*Template, error) {
	t, err := scanTemplate(s.db.QueryRow(
		`SELECT id, name, interval_minutes, start_time, end_time, created_at FROM templates WHERE name = ?`, name,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get template %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get template %q: %w", name, err)
	}
	return t, nil
}

func (s *Store) ListTemplates() ([]Template, error) {
	rows, err := s.db.Query(
		`SELECT id, name, interval_minutes, start_time, end_time, created_at FROM templates ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

func (s *Store) DeleteTemplate(id int64) error {
	res, err := s.db.Exec(`DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete template %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete template %d: %w", id, ErrNotFound)
	}
	return nil
}

func scanTemplate(r rowScanner) (*Template, error) {
	t := &Template{}
	var createdAt string
	if err := r.Scan(&t.ID, &t.Name, &t.IntervalMinutes, &t.StartTime, &t.EndTime, &createdAt); err != nil {
		return nil, err
	}
	t.CreatedAt = parseStamp(createdAt)
	return t, nil
}
