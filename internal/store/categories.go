package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const defaultCategoryColor = "#64748b"

const categoryColumns = `id, label, value, color, icon, description, sort_order, active, is_default, created_at, updated_at`

func (in CategoryInput) validate() error {
	if strings.TrimSpace(in.Label) == "" {
		return fmt.Errorf("%w: label is required", ErrInvalidCategory)
	}
	if in.Value < 0 || in.Value > 100 {
		return fmt.Errorf("%w: value %d outside 0-100", ErrInvalidCategory, in.Value)
	}
	return nil
}

func (s *Store) CreateCategory(in CategoryInput) (*Category, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.Color == "" {
		in.Color = defaultCategoryColor
	}

	var sortOrder int
	if in.SortOrder != nil {
		sortOrder = *in.SortOrder
	} else {
		var maxSort sql.NullInt64
		if err := s.db.QueryRow(`SELECT MAX(sort_order) FROM categories`).Scan(&maxSort); err != nil {
			return nil, fmt.Errorf("max sort order: %w", err)
		}
		sortOrder = int(maxSort.Int64) + 1
	}

	id := uuid.NewString()
	now := nowStamp()
	_, err := s.db.Exec(
		`INSERT INTO categories (id, label, value, color, icon, description, sort_order, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, strings.TrimSpace(in.Label), in.Value, in.Color, in.Icon, in.Description, sortOrder, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return s.GetCategory(id)
}

// GetCategory looks a category up by id whether or not it is active.
func (s *Store) GetCategory(id string) (*Category, error) {
	c, err := scanCategory(s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get category %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get category %q: %w", id, err)
	}
	return c, nil
}

// ListCategories returns categories in display order. Retired categories are
// only included when includeInactive is set.
func (s *Store) ListCategories(includeInactive bool) ([]Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories`
	if !includeInactive {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY sort_order, label`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (s *Store) UpdateCategory(id string, in CategoryInput) (*Category, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	current, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}
	if in.Color == "" {
		in.Color = current.Color
	}
	sortOrder := current.SortOrder
	if in.SortOrder != nil {
		sortOrder = *in.SortOrder
	}

	_, err = s.db.Exec(
		`UPDATE categories SET label = ?, value = ?, color = ?, icon = ?, description = ?, sort_order = ?, updated_at = ?
		 WHERE id = ?`,
		strings.TrimSpace(in.Label), in.Value, in.Color, in.Icon, in.Description, sortOrder, nowStamp(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update category %q: %w", id, err)
	}
	return s.GetCategory(id)
}

// DeleteCategory retires a category. The row is kept so past intervals still
// resolve their label and color.
func (s *Store) DeleteCategory(id string) error {
	c, err := s.GetCategory(id)
	if err != nil {
		return err
	}
	if !c.Active {
		return nil
	}

	var active int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM categories WHERE active = 1`).Scan(&active); err != nil {
		return fmt.Errorf("count active categories: %w", err)
	}
	if active <= 2 {
		return ErrCategoryFloor
	}

	if _, err := s.db.Exec(`UPDATE categories SET active = 0, updated_at = ? WHERE id = ?`, nowStamp(), id); err != nil {
		return fmt.Errorf("retire category %q: %w", id, err)
	}
	s.log.Infow("category retired", "id", id, "label", c.Label)
	return nil
}

func (s *Store) RestoreCategory(id string) error {
	res, err := s.db.Exec(`UPDATE categories SET active = 1, updated_at = ? WHERE id = ?`, nowStamp(), id)
	if err != nil {
		return fmt.Errorf("restore category %q: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("restore category %q: %w", id, ErrNotFound)
	}
	return nil
}

func scanCategory(r rowScanner) (*Category, error) {
	c := &Category{}
	var active, isDefault int
	var createdAt, updatedAt string
	err := r.Scan(&c.ID, &c.Label, &c.Value, &c.Color, &c.Icon, &c.Description, &c.SortOrder,
		&active, &isDefault, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	c.Active = active == 1
	c.Default = isDefault == 1
	c.CreatedAt = parseStamp(createdAt)
	c.UpdatedAt = parseStamp(updatedAt)
	return c, nil
}
