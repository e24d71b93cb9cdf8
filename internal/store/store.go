package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const currentVersion = 1

const dateLayout = "2006-01-02"

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidConfig    = errors.New("invalid day configuration")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrCategoryFloor    = errors.New("at least two active categories are required")
	ErrCategoryInactive = errors.New("category is inactive")
	ErrDayClosed        = errors.New("day is closed")
	ErrActivityTooLong  = fmt.Errorf("activity text exceeds %d characters", MaxActivityChars)
)

type Store struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, log: zap.NewNop().Sugar()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

// WithLogger sets the logger used for store events and returns s.
func (s *Store) WithLogger(l *zap.SugaredLogger) *Store {
	if l != nil {
		s.log = l
	}
	return s
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
		s.log.Infow("migrated database", "version", 1)
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS categories (
		id          TEXT PRIMARY KEY,
		label       TEXT NOT NULL,
		value       INTEGER NOT NULL CHECK (value BETWEEN 0 AND 100),
		color       TEXT NOT NULL DEFAULT '#64748b',
		icon        TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		sort_order  INTEGER NOT NULL DEFAULT 0,
		active      INTEGER NOT NULL DEFAULT 1,
		is_default  INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS user_settings (
		id               INTEGER PRIMARY KEY CHECK (id = 1),
		interval_minutes INTEGER NOT NULL DEFAULT 15,
		start_time       TEXT NOT NULL DEFAULT '09:00',
		end_time         TEXT NOT NULL DEFAULT '17:00',
		updated_at       TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS templates (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		name             TEXT NOT NULL UNIQUE,
		interval_minutes INTEGER NOT NULL,
		start_time       TEXT NOT NULL,
		end_time         TEXT NOT NULL,
		created_at       TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS daily_logs (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		date             TEXT NOT NULL UNIQUE,
		interval_minutes INTEGER NOT NULL,
		start_time       TEXT NOT NULL,
		end_time         TEXT NOT NULL,
		status           TEXT NOT NULL DEFAULT 'ACTIVE' CHECK (status IN ('ACTIVE', 'CLOSED', 'REOPENED')),
		day_summary      TEXT NOT NULL DEFAULT '',
		closed_at        TEXT,
		is_partial       INTEGER NOT NULL DEFAULT 0,
		created_at       TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at       TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS time_intervals (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		daily_log_id  INTEGER NOT NULL REFERENCES daily_logs(id) ON DELETE CASCADE,
		start_time    TEXT NOT NULL,
		end_time      TEXT NOT NULL,
		activity_text TEXT NOT NULL DEFAULT '',
		category_id   TEXT REFERENCES categories(id) ON DELETE SET NULL,
		logged_at     TEXT,
		updated_at    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_intervals_log      ON time_intervals(daily_log_id);
	CREATE INDEX IF NOT EXISTS idx_intervals_category ON time_intervals(category_id);

	INSERT OR IGNORE INTO categories (id, label, value, color, icon, description, sort_order, is_default) VALUES
		('highly-productive', 'Highly Productive', 100, '#22c55e', 'zap',      'Core goal advancement, deep work, high-impact tasks', 1, 1),
		('productive',        'Productive',         75, '#3b82f6', 'briefcase', 'Maintenance tasks, planning, necessary work',         2, 1),
		('neutral',           'Neutral',            50, '#eab308', 'coffee',    'Breaks, meals, transitions between activities',       3, 1),
		('low-productivity',  'Low Productivity',   25, '#f97316', 'clock',     'Aware procrastination, low-priority activities',      4, 1),
		('non-productive',    'Non-Productive',      0, '#ef4444', 'x-circle',  'Distractions, time-wasting, unproductive activities', 5, 1);

	INSERT OR IGNORE INTO user_settings (id) VALUES (1);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/daygrid/daygrid.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "daygrid", "daygrid.db"), nil
}

// DayOf truncates t to midnight of its calendar day in t's location.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DateKey is the storage key of t's calendar day.
func DateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDate parses a YYYY-MM-DD key as local midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.Local)
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func parseStamp(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func parseNullStamp(ns sql.NullString) *time.Time {
	if !ns.Valid {
		return nil
	}
	t := parseStamp(ns.String)
	return &t
}

type rowScanner interface {
	Scan(dest ...any) error
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
