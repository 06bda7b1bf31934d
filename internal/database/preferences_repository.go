package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// Preference keys
const (
	PrefTheme        = "theme"
	PrefWordsPerTest = "words_per_test"
	PrefOwnerChatID  = "owner_chat_id"
)

// Theme values
const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

// Themes lists the accepted theme values
var Themes = []string{ThemeSystem, ThemeLight, ThemeDark}

// PreferencesRepository is a small key-value store for user settings
type PreferencesRepository struct {
	db *DB
}

// NewPreferencesRepository creates a new repository instance
func NewPreferencesRepository(db *DB) *PreferencesRepository {
	return &PreferencesRepository{db: db}
}

// Get returns the stored value or defaultValue when the key is absent
func (r *PreferencesRepository) Get(ctx context.Context, key, defaultValue string) (string, error) {
	query := r.db.Rebind("SELECT pref_value FROM preferences WHERE pref_key = ?")

	var value string
	err := r.db.GetContext(ctx, &value, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return defaultValue, nil
	}
	if err != nil {
		return "", fmt.Errorf("get preference (key: %s): %w", key, err)
	}
	return value, nil
}

// GetInt returns an integer preference, falling back to defaultValue when the key
// is absent or holds a non numeric value
func (r *PreferencesRepository) GetInt(ctx context.Context, key string, defaultValue int) (int, error) {
	value, err := r.Get(ctx, key, "")
	if err != nil {
		return 0, err
	}
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, nil
	}
	return n, nil
}

// Set upserts a value
func (r *PreferencesRepository) Set(ctx context.Context, key, value string) error {
	query, args, err := r.db.psql.Insert("preferences").
		Columns("pref_key", "pref_value").
		Values(key, value).
		Suffix("ON CONFLICT (pref_key) DO UPDATE SET pref_value = EXCLUDED.pref_value").
		ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query (key: %s): %w", key, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set preference (key: %s): %w", key, err)
	}
	return nil
}
