package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"DB_DRIVER", "DB_PATH", "DATABASE_URL", "WORDS_PER_TEST", "REMINDER_HOUR",
		"HTTP_TIMEOUT", "ENABLE_SCHEDULER", "OWNER_CHAT_ID", "REMOTE_FETCH_CONCURRENCY",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", cfg.DBDriver)
	assert.Equal(t, "data/wordwise.db", cfg.DBPath)
	assert.Equal(t, 10, cfg.WordsPerTest)
	assert.Equal(t, 9, cfg.ReminderHour)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 24*time.Hour, cfg.DictionaryCacheTTL)
	assert.True(t, cfg.EnableScheduler)
	assert.Equal(t, int64(0), cfg.OwnerChatID)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "PGX")
	t.Setenv("DATABASE_URL", "postgres://localhost/wordwise")
	t.Setenv("WORDS_PER_TEST", "15")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("ENABLE_SCHEDULER", "false")
	t.Setenv("OWNER_CHAT_ID", "42")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "pgx", cfg.DBDriver)
	assert.Equal(t, 15, cfg.WordsPerTest)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.EnableScheduler)
	assert.Equal(t, int64(42), cfg.OwnerChatID)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown driver", "DB_DRIVER", "mysql"},
		{"non numeric words per test", "WORDS_PER_TEST", "ten"},
		{"zero words per test", "WORDS_PER_TEST", "0"},
		{"hour out of range", "REMINDER_HOUR", "24"},
		{"bad duration", "HTTP_TIMEOUT", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidatePostgresNeedsURL(t *testing.T) {
	cfg := &Config{DBDriver: "postgres", WordsPerTest: 10, RemoteFetchConcurrency: 1}
	assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL")
}
