package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	TelegramToken string
	OwnerChatID   int64

	DBDriver    string
	DBPath      string
	DatabaseURL string

	WordsPerTest int
	SeedFile     string

	RandomWordAPIURL       string
	DictionaryAPIURL       string
	HTTPTimeout            time.Duration
	RemoteFetchConcurrency int

	RedisAddr          string
	DictionaryCacheTTL time.Duration

	EnableScheduler bool
	ReminderHour    int
}

// Load reads configuration from the environment, loading a .env file first when
// one is present
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		DBDriver:         strings.ToLower(getEnv("DB_DRIVER", "sqlite3")),
		DBPath:           getEnv("DB_PATH", "data/wordwise.db"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		SeedFile:         os.Getenv("SEED_FILE"),
		RandomWordAPIURL: getEnv("RANDOM_WORD_API_URL", "https://random-words-api.vercel.app/"),
		DictionaryAPIURL: getEnv("DICTIONARY_API_URL", "https://api.dictionaryapi.dev/"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
	}

	var err error
	if cfg.OwnerChatID, err = getEnvInt64("OWNER_CHAT_ID", 0); err != nil {
		return nil, err
	}
	if cfg.WordsPerTest, err = getEnvInt("WORDS_PER_TEST", 10); err != nil {
		return nil, err
	}
	if cfg.RemoteFetchConcurrency, err = getEnvInt("REMOTE_FETCH_CONCURRENCY", 4); err != nil {
		return nil, err
	}
	if cfg.ReminderHour, err = getEnvInt("REMINDER_HOUR", 9); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getEnvDuration("HTTP_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.DictionaryCacheTTL, err = getEnvDuration("DICTIONARY_CACHE_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	cfg.EnableScheduler = os.Getenv("ENABLE_SCHEDULER") != "false"

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite3", "sqlite":
		c.DBDriver = "sqlite3"
	case "postgres", "pgx":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for driver %s", c.DBDriver)
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.DBDriver)
	}
	if c.WordsPerTest <= 0 {
		return fmt.Errorf("WORDS_PER_TEST must be positive, got %d", c.WordsPerTest)
	}
	if c.RemoteFetchConcurrency <= 0 {
		return fmt.Errorf("REMOTE_FETCH_CONCURRENCY must be positive, got %d", c.RemoteFetchConcurrency)
	}
	if c.ReminderHour < 0 || c.ReminderHour > 23 {
		return fmt.Errorf("REMINDER_HOUR must be within 0-23, got %d", c.ReminderHour)
	}
	return nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
