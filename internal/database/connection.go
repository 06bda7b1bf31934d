package database

import (
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Options describes how to reach the database
type Options struct {
	Driver string // sqlite3, postgres or pgx
	Path   string // SQLite file path
	URL    string // Postgres connection string
}

// DB wraps the sqlx connection with a squirrel builder using the driver's
// placeholder format
type DB struct {
	*sqlx.DB
	psql squirrel.StatementBuilderType
}

// Connect opens the database, applies connection settings and runs migrations
func Connect(opts Options) (*DB, error) {
	dsn := opts.URL
	if opts.Driver == "sqlite3" {
		// Create data directory if it doesn't exist
		if dir := filepath.Dir(opts.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create data directory (path: %s): %w", dir, err)
			}
		}
		dsn = opts.Path + "?_foreign_keys=on"
	}

	conn, err := sqlx.Connect(opts.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database (driver: %s): %w", opts.Driver, err)
	}

	if opts.Driver == "sqlite3" {
		// SQLite doesn't support multiple writers
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
	} else {
		conn.SetMaxOpenConns(25)
		conn.SetMaxIdleConns(5)
		conn.SetConnMaxLifetime(time.Hour)
		conn.SetConnMaxIdleTime(10 * time.Minute)
	}

	db := &DB{
		DB:   conn,
		psql: squirrel.StatementBuilder.PlaceholderFormat(placeholderFormat(opts.Driver)),
	}

	if err := db.migrate(opts.Driver); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	if db == nil || db.DB == nil {
		return nil
	}
	return db.DB.Close()
}

// Ping checks the connection with a short deadline
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

func (db *DB) migrate(driver string) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{zap.S()})

	if err := goose.SetDialect(driver); err != nil {
		return fmt.Errorf("set migration dialect (driver: %s): %w", driver, err)
	}
	if err := goose.Up(db.DB.DB, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func placeholderFormat(driver string) squirrel.PlaceholderFormat {
	if driver == "postgres" || driver == "pgx" {
		return squirrel.Dollar
	}
	return squirrel.Question
}

// gooseLogger routes migration output through zap
type gooseLogger struct {
	log *zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Infof(format, v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Fatalf(format, v...)
}
