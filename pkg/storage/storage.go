package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/mattn/go-sqlite3"
)

// Config captures the runtime configuration for the content store database.
type Config struct {
	Driver string
	DSN    string
}

// Open establishes a database handle for the configured driver. Only sqlite is
// opened directly; postgres callers hand an existing *sql.DB to NewDB since the
// driver choice (pgx, pq, pgdriver) belongs to the host application.
func Open(cfg Config) (*bun.DB, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "sqlite":
		sqlDB, err := sql.Open("sqlite3", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		db := bun.NewDB(sqlDB, sqlitedialect.New())
		// Shared-cache in-memory databases misbehave with connection churn.
		db.SetMaxOpenConns(1)
		return db, nil
	default:
		return nil, fmt.Errorf("storage: driver %q must be opened by the host, use NewDB", cfg.Driver)
	}
}

// NewDB wraps an already-open database handle with the dialect matching the
// declared driver.
func NewDB(sqlDB *sql.DB, driver string) (*bun.DB, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite":
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	case "postgres":
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", driver)
	}
}

// EnsureSchema creates tables for the supplied models when they do not exist.
func EnsureSchema(ctx context.Context, db *bun.DB, models ...any) error {
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table: %w", err)
		}
	}
	return nil
}
