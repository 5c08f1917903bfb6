package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/normauto/vehicle-engine/internal/config"
)

// Open connects to the configured database and applies pool settings.
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	var db *sql.DB
	var err error

	switch cfg.Driver {
	case "sqlite":
		dsn := cfg.SQLite.Path
		if cfg.SQLite.JournalMode != "" {
			dsn += "?_journal_mode=" + cfg.SQLite.JournalMode
		}
		db, err = sql.Open("sqlite3", dsn)
		if err == nil && cfg.SQLite.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.SQLite.MaxOpenConns)
		}
	case "postgres":
		db, err = sql.Open("postgres", cfg.Postgres.DSN)
		if err == nil {
			if cfg.Postgres.MaxOpenConns > 0 {
				db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
			}
			if cfg.Postgres.MaxIdleConns > 0 {
				db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
			}
			if cfg.Postgres.ConnMaxLifetime > 0 {
				db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}
	return db, nil
}

// Migrate creates the schema. Statements stick to the SQL dialect
// subset SQLite and Postgres share, so one migration serves both.
func Migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS normalized_vehicles (
			id TEXT PRIMARY KEY,
			origen_aseguradora TEXT NOT NULL,
			id_original TEXT NOT NULL,
			marca TEXT NOT NULL,
			modelo TEXT NOT NULL,
			anio INTEGER NOT NULL,
			transmision TEXT NOT NULL,
			version_original TEXT NOT NULL,
			version_limpia TEXT NOT NULL,
			hash_comercial TEXT NOT NULL,
			fecha_procesamiento TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (origen_aseguradora, id_original)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_vehicles_hash
			ON normalized_vehicles (hash_comercial)`,
		`CREATE INDEX IF NOT EXISTS idx_vehicles_carrier
			ON normalized_vehicles (origen_aseguradora)`,
		`CREATE TABLE IF NOT EXISTS processing_failures (
			id TEXT PRIMARY KEY,
			origen_aseguradora TEXT NOT NULL,
			id_original TEXT NOT NULL,
			codigo_error TEXT NOT NULL,
			mensaje TEXT NOT NULL,
			registro_original TEXT NOT NULL,
			fecha_error TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_failures_carrier
			ON processing_failures (origen_aseguradora)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
