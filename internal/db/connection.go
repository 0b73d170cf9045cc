// Package db owns the PostgreSQL connection pool backing the reservation
// store and the settlement ledger.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/corebank/ftreserve/internal/config"

	// Registers the postgres driver with database/sql
	_ "github.com/lib/pq"
)

// DB wraps the connection pool so repositories and health checks share one
// handle
type DB struct {
	*sql.DB
	logger *slog.Logger
}

// Connect opens the reservation database, applies the pool limits from
// configuration, and verifies the server is reachable before returning.
func Connect(ctx context.Context, cfg *config.DatabaseConfig, logger *slog.Logger) (*DB, error) {
	pool, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := pool.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("reservation database ready",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.DBName,
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
	)

	return &DB{
		DB:     pool,
		logger: logger,
	}, nil
}

// Close releases the pool
func (db *DB) Close() error {
	db.logger.Info("closing reservation database")
	return db.DB.Close()
}
