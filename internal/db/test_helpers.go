package db

import (
	"database/sql"
	"io"
	"log/slog"
)

// NewTestDB wraps an already-open *sql.DB, typically a sqlmock handle, so
// repository and service tests run without a live server. Log output is
// discarded.
func NewTestDB(sqlDB *sql.DB) *DB {
	return &DB{
		DB:     sqlDB,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}
