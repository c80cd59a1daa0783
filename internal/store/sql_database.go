package store

import (
	"database/sql"

	"github.com/MKhiriev/go-api-client/internal/logger"
	"github.com/MKhiriev/go-api-client/migrations"
)

// DB wraps the *sql.DB handle of the SQLite backend.
type DB struct {
	*sql.DB
	logger *logger.Logger
}

// Migrate applies the embedded schema migrations.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.logger)
}
