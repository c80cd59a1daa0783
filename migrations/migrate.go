// Package migrations embeds the schema migrations of the SQLite storage
// backend and applies them with goose.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/MKhiriev/go-api-client/internal/logger"
)

//go:embed *.sql
var embedMigrations embed.FS

// Migrate applies the embedded migrations to db. goose output goes to log at
// debug level and is discarded when log is nil.
func Migrate(db *sql.DB, log *logger.Logger) error {
	if db == nil {
		return errors.New("migration error: db is nil")
	}

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(newGooseLogger(log))

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}

// gooseLogger routes goose output into zerolog.
type gooseLogger struct {
	log *logger.Logger
}

func newGooseLogger(log *logger.Logger) goose.Logger {
	if log == nil {
		return goose.NopLogger()
	}
	return &gooseLogger{log: log}
}

func (l *gooseLogger) Printf(format string, v ...any) {
	l.log.Debug().Str("func", "goose").Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *gooseLogger) Fatalf(format string, v ...any) {
	l.log.Fatal().Str("func", "goose").Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
