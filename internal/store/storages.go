package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-api-client/internal/config"
	"github.com/MKhiriev/go-api-client/internal/logger"
)

// New constructs the [Storage] backend named by cfg.Backend.
//
// Returns [ErrUnknownBackend] (wrapped) for unsupported names, or the
// backend's own error if it cannot be opened.
func New(ctx context.Context, cfg config.Storage, log *logger.Logger) (Storage, error) {
	log.Debug().Str("backend", cfg.Backend).Msg("creating storage...")

	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemoryStorage(), nil
	case config.BackendFile:
		return NewFileStorage(cfg.Path)
	case config.BackendSQLite:
		return NewSQLiteStorage(ctx, cfg.Path, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
