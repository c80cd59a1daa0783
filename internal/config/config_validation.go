// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"
)

// validate checks that the final merged [StructuredConfig] can be used to
// construct the client and its storage.
func (cfg *StructuredConfig) validate() error {
	if strings.TrimSpace(cfg.API.Host) == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidAPIConfigs)
	}
	if cfg.API.RequestTimeout < 0 {
		return fmt.Errorf("%w: negative request timeout", ErrInvalidAPIConfigs)
	}

	switch cfg.Storage.Backend {
	case BackendMemory:
	case BackendFile, BackendSQLite:
		if cfg.Storage.Path == "" {
			return fmt.Errorf("%w: %s backend needs a path", ErrInvalidStorageConfigs, cfg.Storage.Backend)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidStorageConfigs, cfg.Storage.Backend)
	}

	return nil
}
