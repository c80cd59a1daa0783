// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"path/filepath"
	"time"
)

// Storage backends accepted by [Storage.Backend].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

const (
	defaultRequestTimeout = 15 * time.Second
	defaultBackend        = BackendFile
	defaultBearerTokenKey = "bearer_token"

	storageDirName  = "apiclient"
	fileStorageName = "store.json"
	sqliteDBName    = "store.db"
)

// StructuredConfig is the top-level configuration container for the API
// client. It is populated by merging values from environment variables,
// command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// API holds the remote host and request settings.
	API API `envPrefix:"API_"`

	// Storage selects and configures the persistent key-value storage the
	// bearer token is read from.
	Storage Storage `envPrefix:"STORAGE_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// API holds settings of the remote HTTP API.
type API struct {
	// Host is the base URL every request path is resolved against
	// (e.g. "https://api.example.com").
	// Env: API_HOST
	Host string `env:"HOST"`

	// BearerTokenKey is the storage key under which the bearer token is kept.
	// Env: API_BEARER_TOKEN_KEY
	BearerTokenKey string `env:"BEARER_TOKEN_KEY"`

	// RequestTimeout bounds a single outbound request (e.g. "30s").
	// Env: API_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage holds the persistent storage settings.
type Storage struct {
	// Backend is one of "memory", "file" or "sqlite".
	// Env: STORAGE_BACKEND
	Backend string `env:"BACKEND"`

	// Path is the JSON file (file backend) or database file (sqlite backend).
	// Defaults to a file under the user config directory.
	// Env: STORAGE_PATH
	Path string `env:"PATH"`
}

// GetStructuredConfig loads, merges, and validates the client configuration
// from all available sources in the following priority order (first source
// wins for non-zero fields):
//  1. Command-line flags parsed from args
//  2. Environment variables
//  3. JSON file (path resolved from sources 1 and 2)
//
// Defaults are applied before validation. The returned slice holds the
// positional arguments left after flag parsing.
func GetStructuredConfig(args []string) (*StructuredConfig, []string, error) {
	b := newConfigBuilder().
		withFlags(args).
		withEnv().
		withJSON()

	cfg, err := b.build()
	return cfg, b.rest, err
}

func (cfg *StructuredConfig) applyDefaults() {
	if cfg.API.RequestTimeout == 0 {
		cfg.API.RequestTimeout = defaultRequestTimeout
	}
	if cfg.API.BearerTokenKey == "" {
		cfg.API.BearerTokenKey = defaultBearerTokenKey
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = defaultBackend
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = defaultStoragePath(cfg.Storage.Backend)
	}
}

// defaultStoragePath returns the storage file of backend under the user
// config directory, or next to the executable when there is none. It is
// empty for backends that keep nothing on disk.
func defaultStoragePath(backend string) string {
	var name string
	switch backend {
	case BackendFile:
		name = fileStorageName
	case BackendSQLite:
		name = sqliteDBName
	default:
		return ""
	}

	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, storageDirName, name)
	}
	if execPath, err := os.Executable(); err == nil {
		return filepath.Join(filepath.Dir(execPath), name)
	}
	return ""
}
