// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store provides the persistent key-value storage the API client
// reads its bearer token from.
//
// [Storage] mirrors the browser localStorage surface (GetItem, SetItem,
// RemoveItem) so callers can inject any backend. Three backends ship with the
// package: an in-memory map ([NewMemoryStorage]), a JSON file
// ([NewFileStorage]) and an SQLite database ([NewSQLiteStorage]). [New]
// selects one of them from configuration.
package store

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/storage_mock.go -package=mock

// Storage is a persistent string key-value store.
type Storage interface {
	// GetItem returns the value stored under key. ok is false when the key
	// is not set; that is not an error.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)

	// SetItem stores value under key, replacing any previous value.
	SetItem(ctx context.Context, key, value string) error

	// RemoveItem deletes key. Removing a key that is not set is a no-op.
	RemoveItem(ctx context.Context, key string) error
}
