// Package cache provides the local key-value cache tier backing the
// persistence layer. Three backends are available: SQLite (default,
// durable on disk), Redis (for hosts without durable disk) and an
// in-memory map (tests, last resort).
package cache

import "context"

// Cache is a small string-keyed byte store. Get returns (nil, nil) on a
// missing key; an error means the backend itself failed. SetMany writes
// all entries or, where the backend supports it, none.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, entries map[string][]byte) error
	Delete(ctx context.Context, key string) error
}
