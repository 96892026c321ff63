// Package session stores the client's session cache: the bearer token and
// the serialized user, under string keys.
package session

import "context"

// Repository is the storage backend of the session cache.
// Get returns (nil, nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMany writes all pairs atomically.
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
