package store

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("key not found")

// KV is the raw key/value persistence under the typed Store.
// Get returns ErrKeyNotFound for absent keys.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
