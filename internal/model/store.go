// Package model provides the opaque key-value stores the key store persists into.
package model

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("key not found")

// KVStore is a single-key blob store. Set must replace the value atomically:
// a concurrent Get observes either the old or the new value, never a mix.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Remove is idempotent; removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	Close() error
}
