// Package kv defines the small persistent key-value contract used for
// local client state: the signed-in session, preferences and drafts.
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned (wrapped) by Get when a key is missing or expired.
var ErrNotFound = errors.New("key not found")

// KV is a persistent key-value store. Values are JSON-serializable.
type KV interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
	SetTTL(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Has(ctx context.Context, key string) (bool, error)
	ListKeys(ctx context.Context) ([]string, error)
}

// IsNotFound reports whether err means the key does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
