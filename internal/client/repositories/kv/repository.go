// Package kv is the string-keyed key/value repository backing the persisted
// session store.
package kv

import (
	"context"
)

// Repository is a durable string-keyed map.
//
// Get returns (nil, nil) when the key is absent. Clear removes every key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
}
