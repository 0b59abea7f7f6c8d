// Package kv is a small key-value layer over string keys and JSON values.
// Durability and atomicity belong to the backing store.
package kv

import (
	"context"
	"encoding/json"
	"strings"
)

// Store is the contract every backend satisfies.
// Get reports false (and leaves dst untouched) when the key is absent.
// Delete of an absent key is not an error.
type Store interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]Item, error)
}

// Item is one listed key with its raw JSON value.
type Item struct {
	Key   string
	Value json.RawMessage
}

// Key joins segments with ':' the way every record key in cropdesk is built.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}
