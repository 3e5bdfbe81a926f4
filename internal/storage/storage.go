// Package storage abstracts the flat key-value medium every collection is
// persisted to. Implementations must treat a missing key as (value "", ok
// false, err nil) rather than an error.
package storage

import "context"

type KeyValue interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}
