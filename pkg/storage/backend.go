package storage

import "context"

// Backend is a durable string-keyed store the adapter guards. Implementations
// report missing keys with ok=false and a nil error; errors are reserved for
// genuine store failures.
type Backend interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}
