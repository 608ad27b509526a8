// Package storage provides the key/value slots the stores persist their
// snapshots into.
package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound   = errors.New("not_found")
	ErrInvalidKey = errors.New("invalid_key")
	ErrLocked     = errors.New("locked")
)

// KV is a namespaced byte store. Implementations must be safe for concurrent use.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Locker is implemented by backends that can serialize writers of a key
// across processes. held is false when the backend has no lock configured.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), held bool, err error)
}

// Lock takes the writer lock for key when kv supports one, and otherwise
// returns a no-op unlock with held false.
func Lock(ctx context.Context, kv KV, key string) (unlock func(), held bool, err error) {
	l, ok := kv.(Locker)
	if !ok {
		return func() {}, false, nil
	}
	return l.Lock(ctx, key)
}

func validKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	return nil
}
