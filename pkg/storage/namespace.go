package storage

import (
	"context"

	"github.com/gosimple/slug"
)

type namespaced struct {
	prefix string
	next   KV
}

// Namespaced prefixes every key with the slug of tenant. An empty tenant
// returns next unchanged.
func Namespaced(next KV, tenant string) KV {
	prefix := slug.Make(tenant)
	if prefix == "" {
		return next
	}
	return &namespaced{prefix: prefix + "/", next: next}
}

func (n *namespaced) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	return n.next.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key string, value []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	return n.next.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	return n.next.Delete(ctx, n.prefix+key)
}

func (n *namespaced) Lock(ctx context.Context, key string) (func(), bool, error) {
	if err := validKey(key); err != nil {
		return nil, false, err
	}
	return Lock(ctx, n.next, n.prefix+key)
}
