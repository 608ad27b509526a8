package storage

import (
	"context"
	"fmt"

	"github.com/golang/snappy"
)

type compressed struct {
	next KV
}

// Compressed snappy-encodes values before handing them to next.
func Compressed(next KV) KV {
	return &compressed{next: next}
}

func (c *compressed) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := c.next.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	value, err := snappy.Decode(nil, raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return value, nil
}

func (c *compressed) Set(ctx context.Context, key string, value []byte) error {
	return c.next.Set(ctx, key, snappy.Encode(nil, value))
}

func (c *compressed) Delete(ctx context.Context, key string) error {
	return c.next.Delete(ctx, key)
}

func (c *compressed) Lock(ctx context.Context, key string) (func(), bool, error) {
	return Lock(ctx, c.next, key)
}
