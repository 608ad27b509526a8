package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

// Compare-and-delete so a writer whose lock expired cannot drop a lock that
// another writer now holds.
const unlockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

type RedisOption func(*redisKV)

// WithWriterLock enables Lock. A lock expires after ttl; callers that cannot
// take it within wait get ErrLocked.
func WithWriterLock(ttl, wait time.Duration) RedisOption {
	return func(r *redisKV) {
		r.lockTTL = ttl
		r.lockWait = wait
	}
}

type redisKV struct {
	client   redis.Cmdable
	unlock   *redis.Script
	lockTTL  time.Duration
	lockWait time.Duration
}

func NewRedis(client redis.Cmdable, opts ...RedisOption) KV {
	r := &redisKV{client: client, unlock: redis.NewScript(unlockScript)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *redisKV) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	value, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (r *redisKV) Set(ctx context.Context, key string, value []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r *redisKV) Delete(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	return r.client.Del(ctx, key).Err()
}

// Lock takes the writer lock for key, polling until lockWait elapses. held is
// false when the backend was built without WithWriterLock.
func (r *redisKV) Lock(ctx context.Context, key string) (func(), bool, error) {
	if err := validKey(key); err != nil {
		return nil, false, err
	}
	if r.lockTTL <= 0 {
		return func() {}, false, nil
	}

	lockKey := "lock:" + key
	token := uuid.NewString()
	deadline := time.Now().Add(r.lockWait)
	for {
		ok, err := r.client.SetNX(ctx, lockKey, token, r.lockTTL).Result()
		if err != nil {
			return nil, false, err
		}
		if ok {
			break
		}
		if !time.Now().Before(deadline) {
			return nil, false, ErrLocked
		}
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case <-time.After(25 * time.Millisecond):
		}
	}

	release := func() {
		_ = r.unlock.Run(context.WithoutCancel(ctx), r.client, []string{lockKey}, token).Err()
	}
	return release, true, nil
}
