// Package persist loads and saves store snapshots as JSON documents.
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/smallbiznis/smh/internal/observability/metrics"
	"github.com/smallbiznis/smh/pkg/log/ctxlogger"
	"github.com/smallbiznis/smh/pkg/storage"
	"go.uber.org/zap"
)

// Shape is the top-level JSON kind a key must hold.
type Shape int

const (
	ShapeObject Shape = iota
	ShapeArray
)

// Adapter reads and writes snapshots. Loads never fail and saves never
// surface errors; both are logged and counted instead.
type Adapter struct {
	kv      storage.KV
	log     *zap.Logger
	metrics *metrics.StoreMetrics
}

func NewAdapter(kv storage.KV, log *zap.Logger, m *metrics.StoreMetrics) *Adapter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Adapter{kv: kv, log: log.Named("persist"), metrics: m}
}

func (a *Adapter) KV() storage.KV {
	return a.kv
}

// Load decodes the value at key into a T, or returns seed() when the key is
// missing, unreadable, unparseable or holds the wrong shape.
func Load[T any](ctx context.Context, a *Adapter, key string, shape Shape, seed func() T) T {
	log := ctxlogger.WithContext(ctx, a.log).With(zap.String("key", key))

	raw, err := a.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Debug("no snapshot, using seed")
			a.metrics.IncFallback(key, metrics.FallbackReasonMissing)
		} else {
			log.Warn("snapshot read failed, using seed", zap.Error(err))
			a.metrics.IncFallback(key, metrics.FallbackReasonReadError)
		}
		return seed()
	}

	if !hasShape(raw, shape) {
		log.Warn("snapshot has unexpected shape, using seed")
		a.metrics.IncFallback(key, metrics.FallbackReasonShape)
		return seed()
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		log.Warn("snapshot parse failed, using seed", zap.Error(err))
		a.metrics.IncFallback(key, metrics.FallbackReasonParse)
		return seed()
	}
	return value
}

// Save marshals value and writes it to key. Failures are swallowed.
func (a *Adapter) Save(ctx context.Context, key string, value any) {
	log := ctxlogger.WithContext(ctx, a.log).With(zap.String("key", key))

	raw, err := json.Marshal(value)
	if err != nil {
		log.Error("snapshot encode failed", zap.Error(err))
		a.metrics.IncPersistFailure(key)
		return
	}
	if err := a.kv.Set(ctx, key, raw); err != nil {
		log.Warn("snapshot write failed", zap.Error(err))
		a.metrics.IncPersistFailure(key)
	}
}

// Lock takes the backend's writer lock for key. held reports whether a lock
// was taken, in which case the caller should reload key before mutating. A
// lock failure is logged and counted and the caller carries on unlocked.
func (a *Adapter) Lock(ctx context.Context, key string) (unlock func(), held bool) {
	unlock, held, err := storage.Lock(ctx, a.kv, key)
	if err != nil {
		ctxlogger.WithContext(ctx, a.log).Warn("writer lock failed", zap.String("key", key), zap.Error(err))
		a.metrics.IncPersistFailure(key)
		return func() {}, false
	}
	return unlock, held
}

// Flag reports whether key holds a value.
func (a *Adapter) Flag(ctx context.Context, key string) bool {
	_, err := a.kv.Get(ctx, key)
	return err == nil
}

// SetFlag marks key as present. Failures are swallowed like Save.
func (a *Adapter) SetFlag(ctx context.Context, key string) {
	a.Save(ctx, key, true)
}

// ClearFlag removes key.
func (a *Adapter) ClearFlag(ctx context.Context, key string) {
	if err := a.kv.Delete(ctx, key); err != nil {
		ctxlogger.WithContext(ctx, a.log).Warn("flag clear failed", zap.String("key", key), zap.Error(err))
	}
}

func hasShape(raw []byte, shape Shape) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	switch shape {
	case ShapeObject:
		return trimmed[0] == '{'
	case ShapeArray:
		return trimmed[0] == '['
	default:
		return false
	}
}
