package persist

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/smh/internal/observability/metrics"
	"github.com/smallbiznis/smh/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type doc struct {
	Names []string `json:"names"`
}

func seedDoc() doc { return doc{Names: []string{"seed"}} }

type failingKV struct {
	storage.KV
	getErr error
	setErr error
}

func (f failingKV) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.KV.Get(ctx, key)
}

func (f failingKV) Set(ctx context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.KV.Set(ctx, key, value)
}

func newAdapter(kv storage.KV) *Adapter {
	return NewAdapter(kv, zap.NewNop(), metrics.NewStoreMetrics(prometheus.NewRegistry()))
}

func TestLoad_FallsBackToSeed(t *testing.T) {
	ctx := context.Background()
	cases := map[string]string{
		"corrupt":     `{"names":[`,
		"array":       `["a"]`,
		"null":        `null`,
		"empty":       ``,
		"wrong field": `{"names":"x"}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			kv := storage.NewMemory()
			require.NoError(t, kv.Set(ctx, "smh.appdata", []byte(payload)))
			got := Load(ctx, newAdapter(kv), "smh.appdata", ShapeObject, seedDoc)
			assert.Equal(t, seedDoc(), got)
		})
	}

	t.Run("missing", func(t *testing.T) {
		got := Load(ctx, newAdapter(storage.NewMemory()), "smh.appdata", ShapeObject, seedDoc)
		assert.Equal(t, seedDoc(), got)
	})

	t.Run("read error", func(t *testing.T) {
		kv := failingKV{KV: storage.NewMemory(), getErr: errors.New("disk gone")}
		got := Load(ctx, newAdapter(kv), "smh.appdata", ShapeObject, seedDoc)
		assert.Equal(t, seedDoc(), got)
	})
}

func TestLoad_ArrayShape(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	a := newAdapter(kv)
	seed := func() []string { return []string{"seed"} }

	require.NoError(t, kv.Set(ctx, "smh.invoices", []byte(`{"not":"array"}`)))
	assert.Equal(t, []string{"seed"}, Load(ctx, a, "smh.invoices", ShapeArray, seed))

	require.NoError(t, kv.Set(ctx, "smh.invoices", []byte(` ["x","y"]`)))
	assert.Equal(t, []string{"x", "y"}, Load(ctx, a, "smh.invoices", ShapeArray, seed))
}

func TestSave_RoundTrip(t *testing.T) {
	ctx := context.Background()
	a := newAdapter(storage.NewMemory())

	a.Save(ctx, "smh.appdata", doc{Names: []string{"a", "b"}})
	got := Load(ctx, a, "smh.appdata", ShapeObject, seedDoc)
	assert.Equal(t, doc{Names: []string{"a", "b"}}, got)
}

func TestSave_SwallowsWriteErrors(t *testing.T) {
	ctx := context.Background()
	kv := failingKV{KV: storage.NewMemory(), setErr: errors.New("quota exceeded")}
	a := newAdapter(kv)

	assert.NotPanics(t, func() {
		a.Save(ctx, "smh.appdata", doc{})
	})
	assert.Equal(t, seedDoc(), Load(ctx, a, "smh.appdata", ShapeObject, seedDoc))
}

func TestFlags(t *testing.T) {
	ctx := context.Background()
	a := newAdapter(storage.NewMemory())

	assert.False(t, a.Flag(ctx, "smh.dateCoerced.2026-02-05"))
	a.SetFlag(ctx, "smh.dateCoerced.2026-02-05")
	assert.True(t, a.Flag(ctx, "smh.dateCoerced.2026-02-05"))
	a.ClearFlag(ctx, "smh.dateCoerced.2026-02-05")
	assert.False(t, a.Flag(ctx, "smh.dateCoerced.2026-02-05"))
}

type lockingKV struct {
	storage.KV
	err      error
	released int
}

func (l *lockingKV) Lock(ctx context.Context, key string) (func(), bool, error) {
	if l.err != nil {
		return nil, false, l.err
	}
	return func() { l.released++ }, true, nil
}

func TestLock(t *testing.T) {
	ctx := context.Background()

	unlock, held := newAdapter(storage.NewMemory()).Lock(ctx, "smh.appdata")
	assert.False(t, held)
	unlock()

	kv := &lockingKV{KV: storage.NewMemory()}
	unlock, held = newAdapter(kv).Lock(ctx, "smh.appdata")
	assert.True(t, held)
	unlock()
	assert.Equal(t, 1, kv.released)

	busy := &lockingKV{KV: storage.NewMemory(), err: storage.ErrLocked}
	unlock, held = newAdapter(busy).Lock(ctx, "smh.appdata")
	assert.False(t, held)
	assert.NotPanics(t, unlock)
}
