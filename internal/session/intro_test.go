package session

import (
	"context"
	"testing"

	"github.com/smallbiznis/smh/internal/config"
	"github.com/smallbiznis/smh/pkg/persist"
	"github.com/smallbiznis/smh/pkg/storage"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestIntroFlag_ProcessPolicy(t *testing.T) {
	ctx := context.Background()
	adapter := persist.NewAdapter(storage.NewMemory(), zap.NewNop(), nil)
	cfg := config.Config{IntroResetPolicy: config.IntroResetProcess}

	flag := NewIntroFlag(Params{Config: cfg, Adapter: adapter})
	assert.True(t, flag.ShouldShow(ctx))
	flag.MarkShown(ctx)
	assert.False(t, flag.ShouldShow(ctx))

	next := NewIntroFlag(Params{Config: cfg, Adapter: adapter})
	assert.True(t, next.ShouldShow(ctx))
	assert.False(t, adapter.Flag(ctx, IntroShownKey))
}

func TestIntroFlag_StoragePolicy(t *testing.T) {
	ctx := context.Background()
	adapter := persist.NewAdapter(storage.NewMemory(), zap.NewNop(), nil)
	cfg := config.Config{IntroResetPolicy: config.IntroResetStorage}

	flag := NewIntroFlag(Params{Config: cfg, Adapter: adapter})
	assert.Equal(t, config.IntroResetStorage, flag.Policy())
	assert.True(t, flag.ShouldShow(ctx))
	flag.MarkShown(ctx)

	next := NewIntroFlag(Params{Config: cfg, Adapter: adapter})
	assert.False(t, next.ShouldShow(ctx))

	next.Reset(ctx)
	assert.True(t, flag.ShouldShow(ctx))
}

func TestIntroFlag_StorageWithoutAdapter(t *testing.T) {
	flag := NewIntroFlag(Params{Config: config.Config{IntroResetPolicy: config.IntroResetStorage}})
	assert.Equal(t, config.IntroResetProcess, flag.Policy())
}
