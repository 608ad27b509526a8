// Package session holds per-user UI flags that outlive a single command.
package session

import (
	"context"
	"sync"

	"github.com/smallbiznis/smh/internal/config"
	"github.com/smallbiznis/smh/pkg/persist"
	"go.uber.org/fx"
)

const IntroShownKey = "smh.session.introShown"

// IntroFlag tracks whether the intro has been shown. Under the process policy
// the flag lives in memory and resets on every run; under the storage policy
// it is persisted and only Reset clears it.
type IntroFlag struct {
	policy  string
	adapter *persist.Adapter

	mu    sync.Mutex
	shown bool
}

type Params struct {
	fx.In

	Config  config.Config
	Adapter *persist.Adapter
}

func NewIntroFlag(p Params) *IntroFlag {
	policy := p.Config.IntroResetPolicy
	if policy != config.IntroResetStorage || p.Adapter == nil {
		policy = config.IntroResetProcess
	}
	return &IntroFlag{policy: policy, adapter: p.Adapter}
}

func (f *IntroFlag) Policy() string {
	return f.policy
}

func (f *IntroFlag) ShouldShow(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.policy == config.IntroResetStorage {
		return !f.adapter.Flag(ctx, IntroShownKey)
	}
	return !f.shown
}

func (f *IntroFlag) MarkShown(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.shown = true
	if f.policy == config.IntroResetStorage {
		f.adapter.SetFlag(ctx, IntroShownKey)
	}
}

func (f *IntroFlag) Reset(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.shown = false
	if f.policy == config.IntroResetStorage {
		f.adapter.ClearFlag(ctx, IntroShownKey)
	}
}

var Module = fx.Module("session",
	fx.Provide(NewIntroFlag),
)
