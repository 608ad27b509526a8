package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock abstracts the wall clock so date-dependent behavior can be tested.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func New() Clock {
	return SystemClock{}
}

var Module = fx.Module("clock",
	fx.Provide(New),
)
