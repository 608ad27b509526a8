package persist

import "go.uber.org/fx"

var Module = fx.Module("persist",
	fx.Provide(NewAdapter),
)
