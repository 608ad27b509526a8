package ids

import "go.uber.org/fx"

var Module = fx.Module("ids",
	fx.Provide(NewSnowflake),
	fx.Provide(NewGenerator),
)
