package appdata

import (
	"github.com/smallbiznis/smh/internal/appdata/service"
	"go.uber.org/fx"
)

var Module = fx.Module("appdata.store",
	fx.Provide(service.New),
)
