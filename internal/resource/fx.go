package resource

import (
	"github.com/smallbiznis/smh/internal/resource/service"
	"go.uber.org/fx"
)

var Module = fx.Module("resource.store",
	fx.Provide(service.New),
)
