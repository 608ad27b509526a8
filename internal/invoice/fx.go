package invoice

import (
	"github.com/smallbiznis/smh/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.store",
	fx.Provide(service.NewService),
)
