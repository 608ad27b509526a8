package observability

import (
	"github.com/smallbiznis/smh/internal/observability/logger"
	"github.com/smallbiznis/smh/internal/observability/metrics"
	"github.com/smallbiznis/smh/pkg/log/ctxlogger"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		LoadConfig,
		provideLoggerConfig,
		logger.New,
		metrics.DefaultStoreMetrics,
	),
	fx.Invoke(registerServiceName),
)

func provideLoggerConfig(cfg Config) logger.Config {
	return logger.Config{
		ServiceName:         cfg.ServiceName,
		Environment:         cfg.Environment,
		Version:             cfg.Version,
		Level:               cfg.LogLevel,
		Format:              cfg.LogFormat,
		IncludeCaller:       true,
		IncludeStackOnError: cfg.Debug(),
	}
}

func registerServiceName(cfg Config) {
	ctxlogger.SetServiceName(cfg.ServiceName)
}
