package storage

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/smh/internal/config"
	"github.com/smallbiznis/smh/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("storage",
	fx.Provide(New),
)

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.Config
	Log       *zap.Logger
}

// New builds the KV selected by STORAGE_DRIVER, wrapped with compression and
// the tenant namespace when configured.
func New(p Params) (KV, error) {
	kv, err := open(p)
	if err != nil {
		return nil, err
	}
	if p.Config.StorageCompress {
		kv = Compressed(kv)
	}
	kv = Namespaced(kv, p.Config.StorageTenant)

	p.Log.Info("storage ready",
		zap.String("driver", p.Config.StorageDriver),
		zap.String("tenant", p.Config.StorageTenant),
		zap.Bool("compressed", p.Config.StorageCompress),
	)
	return kv, nil
}

func open(p Params) (KV, error) {
	cfg := p.Config
	switch cfg.StorageDriver {
	case config.StorageMemory:
		return NewMemory(), nil
	case config.StorageFile:
		return NewFile(cfg.StorageDir)
	case config.StorageSQLite, config.StoragePostgres, config.StorageMySQL:
		conn, err := db.Open(db.FromConfig(cfg), p.Log)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", cfg.StorageDriver, err)
		}
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error {
				sqlDB, err := conn.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		})
		return NewGorm(conn)
	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return client.Close()
			},
		})
		return NewRedis(client, WithWriterLock(5*time.Second, 2*time.Second)), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}
