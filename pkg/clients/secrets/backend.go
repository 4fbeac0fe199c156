package secrets

import (
	"context"
	"fmt"

	"notification-relay/api/pkg/config"
	"notification-relay/api/pkg/db"
)

// New builds the backend named by cfg.SecretsBackend. The returned close func
// releases any resources the backend holds and is always safe to call.
func New(ctx context.Context, cfg config.Config) (Client, func(), error) {
	noop := func() {}

	switch cfg.SecretsBackend {
	case config.BackendAWS:
		c, err := NewAWSClientFromConfig(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, noop, err
		}
		return c, noop, nil

	case config.BackendPostgres:
		dbCfg := db.DefaultConfig(cfg.DatabaseURL)
		dbCfg.EnsureSchema = cfg.DatabaseAutoMigrate
		pool, err := db.Connect(ctx, dbCfg)
		if err != nil {
			return nil, noop, err
		}
		c, err := NewPostgresClient(pool)
		if err != nil {
			pool.Close()
			return nil, noop, err
		}
		return c, pool.Close, nil

	case config.BackendEnv:
		return NewEnvClient(nil), noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown secrets backend: %s", cfg.SecretsBackend)
	}
}
