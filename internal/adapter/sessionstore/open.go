package sessionstore

import (
	"context"
	"fmt"

	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/config"
)

// Open builds the Store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig, key string) (Store, error) {
	switch cfg.Driver {
	case config.StorageFile:
		return NewFile(cfg.FilePath, key), nil
	case config.StorageSQLite:
		s, err := OpenSQLite(ctx, cfg.SQLitePath, key)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StorageRedis:
		s, err := OpenRedis(ctx, cfg.RedisURL, key)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StoragePostgres:
		s, err := OpenPostgres(ctx, cfg.PostgresDSN, key)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StorageMemory:
		return NewMemory(key), nil
	}
	return nil, fmt.Errorf("sessionstore: unknown driver %q", cfg.Driver)
}
