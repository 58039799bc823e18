package server

import (
	"context"
	"fmt"

	"github.com/matzehuels/brandqr/pkg/cache"
	"github.com/matzehuels/brandqr/pkg/share"
)

// OpenCache opens the cache backend named by cfg.Cache.
func OpenCache(ctx context.Context, cfg Config) (cache.Cache, error) {
	switch cfg.Cache {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheRedis:
		return cache.NewRedisCache(ctx, cfg.RedisURL)
	}

	dir := cfg.CacheDir
	if dir == "" {
		var err error
		if dir, err = cache.DefaultDir(); err != nil {
			return nil, err
		}
	}
	return cache.NewFileCache(dir)
}

// OpenStore opens the share store named by cfg.ShareStore. The cache
// backend is only used by the "cache" store.
func OpenStore(ctx context.Context, cfg Config, c cache.Cache) (share.Store, error) {
	switch cfg.ShareStore {
	case StoreMemory:
		return share.NewMemoryStore(), nil
	case StoreFile:
		return share.NewFileStore(cfg.ShareDir)
	case StoreCache:
		return share.NewCacheStore(c, nil), nil
	case StoreMongo:
		return share.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDB)
	}
	return nil, fmt.Errorf("unknown share store %q", cfg.ShareStore)
}
