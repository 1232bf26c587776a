package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tasmeem-studio/tasmeem-api/logger"
	"github.com/tasmeem-studio/tasmeem-api/models"
)

const (
	activePackagesKey = "packages:active"
	packageCacheTTL   = time.Minute
)

// PackageCache keeps the active package list in Redis for a short TTL.
// Packages are read on every order creation, so a brief cache takes the
// hot read off the database. A nil client disables caching entirely.
type PackageCache struct {
	client *redis.Client
}

var packageCacheInstance *PackageCache

// InitPackageCache connects to Redis and installs the package cache.
// An empty address leaves caching disabled.
func InitPackageCache(addr string) *PackageCache {
	var client *redis.Client
	if addr != "" {
		client = redis.NewClient(&redis.Options{Addr: addr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log := logger.Get()
			log.Warn().Err(err).Msg("redis unreachable, package cache disabled")
			client = nil
		}
	}
	packageCacheInstance = &PackageCache{client: client}
	return packageCacheInstance
}

// GetPackageCache returns the installed package cache instance
func GetPackageCache() *PackageCache {
	if packageCacheInstance == nil {
		packageCacheInstance = &PackageCache{}
	}
	return packageCacheInstance
}

// SetPackageCache sets the package cache instance (primarily for testing)
func SetPackageCache(c *PackageCache) {
	packageCacheInstance = c
}

// GetActive returns the cached active package list, or nil on a miss.
// Cache errors are treated as misses.
func (c *PackageCache) GetActive(ctx context.Context) []models.Package {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := c.client.Get(ctx, activePackagesKey).Bytes()
	if err != nil {
		return nil
	}
	var packages []models.Package
	if err := json.Unmarshal(raw, &packages); err != nil {
		return nil
	}
	return packages
}

// SetActive stores the active package list with a short TTL.
func (c *PackageCache) SetActive(ctx context.Context, packages []models.Package) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(packages)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, activePackagesKey, raw, packageCacheTTL).Err(); err != nil {
		log := logger.Get()
		log.Warn().Err(err).Msg("failed to cache package list")
	}
}

// Invalidate drops the cached list after an admin mutation.
func (c *PackageCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, activePackagesKey).Err(); err != nil {
		log := logger.Get()
		log.Warn().Err(err).Msg("failed to invalidate package cache")
	}
}
