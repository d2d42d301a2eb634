// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"trimly/config"

	"github.com/go-redis/redis/v8"
)

var (
	// AuthCacheClient is the dedicated client for token-hash caching.
	AuthCacheClient *redis.Client
	// OTPCacheClient is the dedicated client for one-time codes.
	OTPCacheClient *redis.Client
	// DraftCacheClient is the dedicated client for booking drafts.
	DraftCacheClient *redis.Client
)

func newRedisClient(db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (db %d): %v", db, err)
	}
	return client
}

// InitRedis initializes all dedicated Redis clients.
func InitRedis() {
	AuthCacheClient = newRedisClient(config.AppConfig.RedisAuthDB)
	OTPCacheClient = newRedisClient(config.AppConfig.RedisOTPDB)
	DraftCacheClient = newRedisClient(config.AppConfig.RedisDraftDB)
}

// AllRedisClients returns every initialized dedicated client, for health
// monitoring.
func AllRedisClients() []*redis.Client {
	return []*redis.Client{
		GetAuthCacheClient(),
		GetOTPCacheClient(),
		GetDraftCacheClient(),
	}
}

// GetAuthCacheClient returns the Redis client for token-hash caching.
func GetAuthCacheClient() *redis.Client {
	if AuthCacheClient == nil {
		AuthCacheClient = newRedisClient(config.AppConfig.RedisAuthDB)
	}
	return AuthCacheClient
}

// GetOTPCacheClient returns the Redis client for one-time codes.
func GetOTPCacheClient() *redis.Client {
	if OTPCacheClient == nil {
		OTPCacheClient = newRedisClient(config.AppConfig.RedisOTPDB)
	}
	return OTPCacheClient
}

// GetDraftCacheClient returns the Redis client for booking drafts.
func GetDraftCacheClient() *redis.Client {
	if DraftCacheClient == nil {
		DraftCacheClient = newRedisClient(config.AppConfig.RedisDraftDB)
	}
	return DraftCacheClient
}
