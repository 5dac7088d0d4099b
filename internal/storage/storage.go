// Package storage persists the region state of end-devices in Redis.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/brocaar/chirpstack-region/internal/config"
)

var (
	redisClient redis.UniversalClient
	keyPrefix   string
	stateTTL    time.Duration
)

// Setup configures the storage backend.
func Setup(c config.Config) error {
	log.Info("storage: setting up Redis client")

	opt, err := redis.ParseURL(c.Redis.URL)
	if err != nil {
		return errors.Wrap(err, "parse redis url error")
	}

	keyPrefix = c.Redis.KeyPrefix
	stateTTL = c.Redis.StateTTL
	redisClient = redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, "ping redis error")
	}

	return nil
}

// RedisClient returns the Redis client.
func RedisClient() redis.UniversalClient {
	return redisClient
}

// GetRedisKey returns the Redis key given a template and parameters.
func GetRedisKey(tmpl string, params ...interface{}) string {
	return keyPrefix + fmt.Sprintf(tmpl, params...)
}
