package storage

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/brocaar/chirpstack-region/internal/logging"
	"github.com/brocaar/chirpstack-region/internal/region"
)

const regionStateKeyTempl = "region:state:%s"

// SaveRegionState saves the region state snapshot of the given device.
// A zero state TTL stores the snapshot without expiration.
func SaveRegionState(ctx context.Context, deviceID string, snap region.Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "json marshal error")
	}

	if err := redisClient.Set(ctx, GetRedisKey(regionStateKeyTempl, deviceID), b, stateTTL).Err(); err != nil {
		return errors.Wrap(err, "set region-state error")
	}

	logging.WithContext(ctx).WithFields(log.Fields{
		"device_id": deviceID,
		"profile":   snap.Profile,
	}).Info("storage: region-state saved")

	return nil
}

// GetRegionState returns the region state snapshot of the given device.
func GetRegionState(ctx context.Context, deviceID string) (region.Snapshot, error) {
	var snap region.Snapshot

	b, err := redisClient.Get(ctx, GetRedisKey(regionStateKeyTempl, deviceID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return snap, ErrDoesNotExist
		}
		return snap, errors.Wrap(err, "get region-state error")
	}

	if err := json.Unmarshal(b, &snap); err != nil {
		return snap, errors.Wrap(err, "json unmarshal error")
	}

	return snap, nil
}

// DeleteRegionState deletes the region state snapshot of the given device.
func DeleteRegionState(ctx context.Context, deviceID string) error {
	n, err := redisClient.Del(ctx, GetRedisKey(regionStateKeyTempl, deviceID)).Result()
	if err != nil {
		return errors.Wrap(err, "delete region-state error")
	}
	if n == 0 {
		return ErrDoesNotExist
	}

	logging.WithContext(ctx).WithFields(log.Fields{
		"device_id": deviceID,
	}).Info("storage: region-state deleted")

	return nil
}
