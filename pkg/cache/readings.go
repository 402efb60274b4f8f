package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"casakit.xyz/smarthome-service/pkg/models"
)

// ReadingCache keeps the latest reading per (device, sensor type) in
// Redis. A miss is not an error; the store remains authoritative.
type ReadingCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewReadingCache(redisClient *redis.Client) *ReadingCache {
	return &ReadingCache{redis: redisClient, ttl: 24 * time.Hour}
}

func readingKey(deviceID, sensorType string) string {
	return fmt.Sprintf("latest_reading:%s:%s", deviceID, sensorType)
}

func (rc *ReadingCache) SetLatest(ctx context.Context, reading *models.SensorReading) error {
	data, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("failed to marshal reading: %w", err)
	}

	key := readingKey(reading.DeviceID, reading.SensorType)
	if err := rc.redis.Set(ctx, key, data, rc.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set reading in Redis: %w", err)
	}
	return nil
}

func (rc *ReadingCache) GetLatest(ctx context.Context, deviceID, sensorType string) (*models.SensorReading, error) {
	data, err := rc.redis.Get(ctx, readingKey(deviceID, sensorType)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reading from Redis: %w", err)
	}

	var reading models.SensorReading
	if err := json.Unmarshal([]byte(data), &reading); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reading: %w", err)
	}
	return &reading, nil
}

func (rc *ReadingCache) Invalidate(ctx context.Context, deviceID, sensorType string) error {
	return rc.redis.Del(ctx, readingKey(deviceID, sensorType)).Err()
}
