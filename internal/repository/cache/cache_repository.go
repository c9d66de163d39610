package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/prospect-discovery/internal/domain"
	"github.com/prospect-discovery/internal/domain/repository"
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	return nil
}

func (r *cacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	val, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		r.logger.Error("Failed to check cache existence", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("cache exists error: %w", err)
	}

	return val > 0, nil
}

// GetCoordinates returns cached geocoding for a normalized address.
func (r *cacheRepository) GetCoordinates(ctx context.Context, normalizedAddress string) (*domain.Coordinate, error) {
	data, err := r.Get(ctx, geocodeKey(normalizedAddress))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	var coord domain.Coordinate
	if err := json.Unmarshal(data, &coord); err != nil {
		r.logger.Error("Failed to unmarshal cached coordinates", zap.Error(err))
		return nil, fmt.Errorf("unmarshal coordinates: %w", err)
	}
	return &coord, nil
}

// SetCoordinates caches geocoding for a normalized address.
func (r *cacheRepository) SetCoordinates(ctx context.Context, normalizedAddress string, coord domain.Coordinate, ttl time.Duration) error {
	data, err := json.Marshal(coord)
	if err != nil {
		return fmt.Errorf("marshal coordinates: %w", err)
	}
	return r.Set(ctx, geocodeKey(normalizedAddress), data, ttl)
}

// GetSearchResults returns the cached result of a discovery job.
func (r *cacheRepository) GetSearchResults(ctx context.Context, jobKey string) (*domain.DiscoveryResult, error) {
	data, err := r.Get(ctx, searchKey(jobKey))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	var result domain.DiscoveryResult
	if err := json.Unmarshal(data, &result); err != nil {
		r.logger.Error("Failed to unmarshal cached search results", zap.Error(err))
		return nil, fmt.Errorf("unmarshal search results: %w", err)
	}
	return &result, nil
}

// SetSearchResults caches the result of a discovery job.
func (r *cacheRepository) SetSearchResults(ctx context.Context, jobKey string, result *domain.DiscoveryResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal search results: %w", err)
	}
	return r.Set(ctx, searchKey(jobKey), data, ttl)
}

func geocodeKey(normalizedAddress string) string {
	return "geocode:" + normalizedAddress
}

func searchKey(jobKey string) string {
	return "search:results:" + jobKey
}
