package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/places-service/internal/domain"
	"github.com/places-service/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
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

	r.logger.Debug("Cache deleted", zap.String("key", key))
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

const (
	placeKeyPrefix   = "place:"
	profileKeyPrefix = "profile:"
)

// GetPlace получает место по координате "37515:<pubkey>:<d>"
func (r *cacheRepository) GetPlace(ctx context.Context, coordinate string) (*domain.Place, error) {
	data, err := r.Get(ctx, placeKeyPrefix+coordinate)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	var place domain.Place
	if err := json.Unmarshal(data, &place); err != nil {
		r.logger.Error("Failed to unmarshal place from cache", zap.String("coordinate", coordinate), zap.Error(err))
		return nil, fmt.Errorf("unmarshal place: %w", err)
	}

	return &place, nil
}

// SetPlace сохраняет место в кеше
func (r *cacheRepository) SetPlace(ctx context.Context, place *domain.Place, ttl time.Duration) error {
	data, err := json.Marshal(place)
	if err != nil {
		r.logger.Error("Failed to marshal place", zap.String("coordinate", place.Coordinate()), zap.Error(err))
		return fmt.Errorf("marshal place: %w", err)
	}

	return r.Set(ctx, placeKeyPrefix+place.Coordinate(), data, ttl)
}

// DeletePlace инвалидирует место
func (r *cacheRepository) DeletePlace(ctx context.Context, coordinate string) error {
	return r.Delete(ctx, placeKeyPrefix+coordinate)
}

// GetProfile получает профиль владельца из кеша
func (r *cacheRepository) GetProfile(ctx context.Context, pubkey string) (*domain.Profile, error) {
	data, err := r.Get(ctx, profileKeyPrefix+pubkey)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	var profile domain.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		r.logger.Error("Failed to unmarshal profile from cache", zap.String("pubkey", pubkey), zap.Error(err))
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}

	return &profile, nil
}

// SetProfile сохраняет профиль владельца в кеше
func (r *cacheRepository) SetProfile(ctx context.Context, profile *domain.Profile, ttl time.Duration) error {
	data, err := json.Marshal(profile)
	if err != nil {
		r.logger.Error("Failed to marshal profile", zap.String("pubkey", profile.PubKey), zap.Error(err))
		return fmt.Errorf("marshal profile: %w", err)
	}

	return r.Set(ctx, profileKeyPrefix+profile.PubKey, data, ttl)
}
