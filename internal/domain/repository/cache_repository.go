package repository

import (
	"context"
	"time"

	"github.com/places-service/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// Exists проверяет существование ключа
	Exists(ctx context.Context, key string) (bool, error)

	// GetPlace получает место по координате "37515:<pubkey>:<d>"
	GetPlace(ctx context.Context, coordinate string) (*domain.Place, error)

	// SetPlace сохраняет место в кеше
	SetPlace(ctx context.Context, place *domain.Place, ttl time.Duration) error

	// DeletePlace инвалидирует место
	DeletePlace(ctx context.Context, coordinate string) error

	// GetProfile получает профиль владельца
	GetProfile(ctx context.Context, pubkey string) (*domain.Profile, error)

	// SetProfile сохраняет профиль владельца
	SetProfile(ctx context.Context, profile *domain.Profile, ttl time.Duration) error
}
