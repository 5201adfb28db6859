package repository

import (
	"context"

	"github.com/places-service/internal/domain"
)

// PlaceQuery - фильтр поиска по индексу мест
type PlaceQuery struct {
	GeohashPrefix string
	Authors       []string
	Types         []string
	BBox          *domain.BoundingBox
	Limit         int
}

// PlaceRepository - индекс мест в postgres
type PlaceRepository interface {
	// Upsert сохраняет место, если оно новее сохранённого.
	// Возвращает false, если в индексе уже лежит более свежая версия.
	Upsert(ctx context.Context, place *domain.Place) (bool, error)

	// GetByAddress получает место по (pubkey, d)
	GetByAddress(ctx context.Context, pubkey, identifier string) (*domain.Place, error)

	// Search ищет места по фильтру
	Search(ctx context.Context, query PlaceQuery) ([]*domain.Place, error)

	// Delete удаляет место из индекса
	Delete(ctx context.Context, pubkey, identifier string) error

	// Count - количество мест в индексе
	Count(ctx context.Context) (int64, error)
}
