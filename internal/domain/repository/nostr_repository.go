package repository

import (
	"context"
	"time"

	"github.com/places-service/internal/domain"
)

// PlaceSource - чтение мест и профилей с релеев
type PlaceSource interface {
	// QueryPlaces получает места по фильтру со всех релеев.
	// Дубликаты по (pubkey, d) схлопываются до самой свежей версии.
	QueryPlaces(ctx context.Context, filter domain.PlaceFilter) ([]domain.PlaceEvent, error)

	// SubscribePlaces подписывается на новые места начиная с since.
	// Канал закрывается, когда подписка завершилась или ctx отменён.
	SubscribePlaces(ctx context.Context, since time.Time) (<-chan domain.PlaceEvent, error)

	// QueryProfile получает профиль (kind 0) владельца
	QueryProfile(ctx context.Context, pubkey string) (*domain.Profile, error)
}

// PlacePublisher - подпись и публикация мест на релеи
type PlacePublisher interface {
	// PublicKey - ключ, которым подписываются публикуемые места
	PublicKey() string

	// Publish подписывает payload и рассылает на релеи
	Publish(ctx context.Context, payload *domain.PlacePayload) (*domain.PublishResult, error)
}
