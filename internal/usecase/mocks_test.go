package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/places-service/internal/domain"
	"github.com/places-service/internal/domain/repository"
)

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) GetPlace(ctx context.Context, coordinate string) (*domain.Place, error) {
	args := m.Called(ctx, coordinate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Place), args.Error(1)
}

func (m *MockCacheRepository) SetPlace(ctx context.Context, place *domain.Place, ttl time.Duration) error {
	args := m.Called(ctx, place, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) DeletePlace(ctx context.Context, coordinate string) error {
	args := m.Called(ctx, coordinate)
	return args.Error(0)
}

func (m *MockCacheRepository) GetProfile(ctx context.Context, pubkey string) (*domain.Profile, error) {
	args := m.Called(ctx, pubkey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockCacheRepository) SetProfile(ctx context.Context, profile *domain.Profile, ttl time.Duration) error {
	args := m.Called(ctx, profile, ttl)
	return args.Error(0)
}

// MockPlaceRepository is a mock of PlaceRepository
type MockPlaceRepository struct {
	mock.Mock
}

func (m *MockPlaceRepository) Upsert(ctx context.Context, place *domain.Place) (bool, error) {
	args := m.Called(ctx, place)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlaceRepository) GetByAddress(ctx context.Context, pubkey, identifier string) (*domain.Place, error) {
	args := m.Called(ctx, pubkey, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Place), args.Error(1)
}

func (m *MockPlaceRepository) Search(ctx context.Context, query repository.PlaceQuery) ([]*domain.Place, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Place), args.Error(1)
}

func (m *MockPlaceRepository) Delete(ctx context.Context, pubkey, identifier string) error {
	args := m.Called(ctx, pubkey, identifier)
	return args.Error(0)
}

func (m *MockPlaceRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockPlaceSource is a mock of PlaceSource
type MockPlaceSource struct {
	mock.Mock
}

func (m *MockPlaceSource) QueryPlaces(ctx context.Context, filter domain.PlaceFilter) ([]domain.PlaceEvent, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PlaceEvent), args.Error(1)
}

func (m *MockPlaceSource) SubscribePlaces(ctx context.Context, since time.Time) (<-chan domain.PlaceEvent, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan domain.PlaceEvent), args.Error(1)
}

func (m *MockPlaceSource) QueryProfile(ctx context.Context, pubkey string) (*domain.Profile, error) {
	args := m.Called(ctx, pubkey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

// MockPlacePublisher is a mock of PlacePublisher
type MockPlacePublisher struct {
	mock.Mock
}

func (m *MockPlacePublisher) PublicKey() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockPlacePublisher) Publish(ctx context.Context, payload *domain.PlacePayload) (*domain.PublishResult, error) {
	args := m.Called(ctx, payload)
	if rf, ok := args.Get(0).(func(context.Context, *domain.PlacePayload) *domain.PublishResult); ok {
		return rf(ctx, payload), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublishResult), args.Error(1)
}

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, count int64) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) ConsumePending(ctx context.Context, stream, group, consumer string, count int64) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs []string) error {
	args := m.Called(ctx, stream, group, messageIDs)
	return args.Error(0)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	args := m.Called(ctx, stream, group, messageID)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}
