package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stream names
const (
	StreamPlaceEvents    = "stream:place:events"
	StreamPlaceIndexed   = "stream:place:indexed"
	StreamPlacePublished = "stream:place:published"
)

// PlaceIndexedEvent - место сохранено в индекс
type PlaceIndexedEvent struct {
	Coordinate string    `json:"coordinate"`
	EventID    string    `json:"event_id"`
	PubKey     string    `json:"pubkey"`
	Name       string    `json:"name"`
	Geohash    string    `json:"geohash,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// PlacePublishedEvent - результат публикации места сервисом
type PlacePublishedEvent struct {
	RequestID   uuid.UUID `json:"request_id"`
	EventID     string    `json:"event_id"`
	Address     string    `json:"naddr"`
	PubKey      string    `json:"pubkey"`
	Name        string    `json:"name"`
	RenamedFrom string    `json:"renamed_from,omitempty"`
	Accepted    []string  `json:"accepted"`
	Failed      []string  `json:"failed,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// PublishResult - ответ релеев на публикацию
type PublishResult struct {
	Event    PlaceEvent        `json:"event"`
	Accepted []string          `json:"accepted"`
	Failed   map[string]string `json:"failed,omitempty"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID     string
	Stream string
	Data   map[string]interface{}
}
