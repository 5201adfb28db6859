package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/places-service/internal/domain"
)

// PlaceView - место для отображения на карте
type PlaceView struct {
	Address     string             `json:"naddr"`
	Coordinate  string             `json:"coordinate"`
	EventID     string             `json:"event_id"`
	PubKey      string             `json:"pubkey"`
	CreatedAt   time.Time          `json:"created_at"`
	Name        string             `json:"name"`
	Geohash     string             `json:"geohash,omitempty"`
	Lat         float64            `json:"lat"`
	Lon         float64            `json:"lon"`
	Properties  *domain.Properties `json:"properties"`
	Color       string             `json:"color"`
	TypeLabel   string             `json:"type_label,omitempty"`
	StatusLabel string             `json:"status_label,omitempty"`
	OpenNow     *bool              `json:"open_now,omitempty"`
	Distance    *float64           `json:"distance,omitempty"` // meters
}

// PlaceListResponse - ответ со списком мест
type PlaceListResponse struct {
	Places []PlaceView `json:"places"`
	Total  int         `json:"total"`
}

// DraftResponse - черновик для формы редактирования
type DraftResponse struct {
	Draft    *domain.DraftPlace `json:"draft"`
	Fields   domain.PlaceFields `json:"fields"`
	Address  string             `json:"naddr"`
	Editable bool               `json:"editable"`
	Warnings []string           `json:"warnings,omitempty"`
}

// PreparePayloadResponse - неподписанный payload и его content в виде строки
type PreparePayloadResponse struct {
	Payload *domain.PlacePayload `json:"payload"`
	Content string               `json:"content"`
	Address string               `json:"naddr"`
}

// PublishPlaceResponse - результат публикации
type PublishPlaceResponse struct {
	RequestID   uuid.UUID         `json:"request_id"`
	EventID     string            `json:"event_id"`
	Address     string            `json:"naddr"`
	Place       *PlaceView        `json:"place,omitempty"`
	RenamedFrom string            `json:"renamed_from,omitempty"`
	Accepted    []string          `json:"accepted"`
	Failed      map[string]string `json:"failed,omitempty"`
	Indexed     bool              `json:"indexed"`
}

// ProfileResponse - профиль владельца места
type ProfileResponse struct {
	Profile  *domain.Profile `json:"profile"`
	BestName string          `json:"best_name"`
	Color    string          `json:"color"`
}

// PlaceTypesResponse - каталог типов и статусов
type PlaceTypesResponse struct {
	Groups   []domain.PlaceTypeGroup `json:"groups"`
	Statuses []string                `json:"statuses"`
}

// HealthResponse - состояние сервиса
type HealthResponse struct {
	Status     string `json:"status"`
	Database   string `json:"database"`
	Cache      string `json:"cache"`
	PlaceCount int64  `json:"place_count"`
}

// IngestResult - результат индексации одного события
type IngestResult struct {
	Coordinate string                    `json:"coordinate"`
	EventID    string                    `json:"event_id"`
	Stored     bool                      `json:"stored"`
	Indexed    *domain.PlaceIndexedEvent `json:"indexed,omitempty"`
}

// IngestBatchResult - результат индексации пачки событий.
// Failed - индексы событий, которые не удалось записать из-за ошибки хранилища.
type IngestBatchResult struct {
	Stored    int                        `json:"stored"`
	Unchanged int                        `json:"unchanged"`
	Skipped   int                        `json:"skipped"`
	Failed    []int                      `json:"failed,omitempty"`
	Indexed   []domain.PlaceIndexedEvent `json:"indexed,omitempty"`
}
