package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/places-service/internal/domain"
	"github.com/places-service/internal/domain/repository"
	"github.com/places-service/internal/pkg/errors"
	"go.uber.org/zap"
)

const (
	DefaultPlaceLimit = 100
	MaxPlaceLimit     = 2000
)

type placeRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPlaceRepository(db *DB) repository.PlaceRepository {
	return &placeRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// placeRow - строка таблицы places
type placeRow struct {
	PubKey    string    `db:"pubkey"`
	DTag      string    `db:"d_tag"`
	EventID   string    `db:"event_id"`
	CreatedAt time.Time `db:"created_at"`
	Name      string    `db:"name"`
	Geohash   string    `db:"geohash"`
	PlaceType string    `db:"place_type"`
	Lat       float64   `db:"lat"`
	Lon       float64   `db:"lon"`
	Tags      []byte    `db:"tags"`
	Content   []byte    `db:"content"`
}

func (row *placeRow) toPlace() (*domain.Place, error) {
	var tags domain.Tags
	if err := json.Unmarshal(row.Tags, &tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}

	content, err := domain.DecodePlaceContent(row.Content)
	if err != nil {
		return nil, err
	}

	return &domain.Place{
		ID:        row.EventID,
		PubKey:    row.PubKey,
		CreatedAt: row.CreatedAt.UTC(),
		Kind:      domain.KindPlace,
		Tags:      tags,
		Content:   content,
	}, nil
}

const placeColumns = `pubkey, d_tag, event_id, created_at, name, geohash, place_type, lat, lon, tags, content`

func (r *placeRepository) Upsert(ctx context.Context, place *domain.Place) (bool, error) {
	lng, lat, ok := place.Content.Geometry.LngLat()
	if !ok {
		return false, errors.ErrInvalidCoordinates
	}

	tagsJSON, err := json.Marshal(place.Tags)
	if err != nil {
		return false, fmt.Errorf("marshal tags: %w", err)
	}
	contentJSON, err := json.Marshal(place.Content)
	if err != nil {
		return false, fmt.Errorf("marshal content: %w", err)
	}
	placeType, _ := place.Property(domain.PropertyType)

	// Замена только более новой версией (replaceable event)
	query := `
		INSERT INTO places (` + placeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (pubkey, d_tag) DO UPDATE SET
			event_id   = EXCLUDED.event_id,
			created_at = EXCLUDED.created_at,
			name       = EXCLUDED.name,
			geohash    = EXCLUDED.geohash,
			place_type = EXCLUDED.place_type,
			lat        = EXCLUDED.lat,
			lon        = EXCLUDED.lon,
			tags       = EXCLUDED.tags,
			content    = EXCLUDED.content,
			indexed_at = NOW()
		WHERE places.created_at < EXCLUDED.created_at
		RETURNING event_id
	`

	var eventID string
	err = r.db.QueryRowContext(ctx, query,
		place.PubKey, place.Identifier(), place.ID, place.CreatedAt.UTC(),
		place.Name(), place.Geohash(), placeType, lat, lng,
		string(tagsJSON), string(contentJSON),
	).Scan(&eventID)

	if err == sql.ErrNoRows {
		// В индексе уже есть версия не старше этой
		r.logger.Debug("Place is not newer than indexed version", zap.String("coordinate", place.Coordinate()))
		return false, nil
	}
	if err != nil {
		r.logger.Error("Failed to upsert place", zap.String("coordinate", place.Coordinate()), zap.Error(err))
		return false, errors.ErrDatabaseError.WithCause(err)
	}

	return true, nil
}

func (r *placeRepository) GetByAddress(ctx context.Context, pubkey, identifier string) (*domain.Place, error) {
	query := `SELECT ` + placeColumns + ` FROM places WHERE pubkey = $1 AND d_tag = $2`

	var row placeRow
	err := r.db.GetContext(ctx, &row, query, pubkey, identifier)
	if err == sql.ErrNoRows {
		return nil, errors.ErrPlaceNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get place",
			zap.String("pubkey", pubkey),
			zap.String("identifier", identifier),
			zap.Error(err))
		return nil, errors.ErrDatabaseError.WithCause(err)
	}

	place, err := row.toPlace()
	if err != nil {
		r.logger.Error("Failed to decode indexed place", zap.String("pubkey", pubkey), zap.Error(err))
		return nil, errors.ErrDatabaseError.WithCause(err)
	}
	return place, nil
}

func (r *placeRepository) Search(ctx context.Context, q repository.PlaceQuery) ([]*domain.Place, error) {
	query, args := buildSearchQuery(q)

	var rows []placeRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.Error("Failed to search places", zap.Error(err))
		return nil, errors.ErrDatabaseError.WithCause(err)
	}

	places := make([]*domain.Place, 0, len(rows))
	for i := range rows {
		place, err := rows[i].toPlace()
		if err != nil {
			r.logger.Warn("Skipping undecodable place",
				zap.String("pubkey", rows[i].PubKey),
				zap.String("identifier", rows[i].DTag),
				zap.Error(err))
			continue
		}
		places = append(places, place)
	}

	return places, nil
}

// buildSearchQuery собирает SELECT по фильтру
func buildSearchQuery(q repository.PlaceQuery) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.GeohashPrefix != "" {
		conditions = append(conditions, "geohash LIKE "+arg(escapeLike(q.GeohashPrefix)+"%"))
	}
	if len(q.Authors) > 0 {
		conditions = append(conditions, "pubkey = ANY("+arg(pq.Array(q.Authors))+")")
	}
	if len(q.Types) > 0 {
		conditions = append(conditions, "place_type = ANY("+arg(pq.Array(q.Types))+")")
	}
	if q.BBox != nil {
		conditions = append(conditions,
			"lat BETWEEN "+arg(q.BBox.MinLat)+" AND "+arg(q.BBox.MaxLat),
			"lon BETWEEN "+arg(q.BBox.MinLon)+" AND "+arg(q.BBox.MaxLon),
		)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPlaceLimit
	}
	if limit > MaxPlaceLimit {
		limit = MaxPlaceLimit
	}

	query := `SELECT ` + placeColumns + ` FROM places`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT " + arg(limit)

	return query, args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *placeRepository) Delete(ctx context.Context, pubkey, identifier string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM places WHERE pubkey = $1 AND d_tag = $2`, pubkey, identifier)
	if err != nil {
		r.logger.Error("Failed to delete place",
			zap.String("pubkey", pubkey),
			zap.String("identifier", identifier),
			zap.Error(err))
		return errors.ErrDatabaseError.WithCause(err)
	}
	return nil
}

func (r *placeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM places`); err != nil {
		r.logger.Error("Failed to count places", zap.Error(err))
		return 0, errors.ErrDatabaseError.WithCause(err)
	}
	return count, nil
}
