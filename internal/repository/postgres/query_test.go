package postgres

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/places-service/internal/domain"
	"github.com/places-service/internal/domain/repository"
)

func TestBuildSearchQuery(t *testing.T) {
	t.Run("no filters", func(t *testing.T) {
		query, args := buildSearchQuery(repository.PlaceQuery{})

		assert.Equal(t, `SELECT `+placeColumns+` FROM places ORDER BY created_at DESC LIMIT $1`, query)
		assert.Equal(t, []interface{}{DefaultPlaceLimit}, args)
	})

	t.Run("all filters", func(t *testing.T) {
		query, args := buildSearchQuery(repository.PlaceQuery{
			GeohashPrefix: "sp3_",
			Authors:       []string{"a"},
			Types:         []string{"cafe"},
			BBox:          &domain.BoundingBox{MinLat: 1, MinLon: 2, MaxLat: 3, MaxLon: 4},
			Limit:         10000,
		})

		assert.Contains(t, query, "geohash LIKE $1")
		assert.Contains(t, query, "pubkey = ANY($2)")
		assert.Contains(t, query, "place_type = ANY($3)")
		assert.Contains(t, query, "lat BETWEEN $4 AND $5")
		assert.Contains(t, query, "lon BETWEEN $6 AND $7")
		assert.Contains(t, query, "LIMIT $8")

		assert.Equal(t, `sp3\_%`, args[0])
		assert.Equal(t, pq.Array([]string{"a"}), args[1])
		assert.Equal(t, MaxPlaceLimit, args[7])
	})
}
