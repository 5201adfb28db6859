package testhelpers

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/places-service/internal/domain"
)

// TestOwner - ключ владельца тестовых мест
const TestOwner = "3bf0c63fcb93463407af97a5e5ee64fa883d107ef9e558472c4eb9aaaefa459d"

// LoadFixtures loads SQL fixture files into the database
func LoadFixtures(db *sql.DB, fixturesPath string, files []string) error {
	for _, file := range files {
		path := filepath.Join(fixturesPath, file)
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read fixture %s: %w", file, err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("load fixture %s: %w", file, err)
		}
		fmt.Printf("Loaded fixture: %s\n", file)
	}

	return nil
}

// NewPlace builds a place owned by TestOwner at (lat, lon)
func NewPlace(name, geohash, placeType string, lat, lon float64, createdAt time.Time) *domain.Place {
	tags := domain.Tags{{domain.TagIdentifier, name}}
	if geohash != "" {
		tags = append(tags, domain.Tag{domain.TagGeohash, geohash})
	}

	props := &domain.Properties{Name: name}
	if placeType != "" {
		props.Type = &placeType
	}

	return &domain.Place{
		ID:        fmt.Sprintf("ev-%s-%d", name, createdAt.Unix()),
		PubKey:    TestOwner,
		CreatedAt: createdAt.UTC(),
		Kind:      domain.KindPlace,
		Tags:      tags,
		Content: domain.PlaceContent{
			Type: domain.FeatureType,
			Geometry: &domain.Geometry{
				Type:        domain.GeometryPoint,
				Coordinates: []float64{lon, lat},
			},
			Properties: props,
		},
	}
}
