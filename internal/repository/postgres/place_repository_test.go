package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/places-service/internal/domain"
	"github.com/places-service/internal/domain/repository"
	"github.com/places-service/internal/pkg/errors"
	"github.com/places-service/internal/repository/postgres/testhelpers"
)

// PlaceRepositorySuite tests the place index with real database
type PlaceRepositorySuite struct {
	suite.Suite
	testDB *testhelpers.TestDB
	repo   repository.PlaceRepository
	ctx    context.Context
	base   time.Time
}

// SetupSuite runs once before all tests
func (s *PlaceRepositorySuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())

	// Apply migrations (tables are created with IF NOT EXISTS)
	err := testhelpers.ApplyMigrations(s.testDB.DB.DB, "../../../migrations")
	s.Require().NoError(err, "Failed to apply migrations")

	s.repo = testhelpers.NewPlaceRepositoryForTest(s.testDB.DB, s.testDB.Logger)
	s.base = time.Unix(1700000000, 0).UTC()
}

// TearDownSuite runs once after all tests
func (s *PlaceRepositorySuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

// SetupTest runs before each test
func (s *PlaceRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.testDB.Cleanup(s.ctx))
}

func (s *PlaceRepositorySuite) seed(places ...*domain.Place) {
	for _, p := range places {
		stored, err := s.repo.Upsert(s.ctx, p)
		s.Require().NoError(err)
		s.Require().True(stored)
	}
}

// ============================================================================
// Test Upsert
// ============================================================================

func (s *PlaceRepositorySuite) TestUpsert_NewerReplacesOlder() {
	old := testhelpers.NewPlace("Cafe", "sp3e9", "cafe", 41.38, 2.17, s.base)
	s.seed(old)

	newer := testhelpers.NewPlace("Cafe", "sp3e9", "bar", 41.39, 2.18, s.base.Add(time.Hour))
	stored, err := s.repo.Upsert(s.ctx, newer)
	s.NoError(err)
	s.True(stored)

	got, err := s.repo.GetByAddress(s.ctx, testhelpers.TestOwner, "Cafe")
	s.Require().NoError(err)
	s.Equal(newer.ID, got.ID)
	s.True(newer.CreatedAt.Equal(got.CreatedAt))
	placeType, _ := got.Property(domain.PropertyType)
	s.Equal("bar", placeType)
}

func (s *PlaceRepositorySuite) TestUpsert_OlderIsIgnored() {
	current := testhelpers.NewPlace("Cafe", "sp3e9", "cafe", 41.38, 2.17, s.base)
	s.seed(current)

	for _, createdAt := range []time.Time{s.base.Add(-time.Hour), s.base} {
		stale := testhelpers.NewPlace("Cafe", "sp3e9", "bar", 41.38, 2.17, createdAt)
		stale.ID = "stale"

		stored, err := s.repo.Upsert(s.ctx, stale)
		s.NoError(err)
		s.False(stored)
	}

	got, err := s.repo.GetByAddress(s.ctx, testhelpers.TestOwner, "Cafe")
	s.Require().NoError(err)
	s.Equal(current.ID, got.ID)
}

func (s *PlaceRepositorySuite) TestUpsert_KeepsTagsAndContent() {
	place := testhelpers.NewPlace("Museum", "cb266epj", "museum", 46.8192, -100.7787, s.base)
	hours := "Mo-Fr 08:00-17:00"
	place.Content.Properties.Hours = &hours
	place.Tags = append(place.Tags, domain.Tag{domain.TagAlt, "This event represents a place."})
	s.seed(place)

	got, err := s.repo.GetByAddress(s.ctx, testhelpers.TestOwner, "Museum")
	s.Require().NoError(err)
	s.Equal(place.Tags, got.Tags)
	s.Equal(place.Content.Geometry.Coordinates, got.Content.Geometry.Coordinates)
	value, ok := got.Property(domain.PropertyHours)
	s.True(ok)
	s.Equal(hours, value)
}

// ============================================================================
// Test GetByAddress
// ============================================================================

func (s *PlaceRepositorySuite) TestGetByAddress_NotFound() {
	place, err := s.repo.GetByAddress(s.ctx, testhelpers.TestOwner, "missing")
	s.Nil(place)
	s.ErrorIs(err, errors.ErrPlaceNotFound)
}

// ============================================================================
// Test Search
// ============================================================================

func (s *PlaceRepositorySuite) TestSearch_Filters() {
	s.seed(
		testhelpers.NewPlace("Cafe", "sp3e9", "cafe", 41.3851, 2.1734, s.base),
		testhelpers.NewPlace("Bar", "sp3e3", "bar", 41.3870, 2.1700, s.base.Add(time.Minute)),
		testhelpers.NewPlace("Museum", "cb266epj", "museum", 46.8192, -100.7787, s.base.Add(2*time.Minute)),
	)

	s.Run("geohash prefix", func() {
		places, err := s.repo.Search(s.ctx, repository.PlaceQuery{GeohashPrefix: "sp3e"})
		s.NoError(err)
		s.Len(places, 2)
		// Newest first
		s.Equal("Bar", places[0].Name())
	})

	s.Run("types", func() {
		places, err := s.repo.Search(s.ctx, repository.PlaceQuery{Types: []string{"museum", "cafe"}})
		s.NoError(err)
		s.Len(places, 2)
	})

	s.Run("authors", func() {
		places, err := s.repo.Search(s.ctx, repository.PlaceQuery{Authors: []string{"someone-else"}})
		s.NoError(err)
		s.Empty(places)
	})

	s.Run("bounding box", func() {
		places, err := s.repo.Search(s.ctx, repository.PlaceQuery{
			BBox: &domain.BoundingBox{MinLat: 46, MinLon: -101, MaxLat: 47, MaxLon: -100},
		})
		s.NoError(err)
		s.Require().Len(places, 1)
		s.Equal("Museum", places[0].Name())
	})

	s.Run("limit", func() {
		places, err := s.repo.Search(s.ctx, repository.PlaceQuery{Limit: 1})
		s.NoError(err)
		s.Len(places, 1)
	})
}

// ============================================================================
// Test Delete / Count
// ============================================================================

func (s *PlaceRepositorySuite) TestDeleteAndCount() {
	s.seed(
		testhelpers.NewPlace("Cafe", "sp3e9", "cafe", 41.38, 2.17, s.base),
		testhelpers.NewPlace("Bar", "sp3e3", "bar", 41.38, 2.17, s.base),
	)

	count, err := s.repo.Count(s.ctx)
	s.NoError(err)
	s.Equal(int64(2), count)

	s.NoError(s.repo.Delete(s.ctx, testhelpers.TestOwner, "Cafe"))

	count, err = s.repo.Count(s.ctx)
	s.NoError(err)
	s.Equal(int64(1), count)
}

// TestPlaceRepositorySuite runs the test suite
func TestPlaceRepositorySuite(t *testing.T) {
	suite.Run(t, new(PlaceRepositorySuite))
}
