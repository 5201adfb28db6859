package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeohash(t *testing.T) {
	// North Dakota Heritage Center
	assert.Equal(t, "cb266epj", Geohash(46.81915362955226, -100.77873491903246, 8))
	assert.Len(t, Geohash(46.8, -100.7, 0), DefaultGeohashPrecision)
	assert.Len(t, Geohash(46.8, -100.7, 5), 5)
}

func TestHaversineDistance(t *testing.T) {
	// Barcelona -> Madrid ~505 km
	d := HaversineDistance(41.3851, 2.1734, 40.4168, -3.7038)
	assert.InDelta(t, 505, d, 5)
	assert.Equal(t, 0.0, HaversineDistance(10, 10, 10, 10))
}

func TestBoundingBoxForRadius(t *testing.T) {
	box := BoundingBoxForRadius(41.3851, 2.1734, 1)

	assert.True(t, box.Contains(41.3851, 2.1734))
	assert.True(t, box.Contains(41.3900, 2.1800))
	assert.False(t, box.Contains(41.5, 2.1734))
	assert.InDelta(t, 1/kmPerDegree, box.MaxLat-41.3851, 1e-9)

	polar := BoundingBoxForRadius(89.99, 0, 50)
	assert.Equal(t, 90.0, polar.MaxLat)
	assert.Equal(t, -180.0, polar.MinLon)
}

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, ValidateCoordinates(46.8, -100.7))
	assert.False(t, ValidateCoordinates(91, 0))
	assert.False(t, ValidateCoordinates(0, 181))
	assert.True(t, ValidateRadius(0.1))
	assert.False(t, ValidateRadius(101))
}
