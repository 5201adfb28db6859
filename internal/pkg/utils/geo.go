package utils

import (
	"math"

	"github.com/mmcloughlin/geohash"
	"github.com/places-service/internal/domain"
)

const (
	earthRadiusKm = 6371.0
	kmPerDegree   = 111.32

	// DefaultGeohashPrecision - 8 символов, ячейка ~38x19 м
	DefaultGeohashPrecision = 8
	maxGeohashPrecision     = 12
)

// HaversineDistance вычисляет расстояние между двумя точками в километрах
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLon := (lon2 - lon1) * math.Pi / 180.0

	lat1Rad := lat1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ValidateRadius проверяет валидность радиуса (0.1 - 100 км)
func ValidateRadius(radiusKm float64) bool {
	return radiusKm >= 0.1 && radiusKm <= 100
}

// Geohash кодирует точку в geohash заданной точности
func Geohash(lat, lon float64, precision uint) string {
	if precision == 0 || precision > maxGeohashPrecision {
		precision = DefaultGeohashPrecision
	}
	return geohash.EncodeWithPrecision(lat, lon, precision)
}

// BoundingBoxForRadius - описанный прямоугольник вокруг окружности радиуса radiusKm.
// Прямоугольник обрезается по границам координат.
func BoundingBoxForRadius(lat, lon, radiusKm float64) domain.BoundingBox {
	dLat := radiusKm / kmPerDegree
	cos := math.Cos(lat * math.Pi / 180.0)
	dLon := 180.0
	if cos > 1e-6 {
		dLon = math.Min(radiusKm/(kmPerDegree*cos), 180.0)
	}

	return domain.BoundingBox{
		MinLat: math.Max(lat-dLat, -90),
		MaxLat: math.Min(lat+dLat, 90),
		MinLon: math.Max(lon-dLon, -180),
		MaxLon: math.Min(lon+dLon, 180),
	}
}

// PlaceLatLon возвращает широту и долготу места
func PlaceLatLon(p *domain.Place) (lat, lon float64, ok bool) {
	lng, lat, ok := p.Content.Geometry.LngLat()
	return lat, lng, ok
}
