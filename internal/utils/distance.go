package utils

import (
	"math"

	"freightlink/internal/models"
)

const earthRadiusKM = 6371.0

// DistanceMeters returns the great-circle distance between two points in
// meters. Pure function; both matching and route scanning go through it.
func DistanceMeters(a, b models.GeoPoint) float64 {
	return DistanceKM(a, b) * 1000
}

// DistanceKM returns the great-circle distance between two points in
// kilometers.
func DistanceKM(a, b models.GeoPoint) float64 {
	return haversineDistance(a.Lat, a.Lng, b.Lat, b.Lng)
}

func haversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	// Convert to radians
	lat1Rad := lat1 * math.Pi / 180
	lon1Rad := lon1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lon2Rad := lon2 * math.Pi / 180

	// Differences
	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	// Haversine formula
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKM * c
}

// IsNearby reports whether two points fall within the system-wide 50 km
// nearby cutoff.
func IsNearby(a, b models.GeoPoint) bool {
	return DistanceKM(a, b) <= NearbyRadiusKM
}
