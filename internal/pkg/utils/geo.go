package utils

import "math"

// earthRadiusMeters is the Earth mean radius used by the haversine formula.
const earthRadiusMeters = 6371000.0

// MetersPerMile converts the web layer's miles into the meters the search
// boundary speaks.
const MetersPerMile = 1609.34

// HaversineDistance returns the great-circle distance in meters between two
// points given as (lon, lat) pairs in decimal degrees.
func HaversineDistance(lon1, lat1, lon2, lat2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLon := (lon2 - lon1) * math.Pi / 180.0

	lat1Rad := lat1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Asin(math.Min(1, math.Sqrt(a)))

	return earthRadiusMeters * c
}

// MilesToMeters converts a radius in miles to whole meters.
func MilesToMeters(miles float64) int {
	return int(miles * MetersPerMile)
}

// ValidateCoordinates reports whether lat/lon form a valid WGS84 pair.
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ValidateRadiusMeters reports whether the radius is positive and below max.
func ValidateRadiusMeters(radius, max int) bool {
	return radius > 0 && radius <= max
}
