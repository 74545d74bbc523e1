package haversine

import "math"

const earthRadiusMeters = 6371000.0

// Meters returns the great-circle distance in meters between two points
// given in decimal degrees -- the shortest distance over the earth's
// surface, ignoring terrain.
func Meters(latFrom, lngFrom, latTo, lngTo float64) float64 {
	dLat := (latTo - latFrom) * (math.Pi / 180)
	dLng := (lngTo - lngFrom) * (math.Pi / 180)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latFrom*(math.Pi/180))*math.Cos(latTo*(math.Pi/180))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}
