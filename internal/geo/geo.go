// Package geo implements the great-circle distance math behind the
// order-placement geofence.
package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const earthRadiusMeters = 6371008.8

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64
	Lon float64
}

// ParseLocation parses the "lat,lon" string supplied by ordering clients.
func ParseLocation(s string) (Point, error) {
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok {
		return Point{}, fmt.Errorf("location %q is not of the form lat,lon", s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid longitude: %w", err)
	}

	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Point{}, fmt.Errorf("coordinates %v,%v out of range", lat, lon)
	}

	return Point{Lat: lat, Lon: lon}, nil
}

// Distance returns the haversine great-circle distance between two points
// in meters.
func Distance(a, b Point) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(latA)*math.Cos(latB)*sinLon*sinLon

	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
