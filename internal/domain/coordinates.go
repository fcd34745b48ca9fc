package domain

import (
	"fmt"
	"math"
)

// Immutable geographic point in WGS84 degrees.
type GeoPoint struct {
	Lat float64
	Lon float64
}

// Validate reports whether the point is finite and inside the valid
// latitude/longitude range.
func (p GeoPoint) Validate() error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0) {
		return fmt.Errorf("%w: lat=%v lon=%v is not finite", ErrInvalidCoordinate, p.Lat, p.Lon)
	}
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: lat=%v outside [-90, 90]", ErrInvalidCoordinate, p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: lon=%v outside [-180, 180]", ErrInvalidCoordinate, p.Lon)
	}
	return nil
}

// Return coordinates as [lon, lat] for external API compatibility.
func (p GeoPoint) CoordsToList() []float64 { return []float64{p.Lon, p.Lat} }

// Midpoint returns the arithmetic midpoint of two points. Good enough for the
// city-scale distances walking routes cover.
func Midpoint(a, b GeoPoint) GeoPoint {
	return GeoPoint{Lat: (a.Lat + b.Lat) / 2, Lon: (a.Lon + b.Lon) / 2}
}
