package domain

import (
	"strconv"
	"strings"
)

// Represents a facility (a public library branch) as supplied by a directory.
// Coordinates are kept as the raw strings the directory returned; they are only
// interpreted when the facility is ranked.
type Facility struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Address   string            `json:"address"`
	Latitude  string            `json:"latitude"`
	Longitude string            `json:"longitude"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Location parses the raw coordinates. ok is false when either value is
// missing, non-numeric or out of range.
func (f Facility) Location() (GeoPoint, bool) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(f.Latitude), 64)
	if err != nil {
		return GeoPoint{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(f.Longitude), 64)
	if err != nil {
		return GeoPoint{}, false
	}

	p := GeoPoint{Lat: lat, Lon: lon}
	if p.Validate() != nil {
		return GeoPoint{}, false
	}
	return p, true
}

// A facility scored against an origin. Produced fresh by every ranking call.
type RankedFacility struct {
	Facility           Facility
	DistanceMeters     float64
	DistanceKm         float64
	WalkingTimeMinutes float64
	WalkingTimeLabel   string
}
