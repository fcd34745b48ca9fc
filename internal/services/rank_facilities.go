package services

import (
	"cmp"
	"fmt"
	"slices"

	"library-route-service/internal/domain"
	"library-route-service/internal/geo"
)

// RankFacilities scores every facility against origin by great-circle
// distance and walking time, nearest first.
//
// Facilities without usable coordinates are left out rather than failing the
// call. Equal distances keep their input order.
func RankFacilities(
	origin domain.GeoPoint,
	facilities []domain.Facility,
	speedKmh float64,
) ([]domain.RankedFacility, error) {
	if err := origin.Validate(); err != nil {
		return nil, fmt.Errorf("rank facilities: origin: %w", err)
	}
	if err := validateSpeed(speedKmh); err != nil {
		return nil, fmt.Errorf("rank facilities: %w", err)
	}

	ranked := make([]domain.RankedFacility, 0, len(facilities))
	for _, f := range facilities {
		loc, ok := f.Location()
		if !ok {
			continue
		}

		meters := geo.Distance(origin, loc)
		minutes := walkingMinutes(meters, speedKmh)
		ranked = append(ranked, domain.RankedFacility{
			Facility:           f,
			DistanceMeters:     meters,
			DistanceKm:         meters / 1000,
			WalkingTimeMinutes: minutes,
			WalkingTimeLabel:   FormatWalkingTime(minutes),
		})
	}

	slices.SortStableFunc(ranked, func(a, b domain.RankedFacility) int {
		return cmp.Compare(a.DistanceMeters, b.DistanceMeters)
	})

	return ranked, nil
}
