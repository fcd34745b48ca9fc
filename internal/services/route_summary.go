package services

import (
	"fmt"
	"math"

	"library-route-service/internal/domain"
)

// DefaultWalkingSpeedKmh is the average adult walking pace used when the
// caller does not supply one.
const DefaultWalkingSpeedKmh = 4.5

// SummarizeRoute converts a walked distance into a distance/time record.
func SummarizeRoute(totalCostMeters, speedKmh float64) (domain.RouteInfo, error) {
	if totalCostMeters < 0 || math.IsNaN(totalCostMeters) || math.IsInf(totalCostMeters, 0) {
		return domain.RouteInfo{}, fmt.Errorf("summarize route: %w: %v m", domain.ErrInvalidDistance, totalCostMeters)
	}
	if err := validateSpeed(speedKmh); err != nil {
		return domain.RouteInfo{}, fmt.Errorf("summarize route: %w", err)
	}

	minutes := walkingMinutes(totalCostMeters, speedKmh)
	return domain.RouteInfo{
		DistanceMeters: totalCostMeters,
		DistanceKm:     totalCostMeters / 1000,
		TimeMinutes:    minutes,
		TimeLabel:      FormatWalkingTime(minutes),
		SpeedKmh:       speedKmh,
	}, nil
}

// FormatWalkingTime renders minutes as "N분" below an hour and "H시간 M분"
// from 60 minutes up. Both parts are truncated, never rounded.
func FormatWalkingTime(minutes float64) string {
	if minutes < 60 {
		return fmt.Sprintf("%d분", int(minutes))
	}
	hours := int(minutes / 60)
	mins := int(math.Mod(minutes, 60))
	return fmt.Sprintf("%d시간 %d분", hours, mins)
}

func walkingMinutes(meters, speedKmh float64) float64 {
	return meters / 1000 / speedKmh * 60
}

func validateSpeed(speedKmh float64) error {
	if speedKmh <= 0 || math.IsNaN(speedKmh) || math.IsInf(speedKmh, 0) {
		return fmt.Errorf("%w: %v km/h", domain.ErrInvalidSpeed, speedKmh)
	}
	return nil
}
