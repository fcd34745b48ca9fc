package ports

import (
	"context"

	"library-route-service/internal/domain"
)

// Contract for reverse-geocoding a coordinate into an administrative region.
type RegionResolver interface {
	// Return the region containing p. Region.Code is empty when the region
	// has no directory code.
	ResolveRegion(ctx context.Context, p domain.GeoPoint) (domain.Region, error)
}
