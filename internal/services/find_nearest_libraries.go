package services

import (
	"context"
	"fmt"

	"library-route-service/internal/domain"
	"library-route-service/internal/platform/obs"
	"library-route-service/internal/ports"
)

const (
	DefaultLibraryLimit = 5
	MaxLibraryLimit     = 50
)

type FindNearestLibrariesRequest struct {
	Origin   domain.GeoPoint
	SpeedKmh float64
	// Limit caps the result; zero means DefaultLibraryLimit.
	Limit int
}

type NearestLibraries struct {
	Region    domain.Region
	Libraries []domain.RankedFacility
}

// FindNearestLibraries resolves the region around the origin, lists the
// libraries in it and returns the closest ones by straight-line distance.
func FindNearestLibraries(
	ctx context.Context,
	req FindNearestLibrariesRequest,
	resolver ports.RegionResolver,
	directory ports.FacilityDirectory,
) (_ NearestLibraries, err error) {
	defer obs.Time(ctx, "services.FindNearestLibraries")(&err)

	if err := req.Origin.Validate(); err != nil {
		return NearestLibraries{}, fmt.Errorf("find nearest libraries: origin: %w", err)
	}

	speed := req.SpeedKmh
	if speed == 0 {
		speed = DefaultWalkingSpeedKmh
	}
	if err := validateSpeed(speed); err != nil {
		return NearestLibraries{}, fmt.Errorf("find nearest libraries: %w", err)
	}

	limit := req.Limit
	switch {
	case limit == 0:
		limit = DefaultLibraryLimit
	case limit < 0 || limit > MaxLibraryLimit:
		return NearestLibraries{}, fmt.Errorf(
			"find nearest libraries: %w: limit %d outside [1, %d]",
			domain.ErrInvalidInput, limit, MaxLibraryLimit,
		)
	}

	region, err := resolver.ResolveRegion(ctx, req.Origin)
	if err != nil {
		return NearestLibraries{}, fmt.Errorf("find nearest libraries: resolve region: %w", err)
	}
	_, code := region.DirectoryFilter()
	if code == "" {
		return NearestLibraries{}, fmt.Errorf("find nearest libraries: %q: %w", region.Sido, domain.ErrRegionUnsupported)
	}

	facilities, err := directory.ListFacilities(ctx, region)
	if err != nil {
		return NearestLibraries{}, fmt.Errorf("find nearest libraries: list facilities in %s: %w", code, err)
	}

	ranked, err := RankFacilities(req.Origin, facilities, speed)
	if err != nil {
		return NearestLibraries{}, fmt.Errorf("find nearest libraries: %w", err)
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return NearestLibraries{Region: region, Libraries: ranked}, nil
}
