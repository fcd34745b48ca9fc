package ports

import (
	"context"

	"library-route-service/internal/domain"
)

// Port: a boundary for listing libraries in a region.
type FacilityDirectory interface {
	ListFacilities(ctx context.Context, region domain.Region) ([]domain.Facility, error)
}
