package ports

import (
	"context"

	"library-route-service/internal/domain"
	"library-route-service/internal/roadgraph"
)

// Contract for acquiring the pedestrian network around a point.
type GraphProvider interface {
	// Return the walkable graph covering at least the circle of radiusMeters
	// around center.
	LoadGraph(ctx context.Context, center domain.GeoPoint, radiusMeters float64) (*roadgraph.Graph, error)
}
