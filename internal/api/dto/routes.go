package dto

import (
	"library-route-service/internal/domain"
	"library-route-service/internal/services"
)

type PointRequest struct {
	Lat *float64 `json:"lat" validate:"required,latitude"`
	Lng *float64 `json:"lng" validate:"required,longitude"`
}

func (p *PointRequest) GeoPoint() domain.GeoPoint {
	return domain.GeoPoint{Lat: *p.Lat, Lon: *p.Lng}
}

type RouteRequest struct {
	Origin      *PointRequest `json:"origin" validate:"required"`
	Destination *PointRequest `json:"destination" validate:"omitempty"`
	Algorithm   string        `json:"algorithm" validate:"omitempty,oneof=dijkstra astar both"`
	SpeedKmh    float64       `json:"speed_kmh" validate:"omitempty,gt=0,lte=30"`
}

type PointResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type RouteInfoResponse struct {
	DistanceMeters float64 `json:"distance_m"`
	DistanceKm     float64 `json:"distance_km"`
	TimeMinutes    float64 `json:"time_min"`
	TimeLabel      string  `json:"time_label"`
	SpeedKmh       float64 `json:"speed_kmh"`
}

type GraphResponse struct {
	Nodes        int     `json:"nodes"`
	Edges        int     `json:"edges"`
	RadiusMeters float64 `json:"radius_m"`
}

type RunResponse struct {
	Algorithm    string             `json:"algorithm"`
	Outcome      string             `json:"outcome"`
	ElapsedMs    float64            `json:"elapsed_ms"`
	NodesVisited int                `json:"nodes_visited"`
	Route        *RouteInfoResponse `json:"route,omitempty"`
	// Path holds [lon, lat] pairs from origin to destination.
	Path [][]float64 `json:"path,omitempty"`
}

type RouteResponse struct {
	Origin             PointResponse    `json:"origin"`
	Destination        PointResponse    `json:"destination"`
	Library            *LibraryResponse `json:"library,omitempty"`
	StraightLineMeters float64          `json:"straight_line_m"`
	Graph              GraphResponse    `json:"graph"`
	Runs               []RunResponse    `json:"runs"`
}

func NewRouteResponse(p services.WalkingRoutePlan) RouteResponse {
	res := RouteResponse{
		Origin:             PointResponse{Lat: p.Origin.Lat, Lng: p.Origin.Lon},
		Destination:        PointResponse{Lat: p.Destination.Lat, Lng: p.Destination.Lon},
		StraightLineMeters: p.StraightLineMeters,
		Graph: GraphResponse{
			Nodes:        p.GraphNodes,
			Edges:        p.GraphEdges,
			RadiusMeters: p.RadiusMeters,
		},
		Runs: make([]RunResponse, 0, len(p.Runs)),
	}
	if p.Library != nil {
		lib := NewLibraryResponse(*p.Library)
		res.Library = &lib
	}

	for _, run := range p.Runs {
		rr := RunResponse{
			Algorithm:    string(run.Algorithm),
			Outcome:      run.Outcome.String(),
			ElapsedMs:    float64(run.Elapsed.Microseconds()) / 1000,
			NodesVisited: run.NodesVisited,
		}
		if run.Route != nil {
			rr.Route = &RouteInfoResponse{
				DistanceMeters: run.Route.DistanceMeters,
				DistanceKm:     run.Route.DistanceKm,
				TimeMinutes:    run.Route.TimeMinutes,
				TimeLabel:      run.Route.TimeLabel,
				SpeedKmh:       run.Route.SpeedKmh,
			}
		}
		if len(run.Path) > 0 {
			rr.Path = make([][]float64, 0, len(run.Path))
			for _, pt := range run.Path {
				rr.Path = append(rr.Path, pt.CoordsToList())
			}
		}
		res.Runs = append(res.Runs, rr)
	}
	return res
}
