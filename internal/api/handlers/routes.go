package handlers

import (
	"net/http"

	"library-route-service/internal/api/dto"
	"library-route-service/internal/services"
)

type RouteHandler struct {
	Planner         *services.WalkingRoutePlanner
	DefaultSpeedKmh float64
}

// Plan computes a walking route over the street network. Without a
// destination the nearest library is used.
func (h *RouteHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req dto.RouteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	speed := req.SpeedKmh
	if speed == 0 {
		speed = h.DefaultSpeedKmh
	}

	svcReq := services.PlanWalkingRouteRequest{
		Origin:    req.Origin.GeoPoint(),
		Algorithm: req.Algorithm,
		SpeedKmh:  speed,
	}
	if req.Destination != nil {
		dest := req.Destination.GeoPoint()
		svcReq.Destination = &dest
	}

	plan, err := h.Planner.Plan(r.Context(), svcReq)
	if err != nil {
		writeServiceError(w, r, "routes.plan", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewRouteResponse(plan))
}
