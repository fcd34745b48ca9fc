package handlers

import (
	"net/http"

	"library-route-service/internal/api/dto"
	"library-route-service/internal/domain"
	"library-route-service/internal/ports"
	"library-route-service/internal/services"
)

// LibraryHandler serves straight-line nearest-library lookups.
type LibraryHandler struct {
	Resolver        ports.RegionResolver
	Directory       ports.FacilityDirectory
	DefaultSpeedKmh float64
}

func (h *LibraryHandler) Nearest(w http.ResponseWriter, r *http.Request) {
	var req dto.NearestLibrariesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	speed := req.SpeedKmh
	if speed == 0 {
		speed = h.DefaultSpeedKmh
	}

	found, err := services.FindNearestLibraries(r.Context(), services.FindNearestLibrariesRequest{
		Origin:   domain.GeoPoint{Lat: *req.Lat, Lon: *req.Lng},
		SpeedKmh: speed,
		Limit:    req.Limit,
	}, h.Resolver, h.Directory)
	if err != nil {
		writeServiceError(w, r, "libraries.nearest", err)
		return
	}

	res := dto.NearestLibrariesResponse{
		Region:    dto.NewRegionResponse(found.Region),
		Libraries: make([]dto.LibraryResponse, 0, len(found.Libraries)),
	}
	for _, f := range found.Libraries {
		res.Libraries = append(res.Libraries, dto.NewLibraryResponse(f))
	}

	writeJSON(w, r, http.StatusOK, res)
}
