package dto

import "library-route-service/internal/domain"

type NearestLibrariesRequest struct {
	Lat      *float64 `json:"lat" validate:"required,latitude"`
	Lng      *float64 `json:"lng" validate:"required,longitude"`
	SpeedKmh float64  `json:"speed_kmh" validate:"omitempty,gt=0,lte=30"`
	Limit    int      `json:"limit" validate:"omitempty,min=1,max=50"`
}

type RegionResponse struct {
	Sido    string `json:"sido"`
	Sigungu string `json:"sigungu"`
	Dong    string `json:"dong"`
	Code    string `json:"code"`
	DtlCode string `json:"dtl_code,omitempty"`
}

type LibraryResponse struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Address            string            `json:"address"`
	Latitude           string            `json:"latitude"`
	Longitude          string            `json:"longitude"`
	DistanceMeters     float64           `json:"distance_m"`
	DistanceKm         float64           `json:"distance_km"`
	WalkingTimeMinutes float64           `json:"walking_time_min"`
	WalkingTimeLabel   string            `json:"walking_time_label"`
	Metadata           map[string]string `json:"metadata,omitempty"`
}

type NearestLibrariesResponse struct {
	Region    RegionResponse    `json:"region"`
	Libraries []LibraryResponse `json:"libraries"`
}

func NewRegionResponse(r domain.Region) RegionResponse {
	return RegionResponse{Sido: r.Sido, Sigungu: r.Sigungu, Dong: r.Dong, Code: r.Code, DtlCode: r.DtlCode}
}

func NewLibraryResponse(f domain.RankedFacility) LibraryResponse {
	return LibraryResponse{
		ID:                 f.Facility.ID,
		Name:               f.Facility.Name,
		Address:            f.Facility.Address,
		Latitude:           f.Facility.Latitude,
		Longitude:          f.Facility.Longitude,
		DistanceMeters:     f.DistanceMeters,
		DistanceKm:         f.DistanceKm,
		WalkingTimeMinutes: f.WalkingTimeMinutes,
		WalkingTimeLabel:   f.WalkingTimeLabel,
		Metadata:           f.Facility.Metadata,
	}
}
