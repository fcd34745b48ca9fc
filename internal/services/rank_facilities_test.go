package services

import (
	"errors"
	"testing"

	"library-route-service/internal/domain"
)

func TestRankFacilitiesZeroDistanceFirst(t *testing.T) {
	origin := domain.GeoPoint{Lat: 37.50, Lon: 127.00}
	facilities := []domain.Facility{
		{ID: "far", Name: "Far Branch", Latitude: "37.60", Longitude: "127.10"},
		{ID: "here", Name: "Here Branch", Latitude: "37.50", Longitude: "127.00"},
	}

	ranked, err := RankFacilities(origin, facilities, DefaultWalkingSpeedKmh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("got %d ranked facilities, want 2", len(ranked))
	}

	first := ranked[0]
	if first.Facility.ID != "here" {
		t.Fatalf("first = %q, want here", first.Facility.ID)
	}
	if first.DistanceMeters != 0 || first.WalkingTimeMinutes != 0 || first.WalkingTimeLabel != "0분" {
		t.Fatalf("first = %+v, want zero distance and time", first)
	}

	second := ranked[1]
	if second.DistanceMeters < 13000 || second.DistanceMeters > 15000 {
		t.Fatalf("second distance = %v, want about 14 km", second.DistanceMeters)
	}
	if second.DistanceKm != second.DistanceMeters/1000 {
		t.Fatalf("distance_km %v inconsistent with distance_m %v", second.DistanceKm, second.DistanceMeters)
	}
	wantMinutes := second.DistanceMeters / 1000 / DefaultWalkingSpeedKmh * 60
	if second.WalkingTimeMinutes != wantMinutes {
		t.Fatalf("walking minutes = %v, want %v", second.WalkingTimeMinutes, wantMinutes)
	}
	// 14.19 km at 4.5 km/h is 189.2 minutes.
	if second.WalkingTimeLabel != "3시간 9분" {
		t.Fatalf("label = %q, want 3시간 9분", second.WalkingTimeLabel)
	}
}

func TestRankFacilitiesSkipsUnusableCoordinates(t *testing.T) {
	origin := domain.GeoPoint{Lat: 37.3253, Lon: 126.8178}
	facilities := []domain.Facility{
		{ID: "a", Latitude: "37.3300", Longitude: "126.8200"},
		{ID: "missing", Latitude: "", Longitude: "126.8200"},
		{ID: "garbage", Latitude: "north", Longitude: "east"},
		{ID: "b", Latitude: "37.3260", Longitude: "126.8180"},
		{ID: "out-of-range", Latitude: "137.3", Longitude: "126.8"},
		{ID: "c", Latitude: "37.4000", Longitude: "126.9000"},
	}

	ranked, err := RankFacilities(origin, facilities, DefaultWalkingSpeedKmh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranked) != 3 {
		t.Fatalf("got %d ranked facilities, want the 3 with valid coordinates", len(ranked))
	}

	for i := 1; i < len(ranked); i++ {
		if ranked[i].DistanceMeters < ranked[i-1].DistanceMeters {
			t.Fatalf("not sorted at %d: %v < %v", i, ranked[i].DistanceMeters, ranked[i-1].DistanceMeters)
		}
	}
	if ranked[0].Facility.ID != "b" || ranked[2].Facility.ID != "c" {
		t.Fatalf("order = %s,%s,%s; want b,a,c", ranked[0].Facility.ID, ranked[1].Facility.ID, ranked[2].Facility.ID)
	}
}

func TestRankFacilitiesStableTies(t *testing.T) {
	origin := domain.GeoPoint{Lat: 37.5, Lon: 127}
	facilities := []domain.Facility{
		{ID: "1", Latitude: "37.51", Longitude: "127"},
		{ID: "2", Latitude: "37.5", Longitude: "127"},
		{ID: "3", Latitude: "37.51", Longitude: "127"},
		{ID: "4", Latitude: "37.5", Longitude: "127"},
	}

	ranked, err := RankFacilities(origin, facilities, 4.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := ""
	for _, r := range ranked {
		got += r.Facility.ID
	}
	if got != "2413" {
		t.Fatalf("order = %s, want 2413", got)
	}
}

func TestRankFacilitiesRejectsInvalidInput(t *testing.T) {
	origin := domain.GeoPoint{Lat: 37.5, Lon: 127}
	if _, err := RankFacilities(origin, nil, 0); !errors.Is(err, domain.ErrInvalidSpeed) {
		t.Fatalf("zero speed: error = %v, want ErrInvalidSpeed", err)
	}
	if _, err := RankFacilities(domain.GeoPoint{Lat: 95, Lon: 0}, nil, 4.5); !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Fatalf("bad origin: error = %v, want ErrInvalidCoordinate", err)
	}

	ranked, err := RankFacilities(origin, nil, 4.5)
	if err != nil || len(ranked) != 0 {
		t.Fatalf("empty input: got %v, %v; want empty list", ranked, err)
	}
}
