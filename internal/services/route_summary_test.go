package services

import (
	"errors"
	"math"
	"testing"

	"library-route-service/internal/domain"
)

func TestSummarizeRouteCrossesHourBoundary(t *testing.T) {
	info, err := SummarizeRoute(5000, 5.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if info.DistanceKm != 5.0 {
		t.Fatalf("distance_km = %v, want 5.0", info.DistanceKm)
	}
	if info.TimeMinutes != 60.0 {
		t.Fatalf("time_minutes = %v, want 60.0", info.TimeMinutes)
	}
	if info.TimeLabel != "1시간 0분" {
		t.Fatalf("label = %q, want %q", info.TimeLabel, "1시간 0분")
	}
	if info.SpeedKmh != 5.0 || info.DistanceMeters != 5000 {
		t.Fatalf("info = %+v", info)
	}
}

func TestSummarizeRouteDefaultSpeed(t *testing.T) {
	info, err := SummarizeRoute(1500, DefaultWalkingSpeedKmh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(info.TimeMinutes-20) > 1e-9 {
		t.Fatalf("time_minutes = %v, want 20", info.TimeMinutes)
	}
	if info.TimeLabel != "20분" {
		t.Fatalf("label = %q, want 20분", info.TimeLabel)
	}
}

func TestSummarizeRouteRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name   string
		meters float64
		speed  float64
		want   error
	}{
		{"negative distance", -1, 4.5, domain.ErrInvalidDistance},
		{"nan distance", math.NaN(), 4.5, domain.ErrInvalidDistance},
		{"infinite distance", math.Inf(1), 4.5, domain.ErrInvalidDistance},
		{"zero speed", 100, 0, domain.ErrInvalidSpeed},
		{"negative speed", 100, -3, domain.ErrInvalidSpeed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := SummarizeRoute(tc.meters, tc.speed)
			if !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("error %v should be an InvalidInput", err)
			}
		})
	}
}

func TestFormatWalkingTime(t *testing.T) {
	cases := map[float64]string{
		0:      "0분",
		0.9:    "0분",
		59.99:  "59분",
		60:     "1시간 0분",
		61.5:   "1시간 1분",
		119.99: "1시간 59분",
		185:    "3시간 5분",
	}
	for in, want := range cases {
		if got := FormatWalkingTime(in); got != want {
			t.Errorf("FormatWalkingTime(%v) = %q, want %q", in, got, want)
		}
	}
}
