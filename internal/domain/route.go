package domain

// Distance and time estimate for a walked distance at a given speed.
// A pure derived value; it carries no reference to the path it came from.
type RouteInfo struct {
	DistanceMeters float64
	DistanceKm     float64
	TimeMinutes    float64
	TimeLabel      string
	SpeedKmh       float64
}
