package graphsource

import (
	"strings"

	"github.com/paulmach/osm"
)

// excludedHighways are highway values never walkable. Values with the
// "motor" prefix (motorway, motorway_link, motor) are excluded separately.
var excludedHighways = map[string]struct{}{
	"abandoned":    {},
	"bus_guideway": {},
	"construction": {},
	"cycleway":     {},
	"no":           {},
	"planned":      {},
	"platform":     {},
	"proposed":     {},
	"raceway":      {},
	"razed":        {},
}

// IsWalkable reports whether a way belongs to the pedestrian network.
func IsWalkable(tags osm.Tags) bool {
	highway := tags.Find("highway")
	if highway == "" {
		return false
	}
	if _, ok := excludedHighways[highway]; ok || strings.HasPrefix(highway, "motor") {
		return false
	}
	if tags.Find("area") == "yes" {
		return false
	}
	if tags.Find("foot") == "no" {
		return false
	}
	if tags.Find("service") == "private" || tags.Find("access") == "private" {
		return false
	}
	return true
}
