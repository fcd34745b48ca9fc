package graphsource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"library-route-service/internal/domain"
	"library-route-service/internal/platform/httpx"
	"library-route-service/internal/platform/obs"
	"library-route-service/internal/roadgraph"
)

const DefaultOverpassURL = "https://overpass-api.de/api/interpreter"

// OverpassProvider downloads the highways inside the bounding box of the
// requested circle and crops the result to the circle itself.
type OverpassProvider struct {
	http *httpx.Client
	url  string
}

func NewOverpassProvider(endpoint string, hc *httpx.Client) *OverpassProvider {
	if endpoint == "" {
		endpoint = DefaultOverpassURL
	}
	if hc == nil {
		hc = httpx.New(httpx.Options{Name: "overpass", RequestsPerMinute: 30, BreakerFailures: 3})
	}
	return &OverpassProvider{http: hc, url: endpoint}
}

// overpassQuery selects highway ways in the box plus their member nodes.
func overpassQuery(b orb.Bound) string {
	return fmt.Sprintf(
		"[out:xml][timeout:60];\n(way[\"highway\"](%f,%f,%f,%f););\n(._;>;);\nout body;",
		b.Min.Lat(), b.Min.Lon(), b.Max.Lat(), b.Max.Lon(),
	)
}

func (o *OverpassProvider) LoadGraph(ctx context.Context, center domain.GeoPoint, radiusMeters float64) (_ *roadgraph.Graph, err error) {
	defer obs.Time(ctx, "overpass.LoadGraph")(&err)

	if err := center.Validate(); err != nil {
		return nil, fmt.Errorf("overpass: center: %w", err)
	}
	if radiusMeters <= 0 {
		return nil, fmt.Errorf("overpass: %w: radius %v", domain.ErrInvalidDistance, radiusMeters)
	}

	bound := geo.NewBoundAroundPoint(orb.Point{center.Lon, center.Lat}, radiusMeters)
	form := url.Values{"data": {overpassQuery(bound)}}.Encode()

	resp, err := o.http.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, strings.NewReader(form))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "application/xml")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("overpass: execute request: %w", err)
	}
	defer resp.Body.Close()

	full, err := scanOSMXML(ctx, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("overpass: decode response: %w", err)
	}

	g, err := full.Within(center, radiusMeters)
	if err != nil {
		return nil, fmt.Errorf("overpass: %w", err)
	}
	if g.NodeCount() == 0 {
		return nil, fmt.Errorf("overpass: no walkable ways within %.0f m of %v,%v: %w",
			radiusMeters, center.Lat, center.Lon, domain.ErrNotFound)
	}
	return g, nil
}
