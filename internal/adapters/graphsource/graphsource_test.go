package graphsource

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/osm"

	"library-route-service/internal/domain"
	"library-route-service/internal/pathsearch"
	"library-route-service/internal/platform/httpx"
	"library-route-service/internal/roadgraph"
)

func TestIsWalkable(t *testing.T) {
	tests := []struct {
		tags osm.Tags
		want bool
	}{
		{osm.Tags{{Key: "highway", Value: "footway"}}, true},
		{osm.Tags{{Key: "highway", Value: "residential"}}, true},
		{osm.Tags{{Key: "highway", Value: "pedestrian"}, {Key: "area", Value: "no"}}, true},
		{osm.Tags{{Key: "highway", Value: "service"}, {Key: "service", Value: "driveway"}}, true},
		{osm.Tags{{Key: "building", Value: "yes"}}, false},
		{osm.Tags{{Key: "highway", Value: "motorway"}}, false},
		{osm.Tags{{Key: "highway", Value: "motorway_link"}}, false},
		{osm.Tags{{Key: "highway", Value: "cycleway"}}, false},
		{osm.Tags{{Key: "highway", Value: "construction"}}, false},
		{osm.Tags{{Key: "highway", Value: "pedestrian"}, {Key: "area", Value: "yes"}}, false},
		{osm.Tags{{Key: "highway", Value: "primary"}, {Key: "foot", Value: "no"}}, false},
		{osm.Tags{{Key: "highway", Value: "service"}, {Key: "service", Value: "private"}}, false},
		{osm.Tags{{Key: "highway", Value: "track"}, {Key: "access", Value: "private"}}, false},
	}
	for _, tc := range tests {
		if got := IsWalkable(tc.tags); got != tc.want {
			t.Errorf("IsWalkable(%v) = %v, want %v", tc.tags, got, tc.want)
		}
	}
}

func loadFixtureGraph(t *testing.T) *roadgraph.Graph {
	t.Helper()
	f, err := os.Open("testdata/walk.osm")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	g, err := scanOSMXML(context.Background(), f)
	if err != nil {
		t.Fatalf("scanOSMXML: %v", err)
	}
	return g
}

func TestScanOSMXMLBuildsWalkGraph(t *testing.T) {
	g := loadFixtureGraph(t)

	// Way 100 gives 1-2-3, way 101 gives 3-4 and stops at the missing node
	// 99, leaving 5 unlinked. The motorway, private service road and
	// building are dropped.
	if g.NodeCount() != 5 || g.EdgeCount() != 3 {
		t.Fatalf("graph = %d nodes %d edges, want 5 and 3", g.NodeCount(), g.EdgeCount())
	}
	if _, err := g.Location(6); err == nil {
		t.Fatal("node 6 only appears on excluded ways")
	}

	edges, err := g.Neighbors(1)
	if err != nil || len(edges) != 1 || edges[0].To != 2 {
		t.Fatalf("edges of 1 = %+v, %v", edges, err)
	}
	// 0.0005 degrees of latitude is about 55.6 m.
	if edges[0].Weight < 55 || edges[0].Weight > 56 {
		t.Fatalf("edge 1-2 = %v m, want about 55.6", edges[0].Weight)
	}

	res, err := pathsearch.Search(context.Background(), g, 1, 4, pathsearch.AStar)
	if err != nil || res.Outcome != pathsearch.Found {
		t.Fatalf("search = %+v, %v", res, err)
	}
	res, err = pathsearch.Search(context.Background(), g, 1, 5, pathsearch.Dijkstra)
	if err != nil || res.Outcome != pathsearch.Unreachable {
		t.Fatalf("search to 5 = %+v, %v; want unreachable", res, err)
	}
}

func TestOverpassProvider(t *testing.T) {
	fixture, err := os.ReadFile("testdata/walk.osm")
	if err != nil {
		t.Fatal(err)
	}

	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		form, _ := url.ParseQuery(string(body))
		query = form.Get("data")
		w.Header().Set("Content-Type", "application/osm3s+xml")
		w.Write(fixture)
	}))
	defer srv.Close()

	p := NewOverpassProvider(srv.URL, httpx.New(httpx.Options{Name: "overpass-test", Backoff: time.Millisecond}))
	g, err := p.LoadGraph(context.Background(), domain.GeoPoint{Lat: 37.5705, Lon: 126.9805}, 300)
	if err != nil {
		t.Fatalf("LoadGraph: %v", err)
	}
	if g.NodeCount() != 5 {
		t.Fatalf("nodes = %d, want 5", g.NodeCount())
	}

	if !strings.Contains(query, `way["highway"](37.567`) || !strings.Contains(query, "(._;>;);") {
		t.Fatalf("query = %q", query)
	}
}

func TestOverpassProviderCropsToRadius(t *testing.T) {
	fixture, err := os.ReadFile("testdata/walk.osm")
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(fixture)
	}))
	defer srv.Close()

	// Node 2 sits about 56 m north of node 1; every other node is farther
	// than 60 m, although all of them fall inside the bounding box.
	p := NewOverpassProvider(srv.URL, httpx.New(httpx.Options{Name: "overpass-test"}))
	g, err := p.LoadGraph(context.Background(), domain.GeoPoint{Lat: 37.5700, Lon: 126.9800}, 60)
	if err != nil {
		t.Fatalf("LoadGraph: %v", err)
	}
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Fatalf("graph = %d nodes %d edges, want 2 and 1", g.NodeCount(), g.EdgeCount())
	}
	if _, err := g.Location(3); err == nil {
		t.Fatal("node 3 lies outside the radius")
	}
}

func TestOverpassProviderEmptyArea(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<osm version="0.6"></osm>`))
	}))
	defer srv.Close()

	p := NewOverpassProvider(srv.URL, httpx.New(httpx.Options{Name: "overpass-test"}))
	_, err := p.LoadGraph(context.Background(), domain.GeoPoint{Lat: 0, Lon: 0}, 300)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestOverpassProviderRejectsBadRadius(t *testing.T) {
	p := NewOverpassProvider("http://127.0.0.1:1", nil)
	_, err := p.LoadGraph(context.Background(), domain.GeoPoint{Lat: 37, Lon: 127}, 0)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestFileProviderCropsToRadius(t *testing.T) {
	p := NewFileProvider("testdata/grid.yaml")

	g, err := p.LoadGraph(context.Background(), domain.GeoPoint{Lat: 37.5705, Lon: 126.9805}, 500)
	if err != nil {
		t.Fatalf("LoadGraph: %v", err)
	}
	if g.NodeCount() != 3 || g.EdgeCount() != 2 {
		t.Fatalf("graph = %d/%d, want 3 nodes 2 edges", g.NodeCount(), g.EdgeCount())
	}

	edges, _ := g.Neighbors(3)
	if len(edges) != 1 || edges[0].Weight != 120 {
		t.Fatalf("edges of 3 = %+v, want the 120 m edge only", edges)
	}

	_, err = p.LoadGraph(context.Background(), domain.GeoPoint{Lat: 35, Lon: 129}, 500)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("far away err = %v, want ErrNotFound", err)
	}
}

func TestReadSnapshotRejectsUnknownExtension(t *testing.T) {
	if _, err := ReadSnapshot("testdata/walk.osm"); err == nil {
		t.Fatal("expected error for .osm snapshot")
	}
}
