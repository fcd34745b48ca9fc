package services

import (
	"context"
	"errors"

	"library-route-service/internal/domain"
	"library-route-service/internal/pathsearch"
	"library-route-service/internal/roadgraph"
)

type fakeResolver struct {
	region domain.Region
	err    error
	calls  int
}

func (f *fakeResolver) ResolveRegion(ctx context.Context, p domain.GeoPoint) (domain.Region, error) {
	f.calls++
	return f.region, f.err
}

type fakeDirectory struct {
	facilities []domain.Facility
	err        error
	gotRegion  domain.Region
}

func (f *fakeDirectory) ListFacilities(ctx context.Context, region domain.Region) ([]domain.Facility, error) {
	f.gotRegion = region
	return f.facilities, f.err
}

type fakeCatalog struct {
	books      []domain.Book
	err        error
	gotProfile domain.ReaderProfile
	gotLimit   int
}

func (f *fakeCatalog) PopularBooks(ctx context.Context, p domain.ReaderProfile, limit int) ([]domain.Book, error) {
	f.gotProfile = p
	f.gotLimit = limit
	return f.books, f.err
}

type fakeGraphs struct {
	graph     *roadgraph.Graph
	err       error
	gotCenter domain.GeoPoint
	gotRadius float64
}

func (f *fakeGraphs) LoadGraph(ctx context.Context, center domain.GeoPoint, radius float64) (*roadgraph.Graph, error) {
	f.gotCenter = center
	f.gotRadius = radius
	if f.err != nil {
		return nil, f.err
	}
	if f.graph == nil {
		return nil, errors.New("no graph")
	}
	return f.graph, nil
}

// diamondGraph lays four nodes along the equator. The direct 10-30 edge
// costs more than the detour through 20, so the best 10-40 path is
// 10-20-30-40 at 250 m.
func diamondGraph() *roadgraph.Graph {
	g := roadgraph.New()
	g.AddNode(10, domain.GeoPoint{Lat: 0, Lon: 0})
	g.AddNode(20, domain.GeoPoint{Lat: 0, Lon: 0.0008})
	g.AddNode(30, domain.GeoPoint{Lat: 0, Lon: 0.0016})
	g.AddNode(40, domain.GeoPoint{Lat: 0, Lon: 0.0020})
	for _, e := range []struct {
		a, b pathsearch.NodeID
		w    float64
	}{{10, 20, 100}, {20, 30, 100}, {10, 30, 260}, {30, 40, 50}} {
		if err := g.AddEdge(e.a, e.b, e.w); err != nil {
			panic(err)
		}
	}
	return g
}
