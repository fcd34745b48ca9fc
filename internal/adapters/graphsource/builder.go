// Package graphsource acquires the pedestrian street network around a point
// from OpenStreetMap data: live from Overpass, from a local PBF extract, or
// from a snapshot fixture.
package graphsource

import (
	"context"
	"fmt"
	"io"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"

	"library-route-service/internal/domain"
	"library-route-service/internal/geo"
	"library-route-service/internal/pathsearch"
	"library-route-service/internal/roadgraph"
)

// buildGraph turns walkable ways into an undirected graph. Every way node
// becomes a graph node and every consecutive pair an edge weighted by its
// great-circle length. Node references without coordinates are skipped,
// splitting the way there.
func buildGraph(ways []*osm.Way, coords map[osm.NodeID]domain.GeoPoint) (*roadgraph.Graph, error) {
	g := roadgraph.New()

	for _, w := range ways {
		if !IsWalkable(w.Tags) {
			continue
		}

		var prev osm.NodeID
		havePrev := false
		for _, wn := range w.Nodes {
			p, ok := coords[wn.ID]
			if !ok {
				havePrev = false
				continue
			}
			g.AddNode(pathsearch.NodeID(wn.ID), p)

			if havePrev && prev != wn.ID {
				meters := geo.Distance(coords[prev], p)
				if err := g.AddEdge(pathsearch.NodeID(prev), pathsearch.NodeID(wn.ID), meters); err != nil {
					return nil, fmt.Errorf("build graph: way %d: %w", w.ID, err)
				}
			}
			prev = wn.ID
			havePrev = true
		}
	}

	return g, nil
}

// scanOSMXML builds the walk graph of an OSM XML document, as Overpass
// returns it.
func scanOSMXML(ctx context.Context, r io.Reader) (*roadgraph.Graph, error) {
	var ways []*osm.Way
	coords := make(map[osm.NodeID]domain.GeoPoint)

	scanner := osmxml.New(ctx, r)
	defer scanner.Close()
	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			coords[o.ID] = domain.GeoPoint{Lat: o.Lat, Lon: o.Lon}
		case *osm.Way:
			ways = append(ways, o)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan osm xml: %w", err)
	}

	return buildGraph(ways, coords)
}
