// Package roadgraph is the in-memory walking network searched by pathsearch.
// Graphs are built once by a graph source and are read-only afterwards, so a
// single Graph can serve concurrent searches.
package roadgraph

import (
	"errors"
	"fmt"
	"math"

	"library-route-service/internal/domain"
	"library-route-service/internal/geo"
	"library-route-service/internal/pathsearch"
)

var (
	ErrUnknownNode = errors.New("unknown node")
	ErrEmptyGraph  = errors.New("graph has no nodes")
)

// Graph is an undirected adjacency list keyed by node id.
type Graph struct {
	locations map[pathsearch.NodeID]domain.GeoPoint
	adjacency map[pathsearch.NodeID][]pathsearch.Edge
	order     []pathsearch.NodeID
	edges     int
}

func New() *Graph {
	return &Graph{
		locations: make(map[pathsearch.NodeID]domain.GeoPoint),
		adjacency: make(map[pathsearch.NodeID][]pathsearch.Edge),
	}
}

// AddNode registers a node, or moves it if the id is already known.
func (g *Graph) AddNode(id pathsearch.NodeID, p domain.GeoPoint) {
	if _, ok := g.locations[id]; !ok {
		g.order = append(g.order, id)
	}
	g.locations[id] = p
}

// AddEdge links a and b in both directions. Both nodes must already exist.
func (g *Graph) AddEdge(a, b pathsearch.NodeID, meters float64) error {
	if meters < 0 || math.IsNaN(meters) || math.IsInf(meters, 0) {
		return fmt.Errorf("add edge %d-%d: %w: weight %v", a, b, domain.ErrInvalidDistance, meters)
	}
	if _, ok := g.locations[a]; !ok {
		return fmt.Errorf("add edge %d-%d: %w %d", a, b, ErrUnknownNode, a)
	}
	if _, ok := g.locations[b]; !ok {
		return fmt.Errorf("add edge %d-%d: %w %d", a, b, ErrUnknownNode, b)
	}

	g.adjacency[a] = append(g.adjacency[a], pathsearch.Edge{To: b, Weight: meters})
	if a != b {
		g.adjacency[b] = append(g.adjacency[b], pathsearch.Edge{To: a, Weight: meters})
	}
	g.edges++
	return nil
}

// Neighbors returns the edges leaving id. The slice is shared; callers must not modify it.
func (g *Graph) Neighbors(id pathsearch.NodeID) ([]pathsearch.Edge, error) {
	if _, ok := g.locations[id]; !ok {
		return nil, fmt.Errorf("neighbors: %w %d", ErrUnknownNode, id)
	}
	return g.adjacency[id], nil
}

func (g *Graph) Location(id pathsearch.NodeID) (domain.GeoPoint, error) {
	p, ok := g.locations[id]
	if !ok {
		return domain.GeoPoint{}, fmt.Errorf("location: %w %d", ErrUnknownNode, id)
	}
	return p, nil
}

// NearestNode returns the node closest to p by great-circle distance.
// Ties resolve to the node added first.
func (g *Graph) NearestNode(p domain.GeoPoint) (pathsearch.NodeID, error) {
	if len(g.order) == 0 {
		return 0, ErrEmptyGraph
	}

	best := g.order[0]
	bestDist := math.Inf(1)
	for _, id := range g.order {
		d := geo.Distance(p, g.locations[id])
		if d < bestDist {
			bestDist = d
			best = id
		}
	}
	return best, nil
}

func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount counts undirected edges once.
func (g *Graph) EdgeCount() int { return g.edges }

var _ pathsearch.Graph = (*Graph)(nil)
