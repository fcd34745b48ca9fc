package roadgraph

import (
	"fmt"

	"library-route-service/internal/domain"
	"library-route-service/internal/geo"
	"library-route-service/internal/pathsearch"
)

// Snapshot is the serializable form of a Graph, used for fixture files and
// for the Redis graph cache.
type Snapshot struct {
	Nodes []SnapshotNode `json:"nodes" yaml:"nodes"`
	Edges []SnapshotEdge `json:"edges" yaml:"edges"`
}

type SnapshotNode struct {
	ID  int64   `json:"id" yaml:"id"`
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Meters may be omitted in fixtures; the great-circle length is used instead.
type SnapshotEdge struct {
	From   int64   `json:"from" yaml:"from"`
	To     int64   `json:"to" yaml:"to"`
	Meters float64 `json:"meters,omitempty" yaml:"meters,omitempty"`
}

// Snapshot lists nodes in insertion order and each undirected edge once.
func (g *Graph) Snapshot() Snapshot {
	s := Snapshot{
		Nodes: make([]SnapshotNode, 0, len(g.order)),
		Edges: make([]SnapshotEdge, 0, g.edges),
	}

	pending := make(map[[2]pathsearch.NodeID]int)
	for _, id := range g.order {
		p := g.locations[id]
		s.Nodes = append(s.Nodes, SnapshotNode{ID: int64(id), Lat: p.Lat, Lon: p.Lon})

		for _, e := range g.adjacency[id] {
			// Each undirected edge appears in both adjacency lists; emit it
			// from the first endpoint and consume the mirror on the second.
			key := [2]pathsearch.NodeID{e.To, id}
			if n := pending[key]; n > 0 {
				pending[key] = n - 1
				continue
			}
			if e.To != id {
				pending[[2]pathsearch.NodeID{id, e.To}]++
			}
			s.Edges = append(s.Edges, SnapshotEdge{From: int64(id), To: int64(e.To), Meters: e.Weight})
		}
	}
	return s
}

// FromSnapshot rebuilds a Graph. Edges without a length get the great-circle
// distance between their endpoints.
func FromSnapshot(s Snapshot) (*Graph, error) {
	g := New()
	for _, n := range s.Nodes {
		p := domain.GeoPoint{Lat: n.Lat, Lon: n.Lon}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("from snapshot: node %d: %w", n.ID, err)
		}
		g.AddNode(pathsearch.NodeID(n.ID), p)
	}

	for i, e := range s.Edges {
		from, to := pathsearch.NodeID(e.From), pathsearch.NodeID(e.To)
		meters := e.Meters
		if meters == 0 {
			a, errA := g.Location(from)
			b, errB := g.Location(to)
			if errA == nil && errB == nil {
				meters = geo.Distance(a, b)
			}
		}
		if err := g.AddEdge(from, to, meters); err != nil {
			return nil, fmt.Errorf("from snapshot: edge #%d: %w", i+1, err)
		}
	}
	return g, nil
}
