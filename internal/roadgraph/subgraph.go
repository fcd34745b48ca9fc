package roadgraph

import (
	"fmt"

	"library-route-service/internal/domain"
	"library-route-service/internal/geo"
)

// Within returns the subgraph induced by the nodes at most radiusMeters from
// center. Node order and edge lengths are preserved.
func (g *Graph) Within(center domain.GeoPoint, radiusMeters float64) (*Graph, error) {
	s := g.Snapshot()

	keep := make(map[int64]struct{}, len(s.Nodes))
	nodes := s.Nodes[:0]
	for _, n := range s.Nodes {
		if geo.Distance(center, domain.GeoPoint{Lat: n.Lat, Lon: n.Lon}) <= radiusMeters {
			keep[n.ID] = struct{}{}
			nodes = append(nodes, n)
		}
	}

	edges := s.Edges[:0]
	for _, e := range s.Edges {
		_, okFrom := keep[e.From]
		_, okTo := keep[e.To]
		if okFrom && okTo {
			edges = append(edges, e)
		}
	}

	sub, err := FromSnapshot(Snapshot{Nodes: nodes, Edges: edges})
	if err != nil {
		return nil, fmt.Errorf("subgraph: %w", err)
	}
	return sub, nil
}
