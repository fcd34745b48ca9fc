// Package pathsearch implements Dijkstra and A* shortest-path search over any
// graph that can list weighted neighbors and locate its nodes.
package pathsearch

import (
	"fmt"

	"library-route-service/internal/domain"
)

// NodeID is an opaque handle into a graph supplied by a Graph implementation.
type NodeID int64

// Weighted link from the node passed to Neighbors. Weight is in meters.
type Edge struct {
	To     NodeID
	Weight float64
}

// Graph is the minimal capability a search needs.
// Implementations must not be mutated while a search runs.
type Graph interface {
	// Neighbors returns the edges leaving node.
	Neighbors(node NodeID) ([]Edge, error)
	// Location returns the coordinate of node. A* uses it for the heuristic.
	Location(node NodeID) (domain.GeoPoint, error)
}

// GraphError reports a failure inside the Graph collaborator. Searches stop on
// the first one; nothing is retried.
type GraphError struct {
	Op   string
	Node NodeID
	Err  error
}

func (e *GraphError) Error() string {
	return fmt.Sprintf("graph adapter: %s node=%d: %v", e.Op, e.Node, e.Err)
}

func (e *GraphError) Unwrap() error { return e.Err }
