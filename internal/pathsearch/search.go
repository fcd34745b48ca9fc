package pathsearch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"library-route-service/internal/domain"
	"library-route-service/internal/geo"
)

// Algorithm selects the frontier ordering.
type Algorithm string

const (
	Dijkstra Algorithm = "dijkstra"
	AStar    Algorithm = "astar"
)

// ErrUnknownAlgorithm is returned for anything other than Dijkstra or AStar.
var ErrUnknownAlgorithm = fmt.Errorf("%w: unknown search algorithm", domain.ErrInvalidInput)

// ParseAlgorithm accepts "dijkstra", "astar" and "a*" in any case.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dijkstra":
		return Dijkstra, nil
	case "astar", "a*", "a-star":
		return AStar, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// Outcome tags a Result. Unreachable is a normal terminal state, not an error.
type Outcome int

const (
	Unreachable Outcome = iota
	Found
)

func (o Outcome) String() string {
	if o == Found {
		return "found"
	}
	return "unreachable"
}

// Result of one search call. Path and TotalCostMeters are only meaningful when
// Outcome is Found; Elapsed and NodesVisited are always filled in.
type Result struct {
	Outcome         Outcome
	Path            []NodeID
	TotalCostMeters float64
	Elapsed         time.Duration
	NodesVisited    int
}

// Search finds the cheapest path from source to target.
//
// The frontier is a binary heap ordered by accumulated cost (Dijkstra) or by
// cost plus great-circle distance to the target (A*). Nodes are finalized the
// first time they are popped; later stale entries are discarded. The search
// stops as soon as the target is popped. ctx is checked on every pop.
func Search(ctx context.Context, g Graph, source, target NodeID, alg Algorithm) (Result, error) {
	if g == nil {
		return Result{}, errors.New("path search: graph must be non-nil")
	}

	if alg != Dijkstra && alg != AStar {
		return Result{}, fmt.Errorf("path search: %w: %q", ErrUnknownAlgorithm, alg)
	}

	// Both endpoints must exist, whichever algorithm runs.
	if _, err := g.Location(source); err != nil {
		return Result{}, &GraphError{Op: "location", Node: source, Err: err}
	}
	goal, err := g.Location(target)
	if err != nil {
		return Result{}, &GraphError{Op: "location", Node: target, Err: err}
	}

	var h heuristic = zeroHeuristic
	if alg == AStar {
		h = greatCircleHeuristic(g, goal)
	}

	start := time.Now()

	h0, err := h(source)
	if err != nil {
		return Result{}, err
	}

	open := &frontier{}
	open.push(entry{node: source, parent: source, cost: 0, priority: h0})

	visited := make(map[NodeID]struct{})
	pred := make(map[NodeID]NodeID)
	nodesVisited := 0

	for open.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("path search: %w", err)
		}

		cur := open.pop()
		if _, ok := visited[cur.node]; ok {
			continue
		}
		visited[cur.node] = struct{}{}
		pred[cur.node] = cur.parent
		nodesVisited++

		if cur.node == target {
			return Result{
				Outcome:         Found,
				Path:            buildPath(pred, source, target),
				TotalCostMeters: cur.cost,
				Elapsed:         time.Since(start),
				NodesVisited:    nodesVisited,
			}, nil
		}

		edges, err := g.Neighbors(cur.node)
		if err != nil {
			return Result{}, &GraphError{Op: "neighbors", Node: cur.node, Err: err}
		}

		for _, e := range edges {
			if _, ok := visited[e.To]; ok {
				continue
			}
			if e.Weight < 0 || math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) {
				return Result{}, &GraphError{
					Op:   "neighbors",
					Node: cur.node,
					Err:  fmt.Errorf("edge to %d has invalid weight %v", e.To, e.Weight),
				}
			}

			hv, err := h(e.To)
			if err != nil {
				return Result{}, err
			}

			cost := cur.cost + e.Weight
			open.push(entry{node: e.To, parent: cur.node, cost: cost, priority: cost + hv})
		}
	}

	return Result{
		Outcome:      Unreachable,
		Elapsed:      time.Since(start),
		NodesVisited: nodesVisited,
	}, nil
}

func buildPath(pred map[NodeID]NodeID, source, target NodeID) []NodeID {
	path := []NodeID{target}
	for at := target; at != source; {
		at = pred[at]
		path = append(path, at)
	}
	slices.Reverse(path)
	return path
}

type heuristic func(NodeID) (float64, error)

func zeroHeuristic(NodeID) (float64, error) { return 0, nil }

// greatCircleHeuristic never overestimates a walking distance, so A* stays
// optimal. Values are cached per node since geo.Distance is pure.
func greatCircleHeuristic(g Graph, goal domain.GeoPoint) heuristic {
	cache := make(map[NodeID]float64)
	return func(n NodeID) (float64, error) {
		if v, ok := cache[n]; ok {
			return v, nil
		}
		p, err := g.Location(n)
		if err != nil {
			return 0, &GraphError{Op: "location", Node: n, Err: err}
		}
		v := geo.Distance(p, goal)
		cache[n] = v
		return v, nil
	}
}
