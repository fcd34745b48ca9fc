package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"library-route-service/internal/domain"
	"library-route-service/internal/geo"
	"library-route-service/internal/pathsearch"
	"library-route-service/internal/platform/metrics"
	"library-route-service/internal/platform/obs"
	"library-route-service/internal/ports"
)

const (
	DefaultRadiusFactor    = 1.5
	DefaultMinRadiusMeters = 500.0
)

// AlgorithmBoth asks for one run per search algorithm.
const AlgorithmBoth = "both"

type PlanWalkingRouteRequest struct {
	Origin domain.GeoPoint
	// Destination is optional; the nearest library is used when nil.
	Destination *domain.GeoPoint
	// Algorithm is "dijkstra", "astar" or "both". Empty means astar.
	Algorithm string
	SpeedKmh  float64
}

// WalkingRoutePlanner wires the graph source and, for routes without an
// explicit destination, the library lookup.
type WalkingRoutePlanner struct {
	Graphs    ports.GraphProvider
	Resolver  ports.RegionResolver
	Directory ports.FacilityDirectory

	RadiusFactor    float64
	MinRadiusMeters float64
	// SearchTimeout bounds each algorithm run. Zero means no bound.
	SearchTimeout time.Duration
}

type AlgorithmRun struct {
	Algorithm    pathsearch.Algorithm
	Outcome      pathsearch.Outcome
	Path         []domain.GeoPoint
	Route        *domain.RouteInfo
	Elapsed      time.Duration
	NodesVisited int
}

type WalkingRoutePlan struct {
	Origin      domain.GeoPoint
	Destination domain.GeoPoint
	// Library is set when the destination was picked as the nearest library.
	Library *domain.RankedFacility

	StraightLineMeters float64
	RadiusMeters       float64
	GraphNodes         int
	GraphEdges         int
	Runs               []AlgorithmRun
}

// SearchRadius is the radius of the network loaded around the midpoint of a
// route whose endpoints are straightLine meters apart.
func SearchRadius(straightLine, factor, minRadius float64) float64 {
	if factor <= 0 {
		factor = DefaultRadiusFactor
	}
	if minRadius <= 0 {
		minRadius = DefaultMinRadiusMeters
	}
	return math.Max(straightLine*factor, minRadius)
}

func parseAlgorithms(s string) ([]pathsearch.Algorithm, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return []pathsearch.Algorithm{pathsearch.AStar}, nil
	case AlgorithmBoth:
		return []pathsearch.Algorithm{pathsearch.Dijkstra, pathsearch.AStar}, nil
	}
	alg, err := pathsearch.ParseAlgorithm(s)
	if err != nil {
		return nil, err
	}
	return []pathsearch.Algorithm{alg}, nil
}

// Plan loads the walk network around both endpoints, snaps them to their
// nearest graph nodes and runs the requested searches. Runs that find no
// path are reported with an Unreachable outcome rather than as errors.
func (p *WalkingRoutePlanner) Plan(ctx context.Context, req PlanWalkingRouteRequest) (_ WalkingRoutePlan, err error) {
	defer obs.Time(ctx, "services.PlanWalkingRoute")(&err)

	if err := req.Origin.Validate(); err != nil {
		return WalkingRoutePlan{}, fmt.Errorf("plan walking route: origin: %w", err)
	}
	speed := req.SpeedKmh
	if speed == 0 {
		speed = DefaultWalkingSpeedKmh
	}
	if err := validateSpeed(speed); err != nil {
		return WalkingRoutePlan{}, fmt.Errorf("plan walking route: %w", err)
	}
	algs, err := parseAlgorithms(req.Algorithm)
	if err != nil {
		return WalkingRoutePlan{}, fmt.Errorf("plan walking route: %w", err)
	}

	plan := WalkingRoutePlan{Origin: req.Origin}

	if req.Destination != nil {
		if err := req.Destination.Validate(); err != nil {
			return WalkingRoutePlan{}, fmt.Errorf("plan walking route: destination: %w", err)
		}
		plan.Destination = *req.Destination
	} else {
		lib, err := p.nearestLibrary(ctx, req.Origin, speed)
		if err != nil {
			return WalkingRoutePlan{}, fmt.Errorf("plan walking route: %w", err)
		}
		loc, _ := lib.Facility.Location()
		plan.Destination = loc
		plan.Library = &lib
	}

	plan.StraightLineMeters = geo.Distance(plan.Origin, plan.Destination)
	plan.RadiusMeters = SearchRadius(plan.StraightLineMeters, p.RadiusFactor, p.MinRadiusMeters)
	center := domain.Midpoint(plan.Origin, plan.Destination)

	g, err := p.Graphs.LoadGraph(ctx, center, plan.RadiusMeters)
	if err != nil {
		return WalkingRoutePlan{}, fmt.Errorf("plan walking route: load graph: %w", err)
	}
	plan.GraphNodes = g.NodeCount()
	plan.GraphEdges = g.EdgeCount()
	metrics.GraphNodes.Observe(float64(plan.GraphNodes))

	source, err := g.NearestNode(plan.Origin)
	if err != nil {
		return WalkingRoutePlan{}, fmt.Errorf("plan walking route: snap origin: %w", err)
	}
	target, err := g.NearestNode(plan.Destination)
	if err != nil {
		return WalkingRoutePlan{}, fmt.Errorf("plan walking route: snap destination: %w", err)
	}

	runs := make([]AlgorithmRun, len(algs))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, alg := range algs {
		eg.Go(func() error {
			run, err := p.run(egCtx, g, source, target, alg, speed)
			if err != nil {
				return err
			}
			runs[i] = run
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return WalkingRoutePlan{}, fmt.Errorf("plan walking route: %w", err)
	}
	plan.Runs = runs

	return plan, nil
}

func (p *WalkingRoutePlanner) run(
	ctx context.Context,
	g pathsearch.Graph,
	source, target pathsearch.NodeID,
	alg pathsearch.Algorithm,
	speedKmh float64,
) (AlgorithmRun, error) {
	if p.SearchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, p.SearchTimeout, domain.ErrSearchTimeout)
		defer cancel()
	}

	res, err := pathsearch.Search(ctx, g, source, target, alg)
	if err != nil {
		metrics.SearchOutcomes.WithLabelValues(string(alg), "error").Inc()
		if errors.Is(err, context.DeadlineExceeded) && errors.Is(context.Cause(ctx), domain.ErrSearchTimeout) {
			return AlgorithmRun{}, fmt.Errorf("%s search: %w after %s: %w", alg, domain.ErrSearchTimeout, p.SearchTimeout, err)
		}
		return AlgorithmRun{}, fmt.Errorf("%s search: %w", alg, err)
	}

	metrics.SearchDuration.WithLabelValues(string(alg)).Observe(res.Elapsed.Seconds())
	metrics.SearchNodesVisited.WithLabelValues(string(alg)).Observe(float64(res.NodesVisited))
	metrics.SearchOutcomes.WithLabelValues(string(alg), res.Outcome.String()).Inc()

	run := AlgorithmRun{
		Algorithm:    alg,
		Outcome:      res.Outcome,
		Elapsed:      res.Elapsed,
		NodesVisited: res.NodesVisited,
	}

	log.Debug().
		Str("req_id", obs.RequestID(ctx)).
		Str("algorithm", string(alg)).
		Str("outcome", res.Outcome.String()).
		Int("nodes_visited", res.NodesVisited).
		Dur("elapsed", res.Elapsed).
		Msg("path search finished")

	if res.Outcome != pathsearch.Found {
		return run, nil
	}

	route, err := SummarizeRoute(res.TotalCostMeters, speedKmh)
	if err != nil {
		return AlgorithmRun{}, fmt.Errorf("%s search: %w", alg, err)
	}
	run.Route = &route

	run.Path = make([]domain.GeoPoint, 0, len(res.Path))
	for _, id := range res.Path {
		loc, err := g.Location(id)
		if err != nil {
			return AlgorithmRun{}, fmt.Errorf("%s search: path node %d: %w", alg, id, err)
		}
		run.Path = append(run.Path, loc)
	}
	return run, nil
}

func (p *WalkingRoutePlanner) nearestLibrary(ctx context.Context, origin domain.GeoPoint, speed float64) (domain.RankedFacility, error) {
	if p.Resolver == nil || p.Directory == nil {
		return domain.RankedFacility{}, fmt.Errorf("%w: destination is required", domain.ErrInvalidInput)
	}
	found, err := FindNearestLibraries(ctx, FindNearestLibrariesRequest{
		Origin:   origin,
		SpeedKmh: speed,
		Limit:    1,
	}, p.Resolver, p.Directory)
	if err != nil {
		return domain.RankedFacility{}, err
	}
	if len(found.Libraries) == 0 {
		return domain.RankedFacility{}, fmt.Errorf("near %v: %w", origin, domain.ErrNoFacilities)
	}
	return found.Libraries[0], nil
}
