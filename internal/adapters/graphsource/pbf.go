package graphsource

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/rs/zerolog/log"

	"library-route-service/internal/domain"
	"library-route-service/internal/platform/obs"
	"library-route-service/internal/roadgraph"
)

// PBFProvider serves graphs cut from a local .osm.pbf extract. The extract
// is parsed on first use and kept in memory; a failed parse is not retried.
type PBFProvider struct {
	path string

	once  sync.Once
	graph *roadgraph.Graph
	err   error
}

func NewPBFProvider(path string) *PBFProvider {
	return &PBFProvider{path: path}
}

func (p *PBFProvider) LoadGraph(ctx context.Context, center domain.GeoPoint, radiusMeters float64) (_ *roadgraph.Graph, err error) {
	defer obs.Time(ctx, "pbf.LoadGraph")(&err)

	p.once.Do(func() {
		p.graph, p.err = p.parse(context.WithoutCancel(ctx))
	})
	if p.err != nil {
		return nil, p.err
	}

	sub, err := p.graph.Within(center, radiusMeters)
	if err != nil {
		return nil, fmt.Errorf("pbf: %w", err)
	}
	if sub.NodeCount() == 0 {
		return nil, fmt.Errorf("pbf: no walkable ways within %.0f m of %v,%v: %w",
			radiusMeters, center.Lat, center.Lon, domain.ErrNotFound)
	}
	return sub, nil
}

func (p *PBFProvider) parse(ctx context.Context) (*roadgraph.Graph, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("pbf: open %q: %w", p.path, err)
	}
	defer f.Close()

	// Pass 1: walkable ways and the node ids they reference.
	var ways []*osm.Way
	needed := make(map[osm.NodeID]struct{})

	scanner := osmpbf.New(ctx, f, runtime.GOMAXPROCS(-1))
	scanner.SkipNodes = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		w, ok := scanner.Object().(*osm.Way)
		if !ok || !IsWalkable(w.Tags) {
			continue
		}
		ways = append(ways, w)
		for _, wn := range w.Nodes {
			needed[wn.ID] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pbf: scan ways: %w", err)
	}
	scanner.Close()

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("pbf: rewind: %w", err)
	}

	// Pass 2: coordinates of referenced nodes only.
	coords := make(map[osm.NodeID]domain.GeoPoint, len(needed))
	scanner = osmpbf.New(ctx, f, runtime.GOMAXPROCS(-1))
	scanner.SkipWays = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, want := needed[n.ID]; want {
			coords[n.ID] = domain.GeoPoint{Lat: n.Lat, Lon: n.Lon}
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pbf: scan nodes: %w", err)
	}
	scanner.Close()

	g, err := buildGraph(ways, coords)
	if err != nil {
		return nil, fmt.Errorf("pbf: %w", err)
	}

	log.Info().Str("path", p.path).Int("nodes", g.NodeCount()).Int("edges", g.EdgeCount()).Msg("walk network loaded from extract")
	return g, nil
}
