package graphsource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"library-route-service/internal/domain"
	"library-route-service/internal/roadgraph"
)

// FileProvider serves graphs cut from a snapshot file (.yaml, .yml or
// .json), mostly for offline development and tests.
type FileProvider struct {
	path string

	once  sync.Once
	graph *roadgraph.Graph
	err   error
}

func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// ReadSnapshot decodes a snapshot file, picking the format by extension.
func ReadSnapshot(path string) (roadgraph.Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return roadgraph.Snapshot{}, fmt.Errorf("read snapshot %q: %w", path, err)
	}

	var s roadgraph.Snapshot
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(raw, &s)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &s)
	default:
		return roadgraph.Snapshot{}, fmt.Errorf("read snapshot %q: unsupported extension", path)
	}
	if err != nil {
		return roadgraph.Snapshot{}, fmt.Errorf("read snapshot %q: decode: %w", path, err)
	}
	return s, nil
}

func (p *FileProvider) LoadGraph(ctx context.Context, center domain.GeoPoint, radiusMeters float64) (*roadgraph.Graph, error) {
	p.once.Do(func() {
		s, err := ReadSnapshot(p.path)
		if err != nil {
			p.err = err
			return
		}
		p.graph, p.err = roadgraph.FromSnapshot(s)
	})
	if p.err != nil {
		return nil, fmt.Errorf("file graph: %w", p.err)
	}

	sub, err := p.graph.Within(center, radiusMeters)
	if err != nil {
		return nil, fmt.Errorf("file graph: %w", err)
	}
	if sub.NodeCount() == 0 {
		return nil, fmt.Errorf("file graph: nothing within %.0f m of %v,%v: %w",
			radiusMeters, center.Lat, center.Lon, domain.ErrNotFound)
	}
	return sub, nil
}
