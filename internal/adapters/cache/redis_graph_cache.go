package cache

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"library-route-service/internal/domain"
	"library-route-service/internal/platform/metrics"
	"library-route-service/internal/platform/obs"
	"library-route-service/internal/ports"
	"library-route-service/internal/roadgraph"
)

const graphKeyPrefix = "walkgraph:v1:"

// RedisGraphCache keeps walk-network snapshots in Redis so repeated routes
// in the same area skip the Overpass round trip.
type RedisGraphCache struct {
	Client *redis.Client
	Next   ports.GraphProvider
	TTL    time.Duration
}

func NewRedisGraphCache(client *redis.Client, next ports.GraphProvider, ttl time.Duration) *RedisGraphCache {
	return &RedisGraphCache{Client: client, Next: next, TTL: ttl}
}

// snapSlackMeters covers the distance between a center and its snapped
// form (at most half a millidegree on each axis).
const snapSlackMeters = 80

// graphKey snaps the center to three decimals and rounds the radius up to
// the next 100 m so nearby requests share an entry. Misses load the graph
// for the snapped center and rounded radius, so a cached graph always
// covers every request mapping to its key.
func graphKey(center domain.GeoPoint, radius float64) (string, domain.GeoPoint, float64) {
	snapped := domain.GeoPoint{
		Lat: math.Round(center.Lat*1000) / 1000,
		Lon: math.Round(center.Lon*1000) / 1000,
	}
	r := math.Ceil(radius/100) * 100
	key := fmt.Sprintf("%s%.3f:%.3f:%.0f", graphKeyPrefix, snapped.Lat, snapped.Lon, r)
	return key, snapped, r + snapSlackMeters
}

func (c *RedisGraphCache) LoadGraph(ctx context.Context, center domain.GeoPoint, radiusMeters float64) (_ *roadgraph.Graph, err error) {
	defer obs.Time(ctx, "graph.cache.LoadGraph")(&err)

	if c.Client == nil {
		return nil, errors.New("graph cache: redis client is nil")
	}

	key, snapped, radius := graphKey(center, radiusMeters)

	g, err := c.get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("graph cache read failed")
	}
	if g != nil {
		metrics.CacheLookups.WithLabelValues("graph", "hit").Inc()
		return g, nil
	}
	metrics.CacheLookups.WithLabelValues("graph", "miss").Inc()

	g, err = c.Next.LoadGraph(ctx, snapped, radius)
	if err != nil {
		return nil, err
	}

	if err := c.put(ctx, key, g); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("graph cache write failed")
	}
	return g, nil
}

func (c *RedisGraphCache) get(ctx context.Context, key string) (*roadgraph.Graph, error) {
	raw, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get graph cache: %w", err)
	}

	var snap roadgraph.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("get graph cache: decode snapshot: %w", err)
	}
	g, err := roadgraph.FromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("get graph cache: rebuild graph: %w", err)
	}
	return g, nil
}

func (c *RedisGraphCache) put(ctx context.Context, key string, g *roadgraph.Graph) error {
	raw, err := json.Marshal(g.Snapshot())
	if err != nil {
		return fmt.Errorf("put graph cache: encode snapshot: %w", err)
	}
	if err := c.Client.Set(ctx, key, raw, c.TTL).Err(); err != nil {
		return fmt.Errorf("put graph cache: %w", err)
	}
	return nil
}
