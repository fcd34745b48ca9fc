package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"library-route-service/internal/domain"
	"library-route-service/internal/platform/metrics"
	"library-route-service/internal/platform/obs"
	"library-route-service/internal/ports"
)

// SQLRegionCache is a SQL-backed RegionResolver decorator. Coordinates are
// keyed at four decimals (about 11 m), well inside any dong boundary.
type SQLRegionCache struct {
	DB   *sql.DB
	Next ports.RegionResolver
}

func NewSQLRegionCache(db *sql.DB, next ports.RegionResolver) *SQLRegionCache {
	return &SQLRegionCache{DB: db, Next: next}
}

func regionKey(p domain.GeoPoint) string {
	return fmt.Sprintf("%.4f,%.4f", p.Lat, p.Lon)
}

func (s *SQLRegionCache) ResolveRegion(ctx context.Context, p domain.GeoPoint) (_ domain.Region, err error) {
	defer obs.Time(ctx, "region.cache.ResolveRegion")(&err)

	if s.DB == nil {
		return domain.Region{}, errors.New("region cache: db is nil")
	}
	if err := p.Validate(); err != nil {
		return domain.Region{}, fmt.Errorf("region cache: %w", err)
	}

	key := regionKey(p)
	region, ok, err := s.get(ctx, key)
	if err != nil {
		// A broken cache must not take lookups down with it.
		log.Warn().Err(err).Str("key", key).Msg("region cache read failed")
	}
	if ok {
		metrics.CacheLookups.WithLabelValues("region", "hit").Inc()
		return region, nil
	}
	metrics.CacheLookups.WithLabelValues("region", "miss").Inc()

	region, err = s.Next.ResolveRegion(ctx, p)
	if err != nil {
		return domain.Region{}, err
	}

	if err := s.put(ctx, key, region); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("region cache write failed")
	}
	return region, nil
}

func (s *SQLRegionCache) get(ctx context.Context, key string) (domain.Region, bool, error) {
	q := `
	SELECT sido, sigungu, dong, code, dtl_code
	FROM region_cache
	WHERE coord_key = $1;
	`

	var r domain.Region
	err := s.DB.QueryRowContext(ctx, q, key).Scan(&r.Sido, &r.Sigungu, &r.Dong, &r.Code, &r.DtlCode)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Region{}, false, nil
	}
	if err != nil {
		return domain.Region{}, false, fmt.Errorf("get region cache: query region_cache table: %w", err)
	}
	return r, true, nil
}

func (s *SQLRegionCache) put(ctx context.Context, key string, r domain.Region) error {
	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO region_cache (coord_key, sido, sigungu, dong, code, dtl_code, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, now())
	ON CONFLICT (coord_key) DO UPDATE
	SET sido = EXCLUDED.sido,
		sigungu = EXCLUDED.sigungu,
		dong = EXCLUDED.dong,
		code = EXCLUDED.code,
		dtl_code = EXCLUDED.dtl_code,
		updated_at = EXCLUDED.updated_at;
	`, key, r.Sido, r.Sigungu, r.Dong, r.Code, r.DtlCode)
	if err != nil {
		return fmt.Errorf("insert region cache key=%q: %w", key, err)
	}
	return nil
}
