package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"library-route-service/internal/domain"
	"library-route-service/internal/platform/metrics"
	"library-route-service/internal/platform/obs"
	"library-route-service/internal/ports"
)

// SQLFacilityCache stores a region's library listing as one JSONB row and
// serves it until MaxAge has passed. Rows are keyed by the directory code the
// listing was fetched with, so district and province listings never mix.
type SQLFacilityCache struct {
	DB     *sql.DB
	Next   ports.FacilityDirectory
	MaxAge time.Duration
	now    func() time.Time
}

func NewSQLFacilityCache(db *sql.DB, next ports.FacilityDirectory, maxAge time.Duration) *SQLFacilityCache {
	return &SQLFacilityCache{DB: db, Next: next, MaxAge: maxAge, now: time.Now}
}

func (s *SQLFacilityCache) ListFacilities(ctx context.Context, region domain.Region) (_ []domain.Facility, err error) {
	defer obs.Time(ctx, "library.cache.ListFacilities")(&err)

	if s.DB == nil {
		return nil, errors.New("library cache: db is nil")
	}
	_, code := region.DirectoryFilter()
	if code == "" {
		return s.Next.ListFacilities(ctx, region)
	}

	cached, ok, err := s.get(ctx, code)
	if err != nil {
		log.Warn().Err(err).Str("region", code).Msg("library cache read failed")
	}
	if ok {
		metrics.CacheLookups.WithLabelValues("library", "hit").Inc()
		return cached, nil
	}
	metrics.CacheLookups.WithLabelValues("library", "miss").Inc()

	facilities, err := s.Next.ListFacilities(ctx, region)
	if err != nil {
		return nil, err
	}

	if err := s.put(ctx, code, facilities); err != nil {
		log.Warn().Err(err).Str("region", code).Msg("library cache write failed")
	}
	return facilities, nil
}

func (s *SQLFacilityCache) get(ctx context.Context, code string) ([]domain.Facility, bool, error) {
	q := `
	SELECT payload, fetched_at
	FROM library_cache
	WHERE region_code = $1;
	`

	var payload []byte
	var fetchedAt time.Time
	err := s.DB.QueryRowContext(ctx, q, code).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get library cache: query library_cache table: %w", err)
	}

	if s.MaxAge > 0 && s.now().Sub(fetchedAt) > s.MaxAge {
		return nil, false, nil
	}

	var out []domain.Facility
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, false, fmt.Errorf("get library cache: decode payload: %w", err)
	}
	return out, true, nil
}

func (s *SQLFacilityCache) put(ctx context.Context, code string, facilities []domain.Facility) error {
	payload, err := json.Marshal(facilities)
	if err != nil {
		return fmt.Errorf("insert library cache: encode payload: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO library_cache (region_code, payload, fetched_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (region_code) DO UPDATE
	SET payload = EXCLUDED.payload,
		fetched_at = EXCLUDED.fetched_at;
	`, code, payload, s.now())
	if err != nil {
		return fmt.Errorf("insert library cache region=%s: %w", code, err)
	}
	return nil
}
