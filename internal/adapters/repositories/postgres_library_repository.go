package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"library-route-service/internal/domain"
	"library-route-service/internal/platform/obs"
)

// Postgres-backed implementation of the FacilityDirectory port, reading the
// libraries table populated by dbtool.
type PostgresLibraryRepository struct{ DB *sql.DB }

func NewPostgresLibraryRepository(db *sql.DB) *PostgresLibraryRepository {
	return &PostgresLibraryRepository{DB: db}
}

// Return every library stored for the region's code.
func (p *PostgresLibraryRepository) ListFacilities(ctx context.Context, region domain.Region) (_ []domain.Facility, err error) {
	defer obs.Time(ctx, "libraries.repo.ListFacilities")(&err)

	if p.DB == nil {
		return nil, errors.New("library repository: DB is nil")
	}
	if region.Code == "" {
		return nil, fmt.Errorf("list libraries: %w", domain.ErrRegionUnsupported)
	}

	query := `
	SELECT
		lib_code,
		name,
		address,
		latitude,
		longitude,
		tel,
		homepage
	FROM libraries
	WHERE region_code = $1
	ORDER BY lib_code;
	`
	rows, err := p.DB.QueryContext(ctx, query, region.Code)
	if err != nil {
		return nil, fmt.Errorf("list libraries: query libraries table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Facility, 0, 64)
	for rows.Next() {
		var f domain.Facility
		var tel, homepage string
		if err := rows.Scan(&f.ID, &f.Name, &f.Address, &f.Latitude, &f.Longitude, &tel, &homepage); err != nil {
			return nil, fmt.Errorf("list libraries: scan row: %w", err)
		}
		if tel != "" || homepage != "" {
			f.Metadata = map[string]string{}
			if tel != "" {
				f.Metadata["tel"] = tel
			}
			if homepage != "" {
				f.Metadata["homepage"] = homepage
			}
		}
		out = append(out, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list libraries: row iteration: %w", err)
	}

	return out, nil
}
