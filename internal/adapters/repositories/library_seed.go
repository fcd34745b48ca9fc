package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"library-route-service/internal/adapters/kakao"
)

// LibrarySeed is one entry of the seed file. Coordinates stay strings, as
// the directory API delivers them.
type LibrarySeed struct {
	LibCode    string `json:"lib_code"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	RegionCode string `json:"region_code"`
	Sido       string `json:"sido"`
	Latitude   string `json:"latitude"`
	Longitude  string `json:"longitude"`
	Tel        string `json:"tel"`
	Homepage   string `json:"homepage"`
}

// ParseLibrarySeeds validates seed entries. A missing region_code is derived
// from sido.
func ParseLibrarySeeds(data []byte) ([]LibrarySeed, error) {
	var items []LibrarySeed
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("seed libraries: parse json: %w", err)
	}

	rows := make([]LibrarySeed, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		item.LibCode = strings.TrimSpace(item.LibCode)
		if item.LibCode == "" {
			return nil, fmt.Errorf("seed libraries: item %d: lib_code cannot be empty", i+1)
		}
		if _, ok := seen[item.LibCode]; ok {
			return nil, fmt.Errorf("seed libraries: item %d: duplicate lib_code %q", i+1, item.LibCode)
		}
		seen[item.LibCode] = struct{}{}

		item.Name = strings.TrimSpace(item.Name)
		if item.Name == "" {
			return nil, fmt.Errorf("seed libraries: item %d: name cannot be empty", i+1)
		}

		if item.RegionCode == "" {
			item.RegionCode = kakao.RegionCode(item.Sido)
		}
		if item.RegionCode == "" {
			return nil, fmt.Errorf("seed libraries: item %d (%s): no region_code and unknown sido %q", i+1, item.LibCode, item.Sido)
		}
		rows = append(rows, item)
	}
	return rows, nil
}

// SeedFromJSON upserts the libraries listed in the JSON file at jsonPath.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) (int, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed libraries: read %q: %w", jsonPath, err)
	}

	rows, err := ParseLibrarySeeds(data)
	if err != nil {
		return 0, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("seed libraries: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO libraries (lib_code, name, address, region_code, latitude, longitude, tel, homepage)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (lib_code) DO UPDATE
	SET name = EXCLUDED.name,
		address = EXCLUDED.address,
		region_code = EXCLUDED.region_code,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		tel = EXCLUDED.tel,
		homepage = EXCLUDED.homepage;
	`)
	if err != nil {
		return 0, fmt.Errorf("seed libraries: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range rows {
		if _, err := stmt.ExecContext(ctx, l.LibCode, l.Name, l.Address, l.RegionCode, l.Latitude, l.Longitude, l.Tel, l.Homepage); err != nil {
			return 0, fmt.Errorf("seed libraries: insert lib_code=%s: %w", l.LibCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed libraries: commit tx: %w", err)
	}

	return len(rows), nil
}
