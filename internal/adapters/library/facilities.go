package library

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"library-route-service/internal/domain"
	"library-route-service/internal/platform/obs"
)

type libSrchPayload struct {
	NumFound flexInt `json:"numFound"`
	Libs     []struct {
		Lib libRecord `json:"lib"`
	} `json:"libs"`
}

type libRecord struct {
	LibCode       string `json:"libCode"`
	LibName       string `json:"libName"`
	Address       string `json:"address"`
	Tel           string `json:"tel"`
	Homepage      string `json:"homepage"`
	Closed        string `json:"closed"`
	OperatingTime string `json:"operatingTime"`
	Latitude      string `json:"latitude"`
	Longitude     string `json:"longitude"`
}

func (r libRecord) facility() domain.Facility {
	meta := map[string]string{}
	for k, v := range map[string]string{
		"tel":            r.Tel,
		"homepage":       r.Homepage,
		"closed":         r.Closed,
		"operating_time": r.OperatingTime,
	} {
		if v != "" {
			meta[k] = v
		}
	}
	if len(meta) == 0 {
		meta = nil
	}
	return domain.Facility{
		ID:        r.LibCode,
		Name:      r.LibName,
		Address:   r.Address,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Metadata:  meta,
	}
}

// ListFacilities pages through libSrch, filtering by the region's district
// code when known and its province code otherwise. Coordinates are passed
// through as the raw strings the API returns.
func (c *Client) ListFacilities(ctx context.Context, region domain.Region) (_ []domain.Facility, err error) {
	defer obs.Time(ctx, "library.ListFacilities")(&err)

	param, code := region.DirectoryFilter()
	if code == "" {
		return nil, fmt.Errorf("list facilities: %w", domain.ErrRegionUnsupported)
	}

	var out []domain.Facility
	for page := 1; page <= maxPages; page++ {
		params := url.Values{}
		params.Set(param, code)
		params.Set("pageNo", strconv.Itoa(page))
		params.Set("pageSize", strconv.Itoa(c.pageSize))

		var payload libSrchPayload
		if err := c.get(ctx, "libSrch", params, &payload); err != nil {
			return nil, fmt.Errorf("list facilities %s=%s page=%d: %w", param, code, page, err)
		}

		for _, l := range payload.Libs {
			out = append(out, l.Lib.facility())
		}

		// numFound is sometimes absent; a short page is then the only end marker.
		if len(payload.Libs) < c.pageSize || (payload.NumFound > 0 && len(out) >= int(payload.NumFound)) {
			break
		}
	}

	if out == nil {
		out = []domain.Facility{}
	}
	return out, nil
}
