// Package kakao resolves coordinates to administrative regions with the
// Kakao Local API.
package kakao

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"library-route-service/internal/domain"
	"library-route-service/internal/platform/httpx"
	"library-route-service/internal/platform/obs"
)

const DefaultBaseURL = "https://dapi.kakao.com"

type coord2RegionResponse struct {
	Documents []struct {
		RegionType string `json:"region_type"`
		Depth1     string `json:"region_1depth_name"`
		Depth2     string `json:"region_2depth_name"`
		Depth3     string `json:"region_3depth_name"`
	} `json:"documents"`
}

// Client implements ports.RegionResolver. Safe for concurrent use.
type Client struct {
	http    *httpx.Client
	apiKey  string
	baseURL string
}

func NewClient(apiKey, baseURL string, hc *httpx.Client) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("kakao api key is empty")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if hc == nil {
		hc = httpx.New(httpx.Options{Name: "kakao", BreakerFailures: 5})
	}
	return &Client{
		http:    hc,
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// ResolveRegion reverse-geocodes p. Legal-dong ("B") documents are preferred
// over administrative ones when both are returned.
func (c *Client) ResolveRegion(ctx context.Context, p domain.GeoPoint) (_ domain.Region, err error) {
	defer obs.Time(ctx, "kakao.ResolveRegion")(&err)

	if err := p.Validate(); err != nil {
		return domain.Region{}, fmt.Errorf("resolve region: %w", err)
	}

	endpoint := c.baseURL + "/v2/local/geo/coord2regioncode.json"
	resp, err := c.http.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "KakaoAK "+c.apiKey)
		req.Header.Set("Accept", "application/json")

		q := req.URL.Query()
		q.Set("x", strconv.FormatFloat(p.Lon, 'f', -1, 64))
		q.Set("y", strconv.FormatFloat(p.Lat, 'f', -1, 64))
		q.Set("input_coord", "WGS84")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Region{}, fmt.Errorf("resolve region: execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded coord2RegionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Region{}, fmt.Errorf("resolve region: decode response: %w", err)
	}
	if len(decoded.Documents) == 0 {
		return domain.Region{}, fmt.Errorf("resolve region: no region at %v,%v: %w", p.Lat, p.Lon, domain.ErrNotFound)
	}

	doc := decoded.Documents[0]
	for _, d := range decoded.Documents {
		if d.RegionType == "B" {
			doc = d
			break
		}
	}

	return domain.Region{
		Sido:    doc.Depth1,
		Sigungu: doc.Depth2,
		Dong:    doc.Depth3,
		Code:    RegionCode(doc.Depth1),
		DtlCode: DtlRegionCode(doc.Depth1, doc.Depth2),
	}, nil
}
