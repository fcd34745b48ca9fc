// Package library talks to the data4library open API: the library directory
// (libSrch) and loan statistics (loanItemSrch).
package library

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"library-route-service/internal/platform/httpx"
)

const (
	DefaultBaseURL  = "http://data4library.kr/api"
	DefaultPageSize = 200
	// maxPages bounds directory pagination; no region comes close.
	maxPages = 20
)

// Client implements ports.FacilityDirectory and ports.BookCatalog.
type Client struct {
	http     *httpx.Client
	apiKey   string
	baseURL  string
	pageSize int
	now      func() time.Time
}

func NewClient(apiKey, baseURL string, pageSize int, hc *httpx.Client) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("library api key is empty")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if hc == nil {
		hc = httpx.New(httpx.Options{Name: "data4library", BreakerFailures: 5})
	}
	return &Client{
		http:     hc,
		apiKey:   apiKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		pageSize: pageSize,
		now:      time.Now,
	}, nil
}

// apiError is the body the API sends, with status 200, for bad keys and
// malformed requests.
type apiError struct {
	Message string
}

func (e *apiError) Error() string { return "data4library: " + e.Message }

// get calls endpoint with the shared auth/format parameters plus params and
// decodes response.<payload> into out.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	full := c.baseURL + "/" + endpoint
	resp, err := c.http.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		q := url.Values{}
		for k, v := range params {
			q[k] = v
		}
		q.Set("authKey", c.apiKey)
		q.Set("format", "json")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var envelope struct {
		Response json.RawMessage `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(envelope.Response) == 0 {
		return errors.New("decode response: missing response object")
	}

	var failure struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(envelope.Response, &failure); err == nil && failure.Error != "" {
		return &apiError{Message: failure.Error}
	}

	dec := json.NewDecoder(bytes.NewReader(envelope.Response))
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode %s payload: %w", endpoint, err)
	}
	return nil
}

// flexInt accepts both 12 and "12"; the API is inconsistent between
// endpoints.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("flexInt %s: %w", b, err)
	}
	*n = flexInt(v)
	return nil
}
