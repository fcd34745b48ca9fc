// Package httpx is the shared HTTP client for upstream APIs. It retries
// transient failures with exponential backoff, paces requests with a token
// bucket and trips a circuit breaker when an upstream keeps failing.
package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"library-route-service/internal/platform/metrics"
)

const (
	defaultMaxAttempts = 4
	defaultBackoff     = 200 * time.Millisecond
	maxBodySnippet     = 512
)

// StatusError is returned for responses with status >= 400.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// Retryable reports whether the status is worth another attempt.
func (e *StatusError) Retryable() bool {
	switch e.Code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

type Options struct {
	// Name labels metrics, logs and the breaker.
	Name              string
	Timeout           time.Duration
	RequestsPerMinute int
	MaxAttempts       int
	Backoff           time.Duration
	// BreakerFailures is the number of consecutive failed calls that opens
	// the breaker. Zero disables it.
	BreakerFailures uint32
	BreakerCooldown time.Duration
	Transport       http.RoundTripper
}

type Client struct {
	name        string
	session     *http.Client
	limiter     *rate.Limiter
	breaker     *gobreaker.CircuitBreaker[*http.Response]
	maxAttempts int
	backoff     time.Duration
}

func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		name:        opts.Name,
		session:     &http.Client{Timeout: timeout, Transport: opts.Transport},
		maxAttempts: opts.MaxAttempts,
		backoff:     opts.Backoff,
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = defaultMaxAttempts
	}
	if c.backoff <= 0 {
		c.backoff = defaultBackoff
	}

	if opts.RequestsPerMinute > 0 {
		every := time.Minute / time.Duration(opts.RequestsPerMinute)
		c.limiter = rate.NewLimiter(rate.Every(every), 1)
	}

	if opts.BreakerFailures > 0 {
		failures := opts.BreakerFailures
		cooldown := opts.BreakerCooldown
		if cooldown <= 0 {
			cooldown = 30 * time.Second
		}
		c.breaker = gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
			Name:    opts.Name,
			Timeout: cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			IsSuccessful: func(err error) bool {
				// Caller errors do not count against the upstream.
				var se *StatusError
				if errors.As(err, &se) {
					return !se.Retryable()
				}
				return err == nil || errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("upstream", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			},
		})
	}

	return c
}

// Do sends the request built by makeReq, retrying transient failures.
// makeReq is called once per attempt so request bodies can be rebuilt.
// On success the caller owns resp.Body.
func (c *Client) Do(ctx context.Context, makeReq func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	backoff := c.backoff
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("%s: rate limit wait: %w", c.name, err)
			}
		}

		req, err := makeReq(ctx)
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := c.once(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !retryable(err) || attempt == c.maxAttempts {
			return nil, lastErr
		}

		log.Debug().Str("upstream", c.name).Int("attempt", attempt).Err(err).Msg("retrying upstream request")

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}

func (c *Client) once(req *http.Request) (*http.Response, error) {
	if c.breaker == nil {
		return c.send(req)
	}
	return c.breaker.Execute(func() (*http.Response, error) {
		return c.send(req)
	})
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(c.name, "error").Inc()
		return nil, err
	}
	metrics.UpstreamRequests.WithLabelValues(c.name, statusClass(resp.StatusCode)).Inc()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySnippet))
		resp.Body.Close()
		return nil, &StatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func statusClass(code int) string {
	return strconv.Itoa(code/100) + "xx"
}
