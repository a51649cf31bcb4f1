// Package gateway talks to the remote storefront REST API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/fjod/go_cart/storefront/pkg/logger"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultBaseURL = "http://localhost:8080/api"
	DefaultTimeout = 10 * time.Second

	HeaderRequestID      = "X-Request-ID"
	HeaderIdempotencyKey = "Idempotency-Key"
)

type Client struct {
	baseURL *url.URL
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
	log     *slog.Logger

	maxFailures uint32
	openFor     time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the underlying client. Its Jar is kept if set.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc.Jar == nil {
			hc.Jar = c.http.Jar
		}
		c.http = hc
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithBreaker trips after failures consecutive transport or 5xx failures and
// stays open for openFor.
func WithBreaker(failures uint32, openFor time.Duration) Option {
	return func(c *Client) {
		c.maxFailures = failures
		c.openFor = openFor
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = logger.OrDiscard(l)
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	c := &Client{
		baseURL: u,
		http: &http.Client{
			Timeout:   DefaultTimeout,
			Jar:       jar,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log:         logger.Discard(),
		maxFailures: 5,
		openFor:     30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = newBreaker(c.maxFailures, c.openFor, c.log)
	return c, nil
}

func newBreaker(failures uint32, openFor time.Duration, log *slog.Logger) *gobreaker.CircuitBreaker[*http.Response] {
	if failures == 0 {
		failures = 1
	}
	return gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:    "storefront-api",
		Timeout: openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}

// BaseURL is the API root; cookies for the session are scoped to it.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

func (c *Client) Jar() http.CookieJar {
	return c.http.Jar
}

type idempotencyKey struct{}

// WithIdempotencyKey makes the next request issued with ctx carry key.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, idempotencyKey{}, key)
}

var errServerStatus = errors.New("server error status")

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	endpoint := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, uuid.NewString())
	if key, ok := ctx.Value(idempotencyKey{}).(string); ok && key != "" {
		req.Header.Set(HeaderIdempotencyKey, key)
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, errServerStatus
		}
		return resp, nil
	})
	if resp == nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%s %s: %w", method, path, ErrUnavailable)
		}
		c.log.WarnContext(ctx, "request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeAPIError(resp)
		c.log.WarnContext(ctx, "api error", "method", method, "path", path, "status", resp.StatusCode, "message", apiErr.Message)
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrBadResponse, err)
	}
	return nil
}
