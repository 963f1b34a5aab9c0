package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/storefront/internal/logger"
	"github.com/wolfeidau/storefront/internal/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/wolfeidau/storefront/internal/client"

	maxBodySize = 10 << 20
)

// Config holds common client configuration
type Config struct {
	ServerURL string
	Timeout   time.Duration
	// CacheDir enables a disk cache for catalog reads, empty uses memory.
	CacheDir  string
	UserAgent string
}

// DefaultConfig returns a default client configuration
func DefaultConfig() Config {
	return Config{
		ServerURL: "http://localhost:5000/api",
		Timeout:   30 * time.Second,
		UserAgent: "storefront-cli",
	}
}

// Session is the slice of the session manager the client depends on.
type Session interface {
	TokenSource
	Invalidator
}

// Client talks JSON to the storefront backend. Requests pass through the
// authorizer, the request logger, the catalog cache and a gzip transport, in
// that order; failures are classified by the Normalizer.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	normalizer *Normalizer
}

// New creates a client. sess may be nil for anonymous use.
func New(cfg Config, sess Session) (*Client, error) {
	if cfg.ServerURL == "" {
		return nil, errors.New("server URL is required")
	}
	if _, err := url.Parse(cfg.ServerURL); err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	var tokens TokenSource
	var invalidator Invalidator
	if sess != nil {
		tokens, invalidator = sess, sess
	}

	transport := &AuthorizingTransport{
		Tokens: tokens,
		Next: logger.NewRequestLogger(
			NewCachingTransport(cfg.CacheDir, gzhttp.Transport(http.DefaultTransport)),
		),
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.ServerURL, "/"),
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		normalizer: &Normalizer{Session: invalidator},
	}, nil
}

// Do sends in as the JSON body (when non-nil) and decodes the response into
// out (when non-nil). Every failure is returned as an *Error.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, method+" "+routeOf(path),
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	req, err := c.newRequest(ctx, method, path, query, in)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return WrapError(KindUnexpected, err.Error(), err)
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	started := time.Now()
	resp, err := c.httpClient.Do(req)

	var body []byte
	status := 0
	if resp != nil {
		defer resp.Body.Close()
		status = resp.StatusCode
		body, err = readBody(resp.Body, err)
	}

	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.Int("status", status),
	)
	m := telemetry.GetMetrics()
	m.RequestsTotal.Add(ctx, 1, attrs)
	m.RequestDuration.Record(ctx, float64(time.Since(started).Milliseconds()), attrs)

	if cerr := c.normalizer.Check(ctx, req, resp, body, err); cerr != nil {
		span.SetStatus(codes.Error, cerr.Error())
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		return cerr
	}
	span.SetAttributes(attribute.Int("http.response.status_code", status))

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return WrapError(KindUnexpected, fmt.Sprintf("failed to decode response: %v", err), err)
	}

	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, in any) (*http.Request, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("invalid request path: %w", err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	return req, nil
}

func readBody(r io.Reader, doErr error) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxBodySize))
	if err != nil && doErr == nil {
		log.Debug().Err(err).Msg("failed to read response body")
	}
	return body, doErr
}

// routeOf trims ids off a path so span names stay low cardinality.
func routeOf(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p != "" && strings.Trim(p, "0123456789") == "" {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, in, out)
}

func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, in, out)
}

func (c *Client) Patch(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPatch, path, nil, in, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, out)
}
