// Package upstream holds the HTTP plumbing shared by the NDBC, Open-Meteo,
// and Nominatim adapters.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/surf-buddy/internal/domain"
	"github.com/couchcryptid/surf-buddy/internal/observability"
)

// maxErrorBody caps how much of a non-200 body is copied into the error.
const maxErrorBody = 512

// Client performs GET requests against one upstream service and records
// request metrics under its service label.
type Client struct {
	service    string
	userAgent  string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a client for service with a per-request timeout.
func NewClient(service, userAgent string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		service:    service,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
		logger:     logger,
	}
}

// Service returns the metrics label for this client.
func (c *Client) Service() string {
	return c.service
}

// GetText fetches fullURL and returns the body as a string.
func (c *Client) GetText(ctx context.Context, fullURL string) (string, error) {
	var body []byte
	err := c.do(ctx, fullURL, "text/plain", func(r io.Reader) error {
		var err error
		body, err = io.ReadAll(r)
		return err
	})
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetJSON fetches fullURL and decodes the JSON body into v.
func (c *Client) GetJSON(ctx context.Context, fullURL string, v any) error {
	return c.do(ctx, fullURL, "application/json", func(r io.Reader) error {
		if err := json.NewDecoder(r).Decode(v); err != nil {
			return fmt.Errorf("%w: decode response: %w", domain.ErrUpstreamMalformed, err)
		}
		return nil
	})
}

func (c *Client) do(ctx context.Context, fullURL, accept string, read func(io.Reader) error) (err error) {
	start := time.Now()
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		c.metrics.UpstreamRequests.WithLabelValues(c.service, outcome).Inc()
		c.metrics.UpstreamDuration.WithLabelValues(c.service).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s request: %w", domain.ErrUpstreamUnavailable, c.service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Debug("upstream non-200", "service", c.service, "status", resp.StatusCode)
		return fmt.Errorf("%w: %s status %d: %s", domain.ErrUpstreamUnavailable, c.service, resp.StatusCode, body)
	}

	if err := read(resp.Body); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %s read: %w", domain.ErrUpstreamUnavailable, c.service, err)
		}
		return err
	}
	return nil
}
