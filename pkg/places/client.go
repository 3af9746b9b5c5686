// Package places provides the Google Places text-search client and the
// extraction of export-ready records from raw search responses.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for upstream search operations.
var (
	searchRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "places_search_requests_total",
		Help: "Total upstream search requests by status",
	}, []string{"status"})

	searchRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "places_search_request_duration_seconds",
		Help:    "Upstream search request duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})

	searchErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "places_search_errors_total",
		Help: "Total upstream search errors by class",
	}, []string{"class"})
)

// DefaultBaseURL is the production endpoint of the Places API (New).
const DefaultBaseURL = "https://places.googleapis.com/v1"

// searchPath is the text-search method path, relative to the base URL.
const searchPath = "/places:searchText"

// fieldMask requests all response fields. The exporter only reads a handful,
// but the reference tooling always asked for everything.
const fieldMask = "*"

// Client is the Places text-search client. A single Client is safe for
// concurrent use.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// APIKey is the Google API key, sent as X-Goog-Api-Key (REQUIRED).
	APIKey string

	// BaseURL overrides the API endpoint (tests point it at a mock server).
	BaseURL string

	// UserAgent is sent with every request.
	UserAgent string

	// Timeout bounds a single search request.
	Timeout time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:    apiKey,
		BaseURL:   DefaultBaseURL,
		UserAgent: "places-export/1.0",
		Timeout:   30 * time.Second,
	}
}

// New creates a new Places client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	logger := log.With().Str("component", "places-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: logger,
	}, nil
}

// Search performs one text-search request. pageToken, when non-empty, asks
// for the continuation page of an earlier search with the same query.
//
// There is no retry: the caller surfaces the first failure. The upstream
// charges per request, and a continuation token that failed once is unlikely
// to succeed on an immediate second attempt.
func (c *Client) Search(ctx context.Context, query, pageToken string) (*SearchResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	startTime := time.Now()
	defer func() {
		searchRequestDuration.Observe(time.Since(startTime).Seconds())
	}()

	body, err := json.Marshal(searchRequest{
		TextQuery: query,
		PageToken: pageToken,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+searchPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.config.APIKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	c.logger.Debug().
		Str("query", query).
		Bool("continuation", pageToken != "").
		Msg("Executing text search")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		errClass := classify(0, err)
		searchErrorsTotal.WithLabelValues(string(errClass)).Inc()
		searchRequestsTotal.WithLabelValues("network_error").Inc()
		c.logger.Error().Err(err).Msg("Search request failed")
		return nil, &RequestError{
			ErrorClass: errClass,
			Message:    "search request failed",
			Err:        err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errClass := classify(resp.StatusCode, nil)
		searchErrorsTotal.WithLabelValues(string(errClass)).Inc()
		searchRequestsTotal.WithLabelValues(fmt.Sprintf("%d", resp.StatusCode)).Inc()

		// Drain so the connection can be reused, but never forward the raw
		// upstream body to callers.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("Search request rejected by upstream")

		return nil, &RequestError{
			StatusCode: resp.StatusCode,
			ErrorClass: errClass,
			Message:    resp.Status,
		}
	}

	searchRequestsTotal.WithLabelValues(fmt.Sprintf("%d", resp.StatusCode)).Inc()

	var searchResp SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		searchErrorsTotal.WithLabelValues("parse").Inc()
		c.logger.Error().Err(err).Msg("Failed to decode search response")
		return nil, &ParseError{Err: err}
	}

	c.logger.Debug().
		Int("places", len(searchResp.Places)).
		Bool("has_next_page", searchResp.NextPageToken != "").
		Msg("Search completed")

	return &searchResp, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
