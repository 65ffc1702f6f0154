// Package client provides the HTTP client used against the map bookmark
// folder API, with request pacing, optional retries, error classification
// and Prometheus instrumentation.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Sternrassler/naver-folder-client/pkg/logging"
	"github.com/Sternrassler/naver-folder-client/pkg/ratelimit"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folder_api_requests_total",
		Help: "Total folder API requests by status",
	}, []string{"status"})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "folder_api_request_duration_seconds",
		Help:    "Folder API request duration in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folder_api_errors_total",
		Help: "Total folder API errors by class",
	}, []string{"class"})

	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folder_api_retries_total",
		Help: "Total number of retry attempts by error class",
	}, []string{"error_class"})

	retryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "folder_api_retry_backoff_seconds",
		Help:    "Backoff duration for retries by error class",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30},
	}, []string{"error_class"})

	retryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folder_api_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by error class",
	}, []string{"error_class"})
)

// maxErrorBody bounds how much of a failed response body ends up in an error.
const maxErrorBody = 512

// Config holds the client configuration.
type Config struct {
	// UserAgent is sent with every request.
	UserAgent string

	// Timeout applies to each HTTP attempt.
	Timeout time.Duration

	// Retry controls retries of server and network failures.
	Retry RetryConfig

	// RequestsPerSecond paces requests; 0 disables pacing.
	RequestsPerSecond float64

	// Burst is the pacer bucket size.
	Burst int
}

// DefaultConfig returns a fail-fast, unpaced configuration.
func DefaultConfig(userAgent string) Config {
	return Config{
		UserAgent:         userAgent,
		Timeout:           30 * time.Second,
		Retry:             DefaultRetryConfig(),
		RequestsPerSecond: 0,
		Burst:             1,
	}
}

// Client performs folder API requests.
type Client struct {
	httpClient *http.Client
	pacer      *ratelimit.Pacer
	config     Config
	logger     zerolog.Logger
}

// New creates a new client.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must be >= 0 (got %s)", cfg.Timeout)
	}
	if cfg.Retry.MaxAttempts < 1 {
		return nil, fmt.Errorf("max attempts must be >= 1 (got %d)", cfg.Retry.MaxAttempts)
	}
	if cfg.RequestsPerSecond < 0 {
		return nil, fmt.Errorf("requests per second must be >= 0 (got %v)", cfg.RequestsPerSecond)
	}

	logger := logging.NewLogger("folder-client")

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		pacer:  ratelimit.NewPacer(cfg.RequestsPerSecond, cfg.Burst, logger),
		config: cfg,
		logger: logger,
	}, nil
}

// Do performs an HTTP request with pacing, retries and error classification.
// Responses with a status >= 400 are returned as *APIError and their body is
// closed; on success the caller owns resp.Body.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	target := req.URL.String()

	if err := c.pacer.Wait(ctx); err != nil {
		return nil, fmt.Errorf("pace request: %w", err)
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	var resp *http.Response

	err := retryWithBackoff(ctx, c.config.Retry, c.logger, func() (ErrorClass, error) {
		start := time.Now()
		r, err := c.httpClient.Do(req)
		requestDuration.Observe(time.Since(start).Seconds())

		if err != nil {
			requestsTotal.WithLabelValues(statusLabel(0)).Inc()
			errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			c.logger.Debug().Err(err).Str("url", target).Msg("HTTP request failed")

			if ctx.Err() != nil {
				return "", err
			}
			return ErrorClassNetwork, &APIError{
				ErrorClass: ErrorClassNetwork,
				Message:    "request failed",
				URL:        target,
				Err:        err,
			}
		}

		requestsTotal.WithLabelValues(statusLabel(r.StatusCode)).Inc()
		c.logger.Debug().
			Str("url", target).
			Int("status_code", r.StatusCode).
			Dur("duration", time.Since(start)).
			Msg("Folder API response")

		if errorClass := classifyStatus(r.StatusCode); errorClass != "" {
			errorsTotal.WithLabelValues(string(errorClass)).Inc()
			snippet, _ := io.ReadAll(io.LimitReader(r.Body, maxErrorBody))
			r.Body.Close()

			apiErr := &APIError{
				StatusCode: r.StatusCode,
				ErrorClass: errorClass,
				Message:    r.Status,
				URL:        target,
			}
			if len(snippet) > 0 {
				apiErr.Err = fmt.Errorf("body: %s", snippet)
			}
			return errorClass, apiErr
		}

		resp = r
		return "", nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// GetJSON issues a GET to rawURL and decodes the JSON body into v.
func (c *Client) GetJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		return &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassDecode,
			Message:    "invalid JSON body",
			URL:        rawURL,
			Err:        err,
		}
	}

	return nil
}

// SetHTTPClient replaces the underlying HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
