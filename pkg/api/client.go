// Package api provides the typed HTTP client for the remote board API.
// Each operation is a single bearer-authenticated round trip; there are no
// retries and no caching at this layer. All error handling is caller-side.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the board API origin.
const DefaultBaseURL = "https://board.featurekit.io/api/boards"

// Prometheus metrics for board API operations.
var (
	apiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "board_api_requests_total",
		Help: "Total board API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	apiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "board_api_request_duration_seconds",
		Help:    "Board API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	apiErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "board_api_errors_total",
		Help: "Total board API errors by class",
	}, []string{"class"})
)

// Client is the board API client.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the board API origin (default: DefaultBaseURL).
	BaseURL string

	// Token is the bearer credential identifying the board.
	Token string

	// UserAgent header sent with every request.
	UserAgent string

	// Timeout for the underlying HTTP client.
	Timeout time.Duration
}

// DefaultConfig returns a safe default configuration for the given token.
func DefaultConfig(token string) Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		Token:     token,
		UserAgent: "board-widget/0.1.0",
		Timeout:   30 * time.Second,
	}
}

// New creates a new board API client.
func New(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("token is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	logger := log.With().Str("component", "board-api").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: logger,
	}, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// ListStatuses fetches the board's status columns.
func (c *Client) ListStatuses(ctx context.Context) ([]Status, error) {
	var resp StatusList
	if err := c.do(ctx, http.MethodGet, "/statuses", "/statuses", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Records, nil
}

// ListFeatures fetches one page of features for a status column. The server
// performs the pagination; TotalCount in the response is the ground truth
// for remaining-count computation.
func (c *Client) ListFeatures(ctx context.Context, statusKey string, page, perPage int) (*FeatureList, error) {
	if page < 1 {
		return nil, fmt.Errorf("page must be >= 1 (got %d)", page)
	}
	if perPage < 1 {
		return nil, fmt.Errorf("per_page must be >= 1 (got %d)", perPage)
	}

	query := url.Values{}
	query.Set("status", statusKey)
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))

	var resp FeatureList
	if err := c.do(ctx, http.MethodGet, "/features", "/features", query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetFeature fetches the full detail record for a feature.
func (c *Client) GetFeature(ctx context.Context, id string) (*ShowFeature, error) {
	path := "/features/" + url.PathEscape(id)

	var resp ShowFeature
	if err := c.do(ctx, http.MethodGet, path, "/features/{id}", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateComment submits a comment on a feature. Validation failures surface
// as *Error with Fields populated.
func (c *Client) CreateComment(ctx context.Context, featureID string, input CommentInput) (*Comment, error) {
	path := "/features/" + url.PathEscape(featureID) + "/comments"

	var resp Comment
	if err := c.do(ctx, http.MethodPost, path, "/features/{id}/comments", nil, input, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateUpvote submits an upvote on a feature. Idempotency is not guaranteed
// server-side; callers enforce their own at-most-once policy.
func (c *Client) CreateUpvote(ctx context.Context, featureID string, contributor Contributor) error {
	path := "/features/" + url.PathEscape(featureID) + "/upvotes"
	return c.do(ctx, http.MethodPost, path, "/features/{id}/upvotes", nil, UpvoteInput{Contributor: contributor}, nil)
}

// CreateFeature submits a new feature request. Validation failures surface
// as *Error with Fields populated.
func (c *Client) CreateFeature(ctx context.Context, input FeatureInput) error {
	return c.do(ctx, http.MethodPost, "/features", "/features", nil, input, nil)
}

// do performs a single HTTP round trip and decodes the JSON response into
// out when out is non-nil. The endpoint argument is the metrics label; path
// parameters stay templated to keep label cardinality bounded.
func (c *Client) do(ctx context.Context, method, path, endpoint string, query url.Values, body, out any) error {
	startTime := time.Now()
	defer func() {
		apiRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	reqURL := c.config.BaseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("method", method).
		Msg("Executing board API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		apiErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		apiRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return &Error{
			Class:   ErrorClassNetwork,
			Message: "request failed",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		apiErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return &Error{
			Class:   ErrorClassNetwork,
			Message: "read response body",
			Err:     err,
		}
	}

	apiRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode >= 400 {
		errClass := classify(resp.StatusCode)
		apiErrorsTotal.WithLabelValues(string(errClass)).Inc()

		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("Board API request error")

		apiErr := &Error{
			StatusCode: resp.StatusCode,
			Class:      errClass,
			Message:    resp.Status,
		}
		if resp.StatusCode == http.StatusUnprocessableEntity {
			apiErr.Fields = parseFieldErrors(data)
		}
		return apiErr
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}
