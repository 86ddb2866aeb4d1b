// Package dart provides a client for the DART open disclosure API
package dart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/finlens/internal/common"
	"github.com/bobmcallan/finlens/internal/interfaces"
	"github.com/bobmcallan/finlens/internal/models"
)

const (
	DefaultBaseURL   = "https://opendart.fss.or.kr/api"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 10 // requests per second

	singleAccountPath = "/fnlttSinglAcnt.json"
	maxErrorBody      = 4096
)

var _ interfaces.DARTClient = (*Client)(nil)

// ErrMissingAPIKey is returned before any request when no key is configured
var ErrMissingAPIKey = errors.New("dart api key is not configured")

// Client implements the DARTClient interface
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the per-request ceiling
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new DART client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// HTTPError is a non-200 HTTP response from the API
type HTTPError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("DART API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// NetworkError is a transport failure: the call timed out, the connection
// failed, or the body could not be decoded.
type NetworkError struct {
	Op      string
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("DART %s timed out: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("DART %s failed: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &NetworkError{Op: "rate limit wait", Timeout: isTimeout(err), Err: err}
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("crtfc_key", c.apiKey)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("DART API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: "request", Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &NetworkError{Op: "decode", Timeout: isTimeout(err), Err: err}
	}

	return nil
}

// GetFinancialStatements retrieves the major accounts of one company
func (c *Client) GetFinancialStatements(ctx context.Context, corpCode string, year int, reportCode string) (*models.DisclosureResponse, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if reportCode == "" {
		reportCode = models.DefaultReportCode
	}

	params := url.Values{}
	params.Set("corp_code", corpCode)
	params.Set("bsns_year", strconv.Itoa(year))
	params.Set("reprt_code", reportCode)

	var resp models.DisclosureResponse
	if err := c.get(ctx, singleAccountPath, params, &resp); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("corp_code", corpCode).
		Int("year", year).
		Str("report_code", reportCode).
		Str("status", resp.Status).
		Int("items", len(resp.List)).
		Msg("DART statements response")

	return &resp, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
