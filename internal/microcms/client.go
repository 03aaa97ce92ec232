// Package microcms provides a client for the headless CMS REST API that
// serves fortune, notice and blog articles.
package microcms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"

	"fortunesite/internal/config"
	"fortunesite/internal/logger"
	"fortunesite/pkg/utils"
)

// APIKeyHeader carries the service API key.
const APIKeyHeader = "X-MICROCMS-API-KEY"

// Limit response size to 10MB.
const maxResponseBytes = 10 * 1024 * 1024

// Transport defines the CMS operations the source adapters consume.
type Transport interface {
	List(ctx context.Context, endpoint string, q Query) (*ListResponse, error)
	Get(ctx context.Context, endpoint, id string) (json.RawMessage, error)
}

// Ensure Client implements Transport.
var _ Transport = (*Client)(nil)

// ListResponse is the envelope returned by list endpoints.
type ListResponse struct {
	Contents   json.RawMessage `json:"contents"`
	TotalCount int             `json:"totalCount"`
	Offset     int             `json:"offset"`
	Limit      int             `json:"limit"`
}

// DecodeContents unmarshals the list contents into a typed slice.
func DecodeContents[T any](resp *ListResponse) ([]T, error) {
	if resp == nil || resp.Contents == nil {
		return nil, ErrNoData
	}

	var items []T
	if err := json.Unmarshal(resp.Contents, &items); err != nil {
		return nil, fmt.Errorf("failed to parse contents: %w", err)
	}

	return items, nil
}

// Decode unmarshals a single record.
func Decode[T any](raw json.RawMessage) (*T, error) {
	if len(raw) == 0 {
		return nil, ErrNoData
	}

	var target T
	if err := json.Unmarshal(raw, &target); err != nil {
		return nil, fmt.Errorf("failed to parse record: %w", err)
	}

	return &target, nil
}

// Options configures a Client.
type Options struct {
	HTTPClient *http.Client
	Logger     *logger.Logger
	// ServiceDomain is the subdomain of microcms.io; ignored when BaseURL is set.
	ServiceDomain string
	APIKey        string
	BaseURL       string
	Retry         config.RetryPolicy
}

// Client talks to the CMS over HTTP with bounded retries.
type Client struct {
	httpClient *http.Client
	executor   failsafe.Executor[*http.Response]
	headers    http.Header
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a client. Credentials are checked here rather than at
// package load so that local-only deployments never need them.
func NewClient(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		if opts.ServiceDomain == "" {
			return nil, ErrMissingServiceDomain
		}

		baseURL = fmt.Sprintf("https://%s.microcms.io/api/v1", opts.ServiceDomain)
	}

	helper := utils.NewHTTPHelper()
	if !helper.IsValidURL(baseURL) {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}

	if opts.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	retry := opts.Retry
	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = 1
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := retry.GetTimeout()
		if timeout <= 0 {
			timeout = 30 * time.Second
		}

		httpClient = &http.Client{Timeout: timeout}
	}

	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	return &Client{
		httpClient: httpClient,
		executor:   failsafe.With(newRetryPolicy(retry)),
		headers:    helper.BuildHeaders(map[string]string{APIKeyHeader: opts.APIKey}),
		logger:     log.Component("microcms"),
		baseURL:    baseURL,
	}, nil
}

// NewClientFromConfig creates a client from the remote configuration block.
func NewClientFromConfig(cfg config.RemoteConfig, log *logger.Logger) (*Client, error) {
	return NewClient(Options{
		ServiceDomain: cfg.ServiceDomain,
		APIKey:        cfg.APIKey,
		BaseURL:       cfg.BaseURL,
		Retry:         cfg.Retry,
		Logger:        log,
	})
}

// newRetryPolicy retries network errors, timeouts, rate limits and 5xx.
//
//nolint:bodyclose // the policy only inspects status codes
func newRetryPolicy(rp config.RetryPolicy) retrypolicy.RetryPolicy[*http.Response] {
	initial := rp.InitialDelay()
	if initial <= 0 {
		initial = time.Millisecond
	}

	maxDelay := rp.MaxDelay()
	if maxDelay < initial {
		maxDelay = initial
	}

	return retrypolicy.NewBuilder[*http.Response]().
		WithBackoff(initial, maxDelay).
		WithMaxRetries(rp.MaxAttempts - 1).
		WithJitterFactor(0.1).
		HandleIf(shouldRetry).
		Build()
}

func shouldRetry(resp *http.Response, err error) bool {
	if err != nil {
		// Cancellation is the caller's decision, not a transient fault.
		return !errors.Is(err, context.Canceled)
	}

	if resp == nil {
		return true
	}

	return isRetryableStatus(resp.StatusCode)
}

// isRetryableStatus determines if we should retry based on HTTP status code.
func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}

	return false
}

// List fetches a page of records from endpoint.
func (c *Client) List(ctx context.Context, endpoint string, q Query) (*ListResponse, error) {
	u := c.baseURL + "/" + url.PathEscape(endpoint)
	if encoded := q.Values().Encode(); encoded != "" {
		u += "?" + encoded
	}

	body, status, err := c.do(ctx, endpoint, u)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		return nil, &TransportError{
			Endpoint:   endpoint,
			StatusCode: status,
			Err:        fmt.Errorf("list failed: %s", truncateBody(body)),
		}
	}

	var resp ListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	return &resp, nil
}

// Get fetches a single record. A missing record yields ErrNotFound.
func (c *Client) Get(ctx context.Context, endpoint, id string) (json.RawMessage, error) {
	u := c.baseURL + "/" + url.PathEscape(endpoint) + "/" + url.PathEscape(id)

	body, status, err := c.do(ctx, endpoint, u)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
		return json.RawMessage(body), nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("%s/%s: %w", endpoint, id, ErrNotFound)
	default:
		return nil, &TransportError{
			Endpoint:   endpoint,
			StatusCode: status,
			Err:        fmt.Errorf("get %s failed: %s", id, truncateBody(body)),
		}
	}
}

// Ping lists one record from each endpoint and reports per-endpoint errors.
func (c *Client) Ping(ctx context.Context, endpoints ...string) map[string]error {
	results := make(map[string]error, len(endpoints))

	for _, endpoint := range endpoints {
		_, err := c.List(ctx, endpoint, Query{Limit: 1})
		results[endpoint] = err

		if err != nil {
			c.logger.Warn("endpoint probe failed", "endpoint", endpoint, "error", err)
		} else {
			c.logger.Info("endpoint probe succeeded", "endpoint", endpoint)
		}
	}

	return results
}

// do executes a GET through the retry executor and returns the body and
// final status code.
func (c *Client) do(ctx context.Context, endpoint, u string) ([]byte, int, error) {
	c.logger.Debug("cms request", "endpoint", endpoint, "url", u)

	//nolint:bodyclose // closed below or inside the attempt when retried
	resp, err := c.executor.WithContext(ctx).Get(func() (*http.Response, error) {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
		if reqErr != nil {
			return nil, reqErr
		}

		req.Header = c.headers.Clone()

		attemptResp, doErr := c.httpClient.Do(req)
		if shouldRetry(attemptResp, doErr) && attemptResp != nil && attemptResp.Body != nil {
			_ = attemptResp.Body.Close()
		}

		return attemptResp, doErr
	})
	if err != nil {
		status := lastStatus(resp, err)

		return nil, status, &TransportError{Endpoint: endpoint, StatusCode: status, Err: err}
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	return body, resp.StatusCode, nil
}

// lastStatus reports the status of the final attempt. Exhausted retries
// return no response; the last one is carried by the ExceededError.
func lastStatus(resp *http.Response, err error) int {
	if resp != nil {
		return resp.StatusCode
	}

	if exceeded := retrypolicy.AsExceededError(err); exceeded != nil {
		if last, ok := exceeded.LastResult.(*http.Response); ok && last != nil {
			return last.StatusCode
		}
	}

	return 0
}

func truncateBody(body []byte) string {
	const limit = 200

	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}

	return s
}
