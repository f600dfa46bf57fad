package sobjectapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/stacklok/sobject-gateway/internal/config"
	"github.com/stacklok/sobject-gateway/internal/gateway"
	"github.com/stacklok/sobject-gateway/internal/schema"
	"github.com/stacklok/sobject-gateway/internal/versions"
)

const (
	// DefaultTimeout is the per-request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the number of retries after the first attempt
	DefaultMaxRetries = 3

	// DefaultDescribeConcurrency bounds parallel describe calls in DescribeSObjects
	DefaultDescribeConcurrency = 8

	// MaxResponseSize is the maximum allowed response size (100MB)
	MaxResponseSize = 100 * 1024 * 1024

	// UserAgent is the user agent string for API requests
	UserAgent = "sobject-gateway/1.0"

	// RequestIDHeader carries the generated request id
	RequestIDHeader = "X-Request-Id"

	dataPath = "/services/data"
)

// Client talks to the SObject REST API. It is safe for concurrent use.
type Client struct {
	httpClient      *http.Client
	baseURL         *url.URL
	token           string
	maxRetries      int
	initialInterval time.Duration
	concurrency     int

	versionMu sync.Mutex
	version   string
}

var _ gateway.Client = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithAccessToken sets the bearer token sent with every request
func WithAccessToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithAPIVersion pins the API version instead of discovering the latest one
func WithAPIVersion(version string) Option {
	return func(c *Client) {
		c.version = versions.NormalizeAPIVersion(version)
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithMaxRetries sets how many times a failed request is retried
func WithMaxRetries(retries int) Option {
	return func(c *Client) {
		if retries >= 0 {
			c.maxRetries = retries
		}
	}
}

// WithInitialRetryInterval sets the first backoff interval
func WithInitialRetryInterval(interval time.Duration) Option {
	return func(c *Client) {
		c.initialInterval = interval
	}
}

// WithDescribeConcurrency bounds parallel describe calls
func WithDescribeConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// New creates a Client for the instance at instanceURL
func New(instanceURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(instanceURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid instance URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid instance URL %q: must use http or https", instanceURL)
	}

	c := &Client{
		httpClient:      &http.Client{Timeout: DefaultTimeout},
		baseURL:         base,
		maxRetries:      DefaultMaxRetries,
		initialInterval: backoff.DefaultInitialInterval,
		concurrency:     DefaultDescribeConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewFromConfig creates a Client from the api section of the configuration
func NewFromConfig(cfg *config.APIConfig, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("api configuration is required")
	}

	token, err := cfg.GetToken()
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithAccessToken(token),
		WithTimeout(cfg.GetTimeout()),
		WithMaxRetries(cfg.GetMaxRetries()),
	}
	if cfg.Version != "" {
		base = append(base, WithAPIVersion(cfg.Version))
	}
	return New(cfg.InstanceURL, append(base, opts...)...)
}

// APIVersion returns the pinned API version or discovers the latest one
func (c *Client) APIVersion(ctx context.Context) (string, error) {
	c.versionMu.Lock()
	defer c.versionMu.Unlock()

	if c.version != "" {
		return c.version, nil
	}

	body, err := c.get(ctx, dataPath)
	if err != nil {
		return "", fmt.Errorf("failed to discover API versions: %w", err)
	}

	var available []string
	for _, v := range gjson.GetBytes(body, "#.version").Array() {
		available = append(available, v.String())
	}

	latest := versions.LatestVersion(available)
	if latest == "" {
		return "", fmt.Errorf("no API versions advertised by %s", c.baseURL)
	}

	logr.FromContextOrDiscard(ctx).Info("Discovered API version", "version", latest)
	c.version = versions.NormalizeAPIVersion(latest)
	return c.version, nil
}

func (c *Client) versionedPath(ctx context.Context, suffix string) (string, error) {
	version, err := c.APIVersion(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/v%s%s", dataPath, version, suffix), nil
}

// ListSObjects returns the names of every SObject class
func (c *Client) ListSObjects(ctx context.Context) ([]string, error) {
	path, err := c.versionedPath(ctx, "/sobjects")
	if err != nil {
		return nil, err
	}

	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	result := gjson.GetBytes(body, "sobjects.#.name")
	names := make([]string, 0, len(result.Array()))
	for _, name := range result.Array() {
		names = append(names, name.String())
	}
	return names, nil
}

// DescribeSObject returns the description of a single class
func (c *Client) DescribeSObject(ctx context.Context, name string) (*schema.Description, error) {
	path, err := c.versionedPath(ctx, "/sobjects/"+url.PathEscape(name)+"/describe")
	if err != nil {
		return nil, err
	}

	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var desc schema.Description
	if err := json.Unmarshal(body, &desc); err != nil {
		return nil, fmt.Errorf("failed to decode description of %s: %w", name, err)
	}
	return &desc, nil
}

// DescribeSObjects lists every class and describes each, preserving list order
func (c *Client) DescribeSObjects(ctx context.Context) ([]schema.NamedDescription, error) {
	names, err := c.ListSObjects(ctx)
	if err != nil {
		return nil, err
	}

	descs := make([]schema.NamedDescription, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, name := range names {
		g.Go(func() error {
			desc, err := c.DescribeSObject(gctx, name)
			if err != nil {
				return err
			}
			descs[i] = schema.NamedDescription{Name: name, Description: desc}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return descs, nil
}

// Query executes soql and follows nextRecordsUrl until every record is read
func (c *Client) Query(ctx context.Context, soql string) ([]schema.Record, error) {
	path, err := c.versionedPath(ctx, "/query?q="+url.QueryEscape(soql))
	if err != nil {
		return nil, err
	}

	var records []schema.Record
	for path != "" {
		body, err := c.get(ctx, path)
		if err != nil {
			return nil, err
		}

		for _, raw := range gjson.GetBytes(body, "records").Array() {
			var record schema.Record
			if err := json.Unmarshal([]byte(raw.Raw), &record); err != nil {
				return nil, fmt.Errorf("failed to decode record: %w", err)
			}
			records = append(records, record)
		}

		path = ""
		if !gjson.GetBytes(body, "done").Bool() {
			path = gjson.GetBytes(body, "nextRecordsUrl").String()
		}
	}

	if records == nil {
		records = []schema.Record{}
	}
	return records, nil
}

// get performs a GET against path with retries and returns the response body
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if len(path) > MaxPathLength {
		return nil, &MaxPathLengthError{Path: path}
	}

	target := c.baseURL.String() + path
	log := logr.FromContextOrDiscard(ctx)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialInterval

	operation := func() ([]byte, error) {
		body, err := c.do(ctx, target)
		if err == nil {
			return body, nil
		}

		var httpErr *HTTPError
		if !errors.As(err, &httpErr) {
			return nil, err
		}
		if !httpErr.Retryable() {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	body, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(c.maxRetries+1)),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Info("Retrying API request", "path", path, "error", err.Error(), "backoff", next)
		}),
	)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// do performs a single request
func (c *Client) do(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}

	requestID := uuid.New().String()
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log := logr.FromContextOrDiscard(ctx)
	log.V(1).Info("Sending API request", "url", req.URL.Path, "request_id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.ContentLength > MaxResponseSize {
		return nil, backoff.Permanent(fmt.Errorf("response size %d bytes exceeds maximum allowed size of %d bytes",
			resp.ContentLength, MaxResponseSize))
	}

	// +1 to detect if limit exceeded
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, backoff.Permanent(fmt.Errorf("response size exceeds maximum allowed size of %d bytes", MaxResponseSize))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		httpErr := newHTTPError(resp.StatusCode, target, resp.Status, body)
		log.V(1).Info("API request failed", "status", resp.StatusCode, "request_id", requestID)
		return nil, httpErr
	}

	return body, nil
}
