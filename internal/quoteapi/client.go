// Package quoteapi is the HTTP client for the quote generation backend.
package quoteapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/verte-zerg/quipe/internal/model"
)

const (
	// DefaultBaseURL targets a backend running locally.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout bounds a single request. Zero disables the timeout.
	DefaultTimeout = 30 * time.Second

	generateEndpoint    = "/api/quotes/generate"
	randomEndpoint      = "/api/quotes/random"
	categoriesEndpoint  = "/api/quotes/categories"
	healthEndpoint      = "/health"
	userAgentProduct    = "quipe"
	userAgentVersion    = "1.0"
	maxResponseBodySize = 1 << 20
)

// GenerateRequest is the JSON payload for a generation request.
// Topic and Style encode as null when nil.
type GenerateRequest struct {
	Category string  `json:"category"`
	Topic    *string `json:"topic"`
	Style    *string `json:"style"`
	Length   string  `json:"length"`
}

// QuoteResponse is the backend's quote payload.
type QuoteResponse struct {
	Quote     string `json:"quote"`
	Author    string `json:"author,omitempty"`
	Category  string `json:"category,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Model   string `json:"model"`
}

// Client talks to the quote backend.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
}

// ClientOption mutates the client during construction.
type ClientOption func(*Client)

// NewClient builds a client for baseURL. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   baseURL,
		http:      &http.Client{Timeout: DefaultTimeout},
		userAgent: buildDefaultUserAgent(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: DefaultTimeout}
	}
	c.baseURL = sanitizeBaseURL(c.baseURL)
	return c
}

// WithHTTPClient installs a custom http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout on a copy of the current
// http.Client. Zero waits for the transport.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		hc := http.Client{}
		if c.http != nil {
			hc = *c.http
		}
		hc.Timeout = d
		c.http = &hc
	}
}

// WithUserAgent sets a custom User-Agent string.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) { c.userAgent = ua }
}

// BaseURL returns the resolved base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// NewGenerateRequest builds the request payload from preferences.
func NewGenerateRequest(prefs model.Preferences) GenerateRequest {
	return GenerateRequest{
		Category: string(prefs.Resolved()),
		Topic:    optional(prefs.Topic),
		Style:    optional(prefs.Style),
		Length:   model.QuoteLength,
	}
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

// Generate requests a quote for the given preferences.
func (c *Client) Generate(ctx context.Context, prefs model.Preferences) (QuoteResponse, error) {
	raw, err := c.do(ctx, http.MethodPost, generateEndpoint, NewGenerateRequest(prefs))
	if err != nil {
		return QuoteResponse{}, err
	}
	return decodeQuote(raw)
}

// Random requests a quote from a random category.
func (c *Client) Random(ctx context.Context) (QuoteResponse, error) {
	raw, err := c.do(ctx, http.MethodGet, randomEndpoint, nil)
	if err != nil {
		return QuoteResponse{}, err
	}
	return decodeQuote(raw)
}

// Categories lists the categories the backend accepts.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	raw, err := c.do(ctx, http.MethodGet, categoriesEndpoint, nil)
	if err != nil {
		return nil, err
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("quoteapi: decode categories: %w", err)
	}
	return out, nil
}

// Health reports backend status.
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	raw, err := c.do(ctx, http.MethodGet, healthEndpoint, nil)
	if err != nil {
		return HealthResponse{}, err
	}
	var out HealthResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return HealthResponse{}, fmt.Errorf("quoteapi: decode health: %w", err)
	}
	return out, nil
}

func decodeQuote(raw []byte) (QuoteResponse, error) {
	var out QuoteResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return QuoteResponse{}, fmt.Errorf("quoteapi: decode quote: %w", err)
	}
	if strings.TrimSpace(out.Quote) == "" {
		return QuoteResponse{}, ErrMissingQuote
	}
	return out, nil
}

// do executes the request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, method, endpoint string, payload any) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("quoteapi: encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("quoteapi: build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(c.userAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quoteapi: execute request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, fmt.Errorf("quoteapi: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, buildAPIError(resp.StatusCode, raw)
	}
	return raw, nil
}

func sanitizeBaseURL(baseURL string) string {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(baseURL, "/")
}

func buildDefaultUserAgent() string {
	goVer := strings.TrimPrefix(runtime.Version(), "go")
	return fmt.Sprintf("%s/%s (Go%s; %s/%s)", userAgentProduct, userAgentVersion, goVer, runtime.GOOS, runtime.GOARCH)
}
