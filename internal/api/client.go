// Package api is the HTTP client for the customs calculator backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/customs/internal/common"
	"github.com/Veraticus/customs/internal/model"
)

// DefaultBaseURL is the API root of a locally running calculator backend.
const DefaultBaseURL = "http://localhost:8000/api/v1"

// DefaultSearchLimit is the number of classification results requested per search.
const DefaultSearchLimit = 10

const maxResponseBytes = 4 << 20

// Client talks to the calculator REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: api base url: %w", common.ErrInvalidConfig, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: api base url must be http(s): %s", common.ErrInvalidConfig, baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SearchClassifications looks up TN VED codes by code prefix or description.
func (c *Client) SearchClassifications(ctx context.Context, query string, limit int) ([]model.Classification, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))

	var results []model.Classification
	if err := c.get(ctx, "/tnved/search", params, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// CurrencyRate returns the latest Central Bank rate for a currency code.
func (c *Client) CurrencyRate(ctx context.Context, code string) (*model.CurrencyRate, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = "USD"
	}

	var rate model.CurrencyRate
	if err := c.get(ctx, "/currency/rate/"+url.PathEscape(code), nil, &rate); err != nil {
		return nil, err
	}
	if rate.Code == "" {
		rate.Code = code
	}
	return &rate, nil
}

// Currencies returns the latest rates for every active currency.
func (c *Client) Currencies(ctx context.Context) ([]model.Currency, error) {
	var rates []model.Currency
	if err := c.get(ctx, "/currency/rates", nil, &rates); err != nil {
		return nil, err
	}
	return rates, nil
}

// Countries returns every active origin country.
func (c *Client) Countries(ctx context.Context) ([]model.Country, error) {
	var countries []model.Country
	if err := c.get(ctx, "/countries/list", nil, &countries); err != nil {
		return nil, err
	}
	return countries, nil
}

// CheckFreeTrade asks the backend whether a country has a free-trade agreement.
func (c *Client) CheckFreeTrade(ctx context.Context, code string) (*model.FreeTradeStatus, error) {
	var status model.FreeTradeStatus
	path := "/countries/check-free-trade/" + url.PathEscape(strings.TrimSpace(code))
	if err := c.get(ctx, path, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Calculate posts a calculation request and returns the duty breakdown.
func (c *Client) Calculate(ctx context.Context, req model.CalculationRequest) (*model.CalculationResult, error) {
	var result model.CalculationResult
	if err := c.post(ctx, "/calculator/calculate", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, path, out)
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path, out)
}

func (c *Client) do(req *http.Request, path string, out any) error {
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", common.ErrAPIUnavailable, req.Method, path, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Debug("Failed to close response body", "error", closeErr)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: reading %s: %w", common.ErrAPIUnavailable, path, err)
	}

	slog.Debug("Calculator API request",
		"method", req.Method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s: %w", common.ErrInvalidResponse, path, err)
	}
	return nil
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
