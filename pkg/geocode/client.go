// Package geocode standardizes free-form candidate addresses against the
// Nominatim API.
package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Place is one standardized address match.
type Place struct {
	DisplayName string
	City        string
	Latitude    string
	Longitude   string
	Matched     bool
}

// Client is a rate-limited Nominatim client. The public instance allows one
// request per second, and enforces a distinctive User-Agent.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit overrides the default 1 req/s limit.
func WithRateLimit(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// New creates a Nominatim client.
func New(baseURL, userAgent string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Address     struct {
		City         string `json:"city"`
		Town         string `json:"town"`
		Municipality string `json:"municipality"`
	} `json:"address"`
}

// Standardize resolves a free-form address to its best match. No match is
// not an error: it returns a Place with Matched=false.
func (c *Client) Standardize(ctx context.Context, freeform string) (*Place, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: rate limit")
	}

	params := url.Values{
		"q":              {freeform},
		"format":         {"jsonv2"},
		"limit":          {"1"},
		"addressdetails": {"1"},
		"countrycodes":   {"br"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: build request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geocode: nominatim returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: read body")
	}

	var results []searchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, eris.Wrap(err, "geocode: parse response")
	}
	if len(results) == 0 {
		return &Place{Matched: false}, nil
	}

	match := results[0]
	city := match.Address.City
	if city == "" {
		city = match.Address.Town
	}
	if city == "" {
		city = match.Address.Municipality
	}
	return &Place{
		DisplayName: match.DisplayName,
		City:        city,
		Latitude:    match.Lat,
		Longitude:   match.Lon,
		Matched:     true,
	}, nil
}
