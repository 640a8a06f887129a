package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/job-matcher/internal/types"
)

// DefaultTimeout is the per-request timeout for geocoding calls.
const DefaultTimeout = 10 * time.Second

// DefaultUserAgent identifies the service to the geocoding provider.
const DefaultUserAgent = "Mozilla/5.0 (compatible; JobMatcher/1.0)"

// Geocoder resolves free-text place descriptions to coordinates and back.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (types.Coordinates, error)
	ReverseGeocode(ctx context.Context, c types.Coordinates) (string, error)
}

// Error represents a geocoding failure. NotFound distinguishes "the provider
// had no result" from provider/network unavailability.
type Error struct {
	Place    string
	Message  string
	NotFound bool
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("geocode error for %q: %s: %v", e.Place, e.Message, e.Cause)
	}
	return fmt.Sprintf("geocode error for %q: %s", e.Place, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether err is a geocoding "no result" failure.
func IsNotFound(err error) bool {
	ge, ok := err.(*Error)
	return ok && ge.NotFound
}

// Client is a Geocoder backed by a Nominatim-compatible HTTP endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a geocoding client for the given provider base URL
// (e.g. "https://nominatim.openstreetmap.org").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  DefaultUserAgent,
	}
}

// nominatimResult mirrors a single entry of the provider's search response.
type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves a place name to coordinates. It retries once on a
// transient failure before reporting the provider as unavailable.
func (c *Client) Geocode(ctx context.Context, place string) (types.Coordinates, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return types.Coordinates{}, &Error{Place: place, Message: "empty place name", NotFound: true}
	}

	params := url.Values{}
	params.Set("q", place)
	params.Set("format", "json")
	params.Set("limit", "1")

	var results []nominatimResult
	if err := c.getJSON(ctx, c.baseURL+"/search?"+params.Encode(), place, &results); err != nil {
		return types.Coordinates{}, err
	}
	if len(results) == 0 {
		return types.Coordinates{}, &Error{Place: place, Message: "no results", NotFound: true}
	}

	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return types.Coordinates{}, &Error{Place: place, Message: "malformed coordinates in response"}
	}

	return types.Coordinates{Lat: lat, Lon: lon}, nil
}

// ReverseGeocode returns a best-effort human-readable place string.
func (c *Client) ReverseGeocode(ctx context.Context, coords types.Coordinates) (string, error) {
	place := fmt.Sprintf("%.5f,%.5f", coords.Lat, coords.Lon)

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	params.Set("format", "json")

	var result nominatimResult
	if err := c.getJSON(ctx, c.baseURL+"/reverse?"+params.Encode(), place, &result); err != nil {
		return "", err
	}
	if result.DisplayName == "" {
		return "", &Error{Place: place, Message: "no results", NotFound: true}
	}
	return result.DisplayName, nil
}

// getJSON performs a GET with one retry on transient failure and decodes the
// response body into dst.
func (c *Client) getJSON(ctx context.Context, reqURL, place string, dst any) error {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return &Error{Place: place, Message: "failed to create request", Cause: err}
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = &Error{Place: place, Message: "provider request failed", Cause: err}
			continue
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = &Error{Place: place, Message: "failed to read response", Cause: err}
			continue
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = &Error{Place: place, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
			// Client errors won't improve on retry.
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return lastErr
			}
			continue
		}

		if err := json.Unmarshal(body, dst); err != nil {
			return &Error{Place: place, Message: "failed to parse response", Cause: err}
		}
		return nil
	}
	return lastErr
}
