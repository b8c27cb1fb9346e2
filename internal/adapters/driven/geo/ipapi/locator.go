// Package ipapi provides a geolocator backed by an ip-api.com compatible service.
package ipapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driven"
)

// Ensure Locator implements the interface.
var _ driven.Geolocator = (*Locator)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://ip-api.com"
	DefaultTimeout = 5 * time.Second
)

// Locator resolves the caller's approximate position from their public IP.
type Locator struct {
	client  *http.Client
	baseURL string
}

// lookupResponse is the /json response format.
type lookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	City    string  `json:"city"`
}

// NewLocator creates a locator. Empty baseURL uses DefaultBaseURL.
func NewLocator(baseURL string, timeout time.Duration) *Locator {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Locator{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Locate looks up the current public IP's coordinates.
func (l *Locator) Locate(ctx context.Context) (domain.GeoLocation, error) {
	url := l.baseURL + "/json?fields=status,message,lat,lon,city"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return domain.GeoLocation{}, fmt.Errorf("ipapi: create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return domain.GeoLocation{}, fmt.Errorf("ipapi: lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.GeoLocation{}, fmt.Errorf("ipapi: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.GeoLocation{}, fmt.Errorf("ipapi: decode response: %w", err)
	}
	if out.Status != "success" {
		return domain.GeoLocation{}, fmt.Errorf("ipapi: lookup failed: %s", out.Message)
	}

	loc := domain.GeoLocation{Latitude: out.Lat, Longitude: out.Lon}
	if !loc.IsValid() {
		return domain.GeoLocation{}, fmt.Errorf("ipapi: invalid coordinates %s", loc)
	}
	return loc, nil
}
