// Package geo turns coordinates into a city and country through the
// Nominatim reverse geocoding API.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/brizzai/unhinged/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	lookupTimeout = 10 * time.Second
	userAgent     = "unhinged-cli"
)

// ErrNoCoordinates means no position was configured
var ErrNoCoordinates = errors.New("no coordinates configured")

// Place is a resolved location
type Place struct {
	City    string
	Country string
}

type reverseResponse struct {
	Address struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		Suburb  string `json:"suburb"`
		Country string `json:"country"`
	} `json:"address"`
}

// Locator looks up where the configured coordinates are
type Locator struct {
	client    *http.Client
	baseURL   string
	latitude  float64
	longitude float64
	logger    *zap.Logger
}

// NewLocator creates a locator from the geo settings
func NewLocator(cfg *config.Config, logger *zap.Logger) *Locator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Locator{
		client:    &http.Client{Timeout: lookupTimeout},
		baseURL:   strings.TrimRight(cfg.Geo.NominatimURL, "/"),
		latitude:  cfg.Geo.Latitude,
		longitude: cfg.Geo.Longitude,
		logger:    logger,
	}
}

// Configured reports whether coordinates are available
func (l *Locator) Configured() bool {
	return l.latitude != 0 || l.longitude != 0
}

// Locate resolves the configured coordinates
func (l *Locator) Locate(ctx context.Context) (Place, error) {
	if !l.Configured() {
		return Place{}, ErrNoCoordinates
	}
	return l.Reverse(ctx, l.latitude, l.longitude)
}

// Reverse resolves lat/lon. The city is the first of city, town, village
// and suburb that is set.
func (l *Locator) Reverse(ctx context.Context, lat, lon float64) (Place, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("format", "json")
	q.Set("zoom", "10")
	q.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return Place{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	// Nominatim's usage policy requires an identifying agent
	req.Header.Set("User-Agent", userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return Place{}, fmt.Errorf("location lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Place{}, fmt.Errorf("location lookup failed (%d)", resp.StatusCode)
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Place{}, fmt.Errorf("decode location: %w", err)
	}

	a := body.Address
	place := Place{Country: a.Country}
	for _, candidate := range []string{a.City, a.Town, a.Village, a.Suburb} {
		if candidate != "" {
			place.City = candidate
			break
		}
	}
	l.logger.Debug("resolved location", zap.String("city", place.City), zap.String("country", place.Country))
	return place, nil
}

// Module provides the locator
var Module = fx.Module("geo",
	fx.Provide(NewLocator),
)
