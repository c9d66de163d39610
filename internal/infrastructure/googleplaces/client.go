package googleplaces

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/prospect-discovery/internal/config"
	"github.com/prospect-discovery/internal/domain"
	"github.com/prospect-discovery/internal/domain/repository"
	pkgerrors "github.com/prospect-discovery/internal/pkg/errors"
)

type client struct {
	httpClient      *http.Client
	apiKey          string
	geocodeURL      string
	nearbyURL       string
	textSearchURL   string
	pageTokenDelay  time.Duration
	nearbyPageLimit int
	textPageLimit   int
	limiter         *rate.Limiter
	logger          *zap.Logger
}

// NewPlacesClient creates a Google Places API client.
func NewPlacesClient(cfg *config.GoogleConfig, logger *zap.Logger) repository.PlacesRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		apiKey:          cfg.APIKey,
		geocodeURL:      cfg.GeocodeURL,
		nearbyURL:       cfg.NearbySearchURL,
		textSearchURL:   cfg.TextSearchURL,
		pageTokenDelay:  cfg.PageTokenDelay,
		nearbyPageLimit: cfg.NearbyPageLimit,
		textPageLimit:   cfg.TextPageLimit,
		limiter:         rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		logger:          logger,
	}
}

// Geocode converts an address to coordinates. Failures here are fatal to the
// caller: a non-OK status or empty result set becomes a geocoding error that
// carries the upstream status and message.
func (c *client) Geocode(ctx context.Context, address string) (domain.Coordinate, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("key", c.apiKey)

	var geocodeResp domain.GeocodeResponse
	if err := c.getJSON(ctx, c.geocodeURL, params, &geocodeResp); err != nil {
		c.logger.Error("Geocode request failed", zap.Error(err))
		return domain.Coordinate{}, fmt.Errorf("geocode request: %w", err)
	}

	if geocodeResp.Status != domain.StatusOK || len(geocodeResp.Results) == 0 {
		c.logger.Warn("Geocode returned no usable result",
			zap.String("status", string(geocodeResp.Status)),
			zap.String("error_message", geocodeResp.ErrorMessage))
		return domain.Coordinate{}, pkgerrors.NewGeocodingError(
			string(geocodeResp.Status),
			geocodeResp.ErrorMessage,
		)
	}

	loc := geocodeResp.Results[0].Geometry.Location
	c.logger.Debug("Geocoded address",
		zap.Float64("lat", loc.Lat),
		zap.Float64("lng", loc.Lng))
	return loc, nil
}

// SearchNearby runs a keyword search around the coordinates, following
// continuation tokens up to the nearby page ceiling.
func (c *client) SearchNearby(ctx context.Context, lat, lng float64, keyword string, radiusMeters int) ([]domain.Business, error) {
	params := url.Values{}
	params.Set("location", fmt.Sprintf("%f,%f", lat, lng))
	params.Set("radius", fmt.Sprintf("%d", radiusMeters))
	params.Set("keyword", keyword)
	params.Set("key", c.apiKey)

	return c.pagedSearch(ctx, c.nearbyURL, params, c.nearbyPageLimit)
}

// SearchText runs a free-text search biased toward the coordinates. Text
// search is broader but noisier, so it is intentionally not deeply paginated.
func (c *client) SearchText(ctx context.Context, lat, lng float64, query string, radiusMeters int) ([]domain.Business, error) {
	params := url.Values{}
	params.Set("query", fmt.Sprintf("%s near %f,%f", query, lat, lng))
	params.Set("location", fmt.Sprintf("%f,%f", lat, lng))
	params.Set("radius", fmt.Sprintf("%d", radiusMeters))
	params.Set("key", c.apiKey)

	return c.pagedSearch(ctx, c.textSearchURL, params, c.textPageLimit)
}

// pagedSearch follows next_page_token chains. Pagination is best effort: a
// transport failure or a non-OK page ends the chain and whatever pages were
// already collected are returned without an error. Pages stay strictly
// sequential because every request depends on the previous page's token.
func (c *client) pagedSearch(ctx context.Context, endpoint string, params url.Values, pageLimit int) ([]domain.Business, error) {
	var all []domain.Business
	nextToken := ""

	for page := 0; page < pageLimit; page++ {
		if nextToken != "" {
			params.Set("pagetoken", nextToken)
			// The upstream API activates tokens asynchronously; using one
			// immediately fails with INVALID_REQUEST.
			if err := c.sleepForToken(ctx); err != nil {
				return all, err
			}
		}

		var pageResp domain.PlacesSearchResponse
		if err := c.getJSON(ctx, endpoint, params, &pageResp); err != nil {
			if ctx.Err() != nil {
				return all, ctx.Err()
			}
			c.logger.Warn("Search page failed, keeping pages collected so far",
				zap.Int("page", page),
				zap.Error(err))
			return all, nil
		}

		if pageResp.Status != domain.StatusOK {
			c.logger.Debug("Search page ended pagination",
				zap.Int("page", page),
				zap.String("status", string(pageResp.Status)))
			return all, nil
		}

		all = append(all, pageResp.Results...)

		nextToken = pageResp.NextPageToken
		if nextToken == "" {
			break
		}
	}

	return all, nil
}

// sleepForToken waits out the token activation delay, honoring cancellation.
func (c *client) sleepForToken(ctx context.Context) error {
	timer := time.NewTimer(c.pageTokenDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// getJSON issues one rate-limited GET and decodes the JSON body into out.
func (c *client) getJSON(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("places API error: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
