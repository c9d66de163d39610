package repository

import (
	"context"

	"github.com/prospect-discovery/internal/domain"
)

// PlacesRepository is the contract against the upstream places provider.
type PlacesRepository interface {
	// Geocode converts a free-form address into coordinates. Any upstream
	// status other than "OK", or an empty result set, is an error.
	Geocode(ctx context.Context, address string) (domain.Coordinate, error)

	// SearchNearby runs a keyword search around the coordinates, following
	// continuation tokens up to the configured page ceiling. Transport
	// failures and non-OK pages end pagination early; whatever pages were
	// already collected are returned without an error.
	SearchNearby(ctx context.Context, lat, lng float64, keyword string, radiusMeters int) ([]domain.Business, error)

	// SearchText runs a free-text search biased toward the coordinates.
	// Broader but noisier than SearchNearby, and intentionally shallow
	// (single page by default).
	SearchText(ctx context.Context, lat, lng float64, query string, radiusMeters int) ([]domain.Business, error)
}
