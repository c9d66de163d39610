package repository

import (
	"context"
	"time"

	"github.com/prospect-discovery/internal/domain"
)

// CacheRepository defines cache access for geocode lookups and search results.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)

	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)

	// GetCoordinates returns cached geocoding for a normalized address,
	// or nil on a cache miss.
	GetCoordinates(ctx context.Context, normalizedAddress string) (*domain.Coordinate, error)

	// SetCoordinates caches geocoding for a normalized address.
	SetCoordinates(ctx context.Context, normalizedAddress string, coord domain.Coordinate, ttl time.Duration) error

	// GetSearchResults returns the cached result of a discovery job,
	// or nil on a cache miss.
	GetSearchResults(ctx context.Context, jobKey string) (*domain.DiscoveryResult, error)

	// SetSearchResults caches the result of a discovery job.
	SetSearchResults(ctx context.Context, jobKey string, result *domain.DiscoveryResult, ttl time.Duration) error
}
