package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/prospect-discovery/internal/domain"
	pkgerrors "github.com/prospect-discovery/internal/pkg/errors"
	"github.com/prospect-discovery/internal/usecase"
)

// MockPlacesRepository is a mock of PlacesRepository
type MockPlacesRepository struct {
	mock.Mock
}

func (m *MockPlacesRepository) Geocode(ctx context.Context, address string) (domain.Coordinate, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(domain.Coordinate), args.Error(1)
}

func (m *MockPlacesRepository) SearchNearby(ctx context.Context, lat, lng float64, keyword string, radiusMeters int) ([]domain.Business, error) {
	args := m.Called(ctx, lat, lng, keyword, radiusMeters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Business), args.Error(1)
}

func (m *MockPlacesRepository) SearchText(ctx context.Context, lat, lng float64, query string, radiusMeters int) ([]domain.Business, error) {
	args := m.Called(ctx, lat, lng, query, radiusMeters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Business), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) GetCoordinates(ctx context.Context, normalizedAddress string) (*domain.Coordinate, error) {
	args := m.Called(ctx, normalizedAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coordinate), args.Error(1)
}

func (m *MockCacheRepository) SetCoordinates(ctx context.Context, normalizedAddress string, coord domain.Coordinate, ttl time.Duration) error {
	args := m.Called(ctx, normalizedAddress, coord, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) GetSearchResults(ctx context.Context, jobKey string) (*domain.DiscoveryResult, error) {
	args := m.Called(ctx, jobKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DiscoveryResult), args.Error(1)
}

func (m *MockCacheRepository) SetSearchResults(ctx context.Context, jobKey string, result *domain.DiscoveryResult, ttl time.Duration) error {
	args := m.Called(ctx, jobKey, result, ttl)
	return args.Error(0)
}

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, maxCount int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, maxCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	args := m.Called(ctx, stream, group, messageID)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

func biz(id string) domain.Business {
	return domain.Business{PlaceID: id, Name: "biz-" + id}
}

func newUseCase(places *MockPlacesRepository, cache *MockCacheRepository, stream *MockStreamRepository) *usecase.DiscoveryUseCase {
	return usecase.NewDiscoveryUseCase(
		places, cache, stream,
		zap.NewNop(),
		2,
		time.Hour,
		time.Hour,
	)
}

// expectColdGeocodeCache sets up a cache that misses and accepts stores.
func expectColdGeocodeCache(cache *MockCacheRepository) {
	cache.On("GetCoordinates", mock.Anything, mock.Anything).Return(nil, nil)
	cache.On("SetCoordinates", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
}

func TestDiscoveryUseCase_FindSimilarBusinesses(t *testing.T) {
	ctx := context.Background()
	center := domain.Coordinate{Lat: 40.7128, Lng: -74.0060}

	t.Run("merges nearby and text per term in deterministic order", func(t *testing.T) {
		places := &MockPlacesRepository{}
		cache := &MockCacheRepository{}
		uc := newUseCase(places, cache, nil)

		expectColdGeocodeCache(cache)
		places.On("Geocode", mock.Anything, "50 Main St").Return(center, nil)

		places.On("SearchNearby", mock.Anything, center.Lat, center.Lng, "bakery", 1609).
			Return([]domain.Business{biz("a"), biz("b")}, nil)
		places.On("SearchText", mock.Anything, center.Lat, center.Lng, "bakery", 1609).
			Return([]domain.Business{biz("c")}, nil)

		places.On("SearchNearby", mock.Anything, center.Lat, center.Lng, "cafe", 1609).
			Return([]domain.Business{biz("b"), biz("d")}, nil)
		places.On("SearchText", mock.Anything, center.Lat, center.Lng, "cafe", 1609).
			Return([]domain.Business{biz("e"), biz("a")}, nil)

		result, err := uc.FindSimilarBusinesses(ctx, "50 Main St", []string{"bakery", "cafe"}, 1609)
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, center, result.Center)

		ids := placeIDs(result.Businesses)
		assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids)

		places.AssertExpectations(t)
	})

	t.Run("idempotent for identical upstream responses", func(t *testing.T) {
		places := &MockPlacesRepository{}
		cache := &MockCacheRepository{}
		uc := newUseCase(places, cache, nil)

		expectColdGeocodeCache(cache)
		places.On("Geocode", mock.Anything, mock.Anything).Return(center, nil)
		places.On("SearchNearby", mock.Anything, mock.Anything, mock.Anything, "bakery", 1609).
			Return([]domain.Business{biz("a"), biz("b")}, nil)
		places.On("SearchText", mock.Anything, mock.Anything, mock.Anything, "bakery", 1609).
			Return([]domain.Business{biz("b"), biz("c")}, nil)

		first, err := uc.FindSimilarBusinesses(ctx, "50 Main St", []string{"bakery"}, 1609)
		require.NoError(t, err)
		second, err := uc.FindSimilarBusinesses(ctx, "50 Main St", []string{"bakery"}, 1609)
		require.NoError(t, err)

		assert.Equal(t, placeIDs(first.Businesses), placeIDs(second.Businesses))
	})

	t.Run("records without place_id never appear in output", func(t *testing.T) {
		places := &MockPlacesRepository{}
		cache := &MockCacheRepository{}
		uc := newUseCase(places, cache, nil)

		expectColdGeocodeCache(cache)
		places.On("Geocode", mock.Anything, mock.Anything).Return(center, nil)
		places.On("SearchNearby", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]domain.Business{{Name: "no id"}, biz("a"), {Name: "also no id"}}, nil)
		places.On("SearchText", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]domain.Business{biz("a"), {Name: "nameless"}}, nil)

		result, err := uc.FindSimilarBusinesses(ctx, "50 Main St", []string{"bakery"}, 1609)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, placeIDs(result.Businesses))
	})

	t.Run("geocoding failure is fatal and issues no search calls", func(t *testing.T) {
		places := &MockPlacesRepository{}
		cache := &MockCacheRepository{}
		uc := newUseCase(places, cache, nil)

		cache.On("GetCoordinates", mock.Anything, mock.Anything).Return(nil, nil)
		places.On("Geocode", mock.Anything, mock.Anything).
			Return(domain.Coordinate{}, pkgerrors.NewGeocodingError("ZERO_RESULTS", ""))

		result, err := uc.FindSimilarBusinesses(ctx, "nowhere", []string{"bakery"}, 1609)
		assert.Nil(t, result)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsGeocodingError(err))

		places.AssertNotCalled(t, "SearchNearby", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		places.AssertNotCalled(t, "SearchText", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("one empty term result does not fail the whole call", func(t *testing.T) {
		places := &MockPlacesRepository{}
		cache := &MockCacheRepository{}
		uc := newUseCase(places, cache, nil)

		expectColdGeocodeCache(cache)
		places.On("Geocode", mock.Anything, mock.Anything).Return(center, nil)

		// "unicorn" finds nothing (upstream ZERO_RESULTS becomes empty slice)
		places.On("SearchNearby", mock.Anything, mock.Anything, mock.Anything, "unicorn", 1609).
			Return([]domain.Business{}, nil)
		places.On("SearchText", mock.Anything, mock.Anything, mock.Anything, "unicorn", 1609).
			Return([]domain.Business{}, nil)

		places.On("SearchNearby", mock.Anything, mock.Anything, mock.Anything, "cafe", 1609).
			Return([]domain.Business{biz("a")}, nil)
		places.On("SearchText", mock.Anything, mock.Anything, mock.Anything, "cafe", 1609).
			Return([]domain.Business{}, nil)

		result, err := uc.FindSimilarBusinesses(ctx, "50 Main St", []string{"unicorn", "cafe"}, 1609)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, placeIDs(result.Businesses))
	})

	t.Run("blank terms are discarded before use", func(t *testing.T) {
		places := &MockPlacesRepository{}
		cache := &MockCacheRepository{}
		uc := newUseCase(places, cache, nil)

		result, err := uc.FindSimilarBusinesses(ctx, "50 Main St", []string{"  ", "\t", ""}, 1609)
		assert.Nil(t, result)
		assert.Equal(t, pkgerrors.ErrInvalidSearchTerms, err)

		places.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
	})

	t.Run("empty address is rejected", func(t *testing.T) {
		uc := newUseCase(&MockPlacesRepository{}, &MockCacheRepository{}, nil)

		_, err := uc.FindSimilarBusinesses(ctx, "   ", []string{"cafe"}, 1609)
		assert.Equal(t, pkgerrors.ErrInvalidAddress, err)
	})

	t.Run("out-of-range geocoder coordinates are rejected", func(t *testing.T) {
		places := &MockPlacesRepository{}
		cache := &MockCacheRepository{}
		uc := newUseCase(places, cache, nil)

		cache.On("GetCoordinates", mock.Anything, mock.Anything).Return(nil, nil)
		places.On("Geocode", mock.Anything, mock.Anything).
			Return(domain.Coordinate{Lat: 200, Lng: 0}, nil)

		result, err := uc.FindSimilarBusinesses(ctx, "50 Main St", []string{"cafe"}, 1609)
		assert.Nil(t, result)
		assert.Equal(t, pkgerrors.ErrInvalidCoordinates, err)

		cache.AssertNotCalled(t, "SetCoordinates", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		places.AssertNotCalled(t, "SearchNearby", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid cached coordinates fall back to the geocoder", func(t *testing.T) {
		places := &MockPlacesRepository{}
		cache := &MockCacheRepository{}
		uc := newUseCase(places, cache, nil)

		bad := domain.Coordinate{Lat: -95, Lng: 0}
		cache.On("GetCoordinates", mock.Anything, mock.Anything).Return(&bad, nil)
		cache.On("SetCoordinates", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		places.On("Geocode", mock.Anything, "50 Main St").Return(center, nil)
		places.On("SearchNearby", mock.Anything, center.Lat, center.Lng, mock.Anything, mock.Anything).
			Return([]domain.Business{biz("a")}, nil)
		places.On("SearchText", mock.Anything, center.Lat, center.Lng, mock.Anything, mock.Anything).
			Return([]domain.Business{}, nil)

		result, err := uc.FindSimilarBusinesses(ctx, "50 Main St", []string{"cafe"}, 1609)
		require.NoError(t, err)
		assert.Equal(t, center, result.Center)

		places.AssertCalled(t, "Geocode", mock.Anything, "50 Main St")
	})

	t.Run("geocode cache hit skips the resolver", func(t *testing.T) {
		places := &MockPlacesRepository{}
		cache := &MockCacheRepository{}
		uc := newUseCase(places, cache, nil)

		cache.On("GetCoordinates", mock.Anything, "50 main st").Return(&center, nil)
		places.On("SearchNearby", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]domain.Business{biz("a")}, nil)
		places.On("SearchText", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]domain.Business{}, nil)

		result, err := uc.FindSimilarBusinesses(ctx, " 50  Main   St ", []string{"cafe"}, 1609)
		require.NoError(t, err)
		assert.Equal(t, center, result.Center)

		places.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
	})
}

func TestDiscoveryUseCase_Jobs(t *testing.T) {
	ctx := context.Background()
	center := domain.Coordinate{Lat: 40.7128, Lng: -74.0060}

	t.Run("enqueue publishes a job event with filtered terms", func(t *testing.T) {
		stream := &MockStreamRepository{}
		uc := newUseCase(&MockPlacesRepository{}, &MockCacheRepository{}, stream)

		stream.On("PublishToStream", mock.Anything, domain.StreamDiscoveryJobs,
			mock.MatchedBy(func(e domain.DiscoveryJobEvent) bool {
				return e.JobID != uuid.Nil &&
					e.Address == "50 Main St" &&
					len(e.SearchTerms) == 1 && e.SearchTerms[0] == "cafe"
			})).Return(nil)

		jobID, err := uc.EnqueueDiscoveryJob(ctx, "50 Main St", []string{" cafe ", ""}, 1609)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, jobID)
		stream.AssertExpectations(t)
	})

	t.Run("execute stores the result under the job id", func(t *testing.T) {
		places := &MockPlacesRepository{}
		cache := &MockCacheRepository{}
		uc := newUseCase(places, cache, nil)

		expectColdGeocodeCache(cache)
		places.On("Geocode", mock.Anything, mock.Anything).Return(center, nil)
		places.On("SearchNearby", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]domain.Business{biz("a")}, nil)
		places.On("SearchText", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]domain.Business{}, nil)

		event := &domain.DiscoveryJobEvent{
			JobID:        uuid.New(),
			Address:      "50 Main St",
			SearchTerms:  []string{"cafe"},
			RadiusMeters: 1609,
		}

		cache.On("SetSearchResults", mock.Anything, event.JobID.String(), mock.Anything, mock.Anything).Return(nil)

		result, err := uc.ExecuteDiscoveryJob(ctx, event)
		require.NoError(t, err)
		assert.Len(t, result.Businesses, 1)
		cache.AssertExpectations(t)
	})

	t.Run("job result miss maps to not found", func(t *testing.T) {
		cache := &MockCacheRepository{}
		uc := newUseCase(&MockPlacesRepository{}, cache, nil)

		jobID := uuid.New()
		cache.On("GetSearchResults", mock.Anything, jobID.String()).Return(nil, nil)

		_, err := uc.GetJobResult(ctx, jobID)
		assert.Equal(t, pkgerrors.ErrJobNotFound, err)
	})

	t.Run("stored job result is returned", func(t *testing.T) {
		cache := &MockCacheRepository{}
		uc := newUseCase(&MockPlacesRepository{}, cache, nil)

		jobID := uuid.New()
		stored := &domain.DiscoveryResult{Center: center, Businesses: []domain.Business{biz("a")}}
		cache.On("GetSearchResults", mock.Anything, jobID.String()).Return(stored, nil)

		result, err := uc.GetJobResult(ctx, jobID)
		require.NoError(t, err)
		assert.Equal(t, stored, result)
	})
}

func placeIDs(records []domain.Business) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.PlaceID)
	}
	return ids
}
