package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/prospect-discovery/internal/domain"
	"github.com/prospect-discovery/internal/domain/repository"
	"github.com/prospect-discovery/internal/pkg/errors"
	"github.com/prospect-discovery/internal/pkg/utils"
)

// DiscoveryUseCase finds businesses similar to a reference location by
// combining geocoding with keyword and free-text searches and deduplicating
// the merged result set.
type DiscoveryUseCase struct {
	placesRepo repository.PlacesRepository
	cacheRepo  repository.CacheRepository
	streamRepo repository.StreamRepository
	logger     *zap.Logger
	poolSize   int
	geocodeTTL time.Duration
	resultTTL  time.Duration
}

func NewDiscoveryUseCase(
	placesRepo repository.PlacesRepository,
	cacheRepo repository.CacheRepository,
	streamRepo repository.StreamRepository,
	logger *zap.Logger,
	poolSize int,
	geocodeTTL time.Duration,
	resultTTL time.Duration,
) *DiscoveryUseCase {
	if poolSize < 1 {
		poolSize = 1
	}
	return &DiscoveryUseCase{
		placesRepo: placesRepo,
		cacheRepo:  cacheRepo,
		streamRepo: streamRepo,
		logger:     logger,
		poolSize:   poolSize,
		geocodeTTL: geocodeTTL,
		resultTTL:  resultTTL,
	}
}

// FindSimilarBusinesses geocodes the address once (fatal on failure, no
// search is issued), fans the search terms out across a bounded worker pool,
// and merges all pages into a first-seen-unique result set. Output order is
// deterministic: term order as given, nearby results before text results for
// each term.
func (uc *DiscoveryUseCase) FindSimilarBusinesses(
	ctx context.Context,
	address string,
	searchTerms []string,
	radiusMeters int,
) (*domain.DiscoveryResult, error) {
	if strings.TrimSpace(address) == "" {
		return nil, errors.ErrInvalidAddress
	}
	if radiusMeters <= 0 {
		return nil, errors.ErrInvalidRadius
	}

	terms := filterTerms(searchTerms)
	if len(terms) == 0 {
		return nil, errors.ErrInvalidSearchTerms
	}

	center, err := uc.resolveCoordinates(ctx, address)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Discovery started",
		zap.Float64("lat", center.Lat),
		zap.Float64("lng", center.Lng),
		zap.Strings("terms", terms),
		zap.Int("radius_meters", radiusMeters))

	// Per-term slots keep the merge deterministic regardless of which
	// goroutine finishes first. One bad term must not abort the others.
	perTerm := make([][]domain.Business, len(terms))
	sem := make(chan struct{}, uc.poolSize)
	var wg sync.WaitGroup

	for i, term := range terms {
		wg.Add(1)
		go func(idx int, keyword string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			nearby, err := uc.placesRepo.SearchNearby(ctx, center.Lat, center.Lng, keyword, radiusMeters)
			if err != nil {
				uc.logger.Warn("Nearby search aborted",
					zap.String("term", keyword), zap.Error(err))
			}

			text, err := uc.placesRepo.SearchText(ctx, center.Lat, center.Lng, keyword, radiusMeters)
			if err != nil {
				uc.logger.Warn("Text search aborted",
					zap.String("term", keyword), zap.Error(err))
			}

			perTerm[idx] = append(nearby, text...)
		}(i, term)
	}

	wg.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var combined []domain.Business
	for _, records := range perTerm {
		combined = append(combined, records...)
	}
	unique := domain.DedupeBusinesses(combined)

	uc.logger.Info("Discovery finished",
		zap.Int("raw_records", len(combined)),
		zap.Int("unique_records", len(unique)))

	return &domain.DiscoveryResult{
		Center:     center,
		Businesses: unique,
	}, nil
}

// EnqueueDiscoveryJob validates the request and publishes it to the job
// stream for asynchronous processing.
func (uc *DiscoveryUseCase) EnqueueDiscoveryJob(
	ctx context.Context,
	address string,
	searchTerms []string,
	radiusMeters int,
) (uuid.UUID, error) {
	if strings.TrimSpace(address) == "" {
		return uuid.Nil, errors.ErrInvalidAddress
	}
	terms := filterTerms(searchTerms)
	if len(terms) == 0 {
		return uuid.Nil, errors.ErrInvalidSearchTerms
	}

	event := domain.DiscoveryJobEvent{
		JobID:        uuid.New(),
		Address:      address,
		SearchTerms:  terms,
		RadiusMeters: radiusMeters,
	}

	if err := uc.streamRepo.PublishToStream(ctx, domain.StreamDiscoveryJobs, event); err != nil {
		uc.logger.Error("Failed to enqueue discovery job", zap.Error(err))
		return uuid.Nil, err
	}

	uc.logger.Info("Discovery job enqueued", zap.String("job_id", event.JobID.String()))
	return event.JobID, nil
}

// ExecuteDiscoveryJob runs a queued job and stores the outcome in the cache
// so callers can poll for it.
func (uc *DiscoveryUseCase) ExecuteDiscoveryJob(
	ctx context.Context,
	event *domain.DiscoveryJobEvent,
) (*domain.DiscoveryResult, error) {
	result, err := uc.FindSimilarBusinesses(ctx, event.Address, event.SearchTerms, event.RadiusMeters)
	if err != nil {
		return nil, err
	}

	if err := uc.cacheRepo.SetSearchResults(ctx, event.JobID.String(), result, uc.resultTTL); err != nil {
		uc.logger.Error("Failed to store job result",
			zap.String("job_id", event.JobID.String()), zap.Error(err))
		return nil, err
	}

	return result, nil
}

// GetJobResult returns the stored outcome of a queued job.
func (uc *DiscoveryUseCase) GetJobResult(ctx context.Context, jobID uuid.UUID) (*domain.DiscoveryResult, error) {
	result, err := uc.cacheRepo.GetSearchResults(ctx, jobID.String())
	if err != nil {
		return nil, errors.ErrCacheError
	}
	if result == nil {
		return nil, errors.ErrJobNotFound
	}
	return result, nil
}

// resolveCoordinates consults the geocode cache before hitting the resolver.
// Cache failures are logged and ignored; the resolver is the source of truth.
func (uc *DiscoveryUseCase) resolveCoordinates(ctx context.Context, address string) (domain.Coordinate, error) {
	normalized := utils.NormalizeAddress(address)

	if cached, err := uc.cacheRepo.GetCoordinates(ctx, normalized); err != nil {
		uc.logger.Warn("Geocode cache lookup failed", zap.Error(err))
	} else if cached != nil {
		if utils.ValidateCoordinates(cached.Lat, cached.Lng) {
			return *cached, nil
		}
		uc.logger.Warn("Ignoring invalid cached coordinates",
			zap.Float64("lat", cached.Lat), zap.Float64("lng", cached.Lng))
	}

	coord, err := uc.placesRepo.Geocode(ctx, address)
	if err != nil {
		return domain.Coordinate{}, err
	}

	if !utils.ValidateCoordinates(coord.Lat, coord.Lng) {
		uc.logger.Warn("Geocoder returned coordinates outside WGS84 bounds",
			zap.Float64("lat", coord.Lat), zap.Float64("lng", coord.Lng))
		return domain.Coordinate{}, errors.ErrInvalidCoordinates
	}

	if err := uc.cacheRepo.SetCoordinates(ctx, normalized, coord, uc.geocodeTTL); err != nil {
		uc.logger.Warn("Geocode cache store failed", zap.Error(err))
	}

	return coord, nil
}

// filterTerms trims terms and discards blank ones, preserving order.
func filterTerms(terms []string) []string {
	filtered := make([]string, 0, len(terms))
	for _, term := range terms {
		if trimmed := strings.TrimSpace(term); trimmed != "" {
			filtered = append(filtered, trimmed)
		}
	}
	return filtered
}
