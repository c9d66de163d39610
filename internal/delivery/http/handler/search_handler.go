package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/prospect-discovery/internal/config"
	"github.com/prospect-discovery/internal/pkg/errors"
	"github.com/prospect-discovery/internal/pkg/utils"
	"github.com/prospect-discovery/internal/pkg/validator"
	"github.com/prospect-discovery/internal/usecase"
	"github.com/prospect-discovery/internal/usecase/dto"
)

// defaultSearchTerm is used when the caller supplies no terms at all.
const defaultSearchTerm = "business"

// SearchHandler serves prospect discovery requests.
type SearchHandler struct {
	discoveryUC *usecase.DiscoveryUseCase
	searchCfg   *config.SearchConfig
	logger      *zap.Logger
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(discoveryUC *usecase.DiscoveryUseCase, searchCfg *config.SearchConfig, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		discoveryUC: discoveryUC,
		searchCfg:   searchCfg,
		logger:      logger,
	}
}

// SearchProspects godoc
// @Summary Find businesses similar to a reference location
// @Description Geocodes the address, then searches for businesses matching each term within the radius. Results are deduplicated by place ID and include distance from the geocoded center.
// @Tags Search
// @Accept json
// @Produce json
// @Param request body dto.ProspectSearchRequest true "Search parameters"
// @Success 200 {object} utils.SuccessResponse{data=dto.ProspectSearchResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/search/prospects [post]
func (h *SearchHandler) SearchProspects(c *fiber.Ctx) error {
	req, radiusMeters, err := h.parseRequest(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.discoveryUC.FindSimilarBusinesses(c.Context(), req.Address, req.SearchTerms, radiusMeters)
	if err != nil {
		h.logger.Warn("Prospect search failed",
			zap.String("address", req.Address), zap.Error(err))
		return utils.SendError(c, err)
	}

	results := dto.ConvertProspects(result.Businesses, result.Center)

	return utils.SendSuccess(c, dto.ProspectSearchResponse{
		Results: results,
		Count:   len(results),
		SearchParameters: dto.SearchParameters{
			Address:      req.Address,
			SearchTerms:  req.SearchTerms,
			RadiusMeters: radiusMeters,
		},
	}, &utils.Meta{Total: len(results)})
}

// SearchProspectsAsync godoc
// @Summary Queue a prospect search for background processing
// @Description Validates the request and enqueues it. Poll the jobs endpoint with the returned job ID for the outcome.
// @Tags Search
// @Accept json
// @Produce json
// @Param request body dto.ProspectSearchRequest true "Search parameters"
// @Success 202 {object} utils.SuccessResponse{data=dto.JobAcceptedResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/search/prospects/async [post]
func (h *SearchHandler) SearchProspectsAsync(c *fiber.Ctx) error {
	req, radiusMeters, err := h.parseRequest(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	jobID, err := h.discoveryUC.EnqueueDiscoveryJob(c.Context(), req.Address, req.SearchTerms, radiusMeters)
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Status(fiber.StatusAccepted)
	return utils.SendSuccess(c, dto.JobAcceptedResponse{JobID: jobID}, nil)
}

// GetJobResult godoc
// @Summary Fetch the outcome of a queued prospect search
// @Description Returns the stored result for a completed job. Jobs still in flight or expired return 404.
// @Tags Search
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.JobResultResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/search/jobs/{id} [get]
func (h *SearchHandler) GetJobResult(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	result, err := h.discoveryUC.GetJobResult(c.Context(), jobID)
	if err != nil {
		return utils.SendError(c, err)
	}

	results := dto.ConvertProspects(result.Businesses, result.Center)

	return utils.SendSuccess(c, dto.JobResultResponse{
		JobID:   jobID,
		Results: results,
		Count:   len(results),
	}, &utils.Meta{Total: len(results)})
}

// parseRequest parses and validates the body, fills defaults, and converts
// the radius to meters.
func (h *SearchHandler) parseRequest(c *fiber.Ctx) (*dto.ProspectSearchRequest, int, error) {
	var req dto.ProspectSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, 0, errors.ErrInvalidRequest
	}

	if err := validator.Validate(&req); err != nil {
		return nil, 0, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"validation": err.Error(),
		})
	}

	if len(req.SearchTerms) == 0 {
		req.SearchTerms = []string{defaultSearchTerm}
	}

	radiusMeters := h.searchCfg.DefaultRadiusMeters
	if req.RadiusMiles > 0 {
		radiusMeters = utils.MilesToMeters(req.RadiusMiles)
	}
	if !utils.ValidateRadiusMeters(radiusMeters, h.searchCfg.MaxRadiusMeters) {
		return nil, 0, errors.ErrInvalidRadius
	}

	return &req, radiusMeters, nil
}
