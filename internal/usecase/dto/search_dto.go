package dto

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/prospect-discovery/internal/domain"
	"github.com/prospect-discovery/internal/pkg/utils"
)

// ProspectSearchRequest is a request to find businesses similar to a
// reference location. Radius arrives in miles from the web layer and is
// converted to meters before it crosses the discovery boundary.
type ProspectSearchRequest struct {
	Address     string   `json:"address" validate:"required,min=3"`
	SearchTerms []string `json:"search_terms" validate:"omitempty,max=20"`
	RadiusMiles float64  `json:"radius_miles" validate:"omitempty,gt=0,max=31"`
}

// ProspectResult is one discovered business as exposed to callers.
type ProspectResult struct {
	PlaceID        string   `json:"place_id"`
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	BusinessType   string   `json:"business_type,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	Website        string   `json:"website,omitempty"`
	WebsiteDomain  string   `json:"website_domain,omitempty"`
	Rating         *float64 `json:"rating,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
}

// SearchParameters echoes back what was actually searched.
type SearchParameters struct {
	Address      string   `json:"address"`
	SearchTerms  []string `json:"search_terms"`
	RadiusMeters int      `json:"radius_meters"`
}

// ProspectSearchResponse is the synchronous search result.
type ProspectSearchResponse struct {
	Results          []ProspectResult `json:"results"`
	Count            int              `json:"count"`
	SearchParameters SearchParameters `json:"search_parameters"`
}

// JobAcceptedResponse acknowledges a queued discovery job.
type JobAcceptedResponse struct {
	JobID uuid.UUID `json:"job_id"`
}

// JobResultResponse is the stored outcome of a queued discovery job.
type JobResultResponse struct {
	JobID   uuid.UUID        `json:"job_id"`
	Results []ProspectResult `json:"results"`
	Count   int              `json:"count"`
}

// genericTypes are Google type tags too vague to show as a business type.
var genericTypes = map[string]bool{
	"point_of_interest": true,
	"establishment":     true,
}

// ConvertProspect maps a raw business record to the caller-facing shape.
// center is the geocoded search origin, used for the distance field.
func ConvertProspect(b domain.Business, center domain.Coordinate) ProspectResult {
	result := ProspectResult{
		PlaceID: b.PlaceID,
		Name:    b.Name,
		Address: b.Address(),
		Phone:   b.FormattedPhoneNumber,
		Website: b.Website,
		Rating:  b.Rating,
	}

	if result.Name == "" {
		result.Name = "Unknown"
	}

	result.BusinessType = formatBusinessType(b.Types)

	if domainName, ok := utils.ExtractDomain(b.Website); ok {
		result.WebsiteDomain = domainName
	}

	if loc, ok := b.Location(); ok {
		lat, lng := loc.Lat, loc.Lng
		result.Latitude = &lat
		result.Longitude = &lng

		distance := utils.HaversineDistance(center.Lng, center.Lat, lng, lat)
		result.DistanceMeters = &distance
	}

	return result
}

// ConvertProspects maps a record list, preserving order.
func ConvertProspects(records []domain.Business, center domain.Coordinate) []ProspectResult {
	results := make([]ProspectResult, 0, len(records))
	for _, rec := range records {
		results = append(results, ConvertProspect(rec, center))
	}
	return results
}

// formatBusinessType turns Google type tags into a short display string:
// generic tags dropped, underscores replaced, title-cased, two tags max.
func formatBusinessType(tags []string) string {
	var readable []string
	for _, tag := range tags {
		if genericTypes[tag] {
			continue
		}
		readable = append(readable, titleCase(strings.ReplaceAll(tag, "_", " ")))
		if len(readable) == 2 {
			break
		}
	}
	return strings.Join(readable, ", ")
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
