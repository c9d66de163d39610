package domain

import "encoding/json"

// Coordinate is an immutable geographic point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlacesStatus is the status field of Google Maps Platform JSON responses.
type PlacesStatus string

const (
	StatusOK             PlacesStatus = "OK"
	StatusZeroResults    PlacesStatus = "ZERO_RESULTS"
	StatusOverQueryLimit PlacesStatus = "OVER_QUERY_LIMIT"
	StatusRequestDenied  PlacesStatus = "REQUEST_DENIED"
	StatusInvalidRequest PlacesStatus = "INVALID_REQUEST"
	StatusUnknownError   PlacesStatus = "UNKNOWN_ERROR"
)

// Geometry carries the location block of a place result.
type Geometry struct {
	Location Coordinate `json:"location"`
}

// OpeningHours carries the open/closed flag of a place result.
type OpeningHours struct {
	OpenNow *bool `json:"open_now,omitempty"`
}

// Business is one place returned by the upstream search endpoints. Only the
// fields callers actually consume are named; everything else the API sends is
// preserved in Extra so that nothing is lost on a round-trip.
type Business struct {
	PlaceID              string        `json:"place_id"`
	Name                 string        `json:"name,omitempty"`
	FormattedAddress     string        `json:"formatted_address,omitempty"`
	Vicinity             string        `json:"vicinity,omitempty"`
	Geometry             *Geometry     `json:"geometry,omitempty"`
	Rating               *float64      `json:"rating,omitempty"`
	UserRatingsTotal     *int          `json:"user_ratings_total,omitempty"`
	Types                []string      `json:"types,omitempty"`
	Website              string        `json:"website,omitempty"`
	FormattedPhoneNumber string        `json:"formatted_phone_number,omitempty"`
	BusinessStatus       string        `json:"business_status,omitempty"`
	OpeningHours         *OpeningHours `json:"opening_hours,omitempty"`

	// Extra holds upstream fields this service does not interpret.
	Extra map[string]json.RawMessage `json:"-"`
}

// knownBusinessFields mirrors the JSON tags of Business's named fields.
var knownBusinessFields = []string{
	"place_id",
	"name",
	"formatted_address",
	"vicinity",
	"geometry",
	"rating",
	"user_ratings_total",
	"types",
	"website",
	"formatted_phone_number",
	"business_status",
	"opening_hours",
}

// UnmarshalJSON decodes the named fields and stashes everything else in Extra.
func (b *Business) UnmarshalJSON(data []byte) error {
	type businessAlias Business
	var known businessAlias
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, field := range knownBusinessFields {
		delete(raw, field)
	}

	*b = Business(known)
	if len(raw) > 0 {
		b.Extra = raw
	}
	return nil
}

// MarshalJSON re-emits the named fields together with the Extra passthrough.
// Named fields win on key collisions.
func (b Business) MarshalJSON() ([]byte, error) {
	type businessAlias Business
	knownJSON, err := json.Marshal(businessAlias(b))
	if err != nil {
		return nil, err
	}
	if len(b.Extra) == 0 {
		return knownJSON, nil
	}

	merged := make(map[string]json.RawMessage, len(b.Extra)+len(knownBusinessFields))
	for k, v := range b.Extra {
		merged[k] = v
	}
	var known map[string]json.RawMessage
	if err := json.Unmarshal(knownJSON, &known); err != nil {
		return nil, err
	}
	for k, v := range known {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// Location returns the business coordinates when geometry is present.
func (b *Business) Location() (Coordinate, bool) {
	if b.Geometry == nil {
		return Coordinate{}, false
	}
	return b.Geometry.Location, true
}

// Address prefers the formatted address, falling back to the nearby-search
// vicinity field.
func (b *Business) Address() string {
	if b.FormattedAddress != "" {
		return b.FormattedAddress
	}
	return b.Vicinity
}

// PlacesSearchResponse is the envelope of the nearby and text search endpoints.
type PlacesSearchResponse struct {
	Status        PlacesStatus `json:"status"`
	Results       []Business   `json:"results"`
	NextPageToken string       `json:"next_page_token,omitempty"`
	ErrorMessage  string       `json:"error_message,omitempty"`
}

// GeocodeResponse is the envelope of the geocoding endpoint.
type GeocodeResponse struct {
	Status       PlacesStatus    `json:"status"`
	Results      []GeocodeResult `json:"results"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

// GeocodeResult is one geocoding candidate.
type GeocodeResult struct {
	PlaceID          string   `json:"place_id,omitempty"`
	FormattedAddress string   `json:"formatted_address,omitempty"`
	Geometry         Geometry `json:"geometry"`
}

// DiscoveryResult is the outcome of one aggregation call: the geocoded
// search origin plus the deduplicated businesses around it.
type DiscoveryResult struct {
	Center     Coordinate `json:"center"`
	Businesses []Business `json:"businesses"`
}

// DedupeBusinesses walks records in order and keeps the first occurrence of
// each place_id. Records without a place_id cannot be deduplicated reliably
// and are dropped.
func DedupeBusinesses(records []Business) []Business {
	seen := make(map[string]struct{}, len(records))
	unique := make([]Business, 0, len(records))
	for _, rec := range records {
		if rec.PlaceID == "" {
			continue
		}
		if _, ok := seen[rec.PlaceID]; ok {
			continue
		}
		seen[rec.PlaceID] = struct{}{}
		unique = append(unique, rec)
	}
	return unique
}
