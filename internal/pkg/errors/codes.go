package errors

import "net/http"

var (
	ErrInvalidAddress = New(
		"INVALID_ADDRESS",
		"Address must not be empty",
		http.StatusBadRequest,
	)

	ErrInvalidSearchTerms = New(
		"INVALID_SEARCH_TERMS",
		"At least one non-empty search term is required",
		http.StatusBadRequest,
	)

	ErrInvalidRadius = New(
		"INVALID_RADIUS",
		"Invalid radius value",
		http.StatusBadRequest,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrJobNotFound = New(
		"JOB_NOT_FOUND",
		"Discovery job not found or not finished yet",
		http.StatusNotFound,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)

const CodeGeocodingFailed = "GEOCODING_FAILED"

// NewGeocodingError wraps an upstream geocoding failure. The upstream status
// ("ZERO_RESULTS", "REQUEST_DENIED", ...) and its error message are kept in
// Details for diagnostics.
func NewGeocodingError(status, message string) *AppError {
	return &AppError{
		Code:       CodeGeocodingFailed,
		Message:    "Failed to geocode address",
		StatusCode: http.StatusBadGateway,
		Details: map[string]interface{}{
			"upstream_status":  status,
			"upstream_message": message,
		},
	}
}

// IsGeocodingError reports whether err is a geocoding failure.
func IsGeocodingError(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == CodeGeocodingFailed
}
