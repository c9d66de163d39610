package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Stream names shared with consumers of the discovery service.
const (
	StreamDiscoveryJobs = "stream:discovery:jobs"
	StreamDiscoveryDone = "stream:discovery:done"
)

// DiscoveryJobEvent is a queued request to find businesses similar to a
// reference location.
type DiscoveryJobEvent struct {
	JobID        uuid.UUID `json:"job_id"`
	Address      string    `json:"address"`
	SearchTerms  []string  `json:"search_terms"`
	RadiusMeters int       `json:"radius_meters"`
}

// HasSearchTerms reports whether at least one usable (non-blank) term exists.
func (e *DiscoveryJobEvent) HasSearchTerms() bool {
	for _, term := range e.SearchTerms {
		if strings.TrimSpace(term) != "" {
			return true
		}
	}
	return false
}

// DiscoveryDoneEvent is published when a queued discovery job finished.
type DiscoveryDoneEvent struct {
	JobID        uuid.UUID `json:"job_id"`
	ResultsCount int       `json:"results_count"`
	Error        string    `json:"error,omitempty"`
}

// StreamMessage is one raw message read from a Redis Stream.
type StreamMessage struct {
	ID   string
	Data string
}
