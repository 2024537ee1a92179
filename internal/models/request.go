// internal/models/request.go
package models

import (
	"strings"

	"github.com/google/uuid"
)

const (
	// AnyBudget and Anywhere are the wildcard filter values.
	AnyBudget = "Any"
	Anywhere  = "Anywhere"

	// AnyOccasion blends all seven sub-scores instead of a weighted pair.
	AnyOccasion = "Any"

	// MaxExclusions caps the exclusion list a client may send.
	MaxExclusions = 15
)

// RecommendationRequest is the inbound query.
type RecommendationRequest struct {
	Occasion   string   `json:"occasion" binding:"required"`
	Budget     string   `json:"budget"`
	Area       string   `json:"area"`
	Request    string   `json:"request"`
	ExcludeIDs []string `json:"exclude_ids"`
}

// Normalize fills wildcard defaults, trims free text, and sanitizes the
// exclusion list: invalid identifiers and duplicates are dropped silently and
// the list is capped at MaxExclusions.
func (r *RecommendationRequest) Normalize() {
	r.Occasion = strings.TrimSpace(r.Occasion)
	if r.Occasion == "" {
		r.Occasion = AnyOccasion
	}
	r.Budget = strings.TrimSpace(r.Budget)
	if r.Budget == "" {
		r.Budget = AnyBudget
	}
	r.Area = strings.TrimSpace(r.Area)
	if r.Area == "" {
		r.Area = Anywhere
	}
	r.Request = strings.TrimSpace(r.Request)

	if len(r.ExcludeIDs) == 0 {
		r.ExcludeIDs = nil
		return
	}

	seen := make(map[string]bool, len(r.ExcludeIDs))
	valid := make([]string, 0, len(r.ExcludeIDs))
	for _, id := range r.ExcludeIDs {
		id = strings.TrimSpace(id)
		if _, err := uuid.Parse(id); err != nil {
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		valid = append(valid, id)
		if len(valid) == MaxExclusions {
			break
		}
	}
	if len(valid) == 0 {
		r.ExcludeIDs = nil
		return
	}
	r.ExcludeIDs = valid
}

// HasBudgetFilter reports whether a concrete budget was requested.
func (r *RecommendationRequest) HasBudgetFilter() bool {
	return r.Budget != "" && r.Budget != AnyBudget
}

// HasAreaFilter reports whether a concrete area was requested.
func (r *RecommendationRequest) HasAreaFilter() bool {
	return r.Area != "" && r.Area != Anywhere
}

// IsExclusionRequest reports whether the client asked to skip past picks.
// Such requests bypass the response cache in both directions.
func (r *RecommendationRequest) IsExclusionRequest() bool {
	return len(r.ExcludeIDs) > 0
}

// CacheKey builds the response-cache key from the normalized request.
func (r *RecommendationRequest) CacheKey() string {
	parts := []string{
		strings.ToLower(r.Occasion),
		strings.ToLower(r.Area),
		strings.ToLower(r.Budget),
		strings.ToLower(r.Request),
	}
	return strings.Join(parts, "|")
}
