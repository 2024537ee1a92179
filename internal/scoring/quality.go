// internal/scoring/quality.go
package scoring

import (
	"donde-engine/internal/models"
)

// QualitySignal converts the live rating to 0-10, dampened by review volume.
// A missing rating sits just above neutral rather than punishing new spots.
func QualitySignal(c *models.Candidate) float64 {
	if c.GoogleRating == nil {
		return 6.5
	}

	quality := clamp((*c.GoogleRating-2.5)*4, 0, 10)

	confidence := 0.8
	if c.GoogleReviewCount != nil {
		switch {
		case *c.GoogleReviewCount >= 100:
			confidence = 1.0
		case *c.GoogleReviewCount >= 20:
			confidence = 0.9
		}
	}

	return quality * confidence
}

// SentimentPenalty returns a 0 to -3 adjustment from the negative review
// share. Nothing happens below 15%; the penalty grows linearly to -3 at 50%.
func SentimentPenalty(c *models.Candidate) float64 {
	if c.NegativeRatio == nil {
		return 0
	}
	neg := *c.NegativeRatio
	if neg <= 0.15 {
		return 0
	}
	if neg >= 0.5 {
		return -3
	}
	return -3 * (neg - 0.15) / 0.35
}

// FilterPrecision rewards candidates that satisfied the structured filters.
// Each mismatched concrete filter costs 5 points; with no concrete filters
// the dimension is a flat 8.
func FilterPrecision(c *models.Candidate, req *models.RecommendationRequest) float64 {
	if !req.HasBudgetFilter() && !req.HasAreaFilter() {
		return 8
	}

	score := 10.0
	if req.HasBudgetFilter() && c.PriceRange != req.Budget {
		score -= 5
	}
	if req.HasAreaFilter() && c.Area != req.Area {
		score -= 5
	}
	return clamp(score, 0, 10)
}
