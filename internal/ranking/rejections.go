// internal/ranking/rejections.go
package ranking

import "donde-engine/internal/models"

// RejectionSignals summarizes what the user has already turned down in this
// session. Signals only activate once enough exclusions accumulate; a single
// rejection says nothing about taste.
type RejectionSignals struct {
	Cuisines map[string]int
	Prices   map[string]int
	Active   bool
}

// Penalty weights applied when a shared trait crosses the threshold.
const (
	cuisineRejectionPenalty = 2.0
	priceRejectionPenalty   = 1.0
)

// AnalyzeRejections derives taste signals from the excluded candidates.
// threshold is the minimum number of exclusions (overall and per trait)
// before any penalty is applied.
func AnalyzeRejections(excluded []models.Candidate, threshold int) RejectionSignals {
	sig := RejectionSignals{
		Cuisines: make(map[string]int),
		Prices:   make(map[string]int),
	}
	if len(excluded) < threshold {
		return sig
	}

	sig.Active = true
	for i := range excluded {
		if excluded[i].Cuisine != "" {
			sig.Cuisines[excluded[i].Cuisine]++
		}
		if excluded[i].PriceRange != "" {
			sig.Prices[excluded[i].PriceRange]++
		}
	}
	return sig
}

// Penalty returns the boost adjustment for a candidate sharing traits with
// the rejected set. Only traits rejected at least threshold times count.
func (s RejectionSignals) Penalty(c *models.Candidate, threshold int) float64 {
	if !s.Active {
		return 0
	}
	penalty := 0.0
	if s.Cuisines[c.Cuisine] >= threshold {
		penalty -= cuisineRejectionPenalty
	}
	if s.Prices[c.PriceRange] >= threshold {
		penalty -= priceRejectionPenalty
	}
	return penalty
}
