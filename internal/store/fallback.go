// internal/store/fallback.go
package store

import (
	"context"
	"fmt"
	"sort"

	"donde-engine/internal/models"
	"donde-engine/internal/scoring"
)

// priceOrder defines tier adjacency for budget relaxation in the fallback
// path.
var priceOrder = []string{"$", "$$", "$$$", "$$$$"}

// Fallback blend: the occasion still dominates, overall quality and momentum
// break ties.
const (
	fallbackOccasionShare = 0.6
	fallbackOverallShare  = 0.2
	fallbackTrendShare    = 0.2
)

// fallbackScan is the degraded read path: pull everything, merge and rank in
// memory. Slower and cruder than the ranked query, but it only depends on
// plain table reads.
func (s *Store) fallbackScan(ctx context.Context, occasion, area, budget string, limit int) ([]models.Candidate, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM restaurants r
		LEFT JOIN occasion_scores os ON os.restaurant_id = r.id`, candidateColumns)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrQueryTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	all, err := collectCandidates(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}

	filtered := filterCandidates(all, area, budget)
	rankFallback(filtered, occasion)
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	s.logger.Info("fallback scan complete", map[string]interface{}{
		"scanned":  len(all),
		"returned": len(filtered),
	})
	return filtered, nil
}

// filterCandidates applies the hard filters in memory. Budget matching
// prefers the exact tier, widens to adjacent tiers when that empties the
// pool, and as a last resort keeps every tier.
func filterCandidates(all []models.Candidate, area, budget string) []models.Candidate {
	var pool []models.Candidate
	for _, c := range all {
		if !c.IsActive || !c.Enriched() {
			continue
		}
		if area != "" && area != models.Anywhere && c.Area != area {
			continue
		}
		pool = append(pool, c)
	}

	if budget == "" || budget == models.AnyBudget {
		return pool
	}

	exact := filterByPrice(pool, func(p string) bool { return p == budget })
	if len(exact) > 0 {
		return exact
	}
	adjacent := filterByPrice(pool, func(p string) bool { return priceDistance(p, budget) <= 1 })
	if len(adjacent) > 0 {
		return adjacent
	}
	return pool
}

func filterByPrice(pool []models.Candidate, match func(string) bool) []models.Candidate {
	var out []models.Candidate
	for _, c := range pool {
		if match(c.PriceRange) {
			out = append(out, c)
		}
	}
	return out
}

func priceDistance(a, b string) int {
	ai, bi := priceIndex(a), priceIndex(b)
	if ai < 0 || bi < 0 {
		return len(priceOrder)
	}
	if ai > bi {
		return ai - bi
	}
	return bi - ai
}

func priceIndex(p string) int {
	for idx, tier := range priceOrder {
		if tier == p {
			return idx
		}
	}
	return -1
}

func rankFallback(pool []models.Candidate, occasion string) {
	score := func(c *models.Candidate) float64 {
		overall := c.Occasions.Sum() / 70 * 10
		return scoring.OccasionScore(c, occasion)*fallbackOccasionShare +
			overall*fallbackOverallShare +
			c.TrendingScore/10*fallbackTrendShare
	}
	sort.SliceStable(pool, func(a, b int) bool {
		return score(&pool[a]) > score(&pool[b])
	})
}
