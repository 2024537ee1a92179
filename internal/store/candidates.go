// internal/store/candidates.go
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"donde-engine/internal/models"
	"donde-engine/internal/scoring"
)

// Candidates returns the ranked candidate window for the given filters.
// Empty results relax the budget first, then the area; this mirrors which
// constraint users are more willing to bend. When the ranked query itself
// fails, the bulk fallback scan takes over so a degraded database still
// produces recommendations.
func (s *Store) Candidates(ctx context.Context, occasion, area, budget, cuisineHint string, limit int) ([]models.Candidate, Relaxation, error) {
	var relax Relaxation

	candidates, err := s.rankedQuery(ctx, occasion, area, budget, cuisineHint, limit)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, relax, ErrQueryTimeout
		}
		s.logger.Warn("ranked query failed, using fallback scan", map[string]interface{}{
			"occasion": occasion,
			"error":    err.Error(),
		})
		relax.UsedFallback = true
		candidates, err = s.fallbackScan(ctx, occasion, area, budget, limit)
		return candidates, relax, err
	}

	if len(candidates) == 0 && budget != "" && budget != models.AnyBudget {
		relax.BudgetRelaxed = true
		candidates, err = s.rankedQuery(ctx, occasion, area, models.AnyBudget, cuisineHint, limit)
		if err != nil {
			return nil, relax, fmt.Errorf("%w: %v", ErrQueryFailed, err)
		}
	}

	if len(candidates) == 0 && area != "" && area != models.Anywhere {
		relax.AreaRelaxed = true
		candidates, err = s.rankedQuery(ctx, occasion, models.Anywhere, models.AnyBudget, cuisineHint, limit)
		if err != nil {
			return nil, relax, fmt.Errorf("%w: %v", ErrQueryFailed, err)
		}
	}

	return candidates, relax, nil
}

func (s *Store) rankedQuery(ctx context.Context, occasion, area, budget, cuisineHint string, limit int) ([]models.Candidate, error) {
	var conditions []string
	var args []interface{}

	conditions = append(conditions, "r.is_active = TRUE", "r.noise_level IS NOT NULL")
	if budget != "" && budget != models.AnyBudget {
		args = append(args, budget)
		conditions = append(conditions, fmt.Sprintf("r.price_range = $%d", len(args)))
	}
	if area != "" && area != models.Anywhere {
		args = append(args, area)
		conditions = append(conditions, fmt.Sprintf("r.area = $%d", len(args)))
	}
	if cuisineHint != "" {
		args = append(args, cuisineHint)
		conditions = append(conditions, fmt.Sprintf("r.cuisine = $%d", len(args)))
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT %s
		FROM restaurants r
		LEFT JOIN occasion_scores os ON os.restaurant_id = r.id
		WHERE %s
		ORDER BY %s DESC, r.trending_score DESC, r.id
		LIMIT $%d`,
		candidateColumns, strings.Join(conditions, " AND "), occasionOrderExpr(occasion), len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectCandidates(rows)
}

// occasionOrderExpr builds the blend expression used to rank inside the
// database. Sub-score names come from a fixed internal list, never from
// request input.
func occasionOrderExpr(occasion string) string {
	blend, ok := scoring.OccasionBlends[occasion]
	var terms []string
	for _, name := range models.SubScoreNames {
		weight := 1.0 / float64(len(models.SubScoreNames))
		if ok {
			weight = blend[name]
			if weight == 0 {
				continue
			}
		}
		terms = append(terms, fmt.Sprintf("COALESCE(os.%s, 0) * %.2f", name, weight))
	}
	return "(" + strings.Join(terms, " + ") + ")"
}

// CandidatesByIDs loads specific restaurants regardless of filters or active
// status. Used to analyze what an exclusion list has in common.
func (s *Store) CandidatesByIDs(ctx context.Context, ids []string) ([]models.Candidate, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM restaurants r
		LEFT JOIN occasion_scores os ON os.restaurant_id = r.id
		WHERE r.id = ANY($1)`, candidateColumns)

	rows, err := s.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	return collectCandidates(rows)
}
