// internal/store/querylog.go
package store

import (
	"context"
	"fmt"
	"time"
)

// QueryLogEntry is one recommendation served, recorded for vocabulary and
// quality analysis.
type QueryLogEntry struct {
	Occasion     string
	Budget       string
	Craving      string
	Area         string
	ChosenID     string
	UsedFallback bool
	MatchScore   int
	LatencyMS    int64
}

// LogQuery records a served recommendation. Callers fire it from a goroutine;
// a lost log line never blocks or fails a response.
func (s *Store) LogQuery(ctx context.Context, entry QueryLogEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO query_log
			(occasion, budget, craving, area, chosen_restaurant_id, used_fallback, match_score, latency_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.Occasion, entry.Budget, entry.Craving, entry.Area,
		entry.ChosenID, entry.UsedFallback, entry.MatchScore, entry.LatencyMS,
	)
	if err != nil {
		s.logger.Warn("query log write failed", map[string]interface{}{
			"error": err.Error(),
		})
		return fmt.Errorf("QUERY_LOG_FAILED: %w", err)
	}
	return nil
}
