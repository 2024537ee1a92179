// internal/ranking/rerank.go
package ranking

import (
	"sort"
	"strings"
	"time"

	"donde-engine/internal/models"
	"donde-engine/internal/scoring"
)

// Ranked pairs a candidate with its ordering signals.
type Ranked struct {
	Candidate models.Candidate
	Occasion  float64
	Boost     float64
	Trend     float64
	Final     float64
}

// Re-rank blend weights. With explicit cuisine intent the boost channel
// carries the request signal and takes the lead.
type rerankWeights struct {
	occasion float64
	boost    float64
	trend    float64
}

var (
	rerankDefault      = rerankWeights{occasion: 0.55, boost: 0.35, trend: 0.10}
	rerankHighIntent   = rerankWeights{occasion: 0.35, boost: 0.55, trend: 0.10}
	rerankMediumIntent = rerankWeights{occasion: 0.45, boost: 0.45, trend: 0.10}
)

// ReRank orders candidates by blended occasion fit, request boost, and
// trending momentum. When nothing produced a boost, nothing is trending, and
// the request has no usable text, the incoming (storage) order stands.
func ReRank(candidates []models.Candidate, request, occasion string, intent *models.Intent, rej RejectionSignals, threshold int, now time.Time) []Ranked {
	ranked := make([]Ranked, len(candidates))
	anyBoost := false
	anyTrend := false

	for idx := range candidates {
		c := &candidates[idx]
		b := Boost(c, request, intent, rej, threshold, now)
		if b != 0 {
			anyBoost = true
		}
		if c.TrendingScore > 0 {
			anyTrend = true
		}
		ranked[idx] = Ranked{
			Candidate: *c,
			Occasion:  scoring.OccasionScore(c, occasion),
			Boost:     b,
			Trend:     c.TrendingScore / 10,
		}
	}

	// Storage order already reflects the occasion; skip the shuffle when
	// there is no signal to act on.
	if !anyBoost && !anyTrend && len(strings.TrimSpace(request)) < 3 {
		for idx := range ranked {
			ranked[idx].Final = ranked[idx].Occasion
		}
		return ranked
	}

	w := rerankDefault
	if intent.HighCuisine() {
		w = rerankHighIntent
	} else if intent.MediumCuisine() {
		w = rerankMediumIntent
	}

	for idx := range ranked {
		ranked[idx].Final = w.occasion*ranked[idx].Occasion +
			w.boost*ranked[idx].Boost +
			w.trend*ranked[idx].Trend
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Final > ranked[b].Final
	})
	return ranked
}

// Composite re-rank blend for deep-profile scoring.
const (
	compositeShare = 0.92
	trendShare     = 0.08
)

// ReRankComposite orders deep-scored candidates: the composite carries almost
// all the weight, trending momentum nudges, rejection penalties still apply.
func ReRankComposite(candidates []models.Candidate, results []scoring.Result, rej RejectionSignals, threshold int) []Ranked {
	ranked := make([]Ranked, len(candidates))
	for idx := range candidates {
		c := &candidates[idx]
		ranked[idx] = Ranked{
			Candidate: *c,
			Occasion:  results[idx].Breakdown.Occasion,
			Boost:     rej.Penalty(c, threshold),
			Trend:     c.TrendingScore / 10,
		}
		ranked[idx].Final = results[idx].Raw*compositeShare +
			ranked[idx].Trend*trendShare +
			ranked[idx].Boost
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Final > ranked[b].Final
	})
	return ranked
}
