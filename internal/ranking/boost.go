// internal/ranking/boost.go
package ranking

import (
	"strings"
	"time"

	"donde-engine/internal/models"
	"donde-engine/internal/scoring"
)

// Boost weights. Keyword evidence from the raw request is worth more than
// inferred dictionary hints; classified intent is worth the most.
const (
	boostCuisineKeyword = 3.0
	boostTagKeyword     = 1.5
	boostFeatureKeyword = 1.5
	boostHintCuisine    = 1.0
	boostHintTag        = 0.5
	boostHintFeature    = 0.5
	boostDietary        = 2.0
	boostGoodFor        = 1.0
	boostTimeMatch      = 1.5
	boostTimeMismatch   = -1.0
	boostIntentHigh     = 5.0
	boostIntentCuisine  = 3.0
	boostIntentMiss     = -2.0
	boostIntentTag      = 1.5
	boostIntentFeature  = 1.5
)

// Boost scores request alignment for one candidate. It layers raw keyword
// evidence, curated phrase hints, dietary and social-context matches,
// time-of-day alignment, classified intent, and rejection penalties.
func Boost(c *models.Candidate, request string, intent *models.Intent, rej RejectionSignals, threshold int, now time.Time) float64 {
	boost := rej.Penalty(c, threshold)
	req := strings.ToLower(strings.TrimSpace(request))

	if req != "" {
		// Cuisine keywords: first match wins
		if kws, ok := scoring.CuisineKeywords[c.Cuisine]; ok {
			for _, kw := range kws {
				if strings.Contains(req, kw) {
					boost += boostCuisineKeyword
					break
				}
			}
		}

		for _, tag := range c.Tags {
			if kws, ok := scoring.TagKeywords[tag]; ok && keywordHit(req, kws) {
				boost += boostTagKeyword
			}
		}

		for _, feature := range c.Features {
			if kws, ok := scoring.FeatureKeywords[feature]; ok && keywordHit(req, kws) {
				boost += boostFeatureKeyword
			}
		}

		for phrase, hint := range scoring.IntentMap {
			if !strings.Contains(req, phrase) {
				continue
			}
			for _, cuisine := range hint.Cuisines {
				if cuisine == c.Cuisine {
					boost += boostHintCuisine
					break
				}
			}
			for _, tag := range hint.Tags {
				if containsString(c.Tags, tag) {
					boost += boostHintTag
					break
				}
			}
			for _, feature := range hint.Features {
				if containsString(c.Features, feature) {
					boost += boostHintFeature
					break
				}
			}
		}

		for _, d := range c.DietaryOptions {
			if kws, ok := scoring.DietaryKeywords[d]; ok && keywordHit(req, kws) {
				boost += boostDietary
				break
			}
		}

		for _, g := range c.GoodFor {
			if kws, ok := scoring.GoodForKeywords[g]; ok && keywordHit(req, kws) {
				boost += boostGoodFor
				break
			}
		}
	}

	// Any best-times match earns the bonus. The miss penalty only applies to
	// specialized spots; a place listing most periods is not making a
	// statement by omitting one.
	if len(c.BestTimes) > 0 {
		if containsString(c.BestTimes, MealPeriod(now)) {
			boost += boostTimeMatch
		} else if len(c.BestTimes) <= 2 {
			boost += boostTimeMismatch
		}
	}

	if intent != nil {
		matched := false
		for _, want := range intent.Cuisines {
			if strings.EqualFold(want, c.Cuisine) {
				matched = true
				break
			}
		}
		switch {
		case matched && intent.CuisineImportance == models.CuisineImportanceHigh:
			boost += boostIntentHigh
		case matched:
			boost += boostIntentCuisine
		case !matched && intent.CuisineImportance == models.CuisineImportanceHigh && len(intent.Cuisines) > 0:
			boost += boostIntentMiss
		}

		for _, tag := range intent.Tags {
			if containsString(c.Tags, tag) {
				boost += boostIntentTag
			}
		}
		for _, feature := range intent.Features {
			if containsString(c.Features, feature) {
				boost += boostIntentFeature
			}
		}
	}

	return boost
}

func keywordHit(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
