// internal/scoring/craving.go
package scoring

import (
	"strings"

	"donde-engine/internal/models"
)

// defaultCravingScore is the neutral value used when the request gives the
// matcher nothing to work with.
const defaultCravingScore = 7.0

// CravingRelevance is the first-generation request matcher. It accumulates
// keyword evidence against a 16-point budget and scales to 0-10.
func CravingRelevance(c *models.Candidate, request string, intent *models.Intent) float64 {
	req := strings.ToLower(strings.TrimSpace(request))
	if len(req) < 3 {
		return defaultCravingScore
	}

	points := 0.0

	// Cuisine: 4 points
	if kws, ok := CuisineKeywords[c.Cuisine]; ok && containsAny(req, kws) {
		points += 4
	} else if strings.Contains(req, strings.ToLower(c.Cuisine)) {
		points += 4
	}

	// Tags: 1 each, capped at 3
	tagHits := 0.0
	for _, tag := range c.Tags {
		if kws, ok := TagKeywords[tag]; ok && containsAny(req, kws) {
			tagHits++
		}
	}
	if tagHits > 3 {
		tagHits = 3
	}
	points += tagHits

	// Oneliner word overlap: 1 each, capped at 3
	overlap := 0.0
	oneliner := strings.ToLower(c.Oneliner + " " + c.Description)
	for _, w := range meaningfulWords(req) {
		if strings.Contains(oneliner, w) {
			overlap++
		}
	}
	if overlap > 3 {
		overlap = 3
	}
	points += overlap

	// Features: 1 each, capped at 2
	featureHits := 0.0
	for _, f := range c.Features {
		if kws, ok := FeatureKeywords[f]; ok && containsAny(req, kws) {
			featureHits++
		}
	}
	if featureHits > 2 {
		featureHits = 2
	}
	points += featureHits

	// Dietary: 2 points
	for _, d := range c.DietaryOptions {
		if kws, ok := DietaryKeywords[d]; ok && containsAny(req, kws) {
			points += 2
			break
		}
	}

	// Curated phrase dictionary: capped at 2
	intentHits := 0.0
	for phrase, hint := range IntentMap {
		if !strings.Contains(req, phrase) {
			continue
		}
		if contains(hint.Cuisines, c.Cuisine) {
			intentHits++
		}
		for _, tag := range hint.Tags {
			if contains(c.Tags, tag) {
				intentHits++
				break
			}
		}
		for _, f := range hint.Features {
			if contains(c.Features, f) {
				intentHits++
				break
			}
		}
	}
	if intentHits > 2 {
		intentHits = 2
	}
	points += intentHits

	return clamp(points/16*10, 0, 10)
}

// cravingMatchMax is the full evidence budget of the second-generation
// matcher: cuisine 4, flavors 3, spice 1, signature dishes 2, tags 3,
// dietary 2, BYOB 1.
const cravingMatchMax = 16.0

// CravingMatch is the second-generation request matcher. Evidence for each
// aspect accumulates against the fixed budget and scales to 0-10, same
// denominator as CravingRelevance. When the request expresses nothing the
// neutral default applies.
func CravingMatch(c *models.Candidate, request string, intent *models.Intent) float64 {
	req := strings.ToLower(strings.TrimSpace(request))
	if len(req) < 3 && intent == nil {
		return defaultCravingScore
	}

	score := 0.0

	// Cuisine: 4 (exact) or 3 (subcategory)
	wantsCuisine := intent != nil && len(intent.Cuisines) > 0
	if !wantsCuisine {
		for _, kws := range CuisineKeywords {
			if containsAny(req, kws) {
				wantsCuisine = true
				break
			}
		}
	}
	if wantsCuisine {
		matched := false
		if intent != nil {
			for _, want := range intent.Cuisines {
				if strings.EqualFold(want, c.Cuisine) {
					score += 4
					matched = true
					break
				}
			}
		}
		if !matched {
			if kws, ok := CuisineKeywords[c.Cuisine]; ok && containsAny(req, kws) {
				score += 4
				matched = true
			}
		}
		if !matched && c.Deep != nil && c.Deep.CuisineSubcategory != nil {
			sub := strings.ToLower(*c.Deep.CuisineSubcategory)
			if strings.Contains(req, sub) {
				score += 3
			} else if intent != nil {
				for _, want := range intent.Cuisines {
					if strings.EqualFold(want, sub) {
						score += 3
						break
					}
				}
			}
		}
	}

	// Flavor profiles: up to 3
	var wantFlavors []string
	if intent != nil {
		wantFlavors = intent.FlavorPreferences
	}
	if len(wantFlavors) == 0 {
		for flavor, kws := range FlavorKeywords {
			if containsAny(req, kws) {
				wantFlavors = append(wantFlavors, flavor)
			}
		}
	}
	if len(wantFlavors) > 0 {
		if c.Deep != nil {
			hits := 0.0
			for _, want := range wantFlavors {
				for _, have := range c.Deep.FlavorProfiles {
					if strings.EqualFold(want, have) {
						hits += 1.5
						break
					}
				}
			}
			if hits > 3 {
				hits = 3
			}
			score += hits
		}
	}

	// Spice tolerance: 1
	wantsHot := containsAny(req, []string{"spicy", "extra hot", "fiery"})
	wantsMild := containsAny(req, []string{"mild", "not spicy", "not too spicy"})
	if wantsHot || wantsMild {
		if c.Deep != nil && c.Deep.SpiceLevel != nil {
			level := *c.Deep.SpiceLevel
			if wantsHot && (level == "hot" || level == "volcanic") {
				score += 1
			}
			if wantsMild && (level == "mild" || level == "none") {
				score += 1
			}
		}
	}

	// Signature dishes: 2
	if len(req) >= 3 {
		if c.Deep != nil {
			words := meaningfulWords(req)
		dishLoop:
			for _, sig := range c.Deep.SignatureDishes {
				dish := strings.ToLower(sig.Dish)
				for _, w := range words {
					if strings.Contains(dish, w) {
						score += 2
						break dishLoop
					}
				}
			}
		}
	}

	// Tags: up to 3
	var wantTags []string
	if intent != nil {
		wantTags = intent.Tags
	}
	if len(wantTags) > 0 {
		hits := 0.0
		for _, want := range wantTags {
			if contains(c.Tags, want) {
				hits += 1.5
			}
		}
		if hits > 3 {
			hits = 3
		}
		score += hits
	}

	// Dietary depth: 2
	var dietaryAsk string
	for diet, kws := range DietaryKeywords {
		if containsAny(req, kws) {
			dietaryAsk = diet
			break
		}
	}
	if dietaryAsk != "" {
		scored := false
		if c.Deep != nil && c.Deep.DietaryDepth != nil {
			switch c.Deep.DietaryDepth[dietaryAsk] {
			case "dedicated":
				score += 2
				scored = true
			case "solid":
				score += 1.5
				scored = true
			case "token":
				score += 0.5
				scored = true
			}
		}
		if !scored && contains(c.DietaryOptions, dietaryAsk) {
			score += 1.5
		}
	}

	// BYOB: 1
	if containsAny(req, []string{"byob", "bring your own"}) {
		if c.Deep != nil && c.Deep.BYOBPolicy != nil && *c.Deep.BYOBPolicy == "full_byob" {
			score += 1
		}
	}

	return clamp(score/cravingMatchMax*10, 0, 10)
}
