// internal/scoring/occasion.go
package scoring

import (
	"donde-engine/internal/models"
)

// Occasion labels accepted by the engine.
const (
	OccasionDateNight    = "Date Night"
	OccasionGroupHangout = "Group Hangout"
	OccasionFamilyDinner = "Family Dinner"
	OccasionBusiness     = "Business Lunch"
	OccasionSolo         = "Solo Dining"
	OccasionSpecial      = "Special Occasion"
	OccasionTreatMyself  = "Treat Myself"
	OccasionAdventure    = "Adventure"
	OccasionChillHangout = "Chill Hangout"
	OccasionAny          = "Any"
)

// OccasionBlends maps each occasion to the sub-score weights that compose its
// base score. Every weight vector sums to 1.0. "Any" is handled separately.
var OccasionBlends = map[string]map[string]float64{
	OccasionDateNight:    {"date_friendly": 1.0},
	OccasionGroupHangout: {"group_friendly": 1.0},
	OccasionFamilyDinner: {"family_friendly": 1.0},
	OccasionBusiness:     {"business_lunch": 1.0},
	OccasionSolo:         {"solo_dining": 1.0},
	OccasionSpecial:      {"romantic_rating": 0.7, "date_friendly": 0.3},
	OccasionTreatMyself:  {"solo_dining": 0.5, "romantic_rating": 0.3, "hole_in_wall_factor": 0.2},
	OccasionAdventure:    {"hole_in_wall_factor": 0.6, "group_friendly": 0.2, "solo_dining": 0.2},
	OccasionChillHangout: {"group_friendly": 0.6, "solo_dining": 0.3, "hole_in_wall_factor": 0.1},
}

// OccasionScore blends the pre-computed sub-scores for the occasion (0-10).
// "Any" averages all seven sub-scores.
func OccasionScore(c *models.Candidate, occasion string) float64 {
	blend, ok := OccasionBlends[occasion]
	if !ok {
		return c.Occasions.Sum() / 70 * 10
	}
	score := 0.0
	for name, weight := range blend {
		score += c.Occasions.Get(name) * weight
	}
	return score
}

// serviceFit declares which service styles suit or clash with an occasion.
type serviceFit struct {
	fit  []string
	miss []string
}

var serviceFits = map[string]serviceFit{
	OccasionDateNight:    {fit: []string{"full_service", "fine_dining"}, miss: []string{"counter_service", "fast_casual"}},
	OccasionBusiness:     {fit: []string{"full_service", "casual_table"}, miss: []string{"counter_service"}},
	OccasionFamilyDinner: {fit: []string{"family_style", "casual_table"}},
	OccasionSpecial:      {fit: []string{"fine_dining", "tasting_menu", "full_service"}, miss: []string{"counter_service", "fast_casual"}},
	OccasionSolo:         {fit: []string{"counter_service", "casual_table", "fast_casual"}},
	OccasionGroupHangout: {fit: []string{"family_style", "casual_table"}},
	OccasionChillHangout: {fit: []string{"casual_table", "counter_service"}},
	OccasionAdventure:    {fit: []string{"counter_service", "family_style"}},
	OccasionTreatMyself:  {fit: []string{"fine_dining", "full_service", "tasting_menu"}},
}

var pacingFits = map[string][]string{
	OccasionDateNight:    {"leisurely"},
	OccasionBusiness:     {"moderate"},
	OccasionFamilyDinner: {"moderate"},
	OccasionSpecial:      {"leisurely", "ceremonial"},
	OccasionSolo:         {"quick_bite", "moderate"},
	OccasionGroupHangout: {"leisurely"},
	OccasionChillHangout: {"leisurely", "moderate"},
	OccasionTreatMyself:  {"leisurely"},
}

// conversationOccasions are the occasions where talkability moves the score.
var conversationOccasions = map[string]bool{
	OccasionDateNight: true,
	OccasionBusiness:  true,
	OccasionSpecial:   true,
}

// OccasionFit is the deep-profile refinement of the base occasion score.
// Starts from the blended base and nudges it by service style, pacing,
// conversation friendliness, and kid friendliness. Clamped to [0,10].
func OccasionFit(c *models.Candidate, occasion string) float64 {
	score := OccasionScore(c, occasion)
	if c.Deep == nil {
		return score
	}

	if c.Deep.ServiceStyle != nil {
		style := *c.Deep.ServiceStyle
		if sf, ok := serviceFits[occasion]; ok {
			if contains(sf.fit, style) {
				score += 0.5
			} else if contains(sf.miss, style) {
				score -= 0.3
			}
		}
	}

	if c.Deep.MealPacing != nil {
		if fits, ok := pacingFits[occasion]; ok && contains(fits, *c.Deep.MealPacing) {
			score += 0.3
		}
	}

	if conversationOccasions[occasion] && c.Deep.ConversationScore != nil {
		score += (*c.Deep.ConversationScore - 5) * 0.1
	}

	if occasion == OccasionFamilyDinner && c.Deep.KidFriendliness != nil {
		score += (*c.Deep.KidFriendliness - 5) * 0.15
	}

	return clamp(score, 0, 10)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
