// internal/scoring/vibe.go
package scoring

import (
	"math"
	"strings"
	"time"

	"donde-engine/internal/models"
)

// DressLevels orders dress codes from most to least casual.
var DressLevels = map[string]int{
	"Casual":          1,
	"Smart Casual":    2,
	"Business Casual": 3,
	"Formal":          4,
}

// vibeExpectation is what an occasion wants from the room.
type vibeExpectation struct {
	noise     []string
	lighting  []string
	dressMin  int
	outdoor   bool
	liveMusic bool
}

var vibeExpectations = map[string]vibeExpectation{
	OccasionDateNight:    {noise: []string{"quiet", "moderate"}, lighting: []string{"dim", "candlelit", "intimate", "romantic"}, dressMin: 2, outdoor: true, liveMusic: true},
	OccasionGroupHangout: {noise: []string{"moderate", "lively", "loud"}, lighting: []string{"bright", "warm", "fun"}, dressMin: 1, outdoor: true, liveMusic: true},
	OccasionFamilyDinner: {noise: []string{"moderate"}, lighting: []string{"bright", "warm"}, dressMin: 1, outdoor: true},
	OccasionBusiness:     {noise: []string{"quiet"}, lighting: []string{"bright", "natural"}, dressMin: 3},
	OccasionSolo:         {noise: []string{"quiet", "moderate"}, lighting: []string{"warm", "natural"}, dressMin: 1},
	OccasionSpecial:      {noise: []string{"quiet", "moderate"}, lighting: []string{"dim", "candlelit", "elegant"}, dressMin: 3, liveMusic: true},
	OccasionTreatMyself:  {noise: []string{"quiet", "moderate"}, lighting: []string{"warm", "dim"}, dressMin: 2},
	OccasionAdventure:    {noise: []string{"moderate", "lively", "loud"}, lighting: []string{"neon", "bright", "eclectic"}, dressMin: 1, liveMusic: true},
	OccasionChillHangout: {noise: []string{"moderate", "lively"}, lighting: []string{"warm", "dim"}, dressMin: 1, outdoor: true},
}

// VibeScore rates the room against the occasion's expectations (0-10).
// Noise contributes 3, lighting 3, dress code 2, and earned bonuses 2.
func VibeScore(c *models.Candidate, occasion string) float64 {
	exp, ok := vibeExpectations[occasion]
	if !ok {
		return 5
	}

	score := 0.0

	// Noise: 3 on match, 1.5 when unknown, 1 on mismatch
	if c.NoiseLevel == nil {
		score += 1.5
	} else if contains(exp.noise, *c.NoiseLevel) {
		score += 3
	} else {
		score += 1
	}

	// Lighting: 1.5 per matched keyword capped at 3; "any" or unknown is 1.5
	if c.Lighting == nil || strings.EqualFold(*c.Lighting, "any") {
		score += 1.5
	} else {
		lighting := strings.ToLower(*c.Lighting)
		matches := float64(countMatches(lighting, exp.lighting)) * 1.5
		if matches > 3 {
			matches = 3
		}
		score += matches
	}

	// Dress code: 2 when the room meets the occasion's bar, 1 otherwise
	if c.DressCode == nil {
		score += 1
	} else if DressLevels[*c.DressCode] >= exp.dressMin {
		score += 2
	} else {
		score += 1
	}

	// Bonuses: earned share of the available extras
	available := 0.0
	earned := 0.0
	if exp.outdoor {
		available++
		if c.OutdoorSeating {
			earned++
		}
	}
	if exp.liveMusic {
		available++
		if c.LiveMusic {
			earned++
		}
	}
	if available == 0 {
		score += 1
	} else {
		score += earned / available * 2
	}

	return clamp(score, 0, 10)
}

// occasionEnergy is the comfortable energy band (0-10) per occasion.
var occasionEnergy = map[string][2]float64{
	OccasionDateNight:    {3, 6},
	OccasionGroupHangout: {6, 9},
	OccasionFamilyDinner: {4, 7},
	OccasionBusiness:     {2, 5},
	OccasionSolo:         {2, 6},
	OccasionSpecial:      {4, 7},
	OccasionTreatMyself:  {3, 6},
	OccasionAdventure:    {5, 9},
	OccasionChillHangout: {4, 7},
	OccasionAny:          {3, 8},
}

// musicFits maps occasions to music vibes that elevate them.
var musicFits = map[string][]string{
	OccasionDateNight:    {"jazz", "soul", "ambient"},
	OccasionGroupHangout: {"upbeat", "pop", "hip-hop"},
	OccasionChillHangout: {"indie", "lofi", "ambient"},
	OccasionSpecial:      {"jazz", "classical", "live piano"},
	OccasionAdventure:    {"live", "eclectic", "loud"},
	OccasionTreatMyself:  {"jazz", "soul"},
}

var (
	aestheticWords = []string{"aesthetic", "instagram", "photogenic", "pretty", "beautiful", "gorgeous"}
	authenticWords = []string{"authentic", "traditional", "legit", "real deal"}
	fancyWords     = []string{"fancy", "upscale", "elegant", "dressed up"}
)

// VibeMatch is the deep-profile vibe dimension. It halves the base room score
// and layers energy fit, music fit, and request-driven texture signals on top.
func VibeMatch(c *models.Candidate, occasion, request string, now time.Time) float64 {
	score := VibeScore(c, occasion) / 2
	req := strings.ToLower(request)

	if c.Deep == nil {
		return clamp(score*2, 0, 10)
	}

	// Energy band fit
	if c.Deep.EnergyLevel != nil {
		band, ok := occasionEnergy[occasion]
		if !ok {
			band = occasionEnergy[OccasionAny]
		}
		e := *c.Deep.EnergyLevel
		if e >= band[0] && e <= band[1] {
			score += 2
		} else {
			mid := (band[0] + band[1]) / 2
			score -= math.Min(1.5, math.Abs(e-mid)*0.3)
		}
	}

	// Music fit
	if fits, ok := musicFits[occasion]; ok {
		for _, have := range c.Deep.MusicVibe {
			if contains(fits, strings.ToLower(have)) {
				score += 1
				break
			}
		}
	}

	// Request-driven texture
	if containsAny(req, aestheticWords) && c.Deep.InstagramWorth != nil && *c.Deep.InstagramWorth >= 7 {
		score += 1
	}
	if containsAny(req, authenticWords) && c.Deep.CulturalAuth != nil && *c.Deep.CulturalAuth >= 8 {
		score += 1
	}
	if containsAny(req, fancyWords) {
		for _, d := range c.Deep.DecorStyle {
			dl := strings.ToLower(d)
			if dl == "classic" || dl == "elegant" || dl == "white-tablecloth" {
				score += 1
				break
			}
		}
	}
	if strings.Contains(req, "cozy") {
		for _, d := range c.Deep.DecorStyle {
			dl := strings.ToLower(d)
			if dl == "cozy" || dl == "warm" {
				score += 0.5
				break
			}
		}
	}

	// Seasonal relevance
	if len(c.Deep.SeasonalRelevance) > 0 {
		if s, ok := c.Deep.SeasonalRelevance[Season(now)]; ok {
			score += (s - 5) * 0.2
		}
	}

	return clamp(score, 0, 10)
}

// Season names the meteorological season for a timestamp.
func Season(t time.Time) string {
	switch t.Month() {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "fall"
	}
}
