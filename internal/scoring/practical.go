// internal/scoring/practical.go
package scoring

import (
	"regexp"
	"strconv"
	"strings"

	"donde-engine/internal/models"
)

var (
	urgencyPattern   = regexp.MustCompile(`(?i)tonight|right now|last minute|walk.?in|spontaneous`)
	largeGroupWords  = []string{"big group", "large group", "party of", "group of", "all of us"}
	groupSizePattern = regexp.MustCompile(`^\[(\d+),(\d+)\)$`)
)

// PracticalFit rates logistics against the request (0-10). Without a deep
// profile there is nothing to judge, so the flat default applies.
func PracticalFit(c *models.Candidate, request, occasion string, intent *models.Intent) float64 {
	if c.Deep == nil {
		return 8
	}

	score := 8.0
	req := strings.ToLower(request)
	urgent := urgencyPattern.MatchString(req) ||
		(intent != nil && intent.Spontaneity == models.SpontaneitySpontaneous)

	if c.Deep.ReservationProfile != nil {
		switch *c.Deep.ReservationProfile {
		case "hard_to_get":
			if urgent {
				score -= 3
			}
		case "walk_in_friendly":
			if urgent {
				score += 1
			}
		}
	}

	if c.Deep.MealPacing != nil {
		pacing := *c.Deep.MealPacing
		if pacing == "ceremonial" && occasion == OccasionBusiness {
			score -= 2
		}
		if pacing == "quick_bite" {
			if occasion == OccasionSpecial || occasion == OccasionDateNight {
				score -= 2
			}
			if strings.Contains(req, "quick") {
				score += 1
			}
		}
	}

	// Sweet spot is stored as a half-open range like "[2,6)"
	if c.Deep.GroupSizeSweetSpot != nil {
		if m := groupSizePattern.FindStringSubmatch(*c.Deep.GroupSizeSweetSpot); m != nil {
			min, _ := strconv.Atoi(m[1])
			max, _ := strconv.Atoi(m[2])
			if containsAny(req, largeGroupWords) && max <= 6 {
				score -= 2
			}
			if occasion == OccasionSolo && min > 2 {
				score -= 1
			}
		}
	}

	// BYOB only matters when the request asks for it.
	if strings.Contains(req, "byob") && c.Deep.BYOBPolicy != nil && *c.Deep.BYOBPolicy == "full_byob" {
		score += 1
	}

	if c.Deep.PaymentNotes != nil && strings.Contains(strings.ToLower(*c.Deep.PaymentNotes), "cash") {
		score -= 0.5
	}

	return clamp(score, 0, 10)
}
