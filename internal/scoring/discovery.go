// internal/scoring/discovery.go
package scoring

import (
	"math"

	"donde-engine/internal/models"
)

// DiscoveryScore rates how much of a find the place is (0-10). Without a deep
// profile it stays neutral.
func DiscoveryScore(c *models.Candidate, occasion string) float64 {
	if c.Deep == nil {
		return 5
	}

	score := 5.0

	score += math.Min(2, float64(len(c.Deep.WowFactors))*0.7)

	if c.Deep.OriginStory != nil && *c.Deep.OriginStory != "" {
		score += 0.5
	}
	if c.Deep.UniqueSellingPoint != nil && *c.Deep.UniqueSellingPoint != "" {
		score += 1
	}

	if occasion == OccasionAdventure {
		if c.Deep.NeighborhoodRole != nil && *c.Deep.NeighborhoodRole == "hidden_local" {
			score += 2
		}
		if c.Deep.CulturalAuth != nil && *c.Deep.CulturalAuth >= 8 {
			score += 1
		}
	}

	if occasion == OccasionSpecial {
		if c.Deep.NeighborhoodRole != nil && *c.Deep.NeighborhoodRole == "destination" {
			score += 1
		}
	}

	if occasion == OccasionSpecial || occasion == OccasionTreatMyself {
		if len(c.Deep.AwardsRecognition) > 0 {
			score += 1.5
		}
		if c.Deep.ChefNotable != nil && *c.Deep.ChefNotable {
			score += 0.5
		}
	}

	return clamp(score, 0, 10)
}
