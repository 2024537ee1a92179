// internal/recommend/fallback.go
package recommend

import (
	"fmt"
	"strings"

	"donde-engine/internal/models"
	"donde-engine/internal/scoring"
)

// Occasion-aware openings for template synthesis. Keyed by the canonical
// occasion labels; anything else falls through to the generic line.
var fallbackOpenings = map[string]string{
	scoring.OccasionDateNight:    "%s sets exactly the right mood for a date.",
	scoring.OccasionGroupHangout: "%s handles a group without losing its charm.",
	scoring.OccasionFamilyDinner: "%s keeps everyone at the table happy, kids included.",
	scoring.OccasionBusiness:     "%s strikes the right professional note for a working meal.",
	scoring.OccasionSolo:         "%s is the kind of place that rewards showing up alone.",
	scoring.OccasionSpecial:      "%s feels like an occasion the moment you walk in.",
	scoring.OccasionTreatMyself:  "%s is a proper treat, no excuses needed.",
	scoring.OccasionAdventure:    "%s is the find you will be telling people about.",
	scoring.OccasionChillHangout: "%s is easy, unhurried, and exactly low-key enough.",
}

const fallbackGenericOpening = "%s is a strong pick for tonight."

// synthesizeFallback builds the recommendation text without the model. It
// leans on stored profile data so the output still reads specific to the
// restaurant.
func synthesizeFallback(c *models.Candidate, occasion string) (headline, tip string) {
	opening, ok := fallbackOpenings[occasion]
	if !ok {
		opening = fallbackGenericOpening
	}

	parts := []string{fmt.Sprintf(opening, c.Name)}
	if c.Oneliner != "" {
		parts = append(parts, c.Oneliner)
	} else if c.Cuisine != "" {
		parts = append(parts, fmt.Sprintf("Expect solid %s in %s.", c.Cuisine, c.Area))
	}
	headline = strings.Join(parts, " ")

	tip = fallbackTip(c)
	return headline, tip
}

// fallbackTip prefers deep-profile specifics over the stored generic tip.
func fallbackTip(c *models.Candidate) string {
	if c.Deep != nil {
		if c.Deep.InsiderTip != nil && *c.Deep.InsiderTip != "" {
			return *c.Deep.InsiderTip
		}
		if len(c.Deep.SignatureDishes) > 0 {
			dish := c.Deep.SignatureDishes[0]
			if dish.Note != "" {
				return fmt.Sprintf("Order the %s; %s.", dish.Dish, strings.TrimSuffix(dish.Note, "."))
			}
			return fmt.Sprintf("Order the %s.", dish.Dish)
		}
		if c.Deep.BestSeatInHouse != nil && *c.Deep.BestSeatInHouse != "" {
			return fmt.Sprintf("Ask for %s.", *c.Deep.BestSeatInHouse)
		}
	}
	if c.InsiderTip != "" {
		return c.InsiderTip
	}
	return ""
}
