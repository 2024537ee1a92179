// internal/scoring/weights.go
package scoring

import "donde-engine/internal/models"

// Weights is a dimension weight vector for the deep-profile composite.
// Every vector handed out by DimensionWeights sums to 1.0.
type Weights struct {
	Occasion  float64
	Craving   float64
	Vibe      float64
	Practical float64
	Discovery float64
}

// Sum returns the total of the vector. Used by invariant checks.
func (w Weights) Sum() float64 {
	return w.Occasion + w.Craving + w.Vibe + w.Practical + w.Discovery
}

var (
	baseWeights       = Weights{Occasion: 0.25, Craving: 0.25, Vibe: 0.20, Practical: 0.15, Discovery: 0.15}
	highCuisine       = Weights{Occasion: 0.15, Craving: 0.45, Vibe: 0.15, Practical: 0.15, Discovery: 0.10}
	mediumCuisine     = Weights{Occasion: 0.20, Craving: 0.35, Vibe: 0.20, Practical: 0.15, Discovery: 0.10}
	vibeHeavyWeights  = Weights{Occasion: 0.30, Craving: 0.10, Vibe: 0.30, Practical: 0.15, Discovery: 0.15}
	adventureWeights  = Weights{Occasion: 0.10, Craving: 0.20, Vibe: 0.15, Practical: 0.15, Discovery: 0.40}
	familyWeights     = Weights{Occasion: 0.25, Craving: 0.20, Vibe: 0.15, Practical: 0.25, Discovery: 0.15}
	vibeHeavyOccasion = map[string]bool{
		OccasionDateNight: true,
		OccasionSpecial:   true,
		OccasionBusiness:  true,
	}
)

// DimensionWeights picks the weight vector for the occasion and intent.
// Explicit cuisine intent dominates; otherwise the occasion decides.
func DimensionWeights(occasion string, intent *models.Intent) Weights {
	if intent.HighCuisine() {
		return highCuisine
	}
	if intent.MediumCuisine() {
		return mediumCuisine
	}
	switch occasion {
	case OccasionAdventure:
		return adventureWeights
	case OccasionFamilyDinner:
		return familyWeights
	}
	if vibeHeavyOccasion[occasion] {
		return vibeHeavyWeights
	}
	return baseWeights
}

// AllWeightVectors exposes every vector for invariant tests.
func AllWeightVectors() []Weights {
	return []Weights{baseWeights, highCuisine, mediumCuisine, vibeHeavyWeights, adventureWeights, familyWeights}
}
