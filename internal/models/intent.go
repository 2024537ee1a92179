// internal/models/intent.go
package models

// Cuisine importance levels assigned by the intent extractor.
const (
	CuisineImportanceHigh   = "high"
	CuisineImportanceMedium = "medium"
	CuisineImportanceLow    = "low"
)

// Spontaneity values assigned by the intent extractor.
const (
	SpontaneityPlanned     = "planned"
	SpontaneitySpontaneous = "spontaneous"
	SpontaneityUnknown     = "unknown"
)

// Intent is the structured interpretation of the free-text request. A nil
// *Intent anywhere in the pipeline means "no usable intent"; all consumers
// must tolerate that.
type Intent struct {
	Cuisines          []string `json:"cuisines"`
	Tags              []string `json:"tags"`
	Features          []string `json:"features"`
	CuisineImportance string   `json:"cuisine_importance"`

	FlavorPreferences    []string `json:"flavor_preferences"`
	VibeKeywords         []string `json:"vibe_keywords"`
	PracticalConstraints []string `json:"practical_constraints"`
	EmotionalIntent      string   `json:"emotional_intent"`
	DateType             string   `json:"date_type,omitempty"`
	GroupSizeHint        string   `json:"group_size_hint,omitempty"`
	Spontaneity          string   `json:"spontaneity"`
}

// HighCuisine reports a strong explicit cuisine ask.
func (i *Intent) HighCuisine() bool {
	return i != nil && i.CuisineImportance == CuisineImportanceHigh && len(i.Cuisines) > 0
}

// MediumCuisine reports a softer cuisine preference.
func (i *Intent) MediumCuisine() bool {
	return i != nil && i.CuisineImportance == CuisineImportanceMedium && len(i.Cuisines) > 0
}
