// internal/models/candidate.go
package models

// OccasionScores holds the seven pre-computed occasion sub-scores (0-10).
// Any of them may be absent for restaurants that have not been enriched yet.
type OccasionScores struct {
	DateFriendly     *float64 `json:"date_friendly,omitempty"`
	GroupFriendly    *float64 `json:"group_friendly,omitempty"`
	FamilyFriendly   *float64 `json:"family_friendly,omitempty"`
	RomanticRating   *float64 `json:"romantic_rating,omitempty"`
	BusinessLunch    *float64 `json:"business_lunch,omitempty"`
	SoloDining       *float64 `json:"solo_dining,omitempty"`
	HoleInWallFactor *float64 `json:"hole_in_wall_factor,omitempty"`
}

// Get returns the named sub-score. A missing value counts as 0: absence
// means unscored, never a quality signal.
func (o OccasionScores) Get(name string) float64 {
	var v *float64
	switch name {
	case "date_friendly":
		v = o.DateFriendly
	case "group_friendly":
		v = o.GroupFriendly
	case "family_friendly":
		v = o.FamilyFriendly
	case "romantic_rating":
		v = o.RomanticRating
	case "business_lunch":
		v = o.BusinessLunch
	case "solo_dining":
		v = o.SoloDining
	case "hole_in_wall_factor":
		v = o.HoleInWallFactor
	}
	if v == nil {
		return 0
	}
	return *v
}

// Sum adds up all seven sub-scores; missing values contribute nothing.
func (o OccasionScores) Sum() float64 {
	total := 0.0
	for _, name := range SubScoreNames {
		total += o.Get(name)
	}
	return total
}

// SubScoreNames lists the occasion sub-score columns in a stable order.
var SubScoreNames = []string{
	"date_friendly",
	"group_friendly",
	"family_friendly",
	"romantic_rating",
	"business_lunch",
	"solo_dining",
	"hole_in_wall_factor",
}

// SignatureDish is one entry of a deep profile's signature dish list.
type SignatureDish struct {
	Dish string `json:"dish"`
	Note string `json:"note,omitempty"`
}

// DeepProfile carries the second-generation enrichment attributes. Every field
// is optional; scoring degrades gracefully when a field is missing.
type DeepProfile struct {
	CuisineSubcategory *string            `json:"cuisine_subcategory,omitempty"`
	FlavorProfiles     []string           `json:"flavor_profiles,omitempty"`
	SpiceLevel         *string            `json:"spice_level,omitempty"`
	SignatureDishes    []SignatureDish    `json:"signature_dishes,omitempty"`
	DietaryDepth       map[string]string  `json:"dietary_depth,omitempty"`
	BYOBPolicy         *string            `json:"byob_policy,omitempty"`
	ServiceStyle       *string            `json:"service_style,omitempty"`
	MealPacing         *string            `json:"meal_pacing,omitempty"`
	ConversationScore  *float64           `json:"conversation_friendliness,omitempty"`
	KidFriendliness    *float64           `json:"kid_friendliness,omitempty"`
	EnergyLevel        *float64           `json:"energy_level,omitempty"`
	MusicVibe          []string           `json:"music_vibe,omitempty"`
	InstagramWorth     *float64           `json:"instagram_worthiness,omitempty"`
	CulturalAuth       *float64           `json:"cultural_authenticity,omitempty"`
	DecorStyle         []string           `json:"decor_style,omitempty"`
	SeasonalRelevance  map[string]float64 `json:"seasonal_relevance,omitempty"`
	ReservationProfile *string            `json:"reservation_difficulty,omitempty"`
	GroupSizeSweetSpot *string            `json:"group_size_sweet_spot,omitempty"`
	PaymentNotes       *string            `json:"payment_notes,omitempty"`
	WowFactors         []string           `json:"wow_factors,omitempty"`
	OriginStory        *string            `json:"origin_story,omitempty"`
	UniqueSellingPoint *string            `json:"unique_selling_point,omitempty"`
	NeighborhoodRole   *string            `json:"neighborhood_integration,omitempty"`
	AwardsRecognition  []string           `json:"awards_recognition,omitempty"`
	ChefNotable        *bool              `json:"chef_notable,omitempty"`
	BestSeatInHouse    *string            `json:"best_seat_in_house,omitempty"`
	CrowdProfile       *string            `json:"crowd_profile,omitempty"`
	SeatingOptions     []string           `json:"seating_options,omitempty"`
	DateProgression    *string            `json:"date_progression,omitempty"`
	InsiderTip         *string            `json:"insider_tip,omitempty"`
}

// Candidate is a merged restaurant profile: the base row, its occasion
// sub-scores, tags, and (when enriched) the deep profile.
type Candidate struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Cuisine        string   `json:"cuisine"`
	PriceRange     string   `json:"price_range"`
	Area           string   `json:"area"`
	Oneliner       string   `json:"oneliner,omitempty"`
	Description    string   `json:"description,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Features       []string `json:"features,omitempty"`
	DietaryOptions []string `json:"dietary_options,omitempty"`
	GoodFor        []string `json:"good_for,omitempty"`
	NoiseLevel     *string  `json:"noise_level,omitempty"`
	Lighting       *string  `json:"lighting,omitempty"`
	DressCode      *string  `json:"dress_code,omitempty"`
	OutdoorSeating bool     `json:"outdoor_seating,omitempty"`
	LiveMusic      bool     `json:"live_music,omitempty"`
	BestTimes      []string `json:"best_times,omitempty"`
	InsiderTip     string   `json:"insider_tip,omitempty"`

	GoogleRating      *float64 `json:"google_rating,omitempty"`
	GoogleReviewCount *int     `json:"google_review_count,omitempty"`
	NegativeRatio     *float64 `json:"negative_review_ratio,omitempty"`

	TrendingScore float64 `json:"trending_score,omitempty"`
	IsActive      bool    `json:"is_active"`

	Occasions OccasionScores `json:"occasion_scores"`
	Deep      *DeepProfile   `json:"deep_profile,omitempty"`
}

// Enriched reports whether the base enrichment pass has run. The noise level
// is always populated by that pass, so it doubles as the marker column.
func (c *Candidate) Enriched() bool {
	return c.NoiseLevel != nil
}

// HasDeepProfile reports whether second-generation scoring can run.
func (c *Candidate) HasDeepProfile() bool {
	return c.Deep != nil
}
