// internal/scoring/donde_test.go
package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donde-engine/internal/models"
)

// ==========================
// Test Helpers
// ==========================

func f(v float64) *float64 { return &v }
func s(v string) *string   { return &v }
func i(v int) *int         { return &v }
func b(v bool) *bool       { return &v }

func testNow() time.Time {
	return time.Date(2025, 7, 10, 19, 0, 0, 0, time.UTC)
}

func baseCandidate() *models.Candidate {
	return &models.Candidate{
		ID:         "11111111-1111-1111-1111-111111111111",
		Name:       "Testa Trattoria",
		Cuisine:    "Italian",
		PriceRange: "$$",
		Area:       "Logan Square",
		Oneliner:   "Handmade pasta in a candlelit corner room",
		Tags:       []string{"cozy", "romantic"},
		Features:   []string{"full_bar", "outdoor_seating"},
		NoiseLevel: s("quiet"),
		Lighting:   s("dim candlelit"),
		DressCode:  s("Smart Casual"),
		IsActive:   true,
		Occasions: models.OccasionScores{
			DateFriendly:   f(9),
			RomanticRating: f(8),
			GroupFriendly:  f(6),
		},
	}
}

func deepCandidate() *models.Candidate {
	c := baseCandidate()
	c.Deep = &models.DeepProfile{
		ServiceStyle:      s("full_service"),
		MealPacing:        s("leisurely"),
		ConversationScore: f(8),
		EnergyLevel:       f(4),
		FlavorProfiles:    []string{"rich", "umami"},
		SignatureDishes:   []models.SignatureDish{{Dish: "Cacio e Pepe"}},
		WowFactors:        []string{"open kitchen"},
	}
	return c
}

func request(occasion, budget, area, text string) *models.RecommendationRequest {
	r := &models.RecommendationRequest{Occasion: occasion, Budget: budget, Area: area, Request: text}
	r.Normalize()
	return r
}

// ==========================
// Weight Invariants
// ==========================

func TestOccasionBlendsSumToOne(t *testing.T) {
	for occasion, blend := range OccasionBlends {
		total := 0.0
		for _, w := range blend {
			total += w
		}
		assert.InDelta(t, 1.0, total, 0.0001, "blend for %s must sum to 1.0", occasion)
	}
}

func TestDimensionWeightVectorsSumToOne(t *testing.T) {
	for idx, w := range AllWeightVectors() {
		assert.InDelta(t, 1.0, w.Sum(), 0.0001, "weight vector %d must sum to 1.0", idx)
	}
}

func TestDimensionWeightsSelection(t *testing.T) {
	tests := []struct {
		name     string
		occasion string
		intent   *models.Intent
		expected Weights
	}{
		{
			name:     "high cuisine intent dominates occasion",
			occasion: OccasionDateNight,
			intent:   &models.Intent{Cuisines: []string{"Italian"}, CuisineImportance: models.CuisineImportanceHigh},
			expected: highCuisine,
		},
		{
			name:     "medium cuisine intent",
			occasion: OccasionGroupHangout,
			intent:   &models.Intent{Cuisines: []string{"Thai"}, CuisineImportance: models.CuisineImportanceMedium},
			expected: mediumCuisine,
		},
		{
			name:     "adventure favors discovery",
			occasion: OccasionAdventure,
			intent:   nil,
			expected: adventureWeights,
		},
		{
			name:     "family dinner favors practicality",
			occasion: OccasionFamilyDinner,
			intent:   nil,
			expected: familyWeights,
		},
		{
			name:     "vibe heavy occasion without intent",
			occasion: OccasionSpecial,
			intent:   &models.Intent{CuisineImportance: models.CuisineImportanceLow},
			expected: vibeHeavyWeights,
		},
		{
			name:     "default",
			occasion: OccasionChillHangout,
			intent:   nil,
			expected: baseWeights,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DimensionWeights(tt.occasion, tt.intent))
		})
	}
}

// ==========================
// Composite Bounds
// ==========================

func TestDondeMatchStaysInBand(t *testing.T) {
	tests := []struct {
		name      string
		candidate *models.Candidate
		req       *models.RecommendationRequest
	}{
		{
			name: "worst case stays at floor",
			candidate: &models.Candidate{
				Cuisine:           "Italian",
				PriceRange:        "$$$$",
				Area:              "River North",
				NoiseLevel:        s("loud"),
				GoogleRating:      f(1.0),
				GoogleReviewCount: i(500),
				NegativeRatio:     f(0.9),
				Occasions: models.OccasionScores{
					DateFriendly: f(0), GroupFriendly: f(0), FamilyFriendly: f(0),
					RomanticRating: f(0), BusinessLunch: f(0), SoloDining: f(0),
					HoleInWallFactor: f(0),
				},
			},
			req: request(OccasionDateNight, "$", "Pilsen", "cheap tacos"),
		},
		{
			name: "best case stays at ceiling",
			candidate: func() *models.Candidate {
				c := deepCandidate()
				c.GoogleRating = f(5.0)
				c.GoogleReviewCount = i(1000)
				c.OutdoorSeating = true
				c.LiveMusic = true
				c.Occasions = models.OccasionScores{
					DateFriendly: f(10), GroupFriendly: f(10), FamilyFriendly: f(10),
					RomanticRating: f(10), BusinessLunch: f(10), SoloDining: f(10),
					HoleInWallFactor: f(10),
				}
				return c
			}(),
			req: request(OccasionDateNight, "$$", "Logan Square", "romantic pasta date night"),
		},
		{
			name:      "neutral candidate lands mid band",
			candidate: baseCandidate(),
			req:       request(OccasionAny, "", "", ""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Score(tt.candidate, Input{Request: tt.req, Now: testNow()})
			assert.GreaterOrEqual(t, res.Donde, DondeMin)
			assert.LessOrEqual(t, res.Donde, DondeMax)

			withRel := res.WithRelevance(10)
			assert.GreaterOrEqual(t, withRel.Donde, DondeMin)
			assert.LessOrEqual(t, withRel.Donde, DondeMax)
		})
	}
}

func TestScoreVersionSelection(t *testing.T) {
	req := request(OccasionDateNight, "$$", "Logan Square", "pasta")

	shallow := Score(baseCandidate(), Input{Request: req, Now: testNow()})
	assert.Equal(t, 1, shallow.Version)

	deep := Score(deepCandidate(), Input{Request: req, Now: testNow()})
	assert.Equal(t, 2, deep.Version)
	assert.NotZero(t, deep.Breakdown.Practical)
	assert.NotZero(t, deep.Breakdown.Discovery)
}

func TestWithRelevanceMovesScore(t *testing.T) {
	req := request(OccasionDateNight, "$$", "Logan Square", "pasta")
	res := Score(deepCandidate(), Input{Request: req, Now: testNow()})

	high := res.WithRelevance(10)
	low := res.WithRelevance(0)

	assert.Greater(t, high.Raw, low.Raw)
	assert.GreaterOrEqual(t, high.Donde, low.Donde)
	assert.Equal(t, 10.0, high.Breakdown.Relevance)
}

// ==========================
// Dimension Behavior
// ==========================

func TestOccasionScore(t *testing.T) {
	c := baseCandidate()

	assert.InDelta(t, 9.0, OccasionScore(c, OccasionDateNight), 0.0001)

	// Special Occasion blends romantic 0.7 and date 0.3
	assert.InDelta(t, 8*0.7+9*0.3, OccasionScore(c, OccasionSpecial), 0.0001)

	// Missing sub-scores contribute nothing to the average
	anyScore := OccasionScore(c, OccasionAny)
	assert.InDelta(t, (9+6+0+8+0+0+0)/70.0*10, anyScore, 0.0001)
}

// An unscored restaurant must never outrank one with a real, if mediocre,
// occasion score.
func TestOccasionScoreMissingIsNotQuality(t *testing.T) {
	unscored := &models.Candidate{}
	mediocre := &models.Candidate{Occasions: models.OccasionScores{DateFriendly: f(4)}}

	assert.Zero(t, unscored.Occasions.Sum())
	assert.Zero(t, OccasionScore(unscored, OccasionDateNight))
	assert.Greater(t, OccasionScore(mediocre, OccasionDateNight), OccasionScore(unscored, OccasionDateNight))
}

func TestCravingRelevanceDefaults(t *testing.T) {
	c := baseCandidate()
	assert.Equal(t, defaultCravingScore, CravingRelevance(c, "", nil))
	assert.Equal(t, defaultCravingScore, CravingRelevance(c, "ok", nil))
}

func TestCravingRelevanceRewardsCuisine(t *testing.T) {
	c := baseCandidate()
	withMatch := CravingRelevance(c, "craving pasta somewhere cozy", nil)
	withoutMatch := CravingRelevance(c, "craving sushi", nil)
	assert.Greater(t, withMatch, withoutMatch)
}

func TestCravingMatchUsesDeepProfile(t *testing.T) {
	c := deepCandidate()
	intent := &models.Intent{
		Cuisines:          []string{"Italian"},
		CuisineImportance: models.CuisineImportanceHigh,
		FlavorPreferences: []string{"rich"},
	}
	matched := CravingMatch(c, "rich pasta", intent)

	other := deepCandidate()
	other.Cuisine = "Japanese"
	other.Deep.FlavorProfiles = []string{"fresh"}
	unmatched := CravingMatch(other, "rich pasta", intent)

	assert.Greater(t, matched, unmatched)

	noAsk := CravingMatch(c, "", nil)
	assert.Equal(t, defaultCravingScore, noAsk)
}

// A cuisine-only ask earns the cuisine points out of the full budget, not
// out of a budget shrunk to what the request happened to express.
func TestCravingMatchFixedDenominator(t *testing.T) {
	c := &models.Candidate{Cuisine: "Thai"}
	assert.InDelta(t, 4.0/cravingMatchMax*10, CravingMatch(c, "thai food", nil), 0.0001)
}

func TestQualitySignal(t *testing.T) {
	tests := []struct {
		name     string
		rating   *float64
		reviews  *int
		expected float64
	}{
		{"missing rating", nil, nil, 6.5},
		{"strong rating high volume", f(4.5), i(250), 8.0},
		{"strong rating low volume", f(4.5), i(10), 6.4},
		{"strong rating mid volume", f(4.5), i(50), 7.2},
		{"poor rating floors at zero", f(1.0), i(500), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &models.Candidate{GoogleRating: tt.rating, GoogleReviewCount: tt.reviews}
			assert.InDelta(t, tt.expected, QualitySignal(c), 0.0001)
		})
	}
}

func TestSentimentPenalty(t *testing.T) {
	tests := []struct {
		name     string
		negative *float64
		expected float64
	}{
		{"no data", nil, 0},
		{"below threshold", f(0.10), 0},
		{"at threshold", f(0.15), 0},
		{"midpoint", f(0.325), -1.5},
		{"at ceiling", f(0.50), -3},
		{"beyond ceiling", f(0.80), -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &models.Candidate{NegativeRatio: tt.negative}
			assert.InDelta(t, tt.expected, SentimentPenalty(c), 0.0001)
		})
	}
}

func TestFilterPrecision(t *testing.T) {
	c := baseCandidate()

	noFilters := request(OccasionDateNight, "", "", "")
	assert.Equal(t, 8.0, FilterPrecision(c, noFilters))

	allMatch := request(OccasionDateNight, "$$", "Logan Square", "")
	assert.Equal(t, 10.0, FilterPrecision(c, allMatch))

	oneMiss := request(OccasionDateNight, "$$$$", "Logan Square", "")
	assert.Equal(t, 5.0, FilterPrecision(c, oneMiss))

	bothMiss := request(OccasionDateNight, "$$$$", "Loop", "")
	assert.Equal(t, 0.0, FilterPrecision(c, bothMiss))
}

func TestVibeScore(t *testing.T) {
	c := baseCandidate()
	c.OutdoorSeating = true
	c.LiveMusic = true

	dateNight := VibeScore(c, OccasionDateNight)
	// quiet room, dim candlelit lighting, smart casual, both bonuses earned
	assert.InDelta(t, 10.0, dateNight, 0.0001)

	// Business Lunch wants quiet and bright; the candlelit room scores lower
	business := VibeScore(c, OccasionBusiness)
	assert.Less(t, business, dateNight)

	// Everything unknown: 1.5 noise + 1.5 lighting + 1 dress + 0 bonuses
	unknown := &models.Candidate{}
	assert.InDelta(t, 4.0, VibeScore(unknown, OccasionDateNight), 0.0001)
}

func TestVibeMatchEnergyBand(t *testing.T) {
	inBand := deepCandidate()
	outOfBand := deepCandidate()
	outOfBand.Deep.EnergyLevel = f(10)

	high := VibeMatch(inBand, OccasionDateNight, "", testNow())
	low := VibeMatch(outOfBand, OccasionDateNight, "", testNow())
	assert.Greater(t, high, low)
}

func TestPracticalFit(t *testing.T) {
	tests := []struct {
		name      string
		deep      *models.DeepProfile
		requestTx string
		occasion  string
		intent    *models.Intent
		check     func(t *testing.T, score float64)
	}{
		{
			name:      "no deep profile is flat",
			deep:      nil,
			requestTx: "tonight",
			occasion:  OccasionDateNight,
			check: func(t *testing.T, score float64) {
				assert.Equal(t, 8.0, score)
			},
		},
		{
			name:      "hard reservation punished on urgency",
			deep:      &models.DeepProfile{ReservationProfile: s("hard_to_get")},
			requestTx: "somewhere tonight",
			occasion:  OccasionDateNight,
			check: func(t *testing.T, score float64) {
				assert.Equal(t, 5.0, score)
			},
		},
		{
			name:      "walk-in rewarded on spontaneity intent",
			deep:      &models.DeepProfile{ReservationProfile: s("walk_in_friendly")},
			requestTx: "",
			occasion:  OccasionDateNight,
			intent:    &models.Intent{Spontaneity: models.SpontaneitySpontaneous},
			check: func(t *testing.T, score float64) {
				assert.Equal(t, 9.0, score)
			},
		},
		{
			name:      "ceremonial pacing clashes with business lunch",
			deep:      &models.DeepProfile{MealPacing: s("ceremonial")},
			requestTx: "",
			occasion:  OccasionBusiness,
			check: func(t *testing.T, score float64) {
				assert.Equal(t, 6.0, score)
			},
		},
		{
			name:      "small sweet spot punished for large groups",
			deep:      &models.DeepProfile{GroupSizeSweetSpot: s("[2,4)")},
			requestTx: "big group dinner",
			occasion:  OccasionGroupHangout,
			check: func(t *testing.T, score float64) {
				assert.Equal(t, 6.0, score)
			},
		},
		{
			name:      "byob bonus requires the ask",
			deep:      &models.DeepProfile{BYOBPolicy: s("full_byob")},
			requestTx: "byob friendly spot",
			occasion:  OccasionChillHangout,
			check: func(t *testing.T, score float64) {
				assert.Equal(t, 9.0, score)
			},
		},
		{
			name:      "byob policy alone earns nothing",
			deep:      &models.DeepProfile{BYOBPolicy: s("full_byob")},
			requestTx: "quiet dinner",
			occasion:  OccasionChillHangout,
			check: func(t *testing.T, score float64) {
				assert.Equal(t, 8.0, score)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := baseCandidate()
			c.Deep = tt.deep
			tt.check(t, PracticalFit(c, tt.requestTx, tt.occasion, tt.intent))
		})
	}
}

func TestDiscoveryScore(t *testing.T) {
	hidden := deepCandidate()
	hidden.Deep.NeighborhoodRole = s("hidden_local")
	hidden.Deep.CulturalAuth = f(9)

	adventure := DiscoveryScore(hidden, OccasionAdventure)
	chill := DiscoveryScore(hidden, OccasionChillHangout)
	assert.Greater(t, adventure, chill)

	awarded := deepCandidate()
	awarded.Deep.AwardsRecognition = []string{"Bib Gourmand"}
	awarded.Deep.ChefNotable = b(true)
	assert.Greater(t, DiscoveryScore(awarded, OccasionSpecial), DiscoveryScore(awarded, OccasionChillHangout))

	plain := baseCandidate()
	assert.Equal(t, 5.0, DiscoveryScore(plain, OccasionAdventure))
}

func TestUnmatchedKeywords(t *testing.T) {
	gaps := UnmatchedKeywords("somewhere with great sashimi and zorbln")
	require.NotEmpty(t, gaps)
	assert.Contains(t, gaps, "zorbln")
	assert.Empty(t, UnmatchedKeywords("ok"))
}

func TestSeason(t *testing.T) {
	assert.Equal(t, "summer", Season(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "winter", Season(time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "fall", Season(time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "spring", Season(time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)))
}
