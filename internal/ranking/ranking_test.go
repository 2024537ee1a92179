// internal/ranking/ranking_test.go
package ranking

import (
	"fmt"
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

// dinnerTime is 19:00 in Chicago regardless of the host zone.
func dinnerTime() time.Time {
	return time.Date(2025, 7, 10, 19, 0, 0, 0, chicago)
}

func candidate(name, cuisine, price, area string) models.Candidate {
	return models.Candidate{
		ID:         name,
		Name:       name,
		Cuisine:    cuisine,
		PriceRange: price,
		Area:       area,
		IsActive:   true,
	}
}

// ==========================
// Rejection Signals
// ==========================

func TestAnalyzeRejections(t *testing.T) {
	tests := []struct {
		name     string
		excluded []models.Candidate
		expected func(t *testing.T, sig RejectionSignals)
	}{
		{
			name:     "below threshold stays inactive",
			excluded: []models.Candidate{candidate("a", "Italian", "$$", "Loop")},
			expected: func(t *testing.T, sig RejectionSignals) {
				assert.False(t, sig.Active)
				p := candidate("b", "Italian", "$$", "Loop")
				assert.Zero(t, sig.Penalty(&p, 2))
			},
		},
		{
			name: "repeated cuisine penalized",
			excluded: []models.Candidate{
				candidate("a", "Italian", "$$", "Loop"),
				candidate("b", "Italian", "$$$", "Pilsen"),
			},
			expected: func(t *testing.T, sig RejectionSignals) {
				assert.True(t, sig.Active)
				same := candidate("c", "Italian", "$", "Loop")
				other := candidate("d", "Thai", "$", "Loop")
				assert.Equal(t, -2.0, sig.Penalty(&same, 2))
				assert.Zero(t, sig.Penalty(&other, 2))
			},
		},
		{
			name: "repeated cuisine and price stack",
			excluded: []models.Candidate{
				candidate("a", "Italian", "$$$$", "Loop"),
				candidate("b", "Italian", "$$$$", "Pilsen"),
			},
			expected: func(t *testing.T, sig RejectionSignals) {
				same := candidate("c", "Italian", "$$$$", "Loop")
				assert.Equal(t, -3.0, sig.Penalty(&same, 2))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.expected(t, AnalyzeRejections(tt.excluded, 2))
		})
	}
}

// ==========================
// Boost
// ==========================

func TestBoostCuisineKeyword(t *testing.T) {
	c := candidate("a", "Mexican", "$", "Pilsen")
	none := RejectionSignals{}

	withHit := Boost(&c, "craving tacos tonight", nil, none, 2, dinnerTime())
	withoutHit := Boost(&c, "craving sushi tonight", nil, none, 2, dinnerTime())
	assert.Equal(t, 3.0, withHit-withoutHit)
}

func TestBoostIntentClassification(t *testing.T) {
	c := candidate("a", "Thai", "$$", "Uptown")
	none := RejectionSignals{}

	high := &models.Intent{Cuisines: []string{"Thai"}, CuisineImportance: models.CuisineImportanceHigh}
	low := &models.Intent{Cuisines: []string{"Thai"}, CuisineImportance: models.CuisineImportanceLow}
	miss := &models.Intent{Cuisines: []string{"Italian"}, CuisineImportance: models.CuisineImportanceHigh}

	assert.Equal(t, 5.0, Boost(&c, "", high, none, 2, dinnerTime()))
	assert.Equal(t, 3.0, Boost(&c, "", low, none, 2, dinnerTime()))
	assert.Equal(t, -2.0, Boost(&c, "", miss, none, 2, dinnerTime()))
}

func TestBoostTimeOfDay(t *testing.T) {
	none := RejectionSignals{}

	specialist := candidate("a", "American", "$", "Loop")
	specialist.BestTimes = []string{"dinner"}

	generalist := candidate("b", "American", "$", "Loop")
	generalist.BestTimes = []string{"breakfast", "lunch", "dinner"}

	offPeak := candidate("c", "American", "$", "Loop")
	offPeak.BestTimes = []string{"breakfast"}

	broadOffPeak := candidate("d", "American", "$", "Loop")
	broadOffPeak.BestTimes = []string{"breakfast", "lunch", "late_night"}

	// A match pays out regardless of list width; the miss penalty only hits
	// narrow lists.
	assert.Equal(t, 1.5, Boost(&specialist, "", nil, none, 2, dinnerTime()))
	assert.Equal(t, 1.5, Boost(&generalist, "", nil, none, 2, dinnerTime()))
	assert.Equal(t, -1.0, Boost(&offPeak, "", nil, none, 2, dinnerTime()))
	assert.Zero(t, Boost(&broadOffPeak, "", nil, none, 2, dinnerTime()))
}

func TestBoostDietaryAndGoodFor(t *testing.T) {
	c := candidate("a", "Mediterranean", "$$", "Andersonville")
	c.DietaryOptions = []string{"vegan"}
	c.GoodFor = []string{"birthdays"}
	none := RejectionSignals{}

	got := Boost(&c, "vegan birthday dinner", nil, none, 2, dinnerTime())
	assert.Equal(t, 3.0, got) // dietary 2.0 + good-for 1.0
}

func TestMealPeriod(t *testing.T) {
	tests := []struct {
		hour     int
		expected string
	}{
		{7, PeriodBreakfast},
		{12, PeriodLunch},
		{18, PeriodDinner},
		{23, PeriodLateNight},
		{2, PeriodLateNight},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("hour_%d", tt.hour), func(t *testing.T) {
			ts := time.Date(2025, 7, 10, tt.hour, 30, 0, 0, chicago)
			assert.Equal(t, tt.expected, MealPeriod(ts))
		})
	}
}

// ==========================
// ReRank
// ==========================

func TestReRankPreservesOrderWithoutSignal(t *testing.T) {
	first := candidate("first", "Italian", "$$", "Loop")
	first.Occasions = models.OccasionScores{DateFriendly: f(9)}
	second := candidate("second", "Thai", "$$", "Pilsen")
	second.Occasions = models.OccasionScores{DateFriendly: f(7)}

	ranked := ReRank([]models.Candidate{first, second}, "", "Date Night", nil, RejectionSignals{}, 2, dinnerTime())
	require.Len(t, ranked, 2)
	assert.Equal(t, "first", ranked[0].Candidate.ID)
	assert.Equal(t, "second", ranked[1].Candidate.ID)
}

func TestReRankBoostLiftsMatch(t *testing.T) {
	strong := candidate("strong", "Italian", "$$", "Loop")
	strong.Occasions = models.OccasionScores{DateFriendly: f(9)}
	tacoSpot := candidate("tacos", "Mexican", "$", "Pilsen")
	tacoSpot.Occasions = models.OccasionScores{DateFriendly: f(8)}

	ranked := ReRank([]models.Candidate{strong, tacoSpot}, "really want tacos", "Date Night", nil, RejectionSignals{}, 2, dinnerTime())
	require.Len(t, ranked, 2)
	assert.Equal(t, "tacos", ranked[0].Candidate.ID,
		"a 3.0 cuisine boost at 0.35 weight should overcome a 1 point occasion gap at 0.55")
}

func TestReRankHighIntentShiftsWeights(t *testing.T) {
	occasionWinner := candidate("occasion", "Italian", "$$", "Loop")
	occasionWinner.Occasions = models.OccasionScores{DateFriendly: f(10)}
	intentWinner := candidate("intent", "Thai", "$$", "Uptown")
	intentWinner.Occasions = models.OccasionScores{DateFriendly: f(6)}

	intent := &models.Intent{Cuisines: []string{"Thai"}, CuisineImportance: models.CuisineImportanceHigh}

	ranked := ReRank([]models.Candidate{occasionWinner, intentWinner}, "thai food", "Date Night", intent, RejectionSignals{}, 2, dinnerTime())
	assert.Equal(t, "intent", ranked[0].Candidate.ID)
}

// ==========================
// Diversity
// ==========================

func TestEnsureDiversitySmallListUntouched(t *testing.T) {
	list := []models.Candidate{
		candidate("a", "Italian", "$", "Loop"),
		candidate("b", "Italian", "$", "Loop"),
		candidate("c", "Italian", "$", "Loop"),
		candidate("d", "Italian", "$", "Loop"),
		candidate("e", "Italian", "$", "Loop"),
	}
	out := EnsureDiversity(list, 3, 4)
	require.Len(t, out, 5)
	for i := range list {
		assert.Equal(t, list[i].ID, out[i].ID)
	}
}

func TestEnsureDiversityCapsCuisine(t *testing.T) {
	var list []models.Candidate
	for i := 0; i < 8; i++ {
		list = append(list, candidate(fmt.Sprintf("it-%d", i), "Italian", "$", fmt.Sprintf("area-%d", i)))
	}
	list = append(list, candidate("thai", "Thai", "$", "Uptown"))
	list = append(list, candidate("mex", "Mexican", "$", "Pilsen"))

	out := EnsureDiversity(list, 3, 4)
	require.NotEmpty(t, out)

	// Top three survive regardless
	assert.Equal(t, "it-0", out[0].ID)
	assert.Equal(t, "it-1", out[1].ID)
	assert.Equal(t, "it-2", out[2].ID)

	// The other cuisines move up ahead of the demoted Italian overflow
	idx := map[string]int{}
	for i, c := range out {
		idx[c.ID] = i
	}
	assert.Less(t, idx["thai"], idx["it-4"])
	assert.Less(t, idx["mex"], idx["it-4"])

	assert.LessOrEqual(t, len(out), 10)
}

func TestEnsureDiversityCapsArea(t *testing.T) {
	var list []models.Candidate
	for i := 0; i < 7; i++ {
		list = append(list, candidate(fmt.Sprintf("ws-%d", i), fmt.Sprintf("cuisine-%d", i), "$", "West Loop"))
	}
	list = append(list, candidate("ls", "Korean", "$", "Logan Square"))

	out := EnsureDiversity(list, 3, 4)

	idx := map[string]int{}
	for i, c := range out {
		idx[c.ID] = i
	}
	// Fifth West Loop spot is demoted behind the Logan Square entry
	assert.Less(t, idx["ls"], idx["ws-4"])
}

func TestEnsureDiversityCapsAtTen(t *testing.T) {
	var list []models.Candidate
	for i := 0; i < 14; i++ {
		list = append(list, candidate(fmt.Sprintf("c-%d", i), fmt.Sprintf("cuisine-%d", i), "$", fmt.Sprintf("area-%d", i)))
	}
	out := EnsureDiversity(list, 3, 4)
	assert.Len(t, out, 10)
}
