// internal/models/response.go
package models

import "time"

// PlaceDetails is live metadata attached to a pick when the lookup finishes
// inside its budget.
type PlaceDetails struct {
	Name           string   `json:"name,omitempty"`
	Address        string   `json:"address,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	Website        string   `json:"website,omitempty"`
	Rating         *float64 `json:"rating,omitempty"`
	ReviewCount    *int     `json:"review_count,omitempty"`
	BusinessStatus string   `json:"business_status,omitempty"`
	Reviews        []Review `json:"-"`
}

// Review is one live review snippet used for prompt context.
type Review struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

// Closed reports whether the live status marks the business as gone.
func (p *PlaceDetails) Closed() bool {
	if p == nil {
		return false
	}
	return p.BusinessStatus == "CLOSED_PERMANENTLY" || p.BusinessStatus == "CLOSED_TEMPORARILY"
}

// ScoreBreakdown exposes per-dimension raw scores (0-10) alongside the final
// confidence value.
type ScoreBreakdown struct {
	Occasion  float64 `json:"occasion"`
	Craving   float64 `json:"craving"`
	Vibe      float64 `json:"vibe"`
	Practical float64 `json:"practical,omitempty"`
	Discovery float64 `json:"discovery,omitempty"`
	Quality   float64 `json:"quality"`
	Relevance float64 `json:"relevance,omitempty"`
}

// Pick is the primary recommendation in a successful response.
type Pick struct {
	RestaurantID string          `json:"restaurant_id"`
	Name         string          `json:"name"`
	Cuisine      string          `json:"cuisine"`
	PriceRange   string          `json:"price_range"`
	Area         string          `json:"area"`
	Headline     string          `json:"recommendation"`
	InsiderTip   string          `json:"insider_tip,omitempty"`
	DondeMatch   int             `json:"donde_match"`
	Breakdown    *ScoreBreakdown `json:"score_breakdown,omitempty"`
	Details      *PlaceDetails   `json:"details,omitempty"`
}

// Alternate is a runner-up shown alongside the pick.
type Alternate struct {
	RestaurantID string `json:"restaurant_id"`
	Name         string `json:"name"`
	Cuisine      string `json:"cuisine"`
	PriceRange   string `json:"price_range"`
	Area         string `json:"area"`
	DondeMatch   int    `json:"donde_match"`
}

// NoResults explains an empty outcome and which filter to relax first.
type NoResults struct {
	Message   string `json:"message"`
	RelaxHint string `json:"relax_hint,omitempty"`
}

// RecommendationResponse is the engine's reply.
type RecommendationResponse struct {
	RequestID   string      `json:"request_id,omitempty"`
	Pick        *Pick       `json:"pick,omitempty"`
	Alternates  []Alternate `json:"alternates,omitempty"`
	NoResults   *NoResults  `json:"no_results,omitempty"`
	Fallback    bool        `json:"fallback,omitempty"`
	Cached      bool        `json:"cached,omitempty"`
	GeneratedAt time.Time   `json:"generated_at"`
}
