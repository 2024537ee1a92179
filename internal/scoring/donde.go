// internal/scoring/donde.go
package scoring

import (
	"math"
	"time"

	"donde-engine/internal/models"
)

// Confidence band of the published score.
const (
	DondeMin = 60
	DondeMax = 99
)

// First-generation composite weights.
const (
	v1OccasionWeight = 0.30
	v1CravingWeight  = 0.30
	v1QualityWeight  = 0.15
	v1VibeWeight     = 0.15
	v1FilterWeight   = 0.10
)

// Second-generation blending constants.
const (
	v2DimensionShare = 0.85
	v2QualityShare   = 0.15
	v2CompositeShare = 0.60
	v2RelevanceShare = 0.40
)

// Input carries the request-side context for a scoring pass.
type Input struct {
	Request *models.RecommendationRequest
	Intent  *models.Intent
	Now     time.Time
}

// Result is a scored candidate. Raw is the 0-10 composite; Donde is the
// published confidence value in [60,99].
type Result struct {
	Version   int
	Raw       float64
	Donde     int
	Breakdown models.ScoreBreakdown

	weights   Weights
	quality   float64
	filter    float64
	sentiment float64
}

// Score runs the generation-appropriate composite for one candidate.
// Candidates with a deep profile get the five-dimension dynamic-weight pass;
// the rest get the first-generation fixed-weight pass.
func Score(c *models.Candidate, in Input) Result {
	if c.HasDeepProfile() {
		return scoreV2(c, in)
	}
	return scoreV1(c, in)
}

func scoreV1(c *models.Candidate, in Input) Result {
	occ := OccasionScore(c, in.Request.Occasion)
	crav := CravingRelevance(c, in.Request.Request, in.Intent)
	vibe := VibeScore(c, in.Request.Occasion)
	quality := QualitySignal(c)
	filter := FilterPrecision(c, in.Request)
	sentiment := SentimentPenalty(c)

	raw := v1OccasionWeight*occ +
		v1CravingWeight*crav +
		v1QualityWeight*quality +
		v1VibeWeight*vibe +
		v1FilterWeight*filter +
		sentiment

	return Result{
		Version: 1,
		Raw:     raw,
		Donde:   toDonde(raw),
		Breakdown: models.ScoreBreakdown{
			Occasion: round1(occ),
			Craving:  round1(crav),
			Vibe:     round1(vibe),
			Quality:  round1(quality),
		},
		quality:   quality,
		filter:    filter,
		sentiment: sentiment,
	}
}

func scoreV2(c *models.Candidate, in Input) Result {
	occ := OccasionFit(c, in.Request.Occasion)
	crav := CravingMatch(c, in.Request.Request, in.Intent)
	vibe := VibeMatch(c, in.Request.Occasion, in.Request.Request, in.Now)
	prac := PracticalFit(c, in.Request.Request, in.Request.Occasion, in.Intent)
	disc := DiscoveryScore(c, in.Request.Occasion)
	quality := QualitySignal(c)
	sentiment := SentimentPenalty(c)

	w := DimensionWeights(in.Request.Occasion, in.Intent)
	dims := w.Occasion*occ + w.Craving*crav + w.Vibe*vibe + w.Practical*prac + w.Discovery*disc
	raw := dims*v2DimensionShare + quality*v2QualityShare + sentiment

	return Result{
		Version: 2,
		Raw:     raw,
		Donde:   toDonde(raw),
		Breakdown: models.ScoreBreakdown{
			Occasion:  round1(occ),
			Craving:   round1(crav),
			Vibe:      round1(vibe),
			Practical: round1(prac),
			Discovery: round1(disc),
			Quality:   round1(quality),
		},
		weights:   w,
		quality:   quality,
		filter:    0,
		sentiment: sentiment,
	}
}

// WithRelevance folds the generative relevance score (0-10) into the
// composite. The second generation blends it at 40%; the first generation
// substitutes it for the keyword craving dimension.
func (r Result) WithRelevance(relevance float64) Result {
	relevance = clamp(relevance, 0, 10)
	out := r
	out.Breakdown.Relevance = round1(relevance)

	switch r.Version {
	case 2:
		preSentiment := r.Raw - r.sentiment
		out.Raw = preSentiment*v2CompositeShare + relevance*v2RelevanceShare + r.sentiment
	default:
		occ := r.Breakdown.Occasion
		vibe := r.Breakdown.Vibe
		out.Raw = v1OccasionWeight*occ +
			v1CravingWeight*relevance +
			v1QualityWeight*r.quality +
			v1VibeWeight*vibe +
			v1FilterWeight*r.filter +
			r.sentiment
	}
	out.Donde = toDonde(out.Raw)
	return out
}

// toDonde maps the 0-10 composite onto the published [60,99] band.
func toDonde(raw float64) int {
	v := DondeMin + clamp(raw, 0, 10)*3.9
	d := int(math.Round(v))
	if d < DondeMin {
		d = DondeMin
	}
	if d > DondeMax {
		d = DondeMax
	}
	return d
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
