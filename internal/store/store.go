// internal/store/store.go
package store

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lib/pq"

	"donde-engine/internal/common/logger"
	"donde-engine/internal/models"
)

var (
	ErrQueryFailed  = errors.New("CANDIDATE_QUERY_FAILED")
	ErrQueryTimeout = errors.New("CANDIDATE_QUERY_TIMEOUT")
)

// Store reads merged restaurant profiles and writes query telemetry.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func New(db *sql.DB, log logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "store"}),
	}
}

// Relaxation records which filters were dropped to produce a non-empty window.
type Relaxation struct {
	BudgetRelaxed bool
	AreaRelaxed   bool
	UsedFallback  bool
}

// candidateColumns is the shared select list; every reader scans the same
// shape so scanCandidate stays the single decoding path.
const candidateColumns = `
	r.id, r.name, r.cuisine, r.price_range, r.area, r.oneliner, r.description,
	r.tags, r.features, r.dietary_options, r.good_for,
	r.noise_level, r.lighting, r.dress_code, r.outdoor_seating, r.live_music,
	r.best_times, r.insider_tip, r.google_rating, r.google_review_count,
	r.negative_review_ratio, r.trending_score, r.is_active, r.deep_profile,
	os.date_friendly, os.group_friendly, os.family_friendly, os.romantic_rating,
	os.business_lunch, os.solo_dining, os.hole_in_wall_factor`

func scanCandidate(rows *sql.Rows) (models.Candidate, error) {
	var c models.Candidate
	var oneliner, description, insiderTip sql.NullString
	var noiseLevel, lighting, dressCode sql.NullString
	var googleRating, negativeRatio sql.NullFloat64
	var googleReviewCount sql.NullInt64
	var trendingScore sql.NullFloat64
	var deepProfile []byte
	var scores [7]sql.NullFloat64

	err := rows.Scan(
		&c.ID, &c.Name, &c.Cuisine, &c.PriceRange, &c.Area, &oneliner, &description,
		pq.Array(&c.Tags), pq.Array(&c.Features), pq.Array(&c.DietaryOptions), pq.Array(&c.GoodFor),
		&noiseLevel, &lighting, &dressCode, &c.OutdoorSeating, &c.LiveMusic,
		pq.Array(&c.BestTimes), &insiderTip, &googleRating, &googleReviewCount,
		&negativeRatio, &trendingScore, &c.IsActive, &deepProfile,
		&scores[0], &scores[1], &scores[2], &scores[3], &scores[4], &scores[5], &scores[6],
	)
	if err != nil {
		return c, err
	}

	c.Oneliner = oneliner.String
	c.Description = description.String
	c.InsiderTip = insiderTip.String
	c.NoiseLevel = nullableString(noiseLevel)
	c.Lighting = nullableString(lighting)
	c.DressCode = nullableString(dressCode)
	c.GoogleRating = nullableFloat(googleRating)
	c.NegativeRatio = nullableFloat(negativeRatio)
	if googleReviewCount.Valid {
		n := int(googleReviewCount.Int64)
		c.GoogleReviewCount = &n
	}
	c.TrendingScore = trendingScore.Float64

	c.Occasions = models.OccasionScores{
		DateFriendly:     nullableFloat(scores[0]),
		GroupFriendly:    nullableFloat(scores[1]),
		FamilyFriendly:   nullableFloat(scores[2]),
		RomanticRating:   nullableFloat(scores[3]),
		BusinessLunch:    nullableFloat(scores[4]),
		SoloDining:       nullableFloat(scores[5]),
		HoleInWallFactor: nullableFloat(scores[6]),
	}

	if len(deepProfile) > 0 {
		var deep models.DeepProfile
		if json.Unmarshal(deepProfile, &deep) == nil {
			c.Deep = &deep
		}
	}
	return c, nil
}

func collectCandidates(rows *sql.Rows) ([]models.Candidate, error) {
	defer rows.Close()
	var out []models.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
