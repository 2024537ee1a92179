// internal/recommend/orchestrator.go
package recommend

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "donde-engine/internal/common/errors"
	"donde-engine/internal/common/logger"
	"donde-engine/internal/common/metrics"
	"donde-engine/internal/common/observability"
	"donde-engine/internal/llm"
	"donde-engine/internal/models"
	"donde-engine/internal/ranking"
	"donde-engine/internal/scoring"
	"donde-engine/internal/store"
)

// CandidateSource is the storage surface the engine needs.
type CandidateSource interface {
	Candidates(ctx context.Context, occasion, area, budget, cuisineHint string, limit int) ([]models.Candidate, store.Relaxation, error)
	CandidatesByIDs(ctx context.Context, ids []string) ([]models.Candidate, error)
	LogQuery(ctx context.Context, entry store.QueryLogEntry) error
}

// IntentSource extracts structured intent; a nil result is always acceptable.
type IntentSource interface {
	Classify(ctx context.Context, request, occasion string) *models.Intent
}

// Completer generates the recommendation text.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// MetadataSource resolves live place details; nil means unavailable.
type MetadataSource interface {
	Lookup(ctx context.Context, name, area string) *models.PlaceDetails
}

type Config struct {
	CandidateLimit     int
	RejectionThreshold int
	MaxPerCuisine      int
	MaxPerArea         int
	MetadataLookups    int
	MetadataTimeout    time.Duration
}

// Engine runs the recommendation pipeline end to end.
type Engine struct {
	store   CandidateSource
	intents IntentSource
	llm     Completer
	places  MetadataSource
	cache   Cache
	config  Config
	obs     *observability.Observability
	logger  logger.Logger
	now     func() time.Time
}

func NewEngine(src CandidateSource, intents IntentSource, completer Completer, places MetadataSource, cache Cache, cfg Config, obs *observability.Observability, log logger.Logger) *Engine {
	return &Engine{
		store:   src,
		intents: intents,
		llm:     completer,
		places:  places,
		cache:   cache,
		config:  cfg,
		obs:     obs,
		logger:  log.WithFields(map[string]interface{}{"component": "engine"}),
		now:     time.Now,
	}
}

// Recommend serves one request. Returned errors are storage-level failures;
// every other degradation (no intent, no metadata, no model) produces a
// usable response instead.
func (e *Engine) Recommend(ctx context.Context, req *models.RecommendationRequest) (*models.RecommendationResponse, error) {
	start := e.now()
	req.Normalize()

	// Exclusion requests mean "not those again"; serving a cached pick would
	// defeat the point, so they bypass the cache in both directions.
	if req.IsExclusionRequest() {
		metrics.CacheLookups.WithLabelValues("bypass").Inc()
	} else if cached, ok := e.cache.Get(ctx, req.CacheKey()); ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		e.finish(ctx, start, "cache_hit")
		cached.Cached = true
		return cached, nil
	} else {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	var (
		userIntent *models.Intent
		candidates []models.Candidate
		relax      store.Relaxation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if e.intents != nil {
			userIntent = e.intents.Classify(gctx, req.Request, req.Occasion)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		fetchLimit := e.config.CandidateLimit + len(req.ExcludeIDs)
		candidates, relax, err = e.store.Candidates(gctx, req.Occasion, req.Area, req.Budget, "", fetchLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		e.finish(ctx, start, "error")
		return nil, apperrors.NewCandidateQueryFailedError(err)
	}

	candidates = e.applyCuisineHint(ctx, req, userIntent, candidates)

	rej, excludedCount := e.applyExclusions(ctx, req, &candidates)

	if len(candidates) == 0 {
		e.finish(ctx, start, "no_results")
		return e.noResults(req, relax, excludedCount), nil
	}

	// Score everything, then order by the generation-appropriate blend.
	results := make([]scoring.Result, len(candidates))
	byID := make(map[string]scoring.Result, len(candidates))
	hasDeep := false
	in := scoring.Input{Request: req, Intent: userIntent, Now: start}
	for idx := range candidates {
		results[idx] = scoring.Score(&candidates[idx], in)
		byID[candidates[idx].ID] = results[idx]
		if candidates[idx].HasDeepProfile() {
			hasDeep = true
		}
	}

	var ranked []ranking.Ranked
	if hasDeep {
		ranked = ranking.ReRankComposite(candidates, results, rej, e.config.RejectionThreshold)
	} else {
		ranked = ranking.ReRank(candidates, req.Request, req.Occasion, userIntent, rej, e.config.RejectionThreshold, start)
	}
	ordered := make([]models.Candidate, len(ranked))
	for idx := range ranked {
		ordered[idx] = ranked[idx].Candidate
	}

	ordered = ranking.EnsureDiversity(ordered, e.config.MaxPerCuisine, e.config.MaxPerArea)

	shortlist := ordered[:min(e.config.MetadataLookups, len(ordered))]
	details := e.lookupMetadata(ctx, shortlist)

	resp := e.synthesize(ctx, req, in, shortlist, ordered, byID, details)
	resp.GeneratedAt = e.now()

	if !req.IsExclusionRequest() {
		e.cache.Set(ctx, req.CacheKey(), resp)
	}

	outcome := "success"
	if resp.Fallback {
		outcome = "fallback"
	}
	e.finish(ctx, start, outcome)
	e.logServed(req, resp, relax, start)
	return resp, nil
}

// applyCuisineHint widens the window when the user explicitly asked for a
// cuisine the occasion-ranked read did not surface.
func (e *Engine) applyCuisineHint(ctx context.Context, req *models.RecommendationRequest, userIntent *models.Intent, candidates []models.Candidate) []models.Candidate {
	if !userIntent.HighCuisine() {
		return candidates
	}
	want := userIntent.Cuisines[0]
	for idx := range candidates {
		if candidates[idx].Cuisine == want {
			return candidates
		}
	}

	extra, _, err := e.store.Candidates(ctx, req.Occasion, req.Area, req.Budget, want, 3)
	if err != nil {
		e.logger.Warn("cuisine hint fetch failed", map[string]interface{}{
			"cuisine": want,
			"error":   err.Error(),
		})
		return candidates
	}

	seen := make(map[string]bool, len(candidates))
	for idx := range candidates {
		seen[candidates[idx].ID] = true
	}
	for _, c := range extra {
		if !seen[c.ID] {
			candidates = append(candidates, c)
		}
	}
	return candidates
}

// applyExclusions drops excluded candidates from the window and derives taste
// signals from what was rejected.
func (e *Engine) applyExclusions(ctx context.Context, req *models.RecommendationRequest, candidates *[]models.Candidate) (ranking.RejectionSignals, int) {
	if !req.IsExclusionRequest() {
		return ranking.RejectionSignals{}, 0
	}

	excludedSet := make(map[string]bool, len(req.ExcludeIDs))
	for _, id := range req.ExcludeIDs {
		excludedSet[id] = true
	}

	kept := (*candidates)[:0]
	for _, c := range *candidates {
		if !excludedSet[c.ID] {
			kept = append(kept, c)
		}
	}
	*candidates = kept

	excluded, err := e.store.CandidatesByIDs(ctx, req.ExcludeIDs)
	if err != nil {
		e.logger.Warn("rejection analysis unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		return ranking.RejectionSignals{}, len(req.ExcludeIDs)
	}
	return ranking.AnalyzeRejections(excluded, e.config.RejectionThreshold), len(req.ExcludeIDs)
}

// lookupMetadata resolves live details for the shortlist, capped by the
// metadata budget. Whatever has not arrived when the budget expires is
// dropped.
func (e *Engine) lookupMetadata(ctx context.Context, shortlist []models.Candidate) map[string]*models.PlaceDetails {
	snapshot := make(map[string]*models.PlaceDetails)
	if e.places == nil || len(shortlist) == 0 {
		return snapshot
	}

	mctx, cancel := context.WithTimeout(ctx, e.config.MetadataTimeout)
	defer cancel()

	var mu sync.Mutex
	found := make(map[string]*models.PlaceDetails)
	var wg sync.WaitGroup
	for idx := range shortlist {
		c := shortlist[idx]
		wg.Add(1)
		go func() {
			defer wg.Done()
			if d := e.places.Lookup(mctx, c.Name, c.Area); d != nil {
				mu.Lock()
				found[c.ID] = d
				mu.Unlock()
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-mctx.Done():
	}

	// Late lookups may still be writing; copy under the lock.
	mu.Lock()
	for id, d := range found {
		snapshot[id] = d
	}
	mu.Unlock()
	return snapshot
}

// synthesize produces the pick: model-written when possible, template
// fallback otherwise.
func (e *Engine) synthesize(ctx context.Context, req *models.RecommendationRequest, in scoring.Input, shortlist, ordered []models.Candidate, byID map[string]scoring.Result, details map[string]*models.PlaceDetails) *models.RecommendationResponse {
	var pickIdx int
	var headline, tip string
	var relevance *float64
	fallback := false

	reply, err := e.llm.Complete(ctx, systemPrompt, buildUserPrompt(req, shortlist, details))
	if err == nil {
		parsed, parseErr := llm.ParseRecommendation(reply)
		if parseErr == nil {
			pickIdx = parsed.RestaurantIndex
			if pickIdx >= len(shortlist) {
				pickIdx = 0
			}
			headline = parsed.Headline
			tip = parsed.InsiderTip
			if rel, ok := parsed.Relevance(); ok {
				relevance = &rel
			}
		} else {
			err = parseErr
		}
	}
	if err != nil {
		e.logger.Warn("template fallback engaged", map[string]interface{}{
			"error": err.Error(),
		})
		metrics.FallbackResponses.WithLabelValues(fallbackReason(err)).Inc()
		fallback = true
	}

	// A pick the live data says is closed gets substituted with the next
	// open candidate; the model's text described the wrong place, so the
	// substitute is synthesized.
	pick := &shortlist[pickIdx]
	if details[pick.ID].Closed() {
		if sub := nextOpenCandidate(ordered, pick.ID, details); sub != nil {
			e.logger.Info("closed pick substituted", map[string]interface{}{
				"closed":     pick.ID,
				"substitute": sub.ID,
			})
			metrics.FallbackResponses.WithLabelValues("closed_business").Inc()
			pick = sub
			fallback = true
			relevance = nil
		}
	}

	if fallback || headline == "" {
		headline, tip = synthesizeFallback(pick, req.Occasion)
	}
	if tip == "" {
		tip = fallbackTip(pick)
	}

	// The published score uses the live rating when the lookup returned one;
	// the stored column is a snapshot that may be stale.
	result := byID[pick.ID]
	if d := details[pick.ID]; d != nil && d.Rating != nil {
		live := *pick
		live.GoogleRating = d.Rating
		if d.ReviewCount != nil {
			live.GoogleReviewCount = d.ReviewCount
		}
		result = scoring.Score(&live, in)
	}
	if relevance != nil {
		result = result.WithRelevance(*relevance)
	}
	breakdown := result.Breakdown

	resp := &models.RecommendationResponse{
		Pick: &models.Pick{
			RestaurantID: pick.ID,
			Name:         pick.Name,
			Cuisine:      pick.Cuisine,
			PriceRange:   pick.PriceRange,
			Area:         pick.Area,
			Headline:     headline,
			InsiderTip:   tip,
			DondeMatch:   result.Donde,
			Breakdown:    &breakdown,
			Details:      details[pick.ID],
		},
		Fallback: fallback,
	}

	for _, c := range ordered {
		if c.ID == pick.ID {
			continue
		}
		resp.Alternates = append(resp.Alternates, models.Alternate{
			RestaurantID: c.ID,
			Name:         c.Name,
			Cuisine:      c.Cuisine,
			PriceRange:   c.PriceRange,
			Area:         c.Area,
			DondeMatch:   byID[c.ID].Donde,
		})
		if len(resp.Alternates) == 2 {
			break
		}
	}
	return resp
}

func nextOpenCandidate(ordered []models.Candidate, closedID string, details map[string]*models.PlaceDetails) *models.Candidate {
	for idx := range ordered {
		c := &ordered[idx]
		if c.ID == closedID || details[c.ID].Closed() {
			continue
		}
		return c
	}
	return nil
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, llm.ErrLLMTimeout):
		return "llm_timeout"
	case errors.Is(err, llm.ErrLLMParse):
		return "llm_parse"
	default:
		return "llm_error"
	}
}

// noResults explains the empty window and suggests which filter to relax
// first.
func (e *Engine) noResults(req *models.RecommendationRequest, relax store.Relaxation, excludedCount int) *models.RecommendationResponse {
	hint := ""
	switch {
	case excludedCount > 0:
		hint = "You have ruled out everything that fits. Clear a few exclusions to see those spots again."
	case req.HasBudgetFilter():
		hint = "Try widening the budget to Any."
	case req.HasAreaFilter():
		hint = "Try widening the search to Anywhere."
	}
	return &models.RecommendationResponse{
		NoResults: &models.NoResults{
			Message:   "No spots match that combination right now.",
			RelaxHint: hint,
		},
		GeneratedAt: e.now(),
	}
}

func (e *Engine) finish(ctx context.Context, start time.Time, outcome string) {
	elapsed := e.now().Sub(start)
	metrics.RecommendRequests.WithLabelValues(outcome).Inc()
	metrics.RecommendDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
	if e.obs != nil {
		e.obs.RecordRequestProcessed(ctx, outcome)
		e.obs.RecordRequestDuration(ctx, elapsed, outcome)
	}
}

// logServed records the served pick asynchronously; the response never waits
// on telemetry.
func (e *Engine) logServed(req *models.RecommendationRequest, resp *models.RecommendationResponse, relax store.Relaxation, start time.Time) {
	if resp.Pick == nil {
		return
	}
	entry := store.QueryLogEntry{
		Occasion:     req.Occasion,
		Budget:       req.Budget,
		Craving:      req.Request,
		Area:         req.Area,
		ChosenID:     resp.Pick.RestaurantID,
		UsedFallback: relax.UsedFallback,
		MatchScore:   resp.Pick.DondeMatch,
		LatencyMS:    e.now().Sub(start).Milliseconds(),
	}
	go func() {
		_ = e.store.LogQuery(context.Background(), entry)
	}()
}
