// internal/intent/classifier.go
package intent

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"donde-engine/internal/common/logger"
	"donde-engine/internal/models"
)

const minRequestLength = 3

// Completer is the LLM surface the classifier needs.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Classifier extracts structured intent from free-text requests. It is an
// optional enrichment stage: the pipeline runs on keyword dictionaries alone
// whenever classification is unavailable.
type Classifier struct {
	llm    Completer
	logger logger.Logger
}

func NewClassifier(llm Completer, log logger.Logger) *Classifier {
	return &Classifier{
		llm: llm,
		logger: log.WithFields(map[string]interface{}{
			"component": "intent",
		}),
	}
}

const classifierSystemPrompt = `You extract dining intent from short restaurant requests.
Return ONLY a JSON object with these fields:
- cuisines: array of cuisine names explicitly or strongly implied (e.g. ["Italian"])
- cuisine_importance: "high" if the user clearly wants that cuisine, "medium" if it is a soft preference, "low" otherwise
- tags: array of venue tags implied (rooftop, cozy, trendy, romantic, late-night, brunch, patio, dive, upscale, casual, live-music, speakeasy, sports-bar)
- features: array of venue features implied (outdoor_seating, live_music, byob, full_bar, wine_list, private_dining, late_hours, reservations, parking)
- flavor_preferences: array of flavor words (spicy, rich, smoky, sweet, umami, fresh, tangy, crispy)
- vibe_keywords: array of atmosphere words from the request
- practical_constraints: array of logistics mentioned (e.g. "walk-in", "near the loop", "under $50")
- emotional_intent: one word for the mood (celebratory, comfort, adventurous, casual, impressive)
- date_type: for dates only, one of first_date, established, anniversary; otherwise omit
- group_size_hint: a size phrase if mentioned (e.g. "party of 8"); otherwise omit
- spontaneity: "spontaneous" if they want to go now, "planned" if booking ahead, otherwise "unknown"
Use empty arrays when nothing applies. No prose, no markdown.`

// Classify interprets the request text. It returns nil for requests too short
// to carry intent and for any classification failure; callers treat nil as
// "dictionaries only".
func (c *Classifier) Classify(ctx context.Context, request, occasion string) *models.Intent {
	if len(strings.TrimSpace(request)) < minRequestLength {
		return nil
	}

	user := "Occasion: " + occasion + "\nRequest: " + request
	reply, err := c.llm.Complete(ctx, classifierSystemPrompt, user)
	if err != nil {
		c.logger.Warn("intent classification unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	parsed, ok := parseIntent(reply)
	if !ok {
		c.logger.Warn("intent reply unparseable", map[string]interface{}{
			"replyLength": len(reply),
		})
		return nil
	}
	return sanitize(parsed)
}

func parseIntent(reply string) (*models.Intent, bool) {
	text := strings.TrimSpace(reply)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		text = text[start : end+1]
	}

	var parsed models.Intent
	if json.Unmarshal([]byte(text), &parsed) == nil {
		return &parsed, true
	}
	repaired, err := jsonrepair.JSONRepair(text)
	if err != nil {
		return nil, false
	}
	if json.Unmarshal([]byte(repaired), &parsed) != nil {
		return nil, false
	}
	return &parsed, true
}

// sanitize clamps enum fields and replaces nil arrays so downstream code
// never branches on malformed values.
func sanitize(in *models.Intent) *models.Intent {
	out := *in

	out.Cuisines = cleanList(out.Cuisines)
	out.Tags = cleanList(out.Tags)
	out.Features = cleanList(out.Features)
	out.FlavorPreferences = cleanList(out.FlavorPreferences)
	out.VibeKeywords = cleanList(out.VibeKeywords)
	out.PracticalConstraints = cleanList(out.PracticalConstraints)

	switch out.CuisineImportance {
	case models.CuisineImportanceHigh, models.CuisineImportanceMedium, models.CuisineImportanceLow:
	default:
		out.CuisineImportance = models.CuisineImportanceLow
	}

	switch out.Spontaneity {
	case models.SpontaneityPlanned, models.SpontaneitySpontaneous, models.SpontaneityUnknown:
	default:
		out.Spontaneity = models.SpontaneityUnknown
	}

	if strings.TrimSpace(out.EmotionalIntent) == "" {
		out.EmotionalIntent = "casual"
	}
	return &out
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}
