// internal/recommend/prompt.go
package recommend

import (
	"fmt"
	"strings"

	"donde-engine/internal/models"
	"donde-engine/internal/places"
)

// systemPrompt is the stable instruction block. It never varies per request,
// which lets the provider cache it.
const systemPrompt = `You are Donde, a Chicago restaurant concierge. You receive a ranked shortlist of restaurants and pick the single best one for the user's occasion and craving.

Rules:
- Choose from the shortlist only, by zero-based index.
- Write the recommendation as 2-3 warm, specific sentences. Mention what makes this spot right for THIS request; never write generic praise.
- The insider tip must be one concrete, actionable sentence (what to order, where to sit, when to arrive).
- Score relevance 0-10: how well your pick matches the literal request text.

Return ONLY a JSON object:
{"restaurant_index": <int>, "recommendation": "<text>", "insider_tip": "<text>", "scores": {"relevance": <number>}}`

// buildUserPrompt renders the request context and the candidate shortlist.
func buildUserPrompt(req *models.RecommendationRequest, candidates []models.Candidate, details map[string]*models.PlaceDetails) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Occasion: %s\n", req.Occasion)
	fmt.Fprintf(&b, "Budget: %s\n", req.Budget)
	fmt.Fprintf(&b, "Area: %s\n", req.Area)
	if req.Request != "" {
		fmt.Fprintf(&b, "Request: %s\n", req.Request)
	}
	b.WriteString("\nShortlist:\n")

	for idx := range candidates {
		c := &candidates[idx]
		fmt.Fprintf(&b, "\n[%d] %s (%s, %s, %s)\n", idx, c.Name, c.Cuisine, c.PriceRange, c.Area)
		if c.Oneliner != "" {
			fmt.Fprintf(&b, "  About: %s\n", c.Oneliner)
		}
		if len(c.Tags) > 0 {
			fmt.Fprintf(&b, "  Tags: %s\n", strings.Join(c.Tags, ", "))
		}
		if c.InsiderTip != "" {
			fmt.Fprintf(&b, "  Known tip: %s\n", c.InsiderTip)
		}
		writeDeepHighlights(&b, c.Deep)
		writeLiveDetails(&b, details[c.ID])
	}

	return b.String()
}

func writeDeepHighlights(b *strings.Builder, deep *models.DeepProfile) {
	if deep == nil {
		return
	}
	var highlights []string
	if len(deep.SignatureDishes) > 0 {
		highlights = append(highlights, "signature: "+deep.SignatureDishes[0].Dish)
	}
	if deep.UniqueSellingPoint != nil {
		highlights = append(highlights, *deep.UniqueSellingPoint)
	}
	if deep.BestSeatInHouse != nil {
		highlights = append(highlights, "best seat: "+*deep.BestSeatInHouse)
	}
	if len(highlights) > 0 {
		fmt.Fprintf(b, "  Highlights: %s\n", strings.Join(highlights, "; "))
	}
}

func writeLiveDetails(b *strings.Builder, d *models.PlaceDetails) {
	if d == nil {
		return
	}
	if d.Rating != nil && d.ReviewCount != nil {
		fmt.Fprintf(b, "  Live rating: %.1f (%d reviews)\n", *d.Rating, *d.ReviewCount)
	}
	if reviews := places.FormatReviews(d.Reviews); reviews != "" {
		fmt.Fprintf(b, "  Recent reviews:\n%s\n", indent(reviews, "    "))
	}
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for idx := range lines {
		lines[idx] = prefix + lines[idx]
	}
	return strings.Join(lines, "\n")
}
