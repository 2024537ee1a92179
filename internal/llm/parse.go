// internal/llm/parse.go
package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/xeipuuv/gojsonschema"
)

var ErrLLMParse = errors.New("LLM_PARSE_FAILED")

// Recommendation is the structured reply expected from the model.
type Recommendation struct {
	RestaurantIndex int                `json:"restaurant_index"`
	Headline        string             `json:"recommendation"`
	InsiderTip      string             `json:"insider_tip"`
	Scores          map[string]float64 `json:"scores,omitempty"`
}

// Relevance reports the model's relevance score when present.
func (r *Recommendation) Relevance() (float64, bool) {
	if r.Scores == nil {
		return 0, false
	}
	v, ok := r.Scores["relevance"]
	return v, ok
}

const recommendationSchema = `{
	"type": "object",
	"required": ["restaurant_index", "recommendation"],
	"properties": {
		"restaurant_index": {"type": "integer", "minimum": 0},
		"recommendation": {"type": "string", "minLength": 1},
		"insider_tip": {"type": "string"},
		"scores": {
			"type": "object",
			"additionalProperties": {"type": "number"}
		}
	}
}`

var schemaLoader = gojsonschema.NewStringLoader(recommendationSchema)

// Recovery patterns for replies that are prose with JSON fragments inside.
var (
	indexPattern    = regexp.MustCompile(`"restaurant_index"\s*:\s*(\d+)`)
	headlinePattern = regexp.MustCompile(`"recommendation"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	tipPattern      = regexp.MustCompile(`"insider_tip"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	scoresPattern   = regexp.MustCompile(`"scores"\s*:\s*(\{[^{}]*\})`)
)

// ParseRecommendation turns a model reply into a Recommendation. Model output
// is frequently imperfect JSON, so parsing degrades in stages: strict
// unmarshal, then mechanical repair, then regex field recovery. Whatever
// survives is validated against the schema before being trusted.
func ParseRecommendation(raw string) (*Recommendation, error) {
	var rec Recommendation
	parsed := false

	if text := extractJSON(stripFences(raw)); text != "" {
		if json.Unmarshal([]byte(text), &rec) == nil {
			parsed = true
		} else if repaired, err := jsonrepair.JSONRepair(text); err == nil {
			parsed = json.Unmarshal([]byte(repaired), &rec) == nil
		}
	}

	if !parsed {
		recovered, ok := recoverFields(raw)
		if !ok {
			return nil, fmt.Errorf("%w: unable to extract a recommendation", ErrLLMParse)
		}
		rec = *recovered
	}

	if err := validateShape(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// stripFences removes markdown code fences around the payload.
func stripFences(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// extractJSON isolates the outermost object so leading or trailing prose
// does not break the unmarshal.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

// recoverFields pulls individual fields out of a reply too mangled to parse
// as a document.
func recoverFields(raw string) (*Recommendation, bool) {
	idx := indexPattern.FindStringSubmatch(raw)
	headline := headlinePattern.FindStringSubmatch(raw)
	if idx == nil || headline == nil {
		return nil, false
	}

	n, err := strconv.Atoi(idx[1])
	if err != nil {
		return nil, false
	}
	rec := &Recommendation{
		RestaurantIndex: n,
		Headline:        unescape(headline[1]),
	}
	if tip := tipPattern.FindStringSubmatch(raw); tip != nil {
		rec.InsiderTip = unescape(tip[1])
	}
	if scores := scoresPattern.FindStringSubmatch(raw); scores != nil {
		var m map[string]float64
		if json.Unmarshal([]byte(scores[1]), &m) == nil {
			rec.Scores = m
		}
	}
	return rec, true
}

func unescape(s string) string {
	var out string
	if json.Unmarshal([]byte(`"`+s+`"`), &out) == nil {
		return out
	}
	return s
}

func validateShape(rec *Recommendation) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLLMParse, err)
	}
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLLMParse, err)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return fmt.Errorf("%w: %s", ErrLLMParse, strings.Join(details, "; "))
	}
	return nil
}
