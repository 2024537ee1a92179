// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donde-engine/internal/common/logger"
	"donde-engine/internal/intent"
	"donde-engine/internal/llm"
	"donde-engine/internal/models"
	"donde-engine/internal/places"
	"donde-engine/internal/recommend"
	"donde-engine/internal/server"
	"donde-engine/internal/store"
)

// The full pipeline wired exactly as main wires it, with the three external
// surfaces stubbed: PostgreSQL via sqlmock, the Anthropic Messages API and
// the Places API via httptest servers. Requests travel the real HTTP route
// through the real engine, scoring, ranking, and prompt code.

var candidateColumns = []string{
	"id", "name", "cuisine", "price_range", "area", "oneliner", "description",
	"tags", "features", "dietary_options", "good_for",
	"noise_level", "lighting", "dress_code", "outdoor_seating", "live_music",
	"best_times", "insider_tip", "google_rating", "google_review_count",
	"negative_review_ratio", "trending_score", "is_active", "deep_profile",
	"date_friendly", "group_friendly", "family_friendly", "romantic_rating",
	"business_lunch", "solo_dining", "hole_in_wall_factor",
}

func candidateRow(id, name, cuisine, price, area string, dateScore float64) []driver.Value {
	return []driver.Value{
		id, name, cuisine, price, area, "A neighborhood favorite.", "Long-running local spot.",
		"{cozy,romantic}", "{full_bar}", "{vegetarian}", "{date_night}",
		"moderate", "dim", "Casual", true, false,
		"{dinner}", "ask for the back room", 4.5, 900,
		0.1, 20.0, true, nil,
		dateScore, 6.0, 5.0, 7.0, 5.0, 6.0, 4.0,
	}
}

func seedWindow(mock sqlmock.Sqlmock) {
	rows := sqlmock.NewRows(candidateColumns)
	rows.AddRow(candidateRow("11111111-1111-1111-1111-111111111111", "Osteria Nonna", "Italian", "$$", "Logan Square", 9)...)
	rows.AddRow(candidateRow("22222222-2222-2222-2222-222222222222", "La Taqueria", "Mexican", "$$", "Logan Square", 8)...)
	rows.AddRow(candidateRow("33333333-3333-3333-3333-333333333333", "Izakaya Moon", "Japanese", "$$", "Logan Square", 7)...)

	mock.ExpectQuery("SELECT(.|\n)*FROM restaurants").
		WithArgs("$$", "Logan Square", 10).
		WillReturnRows(rows)
}

// anthropicStub answers both prompts the engine sends: intent extraction and
// the final synthesis. It tells them apart by the system prompt.
func anthropicStub(t *testing.T, synthesisReply string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/messages", r.URL.Path)
		require.NotEmpty(t, r.Header.Get("x-api-key"))

		var payload struct {
			System []struct {
				Text string `json:"text"`
			} `json:"system"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.NotEmpty(t, payload.System)

		reply := synthesisReply
		if strings.Contains(payload.System[0].Text, "dining intent") {
			reply = `{"cuisines": ["Italian"], "cuisine_importance": "high", "tags": ["romantic"], "emotional_intent": "celebratory", "spontaneity": "planned"}`
		}

		w.Header().Set("Content-Type", "application/json")
		body, _ := json.Marshal(map[string]interface{}{
			"content":     []map[string]string{{"type": "text", "text": reply}},
			"stop_reason": "end_turn",
		})
		w.Write(body)
	}))
}

func placesStub() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(r.URL.Path, "findplacefromtext") {
			w.Write([]byte(`{"status": "OK", "candidates": [{"place_id": "place-1"}]}`))
			return
		}
		w.Write([]byte(`{
			"status": "OK",
			"result": {
				"name": "Osteria Nonna",
				"business_status": "OPERATIONAL",
				"rating": 4.7,
				"user_ratings_total": 1200,
				"reviews": [{"rating": 5, "text": "The cacio e pepe is unreal."}]
			}
		}`))
	}))
}

func buildStack(db *sql.DB, anthropicURL, placesURL string) http.Handler {
	log := logger.NewNoOpLogger()

	model := llm.NewClient(&llm.Config{
		BaseURL:     anthropicURL,
		APIKey:      "test-key",
		Model:       "claude-3-5-haiku-20241022",
		MaxTokens:   1024,
		Temperature: 0.7,
		Timeout:     5 * time.Second,
		MaxRetries:  1,
	}, log)

	meta := places.NewClient(&places.Config{
		BaseURL: placesURL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	}, log)

	engine := recommend.NewEngine(
		store.New(db, log),
		intent.NewClassifier(model, log),
		model,
		meta,
		recommend.NewMemoryCache(5*time.Minute),
		recommend.Config{
			CandidateLimit:     10,
			RejectionThreshold: 2,
			MaxPerCuisine:      3,
			MaxPerArea:         4,
			MetadataLookups:    5,
			MetadataTimeout:    2 * time.Second,
		},
		nil, log,
	)

	return server.NewRouter(server.NewHandler(engine, log), nil, log)
}

func postRecommend(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommend", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const requestBody = `{
	"occasion": "Date Night",
	"area": "Logan Square",
	"budget": "$$",
	"request": "romantic pasta spot"
}`

func TestRecommendFlowE2E(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	seedWindow(mock)

	anthropic := anthropicStub(t, `{"restaurant_index": 0, "recommendation": "Osteria Nonna is made for slow candlelit dinners, and the handmade pasta seals it.", "insider_tip": "Ask for the corner table.", "scores": {"relevance": 9}}`)
	defer anthropic.Close()
	placesSrv := placesStub()
	defer placesSrv.Close()

	router := buildStack(db, anthropic.URL, placesSrv.URL)

	rec := postRecommend(t, router, requestBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.RecommendationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Pick)

	assert.Equal(t, "Osteria Nonna", resp.Pick.Name)
	assert.Contains(t, resp.Pick.Headline, "candlelit")
	assert.Equal(t, "Ask for the corner table.", resp.Pick.InsiderTip)
	assert.GreaterOrEqual(t, resp.Pick.DondeMatch, 60)
	assert.LessOrEqual(t, resp.Pick.DondeMatch, 99)
	assert.False(t, resp.Fallback)
	assert.Len(t, resp.Alternates, 2)
	assert.NotEmpty(t, resp.RequestID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecommendFlowE2ECacheHit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	// Exactly one window read; the second request must come from the cache.
	seedWindow(mock)

	anthropic := anthropicStub(t, `{"restaurant_index": 0, "recommendation": "Osteria Nonna, every time.", "insider_tip": "Go early."}`)
	defer anthropic.Close()
	placesSrv := placesStub()
	defer placesSrv.Close()

	router := buildStack(db, anthropic.URL, placesSrv.URL)

	first := postRecommend(t, router, requestBody)
	require.Equal(t, http.StatusOK, first.Code)

	second := postRecommend(t, router, requestBody)
	require.Equal(t, http.StatusOK, second.Code)

	var resp models.RecommendationResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.True(t, resp.Cached)
	require.NotNil(t, resp.Pick)
	assert.Equal(t, "Osteria Nonna", resp.Pick.Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecommendFlowE2EModelDown(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	seedWindow(mock)

	// Every model call fails; the engine must still serve a templated pick.
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()
	placesSrv := placesStub()
	defer placesSrv.Close()

	router := buildStack(db, broken.URL, placesSrv.URL)

	rec := postRecommend(t, router, requestBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.RecommendationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Pick)
	assert.True(t, resp.Fallback)
	assert.NotEmpty(t, resp.Pick.Headline)
	assert.Contains(t, resp.Pick.Headline, resp.Pick.Name)
}
