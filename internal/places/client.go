// internal/places/client.go
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"donde-engine/internal/common/logger"
	"donde-engine/internal/models"
)

const (
	detailsFields    = "name,formatted_address,formatted_phone_number,website,rating,user_ratings_total,business_status,reviews"
	maxReviews       = 5
	reviewTruncation = 300
)

// Client looks up live place metadata from the Google Places API. Lookups are
// best-effort enrichment: every failure path returns nil rather than an
// error, and the caller proceeds with stored data.
type Client struct {
	config *Config
	client *http.Client
	logger logger.Logger
}

func NewClient(config *Config, log logger.Logger) *Client {
	return &Client{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: log.WithFields(map[string]interface{}{
			"component": "places",
		}),
	}
}

type findPlaceResponse struct {
	Status     string `json:"status"`
	Candidates []struct {
		PlaceID string `json:"place_id"`
	} `json:"candidates"`
}

type detailsResponse struct {
	Status string `json:"status"`
	Result struct {
		Name             string   `json:"name"`
		FormattedAddress string   `json:"formatted_address"`
		PhoneNumber      string   `json:"formatted_phone_number"`
		Website          string   `json:"website"`
		Rating           *float64 `json:"rating"`
		UserRatingsTotal *int     `json:"user_ratings_total"`
		BusinessStatus   string   `json:"business_status"`
		Reviews          []struct {
			Rating int    `json:"rating"`
			Text   string `json:"text"`
		} `json:"reviews"`
	} `json:"result"`
}

// Lookup resolves a restaurant by name and area and returns its live details,
// or nil when anything along the way fails.
func (c *Client) Lookup(ctx context.Context, name, area string) *models.PlaceDetails {
	placeID := c.findPlaceID(ctx, name, area)
	if placeID == "" {
		return nil
	}
	return c.details(ctx, placeID)
}

func (c *Client) findPlaceID(ctx context.Context, name, area string) string {
	query := name
	if area != "" && area != models.Anywhere {
		query = fmt.Sprintf("%s %s Chicago", name, area)
	}

	params := url.Values{}
	params.Set("input", query)
	params.Set("inputtype", "textquery")
	params.Set("fields", "place_id")
	params.Set("key", c.config.APIKey)

	var decoded findPlaceResponse
	if !c.get(ctx, "/findplacefromtext/json", params, &decoded) {
		return ""
	}
	if decoded.Status != "OK" || len(decoded.Candidates) == 0 {
		c.logger.Debug("place not found", map[string]interface{}{
			"query":  query,
			"status": decoded.Status,
		})
		return ""
	}
	return decoded.Candidates[0].PlaceID
}

func (c *Client) details(ctx context.Context, placeID string) *models.PlaceDetails {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", detailsFields)
	params.Set("key", c.config.APIKey)

	var decoded detailsResponse
	if !c.get(ctx, "/details/json", params, &decoded) {
		return nil
	}
	if decoded.Status != "OK" {
		c.logger.Debug("details lookup failed", map[string]interface{}{
			"placeId": placeID,
			"status":  decoded.Status,
		})
		return nil
	}

	r := decoded.Result
	details := &models.PlaceDetails{
		Name:           r.Name,
		Address:        r.FormattedAddress,
		Phone:          r.PhoneNumber,
		Website:        r.Website,
		Rating:         r.Rating,
		ReviewCount:    r.UserRatingsTotal,
		BusinessStatus: r.BusinessStatus,
	}
	for idx, rev := range r.Reviews {
		if idx >= maxReviews {
			break
		}
		details.Reviews = append(details.Reviews, models.Review{
			Rating: rev.Rating,
			Text:   truncate(rev.Text, reviewTruncation),
		})
	}
	return details
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) bool {
	req, err := http.NewRequestWithContext(ctx, "GET", c.config.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("places call failed", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("places call failed", map[string]interface{}{
			"path":   path,
			"status": resp.StatusCode,
		})
		return false
	}
	return json.NewDecoder(resp.Body).Decode(out) == nil
}

// truncate cuts at the nearest rune boundary at or below limit so review
// text is never split mid-character.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return strings.TrimSpace(s[:limit]) + "..."
}

// FormatReviews renders review snippets for prompt context.
func FormatReviews(reviews []models.Review) string {
	if len(reviews) == 0 {
		return ""
	}
	var b strings.Builder
	for _, rev := range reviews {
		fmt.Fprintf(&b, "- %d/5: %s\n", rev.Rating, rev.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}
