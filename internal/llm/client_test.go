// internal/llm/client_test.go
package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donde-engine/internal/common/logger"
)

func testConfig(baseURL string) *Config {
	return &Config{
		BaseURL:     baseURL,
		APIKey:      "test-key",
		Model:       "claude-sonnet-4-20250514",
		MaxTokens:   1024,
		Temperature: 0.7,
		Timeout:     2 * time.Second,
		MaxRetries:  2,
	}
}

func completionBody(text string) string {
	return `{"content": [{"type": "text", "text": ` + mustJSON(text) + `}], "stop_reason": "end_turn"}`
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestCompleteSuccess(t *testing.T) {
	var captured struct {
		apiKey  string
		version string
		body    map[string]interface{}
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.apiKey = r.Header.Get("x-api-key")
		captured.version = r.Header.Get("anthropic-version")
		_ = json.NewDecoder(r.Body).Decode(&captured.body)
		w.Write([]byte(completionBody(`{"restaurant_index": 0, "recommendation": "ok"}`)))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), logger.NewNoOpLogger())
	text, err := client.Complete(context.Background(), "system prompt", "user turn")
	require.NoError(t, err)
	assert.Contains(t, text, "restaurant_index")

	assert.Equal(t, "test-key", captured.apiKey)
	assert.Equal(t, anthropicVersion, captured.version)

	system, ok := captured.body["system"].([]interface{})
	require.True(t, ok)
	require.Len(t, system, 1)
	block := system[0].(map[string]interface{})
	assert.Equal(t, "system prompt", block["text"])
	require.Contains(t, block, "cache_control")
}

func TestCompleteRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(completionBody("second try")))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), logger.NewNoOpLogger())
	text, err := client.Complete(context.Background(), "s", "u")
	require.NoError(t, err)
	assert.Equal(t, "second try", text)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCompleteDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), logger.NewNoOpLogger())
	_, err := client.Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLLMFailed)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCompleteTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(completionBody("too late")))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Timeout = 50 * time.Millisecond
	client := NewClient(cfg, logger.NewNoOpLogger())

	_, err := client.Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLLMTimeout)
}

func TestCompleteEmptyCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content": [], "stop_reason": "end_turn"}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), logger.NewNoOpLogger())
	_, err := client.Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLLMFailed)
}
