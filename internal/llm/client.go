// internal/llm/client.go
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"donde-engine/internal/common/logger"
)

const anthropicVersion = "2023-06-01"

var (
	ErrLLMTimeout = errors.New("LLM_TIMEOUT")
	ErrLLMFailed  = errors.New("LLM_CALL_FAILED")
)

// Client calls the Anthropic Messages API.
type Client struct {
	config *Config
	client *http.Client
	logger logger.Logger
}

func NewClient(config *Config, log logger.Logger) *Client {
	return &Client{
		config: config,
		client: &http.Client{
			// No transport timeout; the request context is the deadline
		},
		logger: log.WithFields(map[string]interface{}{
			"component": "llm",
		}),
	}
}

type messagesRequest struct {
	Model       string            `json:"model"`
	MaxTokens   int               `json:"max_tokens"`
	Temperature float64           `json:"temperature"`
	System      []systemBlock     `json:"system"`
	Messages    []messageEnvelope `json:"messages"`
}

type systemBlock struct {
	Type         string        `json:"type"`
	Text         string        `json:"text"`
	CacheControl *cacheControl `json:"cache_control,omitempty"`
}

type cacheControl struct {
	Type string `json:"type"`
}

type messageEnvelope struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// Complete sends one system+user exchange and returns the text of the reply.
// The system prompt is marked cacheable; it is identical across requests while
// the user turn varies.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	payload := messagesRequest{
		Model:       c.config.Model,
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
		System: []systemBlock{
			{Type: "text", Text: system, CacheControl: &cacheControl{Type: "ephemeral"}},
		},
		Messages: []messageEnvelope{
			{Role: "user", Content: user},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLLMFailed, err)
	}

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			// Apply exponential backoff
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
				// Continue with retry
			case <-ctx.Done():
				return "", ErrLLMTimeout
			}
		}

		req, reqErr := http.NewRequestWithContext(ctx, "POST", c.config.BaseURL+"/v1/messages", bytes.NewReader(body))
		if reqErr != nil {
			return "", fmt.Errorf("%w: %v", ErrLLMFailed, reqErr)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", c.config.APIKey)
		req.Header.Set("anthropic-version", anthropicVersion)

		resp, lastErr = c.client.Do(req)
		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			// Client errors other than rate limiting will not improve on retry
			retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
			if !retryable {
				break
			}
		}

		if ctx.Err() != nil {
			return "", ErrLLMTimeout
		}
	}

	if lastErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", ErrLLMTimeout
		}
		return "", fmt.Errorf("%w: %v", ErrLLMFailed, lastErr)
	}
	if resp == nil {
		return "", fmt.Errorf("%w: no successful response after retries", ErrLLMFailed)
	}
	defer resp.Body.Close()

	var decoded messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: decode error: %v", ErrLLMFailed, err)
	}

	var text strings.Builder
	for _, block := range decoded.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", fmt.Errorf("%w: empty completion", ErrLLMFailed)
	}

	c.logger.Debug("completion received", map[string]interface{}{
		"stopReason": decoded.StopReason,
		"length":     text.Len(),
	})
	return text.String(), nil
}
