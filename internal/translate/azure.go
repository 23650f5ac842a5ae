package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
)

// DefaultEndpoint is the global Azure Translator endpoint.
const DefaultEndpoint = "https://api.cognitive.microsofttranslator.com"

// Client calls the Azure Translator v3 REST API.
type Client struct {
	key        string
	endpoint   string
	region     string
	attempts   uint
	httpClient *http.Client

	Stats *Stats
}

func NewClient(key, endpoint, region string, attempts uint) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if attempts == 0 {
		attempts = 3
	}
	return &Client{
		key:      key,
		endpoint: endpoint,
		region:   region,
		attempts: attempts,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		Stats: NewStats(time.Hour),
	}
}

type translateItem struct {
	Text string `json:"text"`
}

type translateResult struct {
	Translations []struct {
		Text string `json:"text"`
		To   string `json:"to"`
	} `json:"translations"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Translate translates texts in one batch request, preserving positions:
// blank inputs come back as blank outputs without being sent. Transient
// failures (429, 5xx, network errors) are retried with backoff.
func (c *Client) Translate(ctx context.Context, texts []string, from, to string) ([]string, error) {
	valid := make([]string, 0, len(texts))
	for _, t := range texts {
		if !isBlank(t) {
			valid = append(valid, t)
		}
	}
	if len(valid) == 0 {
		return make([]string, len(texts)), nil
	}

	translated, err := retry.DoWithData(
		func() ([]string, error) {
			return c.translateOnce(ctx, valid, from, to)
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(IsRetryable),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(texts))
	vi := 0
	for i, t := range texts {
		if !isBlank(t) {
			out[i] = translated[vi]
			vi++
		}
	}
	return out, nil
}

func (c *Client) translateOnce(ctx context.Context, texts []string, from, to string) ([]string, error) {
	started := time.Now()

	body := make([]translateItem, 0, len(texts))
	for _, t := range texts {
		body = append(body, translateItem{Text: t})
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	q := url.Values{}
	q.Set("api-version", "3.0")
	if from != "" {
		q.Set("from", from)
	}
	q.Set("to", to)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/translate?"+q.Encode(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)
	req.Header.Set("X-ClientTraceId", uuid.NewString())
	if c.region != "" {
		req.Header.Set("Ocp-Apim-Subscription-Region", c.region)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RetryableError{Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	if resp.StatusCode != http.StatusOK {
		var ae apiError
		if json.Unmarshal(respBody, &ae) == nil && ae.Error.Message != "" {
			return nil, fmt.Errorf("translator api status %d: %s", resp.StatusCode, ae.Error.Message)
		}
		return nil, fmt.Errorf("translator api status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var results []translateResult
	if err := json.Unmarshal(respBody, &results); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(results) != len(texts) {
		return nil, fmt.Errorf("translator returned %d results for %d texts", len(results), len(texts))
	}

	out := make([]string, len(results))
	for i, r := range results {
		if len(r.Translations) > 0 {
			out[i] = r.Translations[0].Text
		}
	}

	if c.Stats != nil {
		c.Stats.Record(time.Since(started).Milliseconds())
	}
	return out, nil
}

// Close releases resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// IsRetryable reports whether err is a transient translator failure.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
