package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"monedero/internal"
	"monedero/internal/config"
	"monedero/internal/util"
)

const (
	defaultBatchSize   = 50
	defaultMaxLabelLen = 50
	maxAttempts        = 3
)

// FallbackFunc produces a local low-confidence label for a sanitized
// description. Injected so the client stays independent of the pipeline
// package.
type FallbackFunc func(sanitized string) (string, float64)

// Client batches unresolved statement lines into chat-completion requests
// and validates whatever comes back. Its contract is best-effort and
// total: SimplifyBatch never fails and always covers every requested id.
type Client struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *RateLimiter
	fallback   FallbackFunc
	log        zerolog.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Temperature    float64         `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type resultsEnvelope struct {
	Results []internal.AIRawResult `json:"results"`
}

func NewClient(cfg config.Config, fallback FallbackFunc, log zerolog.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.AITimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(cfg.AIRateLimitRPS),
		fallback:   fallback,
		log:        log,
	}
}

// SimplifyBatch resolves every item to a ValidatedAIResult. Missing
// credential, transport failure, non-2xx status, unparsable bodies and
// malformed records all degrade to per-item fallback labels; none of them
// surface as an error. The returned map has exactly one entry per input id.
func (c *Client) SimplifyBatch(ctx context.Context, items []internal.BatchItem) map[string]internal.ValidatedAIResult {
	out := make(map[string]internal.ValidatedAIResult, len(items))
	if len(items) == 0 {
		return out
	}

	if strings.TrimSpace(c.cfg.AIAPIKey) == "" {
		c.log.Debug().Int("items", len(items)).Msg("no ai credential, labeling with fallback heuristic")
		for _, item := range items {
			out[item.ID] = c.fallbackResult(item)
		}
		return out
	}

	batchSize := c.cfg.AIBatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	var batches [][]internal.BatchItem
	for start := 0; start < len(items); start += batchSize {
		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}

	// Batches are independent: a failed batch falls back on its own while
	// the others keep their model results.
	results := make([]map[string]internal.ValidatedAIResult, len(batches))
	var g errgroup.Group
	limit := c.cfg.AIMaxConcurrent
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, batch := range batches {
		i, batch := i, batch
		g.Go(func() error {
			results[i] = c.simplifyOne(ctx, batch)
			return nil
		})
	}
	_ = g.Wait()

	for _, m := range results {
		for id, r := range m {
			out[id] = r
		}
	}
	return out
}

func (c *Client) simplifyOne(ctx context.Context, batch []internal.BatchItem) map[string]internal.ValidatedAIResult {
	raws, err := c.requestBatch(ctx, batch)
	if err != nil {
		c.log.Warn().Err(err).Int("items", len(batch)).Msg("ai batch degraded to fallback")
		out := make(map[string]internal.ValidatedAIResult, len(batch))
		for _, item := range batch {
			out[item.ID] = c.fallbackResult(item)
		}
		return out
	}
	return c.validate(batch, raws)
}

func (c *Client) requestBatch(ctx context.Context, batch []internal.BatchItem) ([]internal.AIRawResult, error) {
	userPrompt, err := buildUserPrompt(batch)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.AIModel,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
		Temperature:    0,
	})
	if err != nil {
		return nil, err
	}

	url := strings.TrimRight(c.cfg.AIBaseURL, "/") + "/chat/completions"

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		c.limiter.WaitTurn()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.AIAPIKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < maxAttempts {
				lastErr = fmt.Errorf("ai status %d", resp.StatusCode)
				if err := sleepBackoff(ctx, attempt); err != nil {
					return nil, err
				}
				continue
			}
			return nil, fmt.Errorf("ai api error: status=%d", resp.StatusCode)
		}

		var chat chatResponse
		if err := json.Unmarshal(respBody, &chat); err != nil {
			return nil, fmt.Errorf("ai response not json: %w", err)
		}
		if len(chat.Choices) == 0 {
			return nil, errors.New("ai response has no choices")
		}
		return parseResults(chat.Choices[0].Message.Content)
	}

	if lastErr == nil {
		lastErr = errors.New("ai request failed")
	}
	return nil, lastErr
}

// parseResults accepts either a bare JSON array or a {"results": [...]}
// envelope; anything else is a parse failure.
func parseResults(content string) ([]internal.AIRawResult, error) {
	trimmed := strings.TrimSpace(content)

	var arr []internal.AIRawResult
	if err := json.Unmarshal([]byte(trimmed), &arr); err == nil {
		return arr, nil
	}

	var env resultsEnvelope
	if err := json.Unmarshal([]byte(trimmed), &env); err == nil && env.Results != nil {
		return env.Results, nil
	}

	return nil, errors.New("ai content has unexpected shape")
}

// validate clamps and truncates untrusted records, drops records for
// unknown ids, and synthesizes a fallback for every requested id the
// model did not cover. One bad record never discards the rest.
func (c *Client) validate(batch []internal.BatchItem, raws []internal.AIRawResult) map[string]internal.ValidatedAIResult {
	maxLen := c.cfg.AIMaxLabelLen
	if maxLen <= 0 {
		maxLen = defaultMaxLabelLen
	}

	requested := make(map[string]struct{}, len(batch))
	for _, item := range batch {
		requested[item.ID] = struct{}{}
	}

	out := make(map[string]internal.ValidatedAIResult, len(batch))
	for _, raw := range raws {
		id := strings.TrimSpace(raw.ID)
		if _, ok := requested[id]; !ok {
			continue
		}
		if _, seen := out[id]; seen {
			continue
		}
		simplified := util.Truncate(strings.TrimSpace(raw.Simplified), maxLen)
		if simplified == "" {
			continue
		}
		out[id] = internal.ValidatedAIResult{
			ID:         id,
			Simplified: simplified,
			Confidence: clampConfidence(raw.Confidence),
			Source:     internal.SourceAI,
		}
	}

	for _, item := range batch {
		if _, ok := out[item.ID]; !ok {
			out[item.ID] = c.fallbackResult(item)
		}
	}
	return out
}

func (c *Client) fallbackResult(item internal.BatchItem) internal.ValidatedAIResult {
	simplified, confidence := c.fallback(item.SanitizedDescription)
	return internal.ValidatedAIResult{
		ID:         item.ID,
		Simplified: simplified,
		Confidence: confidence,
		Source:     internal.SourceFallback,
	}
}

func clampConfidence(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func sleepBackoff(ctx context.Context, attempt int) error {
	backoff := time.Duration(100*(1<<(attempt-1))+rand.Intn(50)) * time.Millisecond
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(backoff):
		return nil
	}
}
