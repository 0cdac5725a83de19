package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/transparencyportal/ai-service/internal/domain"
	"github.com/transparencyportal/ai-service/internal/observability"
	"golang.org/x/time/rate"
)

const (
	providerName = "huggingface"
	maxAttempts  = 3
	userAgent    = "TransparencyAI/1.0"
)

// Config holds settings for the hosted inference client
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	// RequestsPerSecond caps outbound inference calls, zero means unlimited
	RequestsPerSecond float64
	Logger            zerolog.Logger
}

// Client calls a hosted text2text-generation model over the inference HTTP API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	endpoint    string
	model       string
	rateLimiter *rate.Limiter
	logger      zerolog.Logger
	backoff     func(attempt int) time.Duration
}

// generationRequest is the inference API request body
type generationRequest struct {
	Inputs     string               `json:"inputs"`
	Parameters generationParameters `json:"parameters"`
	Options    generationOptions    `json:"options"`
}

type generationParameters struct {
	MaxNewTokens       int     `json:"max_new_tokens"`
	DoSample           bool    `json:"do_sample"`
	TopK               int     `json:"top_k"`
	TopP               float32 `json:"top_p"`
	Temperature        float32 `json:"temperature"`
	NumReturnSequences int     `json:"num_return_sequences"`
}

type generationOptions struct {
	WaitForModel bool `json:"wait_for_model"`
	UseCache     bool `json:"use_cache"`
}

type generation struct {
	GeneratedText string `json:"generated_text"`
}

type apiError struct {
	Error string `json:"error"`
}

// NewClient creates a new inference client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		apiKey:      cfg.APIKey,
		endpoint:    strings.TrimRight(cfg.BaseURL, "/") + "/" + cfg.Model,
		model:       cfg.Model,
		rateLimiter: rate.NewLimiter(limit, 5),
		logger:      cfg.Logger.With().Str("component", "huggingface_client").Logger(),
		backoff:     exponentialBackoff,
	}
}

// ModelID returns the hosted model identifier
func (c *Client) ModelID() string {
	return c.model
}

// Generate samples a single completion for the prompt.
// Transient failures (429, 5xx, model loading) are retried with backoff.
func (c *Client) Generate(ctx context.Context, prompt string, params domain.SamplingParams) (string, error) {
	body, err := json.Marshal(generationRequest{
		Inputs: prompt,
		Parameters: generationParameters{
			MaxNewTokens:       params.MaxNewTokens,
			DoSample:           true,
			TopK:               params.TopK,
			TopP:               params.TopP,
			Temperature:        params.Temperature,
			NumReturnSequences: 1,
		},
		// Sampling must not be served from the response cache or every
		// attempt returns the same question.
		Options: generationOptions{WaitForModel: true, UseCache: false},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	start := time.Now()
	text, err := c.generateWithRetry(ctx, body)
	observability.InferenceDuration().WithLabelValues(providerName, c.model).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.InferenceFailures().WithLabelValues(providerName, c.model).Inc()
		return "", err
	}
	return text, nil
}

func (c *Client) generateWithRetry(ctx context.Context, body []byte) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter error: %w", err)
		}

		text, retry, err := c.doGenerate(ctx, body)
		if err == nil {
			return text, nil
		}
		if !retry {
			return "", err
		}

		lastErr = err
		c.logger.Warn().Err(err).Int("attempt", attempt).Str("model", c.model).Msg("inference request failed")
		if attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.backoff(attempt)):
		}
	}

	c.logger.Error().Err(lastErr).Str("model", c.model).Msg("all inference retries failed")
	return "", lastErr
}

// doGenerate executes one POST and reports whether a failure is worth retrying
func (c *Client) doGenerate(ctx context.Context, body []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		return "", true, fmt.Errorf("%w: %v", domain.ErrInferenceFailure, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("%w: failed to read response: %v", domain.ErrInferenceFailure, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return "", false, fmt.Errorf("%w: %s", domain.ErrModelUnavailable, c.model)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", true, fmt.Errorf("%w: status %d: %s", domain.ErrInferenceFailure, resp.StatusCode, errorMessage(respBody))
	default:
		return "", false, fmt.Errorf("%w: status %d: %s", domain.ErrInferenceFailure, resp.StatusCode, errorMessage(respBody))
	}

	text, err := parseGeneration(respBody)
	if err != nil {
		return "", false, err
	}
	return text, false, nil
}

// parseGeneration accepts either a list of generations or a single object
func parseGeneration(body []byte) (string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "", domain.ErrEmptyCompletion
	}

	if trimmed[0] == '{' {
		var single generation
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return "", fmt.Errorf("failed to decode response: %w", err)
		}
		return single.GeneratedText, nil
	}

	var generations []generation
	if err := json.Unmarshal(trimmed, &generations); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(generations) == 0 {
		return "", domain.ErrEmptyCompletion
	}
	return generations[0].GeneratedText, nil
}

func errorMessage(body []byte) string {
	var e apiError
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}

// exponentialBackoff returns 500ms, 1s, 2s for attempts 1, 2, 3
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

