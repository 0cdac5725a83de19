package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"github.com/transparencyportal/ai-service/internal/domain"
	"github.com/transparencyportal/ai-service/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const providerName = "openai"

// Config defines configuration options for the OpenAI generator.
type Config struct {
	APIKey string
	Model  string
	// BaseURL points at any OpenAI compatible endpoint, e.g. http://localhost:8080/v1
	BaseURL string
	Logger  zerolog.Logger
}

// Generator implements domain.TextGenerator against the chat completion API.
// Top-k sampling is not part of the API and is ignored.
type Generator struct {
	client *openai.Client
	cfg    Config
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewGenerator builds a new generator using the provided configuration.
func NewGenerator(cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	return &Generator{
		client: openai.NewClientWithConfig(config),
		cfg:    cfg,
		tracer: otel.Tracer("github.com/transparencyportal/ai-service/internal/infrastructure/openai"),
		logger: cfg.Logger.With().Str("component", "openai_generator").Logger(),
	}, nil
}

// ModelID returns the chat model name
func (g *Generator) ModelID() string {
	return g.cfg.Model
}

// Generate requests one chat completion and returns its text.
func (g *Generator) Generate(parent context.Context, prompt string, params domain.SamplingParams) (string, error) {
	ctx, span := g.tracer.Start(parent, "openai.generate", trace.WithAttributes(
		attribute.String("model", g.cfg.Model),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       g.cfg.Model,
		MaxTokens:   params.MaxNewTokens,
		Temperature: params.Temperature,
		TopP:        params.TopP,
		N:           1,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	resp, err := g.client.CreateChatCompletion(ctx, request)
	observability.InferenceDuration().WithLabelValues(providerName, g.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", g.fail(span, fmt.Errorf("%w: %v", domain.ErrInferenceFailure, err))
	}

	if len(resp.Choices) == 0 {
		return "", g.fail(span, domain.ErrEmptyCompletion)
	}

	g.logger.Debug().
		Str("model", g.cfg.Model).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Msg("chat completion received")

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (g *Generator) fail(span trace.Span, err error) error {
	observability.InferenceFailures().WithLabelValues(providerName, g.cfg.Model).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	g.logger.Warn().Err(err).Str("model", g.cfg.Model).Msg("openai generation failed")
	return err
}
