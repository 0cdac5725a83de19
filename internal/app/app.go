// Package app is the composition root shared by the HTTP and MCP
// entrypoints. It builds concrete implementations from configuration and
// injects them into the services. No business logic lives here.
package app

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/transparencyportal/ai-service/config"
	"github.com/transparencyportal/ai-service/internal/domain"
	"github.com/transparencyportal/ai-service/internal/infrastructure/huggingface"
	"github.com/transparencyportal/ai-service/internal/infrastructure/inference"
	"github.com/transparencyportal/ai-service/internal/infrastructure/openai"
	"github.com/transparencyportal/ai-service/internal/usecase"
)

// Version is reported by the health endpoint and the MCP handshake.
// Overridden at build time via ldflags.
var Version = "1.0.0"

// Services holds the two request-facing services
type Services struct {
	Questions *usecase.QuestionService
	Scorer    *usecase.TransparencyScorer
}

// NewTextGenerator builds the configured generator once per process,
// wrapped for serial inference when requested.
func NewTextGenerator(cfg config.GeneratorConfig, rateLimit config.RateLimitConfig, logger zerolog.Logger) (domain.TextGenerator, error) {
	var gen domain.TextGenerator

	switch cfg.Provider {
	case config.ProviderHuggingFace:
		gen = huggingface.NewClient(huggingface.Config{
			APIKey:            cfg.APIKey,
			BaseURL:           cfg.BaseURL,
			Model:             cfg.Model,
			Timeout:           cfg.Timeout,
			RequestsPerSecond: rateLimit.Inference,
			Logger:            logger,
		})
	case config.ProviderOpenAI:
		client, err := openai.NewGenerator(openai.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Logger:  logger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating openai generator: %w", err)
		}
		gen = client
	default:
		return nil, fmt.Errorf("unknown generator provider: %s", cfg.Provider)
	}

	if cfg.Serialize {
		gen = inference.NewSerialGenerator(gen)
	}

	logger.Info().
		Str("provider", cfg.Provider).
		Str("model", gen.ModelID()).
		Bool("serialized", cfg.Serialize).
		Msg("text generator ready")

	return gen, nil
}

// NewServices wires the question service and scorer from configuration
func NewServices(cfg *config.Config, logger zerolog.Logger) (*Services, error) {
	gen, err := NewTextGenerator(cfg.Generator, cfg.RateLimit, logger)
	if err != nil {
		return nil, err
	}

	questions := usecase.NewQuestionService(gen, usecase.QuestionServiceConfig{
		TryMultiplier: cfg.Generator.TryMultiplier,
		Sampling: domain.SamplingParams{
			MaxNewTokens: cfg.Generator.MaxNewTokens,
			Temperature:  cfg.Generator.Temperature,
			TopK:         cfg.Generator.TopK,
			TopP:         cfg.Generator.TopP,
		},
		FallbackMode: cfg.Generator.FallbackMode,
		Timeout:      cfg.Generator.Timeout,
	}, logger)

	scorer := usecase.NewTransparencyScorer(usecase.TransparencyScorerConfig{
		ModelName: cfg.Scorer.ModelName,
	}, logger)

	return &Services{Questions: questions, Scorer: scorer}, nil
}
