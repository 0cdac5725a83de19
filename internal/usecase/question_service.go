package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/transparencyportal/ai-service/internal/domain"
	"github.com/transparencyportal/ai-service/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/unicode/norm"
)

// Fallback padding modes
const (
	FallbackNumbered = "numbered"
	FallbackRepeat   = "repeat"
)

var whitespaceRunRegex = regexp.MustCompile(`\s+`)

const (
	defaultTryMultiplier = 5
	questionMarker       = "Question:"
	defaultProductName   = "product"
)

const promptHeader = "You are an AI assistant that helps improve product transparency.\n" +
	"Based on the *specific details of the product below*, generate a unique and insightful follow-up question that has not been asked before.\n" +
	"The question must be directly related to this product’s characteristics like description , product name and category.\n" +
	"It should encourage deeper understanding, trust, or accountability.\n\n"

// QuestionServiceConfig holds configuration for the question service
type QuestionServiceConfig struct {
	// TryMultiplier bounds sampling attempts to TryMultiplier * numQuestions
	TryMultiplier int
	Sampling      domain.SamplingParams
	FallbackMode  string
	// Timeout bounds each individual model call, zero disables it
	Timeout time.Duration
}

// QuestionService generates follow-up questions by sampling a text generator
// until enough distinct questions are collected.
type QuestionService struct {
	generator domain.TextGenerator
	config    QuestionServiceConfig
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewQuestionService creates a new question service with dependencies
func NewQuestionService(
	generator domain.TextGenerator,
	config QuestionServiceConfig,
	logger zerolog.Logger,
) *QuestionService {
	if config.TryMultiplier < 1 {
		config.TryMultiplier = defaultTryMultiplier
	}
	if config.Sampling == (domain.SamplingParams{}) {
		config.Sampling = domain.DefaultSamplingParams()
	}
	if config.FallbackMode != FallbackRepeat {
		config.FallbackMode = FallbackNumbered
	}

	return &QuestionService{
		generator: generator,
		config:    config,
		logger:    logger.With().Str("component", "question_service").Logger(),
		tracer:    otel.Tracer("github.com/transparencyportal/ai-service/internal/usecase/questions"),
	}
}

// ModelID returns the identifier of the underlying generation model
func (s *QuestionService) ModelID() string {
	return s.generator.ModelID()
}

// GenerateQuestions returns exactly numQuestions questions about the product.
// Flow: build prompt -> sample until unique target or budget spent -> pad with fallbacks
func (s *QuestionService) GenerateQuestions(
	ctx context.Context,
	product domain.ProductInfo,
	numQuestions int,
) ([]string, error) {
	if numQuestions < 1 {
		return nil, domain.ErrInvalidRequest
	}

	ctx, span := s.tracer.Start(ctx, "questions.generate", trace.WithAttributes(
		attribute.String("model", s.generator.ModelID()),
		attribute.Int("num_questions", numQuestions),
	))
	defer span.End()

	prompt := BuildQuestionPrompt(product)
	maxTries := numQuestions * s.config.TryMultiplier

	questions := make([]string, 0, numQuestions)
	seen := make(map[string]struct{}, numQuestions)
	tries := 0

	for len(questions) < numQuestions && tries < maxTries {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			return nil, err
		}
		tries++

		output, err := s.sample(ctx, prompt)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				span.RecordError(ctxErr)
				return nil, ctxErr
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.logger.Error().Err(err).Str("product", product.Name).Int("attempt", tries).Msg("question generation failed")
			return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
		}

		question := ExtractQuestion(output)
		if question == "" {
			continue
		}
		if _, dup := seen[question]; dup {
			continue
		}
		seen[question] = struct{}{}
		questions = append(questions, question)
	}

	generated := len(questions)
	questions = s.pad(questions, seen, numQuestions, productName(product))

	span.SetAttributes(
		attribute.Int("attempts", tries),
		attribute.Int("generated", generated),
	)
	s.logger.Info().
		Str("product", product.Name).
		Int("requested", numQuestions).
		Int("generated", generated).
		Int("attempts", tries).
		Msg("questions generated")

	return questions, nil
}

// sample runs one model call under the per-attempt timeout
func (s *QuestionService) sample(ctx context.Context, prompt string) (string, error) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	output, err := s.generator.Generate(ctx, prompt, s.config.Sampling)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return "", fmt.Errorf("model call exceeded %s: %w", s.config.Timeout, err)
	}
	return output, err
}

// pad fills the result up to target with fallback questions
func (s *QuestionService) pad(questions []string, seen map[string]struct{}, target int, name string) []string {
	missing := target - len(questions)
	if missing <= 0 {
		return questions
	}

	fallback := FallbackQuestion(name)
	switch s.config.FallbackMode {
	case FallbackRepeat:
		for len(questions) < target {
			questions = append(questions, fallback)
		}
	default:
		candidate := fallback
		for n := 2; len(questions) < target; n++ {
			if _, exists := seen[candidate]; !exists {
				seen[candidate] = struct{}{}
				questions = append(questions, candidate)
			}
			candidate = fmt.Sprintf("%s (%d)", fallback, n)
		}
	}

	observability.FallbackQuestions().WithLabelValues(s.config.FallbackMode).Add(float64(missing))
	s.logger.Warn().Int("fallbacks", missing).Str("mode", s.config.FallbackMode).Msg("padded questions with fallbacks")
	return questions
}

// BuildQuestionPrompt renders the generation prompt for a product.
// Description and category lines are only included when present.
func BuildQuestionPrompt(product domain.ProductInfo) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString("Product Name: ")
	b.WriteString(productName(product))
	b.WriteString("\n")
	if product.Description != "" {
		b.WriteString("Description: ")
		b.WriteString(product.Description)
		b.WriteString("\n")
	}
	if product.Category != "" {
		b.WriteString("Category: ")
		b.WriteString(product.Category)
		b.WriteString("\n")
	}
	b.WriteString(questionMarker)
	return b.String()
}

// ExtractQuestion takes the text after the last "Question:" marker and
// cleans it up. Returns "" when nothing usable is left.
func ExtractQuestion(output string) string {
	if idx := strings.LastIndex(output, questionMarker); idx >= 0 {
		output = output[idx+len(questionMarker):]
	}
	return normalizeQuestion(output)
}

// FallbackQuestion is the padding question used when generation comes up short
func FallbackQuestion(name string) string {
	if name == "" {
		name = defaultProductName
	}
	return fmt.Sprintf("Can you provide more information about %s?", name)
}

// normalizeQuestion applies NFKC, drops control characters and trims.
// Whitespace controls become plain spaces so lines do not run together.
func normalizeQuestion(s string) string {
	s = norm.NFKC.String(s)
	s = strings.Map(func(r rune) rune {
		if !unicode.IsControl(r) {
			return r
		}
		if unicode.IsSpace(r) {
			return ' '
		}
		return -1
	}, s)
	return strings.TrimSpace(whitespaceRunRegex.ReplaceAllString(s, " "))
}

func productName(product domain.ProductInfo) string {
	if product.Name == "" {
		return defaultProductName
	}
	return product.Name
}
