package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/transparencyportal/ai-service/internal/domain"
	"github.com/transparencyportal/ai-service/internal/validation"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	questions domain.QuestionGenerator
	scorer    domain.TransparencyScorer
	version   string
	logger    zerolog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(questions domain.QuestionGenerator, scorer domain.TransparencyScorer, version string, logger zerolog.Logger) *Handler {
	return &Handler{
		questions: questions,
		scorer:    scorer,
		version:   version,
		logger:    logger.With().Str("component", "http_handler").Logger(),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"message":        "AI service is running",
		"version":        h.version,
		"question_model": h.questions.ModelID(),
		"scoring_model":  h.scorer.ModelName(),
	})
}

// GenerateQuestions handles follow-up question generation requests
func (h *Handler) GenerateQuestions(c *gin.Context) {
	var req domain.GenerateQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondValidationError(c, err)
		return
	}

	questions, err := h.questions.GenerateQuestions(c.Request.Context(), *req.Product, req.Count())
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("request_id", RequestID(c)).
			Str("product", req.Product.Name).
			Msg("error generating questions")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to generate questions: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, domain.GenerateQuestionsResponse{Questions: questions})
}

// CalculateTransparencyScore handles transparency scoring requests
func (h *Handler) CalculateTransparencyScore(c *gin.Context) {
	var req domain.TransparencyScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondValidationError(c, err)
		return
	}

	result, err := h.score(*req.Product, req.Answers)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("request_id", RequestID(c)).
			Str("product", req.Product.Name).
			Msg("error calculating transparency score")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to calculate transparency score: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// score runs the scorer and turns a panic into an error
func (h *Handler) score(product domain.ProductInfo, answers domain.AnswerMap) (result domain.ScoreResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return h.scorer.CalculateScore(product, answers), nil
}

func (h *Handler) respondValidationError(c *gin.Context, err error) {
	fields := validation.FieldErrors(err)
	if len(fields) == 0 {
		fields = []validation.FieldError{{Location: "body", Message: err.Error(), Type: "value_error"}}
	}

	h.logger.Warn().
		Str("request_id", RequestID(c)).
		Str("route", routeTemplate(c)).
		Int("violations", len(fields)).
		Msg("request validation failed")

	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"status":  "error",
		"message": "Validation error",
		"errors":  fields,
	})
}
