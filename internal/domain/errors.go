package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrGenerationFailed is returned when question generation cannot complete
	ErrGenerationFailed = errors.New("question generation failed")

	// ErrInferenceFailure is returned when the inference backend request fails
	ErrInferenceFailure = errors.New("inference request failed")

	// ErrModelUnavailable is returned when the configured model does not exist or cannot be loaded
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrEmptyCompletion is returned when the backend answers without any generated text
	ErrEmptyCompletion = errors.New("model returned no completion")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
