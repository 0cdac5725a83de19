package domain

// DefaultNumQuestions is used when a request omits num_questions
const DefaultNumQuestions = 5

// GenerateQuestionsRequest represents a question generation request
type GenerateQuestionsRequest struct {
	Product      *ProductInfo `json:"product" binding:"required"`
	NumQuestions *int         `json:"num_questions,omitempty" binding:"omitempty,min=1,max=20"`
}

// Count returns the requested number of questions, applying the default
func (r *GenerateQuestionsRequest) Count() int {
	if r.NumQuestions == nil {
		return DefaultNumQuestions
	}
	return *r.NumQuestions
}

// GenerateQuestionsResponse is returned by the question endpoint
type GenerateQuestionsResponse struct {
	Questions []string `json:"questions"`
}

// SamplingParams controls stochastic decoding for a single completion
type SamplingParams struct {
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float32 `json:"temperature"`
	TopK         int     `json:"top_k"`
	TopP         float32 `json:"top_p"`
}

// DefaultSamplingParams mirrors the decoding settings the service was tuned with
func DefaultSamplingParams() SamplingParams {
	return SamplingParams{
		MaxNewTokens: 64,
		Temperature:  0.85,
		TopK:         50,
		TopP:         0.95,
	}
}
