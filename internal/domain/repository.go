package domain

import "context"

// TextGenerator samples one completion from a pretrained generative model.
// Implementations are created once per process and injected where needed.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, params SamplingParams) (string, error)
	ModelID() string
}

// QuestionGenerator produces follow-up questions about a product
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, product ProductInfo, numQuestions int) ([]string, error)
	ModelID() string
}

// TransparencyScorer rates how transparent a product's disclosures are
type TransparencyScorer interface {
	CalculateScore(product ProductInfo, answers AnswerMap) ScoreResult
	ModelName() string
}
