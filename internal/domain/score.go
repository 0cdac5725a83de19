package domain

// Criterion names one of the weighted transparency criteria
type Criterion string

const (
	CriterionCompleteness  Criterion = "completeness"
	CriterionClarity       Criterion = "clarity"
	CriterionVerifiability Criterion = "verifiability"
	CriterionAccessibility Criterion = "accessibility"
	CriterionConsistency   Criterion = "consistency"
)

// Criteria lists the criteria in aggregation order
var Criteria = []Criterion{
	CriterionCompleteness,
	CriterionClarity,
	CriterionVerifiability,
	CriterionAccessibility,
	CriterionConsistency,
}

// TransparencyScoreRequest represents a transparency scoring request
type TransparencyScoreRequest struct {
	Product *ProductInfo `json:"product" binding:"required"`
	Answers AnswerMap    `json:"answers" binding:"required"`
}

// ScoreResult is the outcome of scoring one product
type ScoreResult struct {
	Score               float64               `json:"score"`
	Feedback            string                `json:"feedback"`
	AreasForImprovement []string              `json:"areas_for_improvement"`
	CriteriaScores      map[Criterion]float64 `json:"criteria_scores"`
}
