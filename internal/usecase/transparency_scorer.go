package usecase

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/transparencyportal/ai-service/internal/domain"
	"github.com/transparencyportal/ai-service/internal/observability"
)

const defaultScoringModel = "transparency-scorer-v1"

// TransparencyScorerConfig holds configuration for the transparency scorer
type TransparencyScorerConfig struct {
	ModelName string
	// Rules overrides DefaultScoringRules when non-nil
	Rules *ScoringRules
}

// TransparencyScorer computes a deterministic transparency score from product
// disclosures and question/answer pairs. It holds no mutable state and is safe
// for concurrent use.
type TransparencyScorer struct {
	modelName string
	rules     ScoringRules
	logger    zerolog.Logger
}

// NewTransparencyScorer creates a new scorer with the given configuration
func NewTransparencyScorer(config TransparencyScorerConfig, logger zerolog.Logger) *TransparencyScorer {
	modelName := config.ModelName
	if modelName == "" {
		modelName = defaultScoringModel
	}

	rules := DefaultScoringRules()
	if config.Rules != nil {
		rules = *config.Rules
	}

	logger.Info().Str("model", modelName).Msg("initializing transparency scorer")

	return &TransparencyScorer{
		modelName: modelName,
		rules:     rules,
		logger:    logger,
	}
}

// ModelName returns the identifier of the scoring model
func (s *TransparencyScorer) ModelName() string {
	return s.modelName
}

// CalculateScore scores a product and its answers.
// Flow: criteria scores -> weighted score -> improvement areas -> feedback
func (s *TransparencyScorer) CalculateScore(product domain.ProductInfo, answers domain.AnswerMap) domain.ScoreResult {
	s.logger.Info().Str("product", product.Name).Int("answers", len(answers)).Msg("calculating transparency score")

	criteria := s.CriteriaScores(product, answers)
	finalScore := s.WeightedScore(criteria)
	areas := s.IdentifyImprovementAreas(product, answers)
	feedback := s.GenerateFeedback(finalScore, areas)

	rounded := make(map[domain.Criterion]float64, len(criteria))
	for criterion, score := range criteria {
		rounded[criterion] = roundToTenth(score * 10)
	}

	result := domain.ScoreResult{
		Score:               roundToTenth(finalScore),
		Feedback:            feedback,
		AreasForImprovement: areas,
		CriteriaScores:      rounded,
	}
	observability.TransparencyScores().Observe(result.Score)

	s.logger.Debug().
		Str("product", product.Name).
		Float64("score", result.Score).
		Strs("areas", areas).
		Msg("transparency score calculated")

	return result
}

// EvaluateAnswerQuality rates a single answer between 0 and 1 from its length
// and the presence of specificity indicators.
func (s *TransparencyScorer) EvaluateAnswerQuality(question, answer string) float64 {
	length := utf8.RuneCountInString(answer)
	if answer == "" || length < s.rules.MinAnswerLength {
		return 0.0
	}

	lengthScore := math.Min(1.0, float64(length)/s.rules.AnswerLengthCap)

	answerLower := strings.ToLower(answer)
	specificityScore := 0.0
	for _, indicator := range s.rules.SpecificityIndicators {
		if strings.Contains(answerLower, indicator) {
			specificityScore += s.rules.SpecificityPerIndicator
		}
	}
	specificityScore = math.Min(1.0, specificityScore)

	return s.rules.LengthQualityWeight*lengthScore + s.rules.SpecificityQualityWeight*specificityScore
}

// ProductCompleteness rates between 0 and 1 how many product fields were
// disclosed and how much detail they carry.
func (s *TransparencyScorer) ProductCompleteness(product domain.ProductInfo) float64 {
	total := s.rules.totalFieldWeight()
	if total <= 0 {
		return 0.0
	}

	score := 0.0
	for _, fw := range s.rules.FieldWeights {
		text, items, isList, known := productField(product, fw.Field)
		if !known {
			continue
		}
		if isList {
			if len(items) > 0 {
				score += fw.Weight * math.Min(1.0, float64(len(items))/s.rules.ListItemsCap)
			}
			continue
		}
		if text != "" {
			score += fw.Weight * math.Min(1.0, float64(utf8.RuneCountInString(text))/s.rules.TextLengthCap)
		}
	}

	return score / total
}

// CriteriaScores computes the five criterion scores, each between 0 and 1
func (s *TransparencyScorer) CriteriaScores(product domain.ProductInfo, answers domain.AnswerMap) map[domain.Criterion]float64 {
	questions := sortedQuestions(answers)
	denominator := float64(max(1, len(questions)))

	qualitySum := 0.0
	verifiable := 0
	lengthSum := 0
	for _, q := range questions {
		answer := answers[q]
		qualitySum += s.EvaluateAnswerQuality(q, answer)
		if containsAny(strings.ToLower(answer), s.rules.VerifiableTerms) {
			verifiable++
		}
		lengthSum += utf8.RuneCountInString(answer)
	}
	meanQuality := qualitySum / denominator
	meanLength := float64(lengthSum) / denominator

	return map[domain.Criterion]float64{
		domain.CriterionCompleteness: s.rules.ProductInfoMix*s.ProductCompleteness(product) +
			s.rules.AnswerCoverMix*meanQuality,
		domain.CriterionClarity: meanQuality,
		domain.CriterionVerifiability: s.rules.CertificationShare*boolScore(product.HasCertifications()) +
			s.rules.VerifiableAnswerShare*(float64(verifiable)/denominator),
		domain.CriterionAccessibility: s.rules.DescriptionShare*boolScore(product.Description != "") +
			s.rules.AnswerLengthShare*math.Min(1.0, meanLength/s.rules.AccessibleAnswerLength),
		domain.CriterionConsistency: s.rules.ConsistencyPlaceholder,
	}
}

// WeightedScore aggregates criterion scores into the unrounded 0-10 score
func (s *TransparencyScorer) WeightedScore(criteria map[domain.Criterion]float64) float64 {
	weighted := 0.0
	for _, criterion := range domain.Criteria {
		weighted += criteria[criterion] * s.rules.CriterionWeights[criterion]
	}
	return math.Max(0, math.Min(10, weighted*10))
}

// IdentifyImprovementAreas returns at most MaxImprovementAreas suggestions in
// the fixed check order.
func (s *TransparencyScorer) IdentifyImprovementAreas(product domain.ProductInfo, answers domain.AnswerMap) []string {
	var keys []string

	if product.Ingredients == "" {
		keys = append(keys, AreaIngredientDisclosure)
	}
	if product.ManufacturingProcess == "" {
		keys = append(keys, AreaManufacturingDetails)
	}
	if product.CountryOfOrigin == "" {
		keys = append(keys, AreaSourcingTransparency)
	}
	if !product.HasCertifications() {
		keys = append(keys, AreaCertificationVerify)
	}

	questions := sortedQuestions(answers)
	for _, topic := range s.rules.TopicChecks {
		if s.topicNeedsWork(topic, questions, answers) {
			keys = append(keys, topic.Area)
		}
	}

	if len(keys) == 0 {
		keys = s.rules.GenericImprovementAreas
	}

	areas := make([]string, 0, len(keys))
	for _, key := range keys {
		if text, ok := s.rules.ImprovementAreas[key]; ok {
			areas = append(areas, text)
		}
	}

	if s.rules.MaxImprovementAreas > 0 && len(areas) > s.rules.MaxImprovementAreas {
		areas = areas[:s.rules.MaxImprovementAreas]
	}
	return areas
}

// topicNeedsWork reports whether no question covers the topic or every
// covering question was answered below the quality threshold.
func (s *TransparencyScorer) topicNeedsWork(topic TopicCheck, questions []string, answers domain.AnswerMap) bool {
	for _, q := range questions {
		if !containsAny(strings.ToLower(q), topic.Terms) {
			continue
		}
		if s.EvaluateAnswerQuality(q, answers[q]) >= s.rules.TopicQualityThreshold {
			return false
		}
	}
	return true
}

// GenerateFeedback builds the narrative feedback for a score and its improvement areas
func (s *TransparencyScorer) GenerateFeedback(score float64, areas []string) string {
	var b strings.Builder

	b.WriteString(s.openingFor(score))
	b.WriteString(" ")

	if len(areas) > 0 {
		b.WriteString(s.rules.FeedbackPrefix)
		b.WriteString(joinAreas(areas))
		b.WriteString(" ")
	}

	b.WriteString(s.rules.FeedbackClosing)
	return b.String()
}

// openingFor selects the opening sentence for a score
func (s *TransparencyScorer) openingFor(score float64) string {
	for _, band := range s.rules.FeedbackBands {
		if score >= band.MinScore {
			return band.Opening
		}
	}
	return s.rules.FeedbackLowest
}

// joinAreas renders "X." for one item and "X, Y, and Z." for more
func joinAreas(areas []string) string {
	switch len(areas) {
	case 0:
		return ""
	case 1:
		return areas[0] + "."
	default:
		return strings.Join(areas[:len(areas)-1], ", ") + ", and " + areas[len(areas)-1] + "."
	}
}

// productField resolves a completeness field name to its value
func productField(p domain.ProductInfo, field string) (text string, items []string, isList bool, known bool) {
	switch field {
	case "name":
		return p.Name, nil, false, true
	case "description":
		return p.Description, nil, false, true
	case "category":
		return p.Category, nil, false, true
	case "ingredients":
		return p.Ingredients, nil, false, true
	case "manufacturing_process":
		return p.ManufacturingProcess, nil, false, true
	case "country_of_origin":
		return p.CountryOfOrigin, nil, false, true
	case "certifications":
		return "", p.Certifications, true, true
	}
	return "", nil, false, false
}

// sortedQuestions returns answer keys in a stable order so floating point
// sums do not depend on map iteration.
func sortedQuestions(answers domain.AnswerMap) []string {
	questions := make([]string, 0, len(answers))
	for q := range answers {
		questions = append(questions, q)
	}
	sort.Strings(questions)
	return questions
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func boolScore(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}

func roundToTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
