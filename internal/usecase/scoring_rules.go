package usecase

import "github.com/transparencyportal/ai-service/internal/domain"

// Improvement area catalog keys
const (
	AreaIngredientDisclosure     = "ingredient_disclosure"
	AreaSourcingTransparency     = "sourcing_transparency"
	AreaManufacturingDetails     = "manufacturing_details"
	AreaCertificationVerify      = "certification_verification"
	AreaEnvironmentalImpact      = "environmental_impact"
	AreaEthicalPractices         = "ethical_practices"
	AreaTestingMethods           = "testing_methods"
	AreaAccessibilityImprovement = "accessibility_improvement"
	AreaClaimSubstantiation      = "claim_substantiation"
	AreaSupplyChainTransparency  = "supply_chain_transparency"
)

// FieldWeight is the completeness weight of one product field
type FieldWeight struct {
	Field  string
	Weight float64
}

// TopicCheck flags an improvement area when no question about a topic
// was answered well enough.
type TopicCheck struct {
	Area  string
	Terms []string
}

// FeedbackBand selects an opening sentence for scores at or above MinScore
type FeedbackBand struct {
	MinScore float64
	Opening  string
}

// ScoringRules holds every threshold, weight and keyword list used by the scorer
type ScoringRules struct {
	CriterionWeights map[domain.Criterion]float64

	// Answer quality
	MinAnswerLength          int
	AnswerLengthCap          float64
	SpecificityIndicators    []string
	SpecificityPerIndicator  float64
	LengthQualityWeight      float64
	SpecificityQualityWeight float64

	// Product completeness
	FieldWeights    []FieldWeight
	TextLengthCap   float64
	ListItemsCap    float64
	ProductInfoMix  float64 // share of product completeness in the completeness criterion
	AnswerCoverMix  float64 // share of answer quality in the completeness criterion

	// Verifiability, accessibility and consistency
	VerifiableTerms        []string
	CertificationShare     float64
	VerifiableAnswerShare  float64
	DescriptionShare       float64
	AnswerLengthShare      float64
	AccessibleAnswerLength float64
	ConsistencyPlaceholder float64

	// Improvement areas
	TopicQualityThreshold   float64
	MaxImprovementAreas     int
	ImprovementAreas        map[string]string
	TopicChecks             []TopicCheck
	GenericImprovementAreas []string

	// Feedback
	FeedbackBands   []FeedbackBand
	FeedbackLowest  string
	FeedbackPrefix  string
	FeedbackClosing string
}

// DefaultScoringRules returns the production rule table
func DefaultScoringRules() ScoringRules {
	return ScoringRules{
		CriterionWeights: map[domain.Criterion]float64{
			domain.CriterionCompleteness:  0.3,
			domain.CriterionClarity:       0.2,
			domain.CriterionVerifiability: 0.2,
			domain.CriterionAccessibility: 0.15,
			domain.CriterionConsistency:   0.15,
		},

		MinAnswerLength: 5,
		AnswerLengthCap: 200,
		SpecificityIndicators: []string{
			"%", "mg", "kg", "certified", "tested", "verified",
			"sourced from", "manufactured in", "approved by",
		},
		SpecificityPerIndicator:  0.1,
		LengthQualityWeight:      0.7,
		SpecificityQualityWeight: 0.3,

		FieldWeights: []FieldWeight{
			{Field: "name", Weight: 1.0},
			{Field: "description", Weight: 0.8},
			{Field: "category", Weight: 0.6},
			{Field: "ingredients", Weight: 0.9},
			{Field: "manufacturing_process", Weight: 0.7},
			{Field: "country_of_origin", Weight: 0.5},
			{Field: "certifications", Weight: 0.6},
		},
		TextLengthCap:  100,
		ListItemsCap:   5,
		ProductInfoMix: 0.4,
		AnswerCoverMix: 0.6,

		VerifiableTerms: []string{
			"certified", "tested", "verified", "approved", "registered", "compliant",
		},
		CertificationShare:     0.5,
		VerifiableAnswerShare:  0.5,
		DescriptionShare:       0.3,
		AnswerLengthShare:      0.7,
		AccessibleAnswerLength: 150,
		ConsistencyPlaceholder: 0.8,
		TopicQualityThreshold:  0.5,
		MaxImprovementAreas:    5,

		ImprovementAreas: map[string]string{
			AreaIngredientDisclosure:     "Provide more detailed information about ingredients",
			AreaSourcingTransparency:     "Disclose more information about sourcing practices",
			AreaManufacturingDetails:     "Share more details about the manufacturing process",
			AreaCertificationVerify:      "Obtain or better highlight third-party certifications",
			AreaEnvironmentalImpact:      "Provide more information about environmental impact",
			AreaEthicalPractices:         "Disclose more about ethical business practices",
			AreaTestingMethods:           "Share more details about testing methods and results",
			AreaAccessibilityImprovement: "Make information more accessible to consumers",
			AreaClaimSubstantiation:      "Provide better substantiation for product claims",
			AreaSupplyChainTransparency:  "Increase transparency about the supply chain",
		},
		TopicChecks: []TopicCheck{
			{Area: AreaEnvironmentalImpact, Terms: []string{"environment", "sustainable", "eco", "green"}},
			{Area: AreaEthicalPractices, Terms: []string{"ethic", "fair", "labor", "worker", "animal"}},
			{Area: AreaTestingMethods, Terms: []string{"test", "verify", "measure", "quality"}},
		},
		GenericImprovementAreas: []string{AreaClaimSubstantiation, AreaSupplyChainTransparency},

		FeedbackBands: []FeedbackBand{
			{MinScore: 8.5, Opening: "Excellent transparency! Your product provides comprehensive information that helps consumers make informed decisions."},
			{MinScore: 7.0, Opening: "Good transparency. Your product provides substantial information, but there are still areas that could be improved."},
			{MinScore: 5.0, Opening: "Moderate transparency. While you provide some important information, consumers would benefit from more details in several areas."},
			{MinScore: 3.0, Opening: "Limited transparency. Your product information lacks detail in many important areas that consumers care about."},
		},
		FeedbackLowest:  "Poor transparency. Your product provides very little information that would help consumers make informed decisions.",
		FeedbackPrefix:  "Consider focusing on the following areas for improvement: ",
		FeedbackClosing: "Increasing transparency can build consumer trust and differentiate your product in the marketplace.",
	}
}

// totalFieldWeight sums the configured completeness weights
func (r ScoringRules) totalFieldWeight() float64 {
	total := 0.0
	for _, fw := range r.FieldWeights {
		total += fw.Weight
	}
	return total
}
