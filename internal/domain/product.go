package domain

// ProductInfo is the product record submitted by the portal.
// Empty strings and empty slices mean the field was not disclosed.
type ProductInfo struct {
	Name                 string   `json:"name" binding:"required"`
	Description          string   `json:"description,omitempty"`
	Category             string   `json:"category,omitempty"`
	Ingredients          string   `json:"ingredients,omitempty"`
	ManufacturingProcess string   `json:"manufacturing_process,omitempty"`
	CountryOfOrigin      string   `json:"country_of_origin,omitempty"`
	Certifications       []string `json:"certifications,omitempty"`
}

// HasCertifications reports whether at least one certification was disclosed
func (p ProductInfo) HasCertifications() bool {
	return len(p.Certifications) > 0
}

// AnswerMap maps question text to the answer provided for it
type AnswerMap map[string]string
