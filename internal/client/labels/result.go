// Package labels interprets analysis results from the label-scanning service:
// which ingredients justify a product label, and which labels are warnings.
package labels

// Ingredient is one analyzed ingredient. HealthImpact is empty when the
// service sent none.
type Ingredient struct {
	Name            string `json:"name"`
	Type            string `json:"type"`
	SafetyLevel     string `json:"safety_level"`
	ProcessingLevel string `json:"processing_level"`
	HealthImpact    string `json:"health_impact,omitempty"`
}

// Alternative is a healthier product suggested for the scanned one.
type Alternative struct {
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	Category string `json:"category"`
	BuyLink  string `json:"buy_link"`
}

// AnalysisResult is the payload returned by the analysis service for one
// photo. It is treated as immutable once received.
type AnalysisResult struct {
	ProductLabels         []string      `json:"product_labels"`
	IngredientsAnalyzed   []Ingredient  `json:"ingredients_analyzed"`
	SuggestedAlternatives []Alternative `json:"suggested_alternatives"`
}
