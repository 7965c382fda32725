package labels

import "strings"

// Substrings and exact labels the analysis service uses. Classify and
// IsWarning share them so the two never disagree.
const (
	markerArtificial  = "Artificial"
	markerSynthetic   = "Synthetic"
	markerUnhealthy   = "Unhealthy"
	markerPotentially = "Potentially"

	labelProcessed   = "Processed"
	labelUnprocessed = "Unprocessed"
)

// Field values matched by the categories.
const (
	TypeArtificial        = "Artificial"
	TypeSynthetic         = "Synthetic"
	SafetyAboveLimit      = "Above Safe Limit"
	ProcessingProcessed   = "Processed"
	ProcessingUnprocessed = "Unprocessed"
	NoKnownAdverseEffect  = "No known adverse effect"
)

// Category is the matching rule a label resolves to.
type Category int

const (
	CategoryNone Category = iota
	CategoryArtificial
	CategorySynthetic
	CategoryUnhealthy
	CategoryProcessed
	CategoryUnprocessed
	CategoryPotentiallyHarmful
)

func (c Category) String() string {
	switch c {
	case CategoryArtificial:
		return "artificial"
	case CategorySynthetic:
		return "synthetic"
	case CategoryUnhealthy:
		return "unhealthy"
	case CategoryProcessed:
		return "processed"
	case CategoryUnprocessed:
		return "unprocessed"
	case CategoryPotentiallyHarmful:
		return "potentially_harmful"
	default:
		return "none"
	}
}

// Classify resolves label to its category. Rules are checked in order and
// the first hit wins, so "Artificial Unhealthy Additives" is artificial.
func Classify(label string) Category {
	switch {
	case strings.Contains(label, markerArtificial):
		return CategoryArtificial
	case strings.Contains(label, markerSynthetic):
		return CategorySynthetic
	case strings.Contains(label, markerUnhealthy):
		return CategoryUnhealthy
	case label == labelProcessed:
		return CategoryProcessed
	case label == labelUnprocessed:
		return CategoryUnprocessed
	case strings.Contains(label, markerPotentially):
		return CategoryPotentiallyHarmful
	default:
		return CategoryNone
	}
}

// IsWarning reports whether label should be shown with warning emphasis.
func IsWarning(label string) bool {
	for _, m := range []string{markerUnhealthy, markerArtificial, markerSynthetic, markerPotentially} {
		if strings.Contains(label, m) {
			return true
		}
	}
	return false
}

// Matches reports whether ing justifies a label of category c.
func (c Category) Matches(ing Ingredient) bool {
	switch c {
	case CategoryArtificial:
		return ing.Type == TypeArtificial
	case CategorySynthetic:
		return ing.Type == TypeSynthetic
	case CategoryUnhealthy:
		return ing.SafetyLevel == SafetyAboveLimit
	case CategoryProcessed:
		return ing.ProcessingLevel == ProcessingProcessed
	case CategoryUnprocessed:
		return ing.ProcessingLevel == ProcessingUnprocessed
	case CategoryPotentiallyHarmful:
		return ing.HealthImpact != "" && ing.HealthImpact != NoKnownAdverseEffect
	default:
		return false
	}
}

// DeriveIngredients returns the ingredients in result that justify label,
// in ingredient order. The result is never nil.
func DeriveIngredients(result *AnalysisResult, label string) []Ingredient {
	out := make([]Ingredient, 0)
	if result == nil {
		return out
	}
	c := Classify(label)
	if c == CategoryNone {
		return out
	}
	for _, ing := range result.IngredientsAnalyzed {
		if c.Matches(ing) {
			out = append(out, ing)
		}
	}
	return out
}

// DeriveMatches returns the names of the ingredients in result that justify
// label, in ingredient order. The result is never nil.
func DeriveMatches(result *AnalysisResult, label string) []string {
	return names(DeriveIngredients(result, label))
}

func names(ings []Ingredient) []string {
	out := make([]string, 0, len(ings))
	for _, ing := range ings {
		out = append(out, ing.Name)
	}
	return out
}
