package grading

import (
	"strings"

	"github.com/gtr-comics/comic-grader/internal/model"
)

// conservationTerms identify reversible archival work. Any hit classifies
// the text as Conservation rather than Restoration.
var conservationTerms = []string{
	"tear seals",
	"de-acidification",
	"paper reinforcement",
	"wheat glue application",
	"rice paper backing",
	"conservation",
	"rice paper",
	"wheat glue",
}

// keywordRule maps a set of substrings to a classification result. Rules
// are evaluated top to bottom; the first rule with any matching term wins.
type keywordRule[T any] struct {
	terms  []string
	result T
}

var qualityRules = []keywordRule[model.RestorationQuality]{
	{terms: []string{"quality a", "professional", "highest"}, result: model.QualityA},
	{terms: []string{"quality b", "good"}, result: model.QualityB},
	{terms: []string{"quality c", "fair", "noticeable"}, result: model.QualityC},
}

// quantityRules order is load-bearing: "minimal" and "small amount" must be
// checked before the bare "small " (trailing space intentional), and
// "extensive" before "very extensive" would shadow it, so quantity 5 is
// only reachable through its explicit "quantity 5" term.
var quantityRules = []keywordRule[int]{
	{terms: []string{"minimal", "small amount", "quantity 1"}, result: 1},
	{terms: []string{"quantity 2", "small "}, result: 2},
	{terms: []string{"quantity 3", "moderate"}, result: 3},
	{terms: []string{"quantity 4", "extensive"}, result: 4},
	{terms: []string{"quantity 5", "very extensive"}, result: 5},
}

func matchRule[T any](text string, rules []keywordRule[T]) (T, bool) {
	for _, r := range rules {
		for _, term := range r.terms {
			if strings.Contains(text, term) {
				return r.result, true
			}
		}
	}
	var zero T
	return zero, false
}

// ParseRestoration classifies free text describing restoration work into
// type, quality, quantity and a human-readable grade impact. The scan is
// case-insensitive and first-match-wins within each category.
func ParseRestoration(text string) model.RestorationAnalysis {
	lower := strings.ToLower(text)

	if text == "" || strings.Contains(lower, "none") {
		return model.RestorationAnalysis{
			Type:        model.RestorationNone,
			Description: text,
			Impact:      "No impact",
		}
	}

	typ := model.Restoration
	quality := model.QualityUnknown

	for _, term := range conservationTerms {
		if strings.Contains(lower, term) {
			typ = model.Conservation
			// Conservation is top-quality by definition; the quality scan
			// below may still override on explicit quality keywords.
			quality = model.QualityA
			break
		}
	}

	if q, ok := matchRule(lower, qualityRules); ok {
		quality = q
	}

	quantity := model.QuantityUnknown
	if n, ok := matchRule(lower, quantityRules); ok {
		quantity = n
	}

	return model.RestorationAnalysis{
		Type:        typ,
		Quality:     quality,
		Quantity:    quantity,
		Description: text,
		Impact:      RestorationImpact(typ, quality, quantity),
	}
}

// RestorationImpact describes the grade impact of classified work.
func RestorationImpact(typ model.RestorationType, quality model.RestorationQuality, quantity int) string {
	switch typ {
	case model.RestorationNone:
		return "No impact"
	case model.Conservation:
		return "Minimal to no grade impact (professional archival work)"
	}

	switch quality {
	case model.QualityA:
		switch {
		case quantity <= 2:
			return "Minimal grade impact (high-quality, limited work)"
		case quantity <= 3:
			return "Small grade impact (high-quality work, moderate extent)"
		default:
			return "Moderate grade impact (high-quality work, extensive)"
		}
	case model.QualityB:
		switch {
		case quantity <= 2:
			return "Moderate grade impact (good quality, limited work)"
		case quantity <= 3:
			return "Significant grade impact (good quality, moderate extent)"
		default:
			return "Major grade impact (good quality, extensive)"
		}
	case model.QualityC:
		switch {
		case quantity <= 2:
			return "Significant grade impact (fair quality, limited work)"
		case quantity <= 3:
			return "Major grade impact (fair quality, moderate extent)"
		default:
			return "Severe grade impact (fair quality, extensive)"
		}
	}

	return "Unknown impact"
}

// reductionMatrix holds estimated grade reduction in points, keyed by
// restoration quality then quantity (1-5).
var reductionMatrix = map[model.RestorationQuality][5]float64{
	model.QualityA: {0.5, 1, 1.5, 2, 2.5},
	model.QualityB: {1, 1.5, 2, 2.5, 3},
	model.QualityC: {1.5, 2, 2.5, 3, 3},
}

// EstimateGradeReduction estimates the grade penalty for restoration work.
// Conservation and absent restoration cost nothing; unknown combinations
// return zero.
func EstimateGradeReduction(typ model.RestorationType, quality model.RestorationQuality, quantity int) float64 {
	if typ == model.RestorationNone || typ == model.Conservation {
		return 0
	}
	row, ok := reductionMatrix[quality]
	if !ok || quantity < 1 || quantity > 5 {
		return 0
	}
	return row[quantity-1]
}
