// Package grading implements the response-normalization pipeline: free-text
// parsing, numeric grade validation, page-quality cap enforcement,
// restoration classification, and final report assembly.
package grading

import (
	"fmt"
	"math"

	"github.com/gtr-comics/comic-grader/internal/model"
)

// UnknownPageQuality is the fallback designation when the page quality
// could not be determined. It carries no cap.
const UnknownPageQuality = "Unknown"

// pageQualityCaps maps CGC page-quality designations to the maximum grade
// a book with that paper condition can receive. Keys are verbatim.
var pageQualityCaps = map[string]float64{
	"White Pages":            10.0,
	"Off-White to White":     9.9,
	"Light Tan to Off-White": 8.5,
	"Tan to Off-White":       7.5,
	"Slightly Brittle":       6.5,
	"Brittle":                3.5,
	UnknownPageQuality:       10.0,
}

// PageQualityCap returns the maximum grade permitted for a page quality
// designation. Unrecognized designations fall back to the Unknown cap, so
// every lookup resolves.
func PageQualityCap(pageQuality string) float64 {
	if max, ok := pageQualityCaps[pageQuality]; ok {
		return max
	}
	return pageQualityCaps[UnknownPageQuality]
}

// AllPageQualityCaps returns a copy of the cap table.
func AllPageQualityCaps() map[string]float64 {
	out := make(map[string]float64, len(pageQualityCaps))
	for k, v := range pageQualityCaps {
		out[k] = v
	}
	return out
}

// ApplyCap clamps a suggested grade to the page quality's cap. A grade
// already at or below the cap is returned unchanged.
func ApplyCap(suggestedGrade float64, pageQuality string) float64 {
	return math.Min(suggestedGrade, PageQualityCap(pageQuality))
}

// ValidateGradeForPageQuality checks a grade against its page quality cap.
// Difference is zero for valid grades, otherwise grade minus cap.
func ValidateGradeForPageQuality(grade float64, pageQuality string) model.CapValidation {
	max := PageQualityCap(pageQuality)
	valid := grade <= max

	v := model.CapValidation{
		IsValid: valid,
		Cap:     max,
	}
	if valid {
		v.Message = fmt.Sprintf("Grade %s is valid for %q pages (cap: %s)",
			formatGrade(grade), pageQuality, formatGrade(max))
	} else {
		v.Difference = grade - max
		v.Message = fmt.Sprintf("Grade %s exceeds the cap for %q pages (cap: %s). Reduced by %s points.",
			formatGrade(grade), pageQuality, formatGrade(max), formatGrade(grade-max))
	}
	return v
}

// formatGrade renders a grade without trailing zero noise: 3.5 not 3.50,
// 10 not 10.0.
func formatGrade(g float64) string {
	if g == math.Trunc(g) {
		return fmt.Sprintf("%.0f", g)
	}
	return fmt.Sprintf("%.1f", g)
}
