package grading

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/gtr-comics/comic-grader/internal/model"
)

// gradeLabels holds the 21 canonical CGC grade tiers, keyed by grade in
// tenths (10.0 → 100) to avoid float map keys.
var gradeLabels = map[int]string{
	100: "Gem Mint (GM)",
	98:  "Near Mint/Mint (NM/M)",
	96:  "Near Mint Plus (NM+)",
	94:  "Near Mint (NM)",
	92:  "Near Mint Minus (NM-)",
	90:  "Very Fine/Near Mint (VF/NM)",
	85:  "Very Fine Plus (VF+)",
	80:  "Very Fine (VF)",
	75:  "Very Fine Minus (VF-)",
	70:  "Fine/Very Fine (FN/VF)",
	65:  "Fine Plus (FN+)",
	60:  "Fine (FN)",
	55:  "Fine Minus (FN-)",
	50:  "Very Good/Fine (VG/FN)",
	45:  "Very Good Plus (VG+)",
	40:  "Very Good (VG)",
	35:  "Very Good Minus (VG-)",
	30:  "Good/Very Good (GD/VG)",
	25:  "Good Plus (GD+)",
	20:  "Good (GD)",
	15:  "Fair/Good (FR/GD)",
	10:  "Fair (FR)",
	5:   "Poor (PR)",
}

// GradeLabel returns the canonical CGC label for a grade, rounding to the
// nearest 0.1 first. Grades between canonical tiers get a synthesized
// "Grade N" label.
func GradeLabel(grade float64) string {
	tenths := int(math.Round(grade * 10))
	if label, ok := gradeLabels[tenths]; ok {
		return label
	}
	return fmt.Sprintf("Grade %s", formatGrade(grade))
}

// ValidateAndCapGrade clamps a suggested grade to its page quality cap.
// The final grade is min(suggested, cap): a grade already under the cap is
// never raised, and WasCapped is true only when the clamp lowered it.
func ValidateAndCapGrade(suggestedGrade float64, pageQuality string) model.CapResult {
	validation := ValidateGradeForPageQuality(suggestedGrade, pageQuality)
	final := math.Min(suggestedGrade, validation.Cap)

	return model.CapResult{
		FinalGrade:    final,
		Label:         GradeLabel(final),
		WasCapped:     !validation.IsValid,
		Cap:           validation.Cap,
		OriginalGrade: suggestedGrade,
		Validation:    validation,
	}
}

// ValidateGradingResponse checks a parsed response for completeness and
// enforces the page quality cap. Malformed content degrades to warnings;
// the only hard error is a missing numeric grade.
func ValidateGradingResponse(parsed model.ParsedResponse) model.ValidationResult {
	result := model.ValidationResult{
		IsValid:  true,
		Errors:   []string{},
		Warnings: []string{},
		Parsed:   parsed,
	}

	if parsed.Grade == nil {
		result.IsValid = false
		result.Errors = append(result.Errors, "No numerical grade found in response")
	}

	if parsed.PageQuality == "" {
		result.Warnings = append(result.Warnings, "Page quality not clearly specified")
	}

	if parsed.Grade != nil && parsed.PageQuality != "" {
		capped := ValidateAndCapGrade(*parsed.Grade, parsed.PageQuality)
		if capped.WasCapped {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"Grade was capped from %s to %s based on page quality %q",
				formatGrade(capped.OriginalGrade), formatGrade(capped.FinalGrade), parsed.PageQuality,
			))
			result.GradeCorrection = &capped
			zap.L().Warn("grade capped by page quality",
				zap.Float64("suggested", capped.OriginalGrade),
				zap.Float64("final", capped.FinalGrade),
				zap.String("page_quality", parsed.PageQuality),
			)
		}
	}

	if parsed.Restoration != "" {
		analysis := ParseRestoration(parsed.Restoration)
		result.Restoration = &analysis
	}

	if parsed.Defects == "" {
		result.Warnings = append(result.Warnings, "Defects section is empty or unclear")
	}

	if parsed.Repair == "" && parsed.Prevention == "" {
		result.Warnings = append(result.Warnings, "Restoration or prevention suggestions are missing")
	}

	return result
}
